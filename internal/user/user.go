package user

import (
	"time"

	"github.com/frahmantamala/garments-tracker/internal/core/access"
	userDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/user"
)

type User struct {
	ID              string        `json:"id"`
	Email           string        `json:"email"`
	Name            string        `json:"name"`
	PasswordHash    string        `json:"-"`
	Role            access.Role   `json:"role"`
	Status          access.Status `json:"status"`
	SuspendReason   string        `json:"suspend_reason,omitempty"`
	SuspendFeedback string        `json:"suspend_feedback,omitempty"`
	SuspendedAt     *time.Time    `json:"suspended_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (u *User) IsSuspended() bool {
	return u.Status == access.StatusSuspended
}

// Profile is the public view returned on login and /users/me.
type Profile struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  access.Role `json:"role"`
}

func (u *User) ToProfile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func ToDataModel(u *User) *userDatamodel.User {
	m := &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Status:       string(u.Status),
		SuspendedAt:  u.SuspendedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.SuspendReason != "" {
		m.SuspendReason = &u.SuspendReason
	}
	if u.SuspendFeedback != "" {
		m.SuspendFeedback = &u.SuspendFeedback
	}
	return m
}

func FromDataModel(m *userDatamodel.User) *User {
	u := &User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         access.Role(m.Role),
		Status:       access.Status(m.Status),
		SuspendedAt:  m.SuspendedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.SuspendReason != nil {
		u.SuspendReason = *m.SuspendReason
	}
	if m.SuspendFeedback != nil {
		u.SuspendFeedback = *m.SuspendFeedback
	}
	return u
}
