package user

import (
	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/core/common/validation"
)

const (
	MinPasswordLength = 6
	MaxEmailLength    = 255
)

type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate normalizes the email and checks the payload. Self sign-up is limited to
// buyer and manager accounts; an empty role registers a buyer.
func (d *RegisterDTO) Validate() error {
	d.Email = validation.NormalizeEmail(d.Email)
	if d.Role == "" {
		d.Role = string(access.RoleBuyer)
	}

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("email", d.Email).Required().MaxLength(MaxEmailLength).Email()
	v.Field("password", d.Password).Required().MinLength(MinPasswordLength).MaxLength(72)
	v.Field("role", d.Role).OneOf(internal.ErrCodeInvalidRole, string(access.RoleBuyer), string(access.RoleManager))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateAccountDTO struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (d UpdateAccountDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("role", d.Role).Required().
		OneOf(internal.ErrCodeInvalidRole, string(access.RoleBuyer), string(access.RoleManager), string(access.RoleAdmin))
	v.Field("status", d.Status).Required().
		OneOf(internal.ErrCodeInvalidStatus, string(access.StatusActive), string(access.StatusSuspended))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SuspendDTO struct {
	Reason   string `json:"reason"`
	Feedback string `json:"feedback"`
}

func (d SuspendDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("reason", d.Reason).Required().MaxLength(500)
	v.Field("feedback", d.Feedback).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
