package user

import "time"

type User struct {
	ID              string     `gorm:"primaryKey;type:uuid"`
	Email           string     `gorm:"column:email;uniqueIndex;not null"`
	Name            string     `gorm:"column:name;not null"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	Role            string     `gorm:"column:role;not null"`
	Status          string     `gorm:"column:status;not null;default:active"`
	SuspendReason   *string    `gorm:"column:suspend_reason"`
	SuspendFeedback *string    `gorm:"column:suspend_feedback"`
	SuspendedAt     *time.Time `gorm:"column:suspended_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
