package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"` // Never expose password hash in JSON
	IsPremium           bool       `json:"isPremium"`
	ResetPasswordToken  *string    `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"date"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// HasPendingReset reports whether a reset token is outstanding at time now.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetPasswordToken != nil && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now)
}
