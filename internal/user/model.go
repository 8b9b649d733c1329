package user

import (
	"time"

	"github.com/icaliwag/pasokit/internal/model"
)

// User is a row in the users table. VerificationToken and TokenExpiry are
// always set or cleared together; at most one live token per user.
type User struct {
	model.Model

	Username          string
	Email             string
	PasswordHash      string
	IsActive          bool
	IsAdmin           bool
	VerificationToken *string
	TokenExpiry       *time.Time
}

// PublicUser carries the fields safe to return to clients. PasswordHash and
// VerificationToken never leave the service.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}
