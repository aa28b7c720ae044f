// Package users provides the account catalog and its management rules.
// Accounts live in the users database, separate from the stock database.
package users

import (
	"context"
	"time"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/core/id"
)

// Roles known to the system.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a system account.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NewUser creates a new active account.
func NewUser(username, passwordHash, role string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks account invariants.
func (u *User) Validate(ctx context.Context) error {
	if u.Username == "" {
		return apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if !isValidRole(u.Role) {
		return apperror.NewValidation("invalid role").
			WithDetail("field", "role").
			WithDetail("value", u.Role)
	}
	return nil
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin checks if the account may authenticate.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is blocked")
	}
	return nil
}

func isValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}
