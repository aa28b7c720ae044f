package dto

import (
	"time"

	"stocktrack/internal/domain/users"
)

// CreateUserRequest carries fields for account creation.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=user admin"`
}

// UpdateUserRequest carries fields for account edits.
// Empty password keeps the current one.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required,oneof=user admin"`
}

// SetActiveRequest toggles the blocked state of an account.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UserResponse is the public account shape. The password hash never
// leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUser maps a domain account to the response shape.
func FromUser(u *users.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromUsers maps a slice of accounts.
func FromUsers(list []users.User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, FromUser(&list[i]))
	}
	return out
}
