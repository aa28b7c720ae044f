package users

import (
	"context"

	"stocktrack/internal/core/id"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	// Create inserts a new account.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByUsername retrieves an account by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// List returns all accounts ordered by username.
	List(ctx context.Context) ([]User, error)

	// Update persists username, role, active flag and password hash.
	Update(ctx context.Context, user *User) error

	// Delete removes an account permanently.
	Delete(ctx context.Context, userID id.ID) error

	// Count returns the total number of accounts.
	Count(ctx context.Context) (int, error)
}
