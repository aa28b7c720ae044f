// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"stocktrack/internal/core/id"
)

// Role values carried in the user context.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserContext contains the authenticated actor for the current request.
// Every service call receives it through context.Context; there is no
// ambient/global session state.
type UserContext struct {
	UserID   id.ID
	Username string
	Role     string
}

// IsAdmin reports whether the actor has the admin role.
func (u *UserContext) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context, or nil for unauthenticated requests.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns the actor ID from context or the nil ID.
func GetUserID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return id.Nil()
}

// IsAdmin reports whether the current actor is an admin.
func IsAdmin(ctx context.Context) bool {
	u := GetUser(ctx)
	return u != nil && u.IsAdmin()
}
