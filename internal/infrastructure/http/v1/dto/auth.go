package dto

import (
	"time"

	"stocktrack/internal/domain/auth"
)

// LoginRequest carries credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// FromToken maps a domain token to the response shape.
func FromToken(t *auth.Token) LoginResponse {
	return LoginResponse{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresAt:   t.ExpiresAt,
		User:        FromUser(t.User),
	}
}
