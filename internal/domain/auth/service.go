package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/domain/users"
	"stocktrack/pkg/logger"
)

// Credentials for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	TokenType   string      `json:"tokenType"`
	User        *users.User `json:"user"`
}

// Service provides authentication logic against the account catalog.
type Service struct {
	userRepo   users.Repository
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(userRepo users.Repository, jwtService *JWTService) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and issues an access token.
// Blocked accounts are rejected even with a valid password.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, error) {
	user, err := s.userRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "login_id", user.ID, "role", user.Role)

	return &Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
		User:        user,
	}, nil
}
