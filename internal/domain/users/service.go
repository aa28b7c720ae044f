package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"stocktrack/internal/core/apperror"
	appctx "stocktrack/internal/core/context"
	"stocktrack/internal/core/id"
	"stocktrack/internal/core/tx"
	"stocktrack/pkg/logger"
)

// ServiceConfig holds account service configuration.
type ServiceConfig struct {
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength: 6,
	}
}

// Service provides account management. All mutating operations are
// admin-only; the acting admin comes from the request context.
type Service struct {
	repo      Repository
	txManager tx.Manager
	config    ServiceConfig
}

// NewService creates a new account service.
func NewService(repo Repository, txManager tx.Manager, config ServiceConfig) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		config:    config,
	}
}

// CreateInput carries fields for account creation.
type CreateInput struct {
	Username string
	Password string
	Role     string
}

// UpdateInput carries fields for account edits. Empty password keeps the
// current one.
type UpdateInput struct {
	Username string
	Password string
	Role     string
}

// Create registers a new account.
func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if len(input.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(input.Username, string(hash), input.Role)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.repo.GetByUsername(ctx, input.Username); err == nil && existing != nil {
			return apperror.NewDuplicate("user", "username", input.Username)
		}
		return s.repo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "account created", "created_id", user.ID, "role", user.Role)
	return user, nil
}

// Update edits username, role and optionally the password.
func (s *Service) Update(ctx context.Context, userID id.ID, input UpdateInput) (*User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	var user *User
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		user.Username = input.Username
		user.Role = input.Role
		if input.Password != "" {
			if len(input.Password) < s.config.PasswordMinLength {
				return apperror.NewValidation(
					fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
				).WithDetail("field", "password")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = string(hash)
		}

		if err := user.Validate(ctx); err != nil {
			return err
		}
		return s.repo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SetActive blocks or unblocks an account. Admins cannot block themselves.
func (s *Service) SetActive(ctx context.Context, userID id.ID, active bool) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if !active && userID == appctx.GetUserID(ctx) {
		return apperror.NewForbidden("cannot block your own account")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		user, err := s.repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.IsActive = active
		return s.repo.Update(ctx, user)
	})
}

// Delete removes an account. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, userID id.ID) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if userID == appctx.GetUserID(ctx) {
		return apperror.NewForbidden("cannot delete your own account")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, userID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "account deleted", "deleted_id", userID)
	return nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, userID id.ID) (*User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}

// EnsureDefaultAdmin creates the bootstrap admin when the users database is
// empty. Used by the seed command.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	admin := NewUser(username, string(hash), RoleAdmin)
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, admin)
	})
	if err != nil {
		return false, err
	}

	logger.Info(ctx, "default admin created", "username", username)
	return true, nil
}

func (s *Service) requireAdmin(ctx context.Context) error {
	if !appctx.IsAdmin(ctx) {
		return apperror.NewForbidden("admin role required")
	}
	return nil
}
