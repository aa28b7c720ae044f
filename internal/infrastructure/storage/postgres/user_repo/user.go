// Package user_repo implements the account repository against the users
// database.
package user_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/users"
	"stocktrack/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

var userColumns = []string{
	"id", "username", "password_hash", "role", "is_active", "created_at", "updated_at",
}

// Compile-time check.
var _ users.Repository = (*UserRepo)(nil)

// UserRepo implements users.Repository.
type UserRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewUserRepo creates a new account repository bound to the users database.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *UserRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(userColumns...).From(usersTable)
}

// Create inserts a new account.
func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	sql, args, err := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(user.ID, user.Username, user.PasswordHash, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*users.User, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": userID})
	return r.getOne(ctx, q, userID)
}

// GetByUsername retrieves an account by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	q := r.baseSelect().Where(squirrel.Eq{"username": username})
	return r.getOne(ctx, q, username)
}

// List returns all accounts ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]users.User, error) {
	sql, args, err := r.baseSelect().OrderBy("username ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []users.User
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return result, nil
}

// Update persists username, role, active flag and password hash.
func (r *UserRepo) Update(ctx context.Context, user *users.User) error {
	sql, args, err := r.builder.Update(usersTable).
		Set("username", user.Username).
		Set("password_hash", user.PasswordHash).
		Set("role", user.Role).
		Set("is_active", user.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID)
	}
	return nil
}

// Delete removes an account permanently.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	sql, args, err := r.builder.Delete(usersTable).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID)
	}
	return nil
}

// Count returns the total number of accounts.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	sql, args, err := r.builder.Select("count(*)").From(usersTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &count, sql, args...); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *UserRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key any) (*users.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var user users.User
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &user, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
