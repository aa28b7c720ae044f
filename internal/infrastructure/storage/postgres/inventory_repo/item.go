// Package inventory_repo implements the item and ledger repositories
// against the stock database.
package inventory_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/inventory"
	"stocktrack/internal/infrastructure/storage/postgres"
)

const itemsTable = "items"

var itemColumns = []string{
	"id", "short_code", "full_code", "description", "quantity",
	"created_at", "updated_at", "created_by", "updated_by",
}

// Compile-time check.
var _ inventory.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implements inventory.ItemRepository.
type ItemRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewItemRepo creates a new item repository bound to the stock database.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ItemRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(itemColumns...).From(itemsTable)
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, item *inventory.Item) error {
	sql, args, err := r.builder.Insert(itemsTable).
		Columns(itemColumns...).
		Values(
			item.ID, item.ShortCode, item.FullCode, item.Description, item.Quantity,
			item.CreatedAt, item.UpdatedAt, item.CreatedBy, item.UpdatedBy,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by ID.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": itemID})
	return r.getOne(ctx, q, itemID)
}

// GetByIDForUpdate retrieves an item and locks its row. Must run inside
// a transaction; outside one the lock is released immediately.
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": itemID}).Suffix("FOR UPDATE")
	return r.getOne(ctx, q, itemID)
}

// GetByShortCode retrieves an item by short code, optionally limited to
// one creator.
func (r *ItemRepo) GetByShortCode(ctx context.Context, shortCode string, createdBy id.ID) (*inventory.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"short_code": shortCode})
	if !id.IsNil(createdBy) {
		q = q.Where(squirrel.Eq{"created_by": createdBy})
	}
	q = q.OrderBy("created_at ASC").Limit(1)
	return r.getOne(ctx, q, shortCode)
}

// List returns items matching the filter, ordered by short code.
func (r *ItemRepo) List(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, error) {
	q := r.baseSelect().OrderBy("short_code ASC", "created_at ASC")
	if !id.IsNil(filter.CreatedBy) {
		q = q.Where(squirrel.Eq{"created_by": filter.CreatedBy})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"short_code": pattern},
			squirrel.ILike{"full_code": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var items []inventory.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Update persists item fields including the quantity projection.
func (r *ItemRepo) Update(ctx context.Context, item *inventory.Item) error {
	sql, args, err := r.builder.Update(itemsTable).
		Set("short_code", item.ShortCode).
		Set("full_code", item.FullCode).
		Set("description", item.Description).
		Set("quantity", item.Quantity).
		Set("updated_at", item.UpdatedAt).
		Set("updated_by", item.UpdatedBy).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", item.ID)
	}
	return nil
}

// Delete removes an item and its movements. Runs both deletes through the
// same querier so they share the caller's transaction.
func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	sql, args, err := r.builder.Delete(movementsTable).
		Where(squirrel.Eq{"item_id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete movements: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	sql, args, err = r.builder.Delete(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete item: %w", err)
	}
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID)
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key any) (*inventory.Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var item inventory.Item
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &item, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("item", key)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}
