package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/inventory"
	"stocktrack/internal/infrastructure/storage/postgres"
)

const movementsTable = "movements"

var movementColumns = []string{
	"id", "item_id", "direction", "quantity", "occurred_at", "note", "recorded_by",
}

// Compile-time check.
var _ inventory.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implements inventory.MovementRepository. The ledger is
// append-only; there are no update or delete operations.
type MovementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewMovementRepo creates a new ledger repository bound to the stock database.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends a movement to the ledger.
func (r *MovementRepo) Create(ctx context.Context, m *inventory.Movement) error {
	sql, args, err := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(m.ID, m.ItemID, m.Direction, m.Quantity, m.OccurredAt, m.Note, m.RecordedBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByItem returns all movements for one item, newest first.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID id.ID) ([]inventory.Movement, error) {
	sql, args, err := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("occurred_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var movements []inventory.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

