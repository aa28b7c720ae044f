// Package stats_repo implements the reporting read queries against the
// stock database.
package stats_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/stats"
	"stocktrack/internal/infrastructure/storage/postgres"
)

const signedSum = "COALESCE(SUM(CASE WHEN m.direction = 'IN' THEN m.quantity ELSE -m.quantity END), 0)"

// Compile-time check.
var _ stats.Repository = (*ReportRepo)(nil)

// ReportRepo implements stats.Repository. All queries are read-only and
// run outside any transaction; reports tolerate being a moment stale.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository bound to the stock database.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ledgerSelect starts a movements query with the filter applied. The join
// with items is always present; every movement references an item.
func (r *ReportRepo) ledgerSelect(columns []string, filter stats.LedgerFilter) squirrel.SelectBuilder {
	q := r.builder.Select(columns...).
		From("movements m").
		Join("items i ON i.id = m.item_id")
	if !id.IsNil(filter.RecordedBy) {
		q = q.Where(squirrel.Eq{"m.recorded_by": filter.RecordedBy})
	}
	if filter.CodeSearch != "" {
		// Reports match the short code only; the full code is searched
		// by the item lookup endpoints, not here.
		q = q.Where(squirrel.ILike{"i.short_code": "%" + filter.CodeSearch + "%"})
	}
	return q
}

// SumSignedBefore returns the signed ledger sum strictly before the cutoff.
func (r *ReportRepo) SumSignedBefore(ctx context.Context, before time.Time, filter stats.LedgerFilter) (int64, error) {
	q := r.ledgerSelect([]string{signedSum}, filter).
		Where(squirrel.Lt{"m.occurred_at": before})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build select: %w", err)
	}

	var sum int64
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &sum, sql, args...); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// ListBetween returns ledger rows joined with their items for the range
// [from, to).
func (r *ReportRepo) ListBetween(ctx context.Context, from, to time.Time, filter stats.LedgerFilter) ([]stats.MovementRow, error) {
	columns := []string{
		"m.id AS movement_id",
		"m.item_id",
		"i.short_code",
		"i.full_code",
		"m.direction",
		"m.quantity",
		"m.occurred_at",
		"m.recorded_by",
	}
	q := r.ledgerSelect(columns, filter).
		Where(squirrel.GtOrEq{"m.occurred_at": from}).
		Where(squirrel.Lt{"m.occurred_at": to}).
		OrderBy("m.occurred_at ASC", "m.id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []stats.MovementRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movement rows: %w", err)
	}
	return rows, nil
}

// CurrentStockTotal sums the item quantity projections.
func (r *ReportRepo) CurrentStockTotal(ctx context.Context, updatedBy id.ID, codeSearch string) (int64, error) {
	q := r.builder.Select("COALESCE(SUM(quantity), 0)").From("items")
	if !id.IsNil(updatedBy) {
		q = q.Where(squirrel.Eq{"updated_by": updatedBy})
	}
	if codeSearch != "" {
		q = q.Where(squirrel.ILike{"short_code": "%" + codeSearch + "%"})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build select: %w", err)
	}

	var sum int64
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &sum, sql, args...); err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return sum, nil
}
