package stats

import (
	"context"
	"time"

	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/users"
)

// LedgerFilter narrows ledger queries. Zero values mean no filter.
type LedgerFilter struct {
	// RecordedBy limits movements to one recording account.
	RecordedBy id.ID

	// CodeSearch limits movements to items whose short code contains
	// the substring, case-insensitively. Full codes are matched only
	// by the item lookup path, not by reports.
	CodeSearch string
}

// Repository defines the read queries behind the reports.
type Repository interface {
	// SumSignedBefore returns the signed ledger sum (IN minus OUT) of
	// movements strictly before the cutoff.
	SumSignedBefore(ctx context.Context, before time.Time, filter LedgerFilter) (int64, error)

	// ListBetween returns ledger rows with occurred_at in [from, to),
	// joined with their items, ordered by occurred_at.
	ListBetween(ctx context.Context, from, to time.Time, filter LedgerFilter) ([]MovementRow, error)

	// CurrentStockTotal sums the item quantity projections, optionally
	// limited to items last updated by one account and/or matching the
	// code substring.
	CurrentStockTotal(ctx context.Context, updatedBy id.ID, codeSearch string) (int64, error)
}

// AccountDirectory resolves account IDs to display names. Satisfied by the
// users repository; accounts live in a separate database from the ledger,
// so names are joined in memory rather than in SQL.
type AccountDirectory interface {
	List(ctx context.Context) ([]users.User, error)
}
