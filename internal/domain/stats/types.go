// Package stats computes time-series aggregates over the movement ledger.
package stats

import (
	"time"

	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/inventory"
)

// DefaultRangeDays is the fallback reporting window when no range is given.
const DefaultRangeDays = 30

// RangeFilter selects a reporting period. From and To are interpreted as
// calendar dates in the report timezone; both endpoints are inclusive.
// Zero values default to the last DefaultRangeDays days.
type RangeFilter struct {
	From time.Time
	To   time.Time

	// CodeSearch narrows the ledger to items whose short code contains
	// the substring, case-insensitively.
	CodeSearch string

	// UserID narrows the series to movements recorded by one account
	// and the current-stock figure to items that account last updated.
	// Honored for admins only; everyone else is already scoped to
	// their own movements.
	UserID id.ID
}

// Series is the daily aggregation of the ledger over a date range.
// All slices have one entry per day, aligned with Days.
type Series struct {
	// OpeningBalance is the signed ledger sum strictly before the
	// first day of the range.
	OpeningBalance int64 `json:"openingBalance"`

	// Days holds the midnight timestamps of each day in the range.
	Days []time.Time `json:"days"`

	// DailyIn and DailyOut are per-day totals per direction.
	DailyIn  []int64 `json:"dailyIn"`
	DailyOut []int64 `json:"dailyOut"`

	// Stock is the running ledger balance at the end of each day.
	// Unlike the item projection it is never clamped and may go
	// negative.
	Stock []int64 `json:"stock"`

	TotalIn  int64 `json:"totalIn"`
	TotalOut int64 `json:"totalOut"`
}

// MovementRow is a ledger entry joined with its item, for report detail
// tables.
type MovementRow struct {
	MovementID id.ID               `db:"movement_id" json:"movementId"`
	ItemID     id.ID               `db:"item_id" json:"itemId"`
	ShortCode  string              `db:"short_code" json:"shortCode"`
	FullCode   string              `db:"full_code" json:"fullCode"`
	Direction  inventory.Direction `db:"direction" json:"direction"`
	Quantity   int64               `db:"quantity" json:"quantity"`
	OccurredAt time.Time           `db:"occurred_at" json:"occurredAt"`
	RecordedBy id.ID               `db:"recorded_by" json:"recordedBy"`

	// RecordedByName is resolved from the account catalog, not stored
	// in the stock database.
	RecordedByName string `db:"-" json:"recordedByName,omitempty"`
}

// Dashboard bundles the series with headline figures and the detail rows
// backing it.
type Dashboard struct {
	Series Series `json:"series"`

	// CurrentStock sums the item quantity projections, so it reflects
	// clamping while Series.Stock does not.
	CurrentStock int64 `json:"currentStock"`

	// NetChange is TotalIn minus TotalOut over the range.
	NetChange int64 `json:"netChange"`

	Movements []MovementRow `json:"movements"`
}
