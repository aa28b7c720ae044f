// Package inventory provides the item catalog and the movement ledger.
// The ledger is the source of truth for historical stock changes; the
// item quantity is a cached projection maintained by the accounting
// service.
package inventory

import (
	"context"
	"time"

	"stocktrack/internal/core/apperror"
	appctx "stocktrack/internal/core/context"
	"stocktrack/internal/core/id"
)

// Direction of a stock movement.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIn, DirectionOut:
		return Direction(s), nil
	}
	return "", apperror.NewInvalidMovement("direction must be IN or OUT").
		WithDetail("direction", s)
}

// NegativeStockPolicy controls what happens when an OUT movement would
// drive the item projection below zero.
type NegativeStockPolicy string

const (
	// PolicyClamp records the movement as requested but floors the
	// projection at zero. The projection may then permanently diverge
	// from the ledger sum; this is a documented limitation, not a bug.
	PolicyClamp NegativeStockPolicy = "clamp"

	// PolicyAllow lets the projection go negative.
	PolicyAllow NegativeStockPolicy = "allow"

	// PolicyReject refuses the movement; nothing is persisted.
	PolicyReject NegativeStockPolicy = "reject"
)

// ParseNegativeStockPolicy validates a policy string.
func ParseNegativeStockPolicy(s string) (NegativeStockPolicy, error) {
	switch NegativeStockPolicy(s) {
	case PolicyClamp, PolicyAllow, PolicyReject:
		return NegativeStockPolicy(s), nil
	}
	return "", apperror.NewValidation("unknown negative stock policy").
		WithDetail("policy", s)
}

// Item represents a tracked stock item.
type Item struct {
	ID          id.ID  `db:"id" json:"id"`
	ShortCode   string `db:"short_code" json:"shortCode"`
	FullCode    string `db:"full_code" json:"fullCode"`
	Description string `db:"description" json:"description"`

	// Quantity is the cached projection of the movement ledger,
	// clamped per policy. It is never edited directly by movement
	// application; corrective field edits bypass the ledger.
	Quantity int64 `db:"quantity" json:"quantity"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy id.ID     `db:"created_by" json:"createdBy"`
	UpdatedBy id.ID     `db:"updated_by" json:"updatedBy"`
}

// NewItem creates a new item with an explicit initial quantity.
func NewItem(shortCode, fullCode, description string, quantity int64, createdBy id.ID) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:          id.New(),
		ShortCode:   shortCode,
		FullCode:    fullCode,
		Description: description,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
		UpdatedBy:   createdBy,
	}
}

// Validate checks item invariants.
func (i *Item) Validate(ctx context.Context) error {
	if i.ShortCode == "" {
		return apperror.NewValidation("short code is required").WithDetail("field", "shortCode")
	}
	if i.FullCode == "" {
		return apperror.NewValidation("full code is required").WithDetail("field", "fullCode")
	}
	if i.Description == "" {
		return apperror.NewValidation("description is required").WithDetail("field", "description")
	}
	if i.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").WithDetail("field", "quantity")
	}
	return nil
}

// EditableBy reports whether the actor may mutate this item.
// Owners and admins may; everyone else gets 403.
func (i *Item) EditableBy(actor *appctx.UserContext) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || i.CreatedBy == actor.UserID
}

// Movement is a single signed quantity change applied to one item.
// Movements are immutable once created; the ledger is append-only.
type Movement struct {
	ID         id.ID     `db:"id" json:"id"`
	ItemID     id.ID     `db:"item_id" json:"itemId"`
	Direction  Direction `db:"direction" json:"direction"`
	Quantity   int64     `db:"quantity" json:"quantity"`
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`
	Note       string    `db:"note" json:"note,omitempty"`
	RecordedBy id.ID     `db:"recorded_by" json:"recordedBy"`
}

// SignedQuantity returns +quantity for IN, -quantity for OUT.
func (m *Movement) SignedQuantity() int64 {
	if m.Direction == DirectionIn {
		return m.Quantity
	}
	return -m.Quantity
}
