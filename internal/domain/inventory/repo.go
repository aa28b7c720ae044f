package inventory

import (
	"context"

	"stocktrack/internal/core/id"
)

// ItemFilter narrows item listings.
type ItemFilter struct {
	// CreatedBy limits results to items created by one account.
	// Zero value means no creator filter.
	CreatedBy id.ID

	// Search matches short code, full code or description,
	// case-insensitively.
	Search string
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	// Create inserts a new item.
	Create(ctx context.Context, item *Item) error

	// GetByID retrieves an item by ID.
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// GetByIDForUpdate retrieves an item and locks its row for the
	// duration of the current transaction.
	GetByIDForUpdate(ctx context.Context, itemID id.ID) (*Item, error)

	// GetByShortCode retrieves an item by short code, optionally
	// limited to one creator (zero createdBy means any).
	GetByShortCode(ctx context.Context, shortCode string, createdBy id.ID) (*Item, error)

	// List returns items matching the filter, ordered by short code.
	List(ctx context.Context, filter ItemFilter) ([]Item, error)

	// Update persists item fields including the quantity projection.
	Update(ctx context.Context, item *Item) error

	// Delete removes an item and all of its movements.
	Delete(ctx context.Context, itemID id.ID) error
}

// MovementRepository defines persistence operations for the ledger.
type MovementRepository interface {
	// Create appends a movement to the ledger.
	Create(ctx context.Context, movement *Movement) error

	// ListByItem returns all movements for one item, newest first.
	ListByItem(ctx context.Context, itemID id.ID) ([]Movement, error)
}
