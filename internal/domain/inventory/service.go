package inventory

import (
	"context"
	"time"

	"stocktrack/internal/core/apperror"
	appctx "stocktrack/internal/core/context"
	"stocktrack/internal/core/id"
	"stocktrack/internal/core/tx"
	"stocktrack/pkg/logger"
)

// ServiceConfig holds inventory service configuration.
type ServiceConfig struct {
	NegativeStockPolicy NegativeStockPolicy
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		NegativeStockPolicy: PolicyClamp,
	}
}

// Service provides item management and movement accounting.
type Service struct {
	items     ItemRepository
	movements MovementRepository
	txManager tx.Manager
	config    ServiceConfig
}

// NewService creates a new inventory service.
func NewService(
	items ItemRepository,
	movements MovementRepository,
	txManager tx.Manager,
	config ServiceConfig,
) *Service {
	return &Service{
		items:     items,
		movements: movements,
		txManager: txManager,
		config:    config,
	}
}

// CreateItemInput carries fields for item creation.
type CreateItemInput struct {
	ShortCode   string
	FullCode    string
	Description string
	Quantity    int64
}

// UpdateItemInput carries fields for item edits. A quantity edit here is a
// corrective override of the projection and does not touch the ledger.
type UpdateItemInput struct {
	ShortCode   string
	FullCode    string
	Description string
	Quantity    int64
}

// MovementInput carries fields for movement application.
type MovementInput struct {
	ItemID    id.ID
	Direction Direction
	Quantity  int64
	Note      string

	// OccurredAt defaults to now when zero.
	OccurredAt time.Time
}

// Validate checks movement invariants before anything is persisted.
func (in MovementInput) Validate() error {
	if id.IsNil(in.ItemID) {
		return apperror.NewInvalidMovement("item id is required")
	}
	if _, err := ParseDirection(string(in.Direction)); err != nil {
		return err
	}
	if in.Quantity <= 0 {
		return apperror.NewInvalidMovement("quantity must be a positive integer").
			WithDetail("quantity", in.Quantity)
	}
	return nil
}

// CreateItem registers a new item for the current user.
func (s *Service) CreateItem(ctx context.Context, input CreateItemInput) (*Item, error) {
	actor, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	item := NewItem(input.ShortCode, input.FullCode, input.Description, input.Quantity, actor.UserID)
	if err := item.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.items.GetByShortCode(ctx, input.ShortCode, actor.UserID); err == nil && existing != nil {
			return apperror.NewDuplicate("item", "short code", input.ShortCode)
		}
		return s.items.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "item created", "item_id", item.ID, "short_code", item.ShortCode)
	return item, nil
}

// UpdateItem edits item fields. Only the creator or an admin may edit.
func (s *Service) UpdateItem(ctx context.Context, itemID id.ID, input UpdateItemInput) (*Item, error) {
	actor, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var item *Item
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.items.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if !item.EditableBy(actor) {
			return apperror.NewForbidden("you can only edit your own items")
		}

		item.ShortCode = input.ShortCode
		item.FullCode = input.FullCode
		item.Description = input.Description
		item.Quantity = input.Quantity
		item.UpdatedAt = time.Now().UTC()
		item.UpdatedBy = actor.UserID

		if err := item.Validate(ctx); err != nil {
			return err
		}
		return s.items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem removes an item together with its movement history.
func (s *Service) DeleteItem(ctx context.Context, itemID id.ID) error {
	actor, err := s.requireUser(ctx)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.items.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if !item.EditableBy(actor) {
			return apperror.NewForbidden("you can only delete your own items")
		}
		return s.items.Delete(ctx, itemID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "item deleted", "item_id", itemID)
	return nil
}

// GetItem returns a single item.
func (s *Service) GetItem(ctx context.Context, itemID id.ID) (*Item, error) {
	if _, err := s.requireUser(ctx); err != nil {
		return nil, err
	}
	return s.items.GetByID(ctx, itemID)
}

// ListItems returns the current user's items, or everyone's for admins.
// Search matches codes and description.
func (s *Service) ListItems(ctx context.Context, search string) ([]Item, error) {
	actor, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	filter := ItemFilter{Search: search}
	if !actor.IsAdmin() {
		filter.CreatedBy = actor.UserID
	}
	return s.items.List(ctx, filter)
}

// LookupByShortCode resolves a short code to an item within the current
// user's catalog (any catalog for admins).
func (s *Service) LookupByShortCode(ctx context.Context, shortCode string) (*Item, error) {
	actor, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	createdBy := id.Nil()
	if !actor.IsAdmin() {
		createdBy = actor.UserID
	}
	return s.items.GetByShortCode(ctx, shortCode, createdBy)
}

// ListMovements returns the movement history of one item, newest first.
func (s *Service) ListMovements(ctx context.Context, itemID id.ID) ([]Movement, error) {
	if _, err := s.requireUser(ctx); err != nil {
		return nil, err
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.movements.ListByItem(ctx, itemID)
}

// ApplyMovement validates and records one movement, then updates the item
// quantity projection according to the negative-stock policy. Ledger append
// and projection update commit atomically; the item row is locked for the
// duration so concurrent movements serialize.
func (s *Service) ApplyMovement(ctx context.Context, input MovementInput) (*Movement, *Item, error) {
	actor, err := s.requireUser(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, nil, err
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	movement := &Movement{
		ID:         id.New(),
		ItemID:     input.ItemID,
		Direction:  input.Direction,
		Quantity:   input.Quantity,
		OccurredAt: occurredAt,
		Note:       input.Note,
		RecordedBy: actor.UserID,
	}

	var item *Item
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.items.GetByIDForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}

		projected := item.Quantity + movement.SignedQuantity()
		if projected < 0 {
			switch s.config.NegativeStockPolicy {
			case PolicyReject:
				return apperror.NewInsufficientStock(item.ID.String(), input.Quantity, item.Quantity)
			case PolicyClamp:
				projected = 0
			case PolicyAllow:
				// keep the negative projection
			}
		}

		if err := s.movements.Create(ctx, movement); err != nil {
			return err
		}

		item.Quantity = projected
		item.UpdatedAt = time.Now().UTC()
		item.UpdatedBy = actor.UserID
		return s.items.Update(ctx, item)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "movement applied",
		"item_id", item.ID,
		"direction", movement.Direction,
		"quantity", movement.Quantity,
		"new_quantity", item.Quantity,
	)
	return movement, item, nil
}

func (s *Service) requireUser(ctx context.Context) (*appctx.UserContext, error) {
	actor := appctx.GetUser(ctx)
	if actor == nil {
		return nil, apperror.NewUnauthorized("authentication required")
	}
	return actor, nil
}
