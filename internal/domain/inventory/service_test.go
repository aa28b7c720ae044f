package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktrack/internal/core/apperror"
	appctx "stocktrack/internal/core/context"
	"stocktrack/internal/core/id"
)

// --- In-memory fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeItemRepo struct {
	items map[id.ID]*Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[id.ID]*Item)}
}

func (r *fakeItemRepo) Create(_ context.Context, item *Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, itemID id.ID) (*Item, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID)
	}
	cp := *item
	return &cp, nil
}

func (r *fakeItemRepo) GetByIDForUpdate(ctx context.Context, itemID id.ID) (*Item, error) {
	return r.GetByID(ctx, itemID)
}

func (r *fakeItemRepo) GetByShortCode(_ context.Context, shortCode string, createdBy id.ID) (*Item, error) {
	for _, item := range r.items {
		if item.ShortCode != shortCode {
			continue
		}
		if !id.IsNil(createdBy) && item.CreatedBy != createdBy {
			continue
		}
		cp := *item
		return &cp, nil
	}
	return nil, apperror.NewNotFound("item", shortCode)
}

func (r *fakeItemRepo) List(_ context.Context, filter ItemFilter) ([]Item, error) {
	var out []Item
	for _, item := range r.items {
		if !id.IsNil(filter.CreatedBy) && item.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(item.ShortCode), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return apperror.NewNotFound("item", item.ID)
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, itemID id.ID) error {
	delete(r.items, itemID)
	return nil
}

type fakeMovementRepo struct {
	movements []Movement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *Movement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) ListByItem(_ context.Context, itemID id.ID) ([]Movement, error) {
	var out []Movement
	for _, m := range r.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- Helpers ---

func userCtx(userID id.ID, role string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   userID,
		Username: "tester",
		Role:     role,
	})
}

func newTestService(policy NegativeStockPolicy) (*Service, *fakeItemRepo, *fakeMovementRepo) {
	items := newFakeItemRepo()
	movements := &fakeMovementRepo{}
	svc := NewService(items, movements, fakeTxManager{}, ServiceConfig{NegativeStockPolicy: policy})
	return svc, items, movements
}

func seedItem(t *testing.T, repo *fakeItemRepo, owner id.ID, quantity int64) *Item {
	t.Helper()
	item := NewItem("A1", "AAA-001", "widget", quantity, owner)
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

// --- Tests ---

func TestApplyMovement_InAddsOutSubtracts(t *testing.T) {
	owner := id.New()
	svc, items, _ := newTestService(PolicyAllow)
	item := seedItem(t, items, owner, 10)
	ctx := userCtx(owner, appctx.RoleUser)

	_, updated, err := svc.ApplyMovement(ctx, MovementInput{
		ItemID: item.ID, Direction: DirectionIn, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.Quantity)

	_, updated, err = svc.ApplyMovement(ctx, MovementInput{
		ItemID: item.ID, Direction: DirectionOut, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), updated.Quantity)
}

func TestApplyMovement_ClampFloorsAtZero(t *testing.T) {
	owner := id.New()
	svc, items, movements := newTestService(PolicyClamp)
	item := seedItem(t, items, owner, 10)
	ctx := userCtx(owner, appctx.RoleUser)

	_, updated, err := svc.ApplyMovement(ctx, MovementInput{
		ItemID: item.ID, Direction: DirectionIn, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.Quantity)

	// Withdrawing more than available clamps the projection to zero,
	// while the ledger keeps the full requested quantity.
	mv, updated, err := svc.ApplyMovement(ctx, MovementInput{
		ItemID: item.ID, Direction: DirectionOut, Quantity: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Quantity)
	assert.Equal(t, int64(20), mv.Quantity)
	assert.Len(t, movements.movements, 2)
}

func TestApplyMovement_AllowGoesNegative(t *testing.T) {
	owner := id.New()
	svc, items, _ := newTestService(PolicyAllow)
	item := seedItem(t, items, owner, 10)
	ctx := userCtx(owner, appctx.RoleUser)

	_, updated, err := svc.ApplyMovement(ctx, MovementInput{
		ItemID: item.ID, Direction: DirectionOut, Quantity: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-15), updated.Quantity)
}

func TestApplyMovement_RejectPersistsNothing(t *testing.T) {
	owner := id.New()
	svc, items, movements := newTestService(PolicyReject)
	item := seedItem(t, items, owner, 10)
	ctx := userCtx(owner, appctx.RoleUser)

	_, _, err := svc.ApplyMovement(ctx, MovementInput{
		ItemID: item.ID, Direction: DirectionOut, Quantity: 20,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(20), appErr.Details["requested"])
	assert.Equal(t, int64(10), appErr.Details["available"])

	// Nothing persisted on rejection.
	assert.Empty(t, movements.movements)
	got, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)
}

func TestApplyMovement_ValidatesInput(t *testing.T) {
	owner := id.New()
	svc, items, _ := newTestService(PolicyClamp)
	item := seedItem(t, items, owner, 10)
	ctx := userCtx(owner, appctx.RoleUser)

	tests := []struct {
		name  string
		input MovementInput
	}{
		{"missing item", MovementInput{Direction: DirectionIn, Quantity: 1}},
		{"zero quantity", MovementInput{ItemID: item.ID, Direction: DirectionIn, Quantity: 0}},
		{"negative quantity", MovementInput{ItemID: item.ID, Direction: DirectionOut, Quantity: -5}},
		{"bad direction", MovementInput{ItemID: item.ID, Direction: "SIDEWAYS", Quantity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.ApplyMovement(ctx, tt.input)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidMovement, appErr.Code)
		})
	}
}

func TestApplyMovement_UnknownItem(t *testing.T) {
	svc, _, _ := newTestService(PolicyClamp)
	ctx := userCtx(id.New(), appctx.RoleUser)

	_, _, err := svc.ApplyMovement(ctx, MovementInput{
		ItemID: id.New(), Direction: DirectionIn, Quantity: 1,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestApplyMovement_RequiresAuth(t *testing.T) {
	svc, _, _ := newTestService(PolicyClamp)

	_, _, err := svc.ApplyMovement(context.Background(), MovementInput{
		ItemID: id.New(), Direction: DirectionIn, Quantity: 1,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestCreateItem_DuplicateShortCode(t *testing.T) {
	owner := id.New()
	svc, _, _ := newTestService(PolicyClamp)
	ctx := userCtx(owner, appctx.RoleUser)

	_, err := svc.CreateItem(ctx, CreateItemInput{
		ShortCode: "A1", FullCode: "AAA-001", Description: "widget", Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, CreateItemInput{
		ShortCode: "A1", FullCode: "AAA-002", Description: "other widget", Quantity: 1,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCreateItem_RejectsNegativeQuantity(t *testing.T) {
	svc, _, _ := newTestService(PolicyClamp)
	ctx := userCtx(id.New(), appctx.RoleUser)

	_, err := svc.CreateItem(ctx, CreateItemInput{
		ShortCode: "A1", FullCode: "AAA-001", Description: "widget", Quantity: -1,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdateItem_OwnershipEnforced(t *testing.T) {
	owner := id.New()
	stranger := id.New()
	svc, items, _ := newTestService(PolicyClamp)
	item := seedItem(t, items, owner, 10)

	input := UpdateItemInput{ShortCode: "A1", FullCode: "AAA-001", Description: "renamed", Quantity: 10}

	_, err := svc.UpdateItem(userCtx(stranger, appctx.RoleUser), item.ID, input)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	// Admins may edit anyone's items.
	updated, err := svc.UpdateItem(userCtx(stranger, appctx.RoleAdmin), item.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Description)
	assert.Equal(t, stranger, updated.UpdatedBy)

	updated, err = svc.UpdateItem(userCtx(owner, appctx.RoleUser), item.ID, input)
	require.NoError(t, err)
	assert.Equal(t, owner, updated.UpdatedBy)
}

func TestDeleteItem_OwnershipEnforced(t *testing.T) {
	owner := id.New()
	stranger := id.New()
	svc, items, _ := newTestService(PolicyClamp)
	item := seedItem(t, items, owner, 10)

	err := svc.DeleteItem(userCtx(stranger, appctx.RoleUser), item.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	require.NoError(t, svc.DeleteItem(userCtx(owner, appctx.RoleUser), item.ID))
	_, err = items.GetByID(context.Background(), item.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListItems_FiltersByCreatorUnlessAdmin(t *testing.T) {
	alice := id.New()
	bob := id.New()
	svc, items, _ := newTestService(PolicyClamp)

	require.NoError(t, items.Create(context.Background(), NewItem("A1", "AAA-001", "alice's", 1, alice)))
	require.NoError(t, items.Create(context.Background(), NewItem("B1", "BBB-001", "bob's", 1, bob)))

	mine, err := svc.ListItems(userCtx(alice, appctx.RoleUser), "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, "A1", mine[0].ShortCode)

	all, err := svc.ListItems(userCtx(alice, appctx.RoleAdmin), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
