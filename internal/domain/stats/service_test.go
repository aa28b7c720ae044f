package stats

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktrack/internal/core/apperror"
	appctx "stocktrack/internal/core/context"
	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/inventory"
	"stocktrack/internal/domain/users"
)

type fakeRepo struct {
	rows       []MovementRow
	stockTotal int64

	// captured filters and call counts from the last calls
	lastFilter    LedgerFilter
	lastUpdatedBy id.ID
	listCalls     int
}

func matches(row MovementRow, filter LedgerFilter) bool {
	if !id.IsNil(filter.RecordedBy) && row.RecordedBy != filter.RecordedBy {
		return false
	}
	if filter.CodeSearch != "" {
		needle := strings.ToLower(filter.CodeSearch)
		if !strings.Contains(strings.ToLower(row.ShortCode), needle) {
			return false
		}
	}
	return true
}

func (r *fakeRepo) SumSignedBefore(_ context.Context, before time.Time, filter LedgerFilter) (int64, error) {
	r.lastFilter = filter
	var sum int64
	for _, row := range r.rows {
		if !row.OccurredAt.Before(before) || !matches(row, filter) {
			continue
		}
		if row.Direction == inventory.DirectionIn {
			sum += row.Quantity
		} else {
			sum -= row.Quantity
		}
	}
	return sum, nil
}

func (r *fakeRepo) ListBetween(_ context.Context, from, to time.Time, filter LedgerFilter) ([]MovementRow, error) {
	r.lastFilter = filter
	r.listCalls++
	var out []MovementRow
	for _, row := range r.rows {
		if row.OccurredAt.Before(from) || !row.OccurredAt.Before(to) || !matches(row, filter) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeRepo) CurrentStockTotal(_ context.Context, updatedBy id.ID, _ string) (int64, error) {
	r.lastUpdatedBy = updatedBy
	return r.stockTotal, nil
}

type fakeDirectory struct {
	accounts []users.User
}

func (d *fakeDirectory) List(_ context.Context) ([]users.User, error) {
	return d.accounts, nil
}

func actorCtx(userID id.ID, role string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   userID,
		Username: "tester",
		Role:     role,
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func row(dir inventory.Direction, qty int64, at time.Time, recordedBy id.ID) MovementRow {
	return MovementRow{
		MovementID: id.New(),
		ItemID:     id.New(),
		ShortCode:  "A1",
		Direction:  dir,
		Quantity:   qty,
		OccurredAt: at,
		RecordedBy: recordedBy,
	}
}

func TestComputeSeries_DailyBucketsAndRunningBalance(t *testing.T) {
	user := id.New()
	repo := &fakeRepo{rows: []MovementRow{
		row(inventory.DirectionIn, 5, day(2026, 3, 1).Add(9*time.Hour), user),
		row(inventory.DirectionOut, 20, day(2026, 3, 2).Add(14*time.Hour), user),
	}}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)

	series, err := svc.ComputeSeries(actorCtx(user, appctx.RoleUser), RangeFilter{
		From: day(2026, 3, 1),
		To:   day(2026, 3, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), series.OpeningBalance)
	require.Len(t, series.Days, 2)
	assert.Equal(t, []int64{5, 0}, series.DailyIn)
	assert.Equal(t, []int64{0, 20}, series.DailyOut)
	// The running balance tracks the raw ledger and may go negative
	// even though the item projection would have been clamped.
	assert.Equal(t, []int64{5, -15}, series.Stock)
	assert.Equal(t, int64(5), series.TotalIn)
	assert.Equal(t, int64(20), series.TotalOut)
}

func TestComputeSeries_OpeningBalanceExcludesRangeStart(t *testing.T) {
	user := id.New()
	repo := &fakeRepo{rows: []MovementRow{
		row(inventory.DirectionIn, 7, day(2026, 3, 1).Add(-time.Second), user), // before the range
		row(inventory.DirectionIn, 3, day(2026, 3, 1), user),                   // exactly at range start
	}}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)

	series, err := svc.ComputeSeries(actorCtx(user, appctx.RoleUser), RangeFilter{
		From: day(2026, 3, 1),
		To:   day(2026, 3, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), series.OpeningBalance)
	assert.Equal(t, []int64{3}, series.DailyIn)
	assert.Equal(t, []int64{10}, series.Stock)
}

func TestComputeSeries_SingleDayRange(t *testing.T) {
	user := id.New()
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)

	series, err := svc.ComputeSeries(actorCtx(user, appctx.RoleUser), RangeFilter{
		From: day(2026, 3, 5),
		To:   day(2026, 3, 5),
	})
	require.NoError(t, err)
	assert.Len(t, series.Days, 1)
	assert.Equal(t, []int64{0}, series.Stock)
}

func TestComputeSeries_InvertedRange(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeDirectory{}, time.UTC)

	_, err := svc.ComputeSeries(actorCtx(id.New(), appctx.RoleUser), RangeFilter{
		From: day(2026, 3, 10),
		To:   day(2026, 3, 1),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidRange, appErr.Code)
}

func TestComputeSeries_HalfOpenFilterRejected(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeDirectory{}, time.UTC)

	_, err := svc.ComputeSeries(actorCtx(id.New(), appctx.RoleUser), RangeFilter{
		From: day(2026, 3, 1),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidRange, appErr.Code)
}

func TestComputeSeries_DefaultsToLast30Days(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeDirectory{}, time.UTC)

	series, err := svc.ComputeSeries(actorCtx(id.New(), appctx.RoleUser), RangeFilter{})
	require.NoError(t, err)
	assert.Len(t, series.Days, DefaultRangeDays)
}

func TestComputeSeries_NonAdminSeesOwnMovementsOnly(t *testing.T) {
	alice := id.New()
	bob := id.New()
	repo := &fakeRepo{rows: []MovementRow{
		row(inventory.DirectionIn, 5, day(2026, 3, 1).Add(time.Hour), alice),
		row(inventory.DirectionIn, 9, day(2026, 3, 1).Add(time.Hour), bob),
	}}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)
	filter := RangeFilter{From: day(2026, 3, 1), To: day(2026, 3, 1)}

	series, err := svc.ComputeSeries(actorCtx(alice, appctx.RoleUser), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(5), series.TotalIn)

	series, err = svc.ComputeSeries(actorCtx(alice, appctx.RoleAdmin), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(14), series.TotalIn)
}

func TestComputeSeries_CodeSearchFiltersLedger(t *testing.T) {
	user := id.New()
	widget := row(inventory.DirectionIn, 5, day(2026, 3, 1).Add(time.Hour), user)
	widget.ShortCode = "WID-1"
	widget.FullCode = "WIDGET-001"
	gadget := row(inventory.DirectionIn, 9, day(2026, 3, 1).Add(time.Hour), user)
	gadget.ShortCode = "GAD-1"
	gadget.FullCode = "GADGET-001"

	repo := &fakeRepo{rows: []MovementRow{widget, gadget}}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)

	series, err := svc.ComputeSeries(actorCtx(user, appctx.RoleAdmin), RangeFilter{
		From:       day(2026, 3, 1),
		To:         day(2026, 3, 1),
		CodeSearch: "wid",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), series.TotalIn)
	assert.Equal(t, "wid", repo.lastFilter.CodeSearch)
}

func TestComputeSeries_CodeSearchIgnoresFullCode(t *testing.T) {
	user := id.New()
	item := row(inventory.DirectionIn, 5, day(2026, 3, 1).Add(time.Hour), user)
	item.ShortCode = "B2"
	item.FullCode = "AAA-777"

	repo := &fakeRepo{rows: []MovementRow{item}}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)

	// "aaa" appears only in the full code, which reports do not match.
	series, err := svc.ComputeSeries(actorCtx(user, appctx.RoleAdmin), RangeFilter{
		From:       day(2026, 3, 1),
		To:         day(2026, 3, 1),
		CodeSearch: "aaa",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), series.TotalIn)
}

func TestComputeSeries_ExcludesEndBoundary(t *testing.T) {
	user := id.New()
	repo := &fakeRepo{rows: []MovementRow{
		row(inventory.DirectionIn, 4, day(2026, 3, 2).Add(23*time.Hour), user), // last in-range instant's day
		row(inventory.DirectionIn, 6, day(2026, 3, 3), user),                   // midnight after the last day
	}}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)

	series, err := svc.ComputeSeries(actorCtx(user, appctx.RoleUser), RangeFilter{
		From: day(2026, 3, 1),
		To:   day(2026, 3, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 4}, series.DailyIn)
	assert.Equal(t, int64(4), series.TotalIn)
}

func TestComputeSeries_AdminCanFilterByRecorder(t *testing.T) {
	alice := id.New()
	bob := id.New()
	repo := &fakeRepo{rows: []MovementRow{
		row(inventory.DirectionIn, 5, day(2026, 3, 1).Add(time.Hour), alice),
		row(inventory.DirectionIn, 9, day(2026, 3, 1).Add(time.Hour), bob),
	}}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)
	filter := RangeFilter{From: day(2026, 3, 1), To: day(2026, 3, 1), UserID: bob}

	series, err := svc.ComputeSeries(actorCtx(alice, appctx.RoleAdmin), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(9), series.TotalIn)
	assert.Equal(t, bob, repo.lastFilter.RecordedBy)

	// Non-admins stay pinned to their own movements regardless of the
	// requested account.
	series, err = svc.ComputeSeries(actorCtx(alice, appctx.RoleUser), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(5), series.TotalIn)
	assert.Equal(t, alice, repo.lastFilter.RecordedBy)
}

func TestComputeSeries_RequiresAuth(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeDirectory{}, time.UTC)

	_, err := svc.ComputeSeries(context.Background(), RangeFilter{})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestDashboard_ComposesFiguresAndResolvesNames(t *testing.T) {
	alice := id.New()
	repo := &fakeRepo{
		rows: []MovementRow{
			row(inventory.DirectionIn, 5, day(2026, 3, 1).Add(time.Hour), alice),
		},
		stockTotal: 42,
	}
	dir := &fakeDirectory{accounts: []users.User{
		{ID: alice, Username: "alice"},
	}}
	svc := NewService(repo, dir, time.UTC)

	dash, err := svc.Dashboard(actorCtx(alice, appctx.RoleUser), RangeFilter{
		From: day(2026, 3, 1),
		To:   day(2026, 3, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), dash.CurrentStock)
	assert.Equal(t, int64(5), dash.NetChange)
	assert.Equal(t, alice, repo.lastUpdatedBy)
	require.Len(t, dash.Movements, 1)
	assert.Equal(t, "alice", dash.Movements[0].RecordedByName)
	assert.Equal(t, int64(5), dash.Series.TotalIn)

	// The detail rows and the series come from the same ledger read so
	// they cannot disagree under concurrent writes.
	assert.Equal(t, 1, repo.listCalls)
}

func TestDashboard_AdminUserFilterScopesStockFigure(t *testing.T) {
	admin := id.New()
	bob := id.New()
	repo := &fakeRepo{stockTotal: 7}
	svc := NewService(repo, &fakeDirectory{}, time.UTC)

	dash, err := svc.Dashboard(actorCtx(admin, appctx.RoleAdmin), RangeFilter{
		From:   day(2026, 3, 1),
		To:     day(2026, 3, 2),
		UserID: bob,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), dash.CurrentStock)
	assert.Equal(t, bob, repo.lastUpdatedBy)
	assert.Equal(t, bob, repo.lastFilter.RecordedBy)
}
