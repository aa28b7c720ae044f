package stats

import (
	"context"
	"time"

	"stocktrack/internal/core/apperror"
	appctx "stocktrack/internal/core/context"
	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/inventory"
	"stocktrack/pkg/logger"
)

// Service computes ledger aggregations for the reporting endpoints.
type Service struct {
	repo     Repository
	accounts AccountDirectory
	location *time.Location
}

// NewService creates a new stats service. Days are bucketed in the given
// location; pass time.UTC unless a report timezone is configured.
func NewService(repo Repository, accounts AccountDirectory, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:     repo,
		accounts: accounts,
		location: location,
	}
}

// normalizeRange applies defaults and validates the filter. Returns the
// first day's midnight and the midnight after the last day, both in the
// report location.
func (s *Service) normalizeRange(filter RangeFilter) (start, end time.Time, err error) {
	now := time.Now().In(s.location)
	from := filter.From
	to := filter.To
	if from.IsZero() && to.IsZero() {
		to = now
		from = now.AddDate(0, 0, -(DefaultRangeDays - 1))
	} else if from.IsZero() || to.IsZero() {
		return time.Time{}, time.Time{}, apperror.NewInvalidRange("both range endpoints are required")
	}

	start = midnight(from.In(s.location))
	lastDay := midnight(to.In(s.location))
	if lastDay.Before(start) {
		return time.Time{}, time.Time{}, apperror.NewInvalidRange("range start is after range end").
			WithDetail("from", start.Format("2006-01-02")).
			WithDetail("to", lastDay.Format("2006-01-02"))
	}
	return start, lastDay.AddDate(0, 0, 1), nil
}

// ledgerScope resolves the effective ledger filter for an actor. Admins
// may narrow to any recording account via the filter; everyone else is
// pinned to their own movements and the requested account is ignored.
func (s *Service) ledgerScope(actor *appctx.UserContext, filter RangeFilter) LedgerFilter {
	scope := LedgerFilter{CodeSearch: filter.CodeSearch}
	if actor.IsAdmin() {
		scope.RecordedBy = filter.UserID
	} else {
		scope.RecordedBy = actor.UserID
	}
	return scope
}

// ComputeSeries aggregates the ledger over the date range into per-day
// totals and a running balance. Non-admins see only movements they
// recorded themselves.
func (s *Service) ComputeSeries(ctx context.Context, filter RangeFilter) (*Series, error) {
	series, _, err := s.seriesWithRows(ctx, filter)
	return series, err
}

// seriesWithRows computes the series and returns the in-range ledger rows
// it was built from, so Dashboard can reuse them for the detail table
// without a second read of the same range.
func (s *Service) seriesWithRows(ctx context.Context, filter RangeFilter) (*Series, []MovementRow, error) {
	actor := appctx.GetUser(ctx)
	if actor == nil {
		return nil, nil, apperror.NewUnauthorized("authentication required")
	}

	start, end, err := s.normalizeRange(filter)
	if err != nil {
		return nil, nil, err
	}

	ledgerFilter := s.ledgerScope(actor, filter)

	opening, err := s.repo.SumSignedBefore(ctx, start, ledgerFilter)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.ListBetween(ctx, start, end, ledgerFilter)
	if err != nil {
		return nil, nil, err
	}

	series := s.bucketize(start, end, opening, rows)

	logger.Debug(ctx, "series computed",
		"from", start.Format("2006-01-02"),
		"days", len(series.Days),
		"movements", len(rows),
	)
	return series, rows, nil
}

// bucketize folds the in-range rows into per-day totals and the running
// balance. Days are walked with AddDate so DST transitions in the report
// location keep day boundaries aligned with local midnight.
func (s *Service) bucketize(start, end time.Time, opening int64, rows []MovementRow) *Series {
	var days []time.Time
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	series := &Series{
		OpeningBalance: opening,
		Days:           days,
		DailyIn:        make([]int64, len(days)),
		DailyOut:       make([]int64, len(days)),
		Stock:          make([]int64, len(days)),
	}

	index := make(map[time.Time]int, len(days))
	for i, day := range days {
		index[day] = i
	}

	for _, row := range rows {
		i, ok := index[midnight(row.OccurredAt.In(s.location))]
		if !ok {
			continue
		}
		if row.Direction == inventory.DirectionIn {
			series.DailyIn[i] += row.Quantity
			series.TotalIn += row.Quantity
		} else {
			series.DailyOut[i] += row.Quantity
			series.TotalOut += row.Quantity
		}
	}

	running := opening
	for i := range days {
		running += series.DailyIn[i] - series.DailyOut[i]
		series.Stock[i] = running
	}
	return series
}

// Dashboard composes the series with the current stock figure and the
// movement detail rows. Per-report visibility differs on purpose: the
// series and detail rows follow the movement recorder, while the current
// stock figure follows the item's last updater.
func (s *Service) Dashboard(ctx context.Context, filter RangeFilter) (*Dashboard, error) {
	actor := appctx.GetUser(ctx)
	if actor == nil {
		return nil, apperror.NewUnauthorized("authentication required")
	}

	series, rows, err := s.seriesWithRows(ctx, filter)
	if err != nil {
		return nil, err
	}

	updatedBy := actor.UserID
	if actor.IsAdmin() {
		updatedBy = filter.UserID
	}
	current, err := s.repo.CurrentStockTotal(ctx, updatedBy, filter.CodeSearch)
	if err != nil {
		return nil, err
	}
	if err := s.resolveNames(ctx, rows); err != nil {
		return nil, err
	}

	return &Dashboard{
		Series:       *series,
		CurrentStock: current,
		NetChange:    series.TotalIn - series.TotalOut,
		Movements:    rows,
	}, nil
}

func (s *Service) resolveNames(ctx context.Context, rows []MovementRow) error {
	if len(rows) == 0 {
		return nil
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return err
	}
	names := make(map[id.ID]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Username
	}
	for i := range rows {
		rows[i].RecordedByName = names[rows[i].RecordedBy]
	}
	return nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
