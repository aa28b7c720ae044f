package dto

import (
	"time"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/reporting"
	"stocktrack/internal/domain/stats"
)

// DateOnly is the wire format for range endpoints.
const DateOnly = "2006-01-02"

// RangeQuery selects a reporting period. Both dates inclusive; leave both
// empty for the default window. Code narrows the ledger to items whose
// short code contains the substring. User narrows to movements recorded
// by one account (admin only, ignored for everyone else).
type RangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
	Code string `form:"code"`
	User string `form:"user"`
}

// ToFilter parses the query into a domain range filter.
func (q RangeQuery) ToFilter() (stats.RangeFilter, error) {
	filter := stats.RangeFilter{CodeSearch: q.Code}
	if q.User != "" {
		userID, err := id.Parse(q.User)
		if err != nil {
			return filter, apperror.NewValidation("invalid user id").WithDetail("user", q.User)
		}
		filter.UserID = userID
	}
	if q.From != "" {
		from, err := time.Parse(DateOnly, q.From)
		if err != nil {
			return filter, apperror.NewInvalidRange("invalid from date, expected YYYY-MM-DD").
				WithDetail("from", q.From)
		}
		filter.From = from
	}
	if q.To != "" {
		to, err := time.Parse(DateOnly, q.To)
		if err != nil {
			return filter, apperror.NewInvalidRange("invalid to date, expected YYYY-MM-DD").
				WithDetail("to", q.To)
		}
		filter.To = to
	}
	return filter, nil
}

// SeriesResponse is the daily aggregation payload. Days are rendered as
// dates to keep chart clients timezone-agnostic.
type SeriesResponse struct {
	OpeningBalance int64    `json:"openingBalance"`
	Days           []string `json:"days"`
	DailyIn        []int64  `json:"dailyIn"`
	DailyOut       []int64  `json:"dailyOut"`
	Stock          []int64  `json:"stock"`
	TotalIn        int64    `json:"totalIn"`
	TotalOut       int64    `json:"totalOut"`
}

// FromSeries maps a domain series to the response shape.
func FromSeries(s *stats.Series) SeriesResponse {
	days := make([]string, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, d.Format(DateOnly))
	}
	return SeriesResponse{
		OpeningBalance: s.OpeningBalance,
		Days:           days,
		DailyIn:        s.DailyIn,
		DailyOut:       s.DailyOut,
		Stock:          s.Stock,
		TotalIn:        s.TotalIn,
		TotalOut:       s.TotalOut,
	}
}

// MovementRowResponse is one ledger detail row in the dashboard.
type MovementRowResponse struct {
	MovementID     string    `json:"movementId"`
	ItemID         string    `json:"itemId"`
	ShortCode      string    `json:"shortCode"`
	FullCode       string    `json:"fullCode"`
	Direction      string    `json:"direction"`
	Quantity       int64     `json:"quantity"`
	OccurredAt     time.Time `json:"occurredAt"`
	RecordedBy     string    `json:"recordedBy"`
	RecordedByName string    `json:"recordedByName,omitempty"`
}

// DashboardResponse bundles the series, current stock and detail rows.
type DashboardResponse struct {
	Series       SeriesResponse        `json:"series"`
	CurrentStock int64                 `json:"currentStock"`
	NetChange    int64                 `json:"netChange"`
	Movements    []MovementRowResponse `json:"movements"`
}

// FromDashboard maps a domain dashboard to the response shape.
func FromDashboard(d *stats.Dashboard) DashboardResponse {
	rows := make([]MovementRowResponse, 0, len(d.Movements))
	for _, r := range d.Movements {
		rows = append(rows, MovementRowResponse{
			MovementID:     r.MovementID.String(),
			ItemID:         r.ItemID.String(),
			ShortCode:      r.ShortCode,
			FullCode:       r.FullCode,
			Direction:      string(r.Direction),
			Quantity:       r.Quantity,
			OccurredAt:     r.OccurredAt,
			RecordedBy:     r.RecordedBy.String(),
			RecordedByName: r.RecordedByName,
		})
	}
	return DashboardResponse{
		Series:       FromSeries(&d.Series),
		CurrentStock: d.CurrentStock,
		NetChange:    d.NetChange,
		Movements:    rows,
	}
}

// OwnerGroupResponse is one (short code, owner) report row.
type OwnerGroupResponse struct {
	ShortCode string `json:"shortCode"`
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	Quantity  int64  `json:"quantity"`
	ItemCount int    `json:"itemCount"`
}

// CodeGroupResponse is one short-code report row.
type CodeGroupResponse struct {
	ShortCode string `json:"shortCode"`
	Quantity  int64  `json:"quantity"`
	ItemCount int    `json:"itemCount"`
}

// GroupedReportResponse holds both grouping views plus the detail rows
// and overall total they were computed from.
type GroupedReportResponse struct {
	Items          []ItemResponse       `json:"items"`
	TotalQuantity  int64                `json:"totalQuantity"`
	ByCodeAndOwner []OwnerGroupResponse `json:"byCodeAndOwner"`
	ByCodeTotals   []CodeGroupResponse  `json:"byCodeTotals"`
}

// FromGroupedReport maps a domain report to the response shape.
func FromGroupedReport(r reporting.GroupedReport) GroupedReportResponse {
	owners := make([]OwnerGroupResponse, 0, len(r.ByCodeAndOwner))
	for _, g := range r.ByCodeAndOwner {
		owners = append(owners, OwnerGroupResponse{
			ShortCode: g.ShortCode,
			OwnerID:   g.OwnerID.String(),
			OwnerName: g.OwnerName,
			Quantity:  g.Quantity,
			ItemCount: g.ItemCount,
		})
	}
	codes := make([]CodeGroupResponse, 0, len(r.ByCodeTotals))
	for _, g := range r.ByCodeTotals {
		codes = append(codes, CodeGroupResponse{
			ShortCode: g.ShortCode,
			Quantity:  g.Quantity,
			ItemCount: g.ItemCount,
		})
	}
	return GroupedReportResponse{ByCodeAndOwner: owners, ByCodeTotals: codes}
}
