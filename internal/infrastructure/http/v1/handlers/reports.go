package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/inventory"
	"stocktrack/internal/domain/reporting"
	"stocktrack/internal/domain/stats"
	"stocktrack/internal/domain/users"
	"stocktrack/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the aggregation and grouping report endpoints.
type ReportsHandler struct {
	*BaseHandler
	statsService     *stats.Service
	inventoryService *inventory.Service
	userRepo         users.Repository
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(
	base *BaseHandler,
	statsService *stats.Service,
	inventoryService *inventory.Service,
	userRepo users.Repository,
) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler:      base,
		statsService:     statsService,
		inventoryService: inventoryService,
		userRepo:         userRepo,
	}
}

// RegisterRoutes registers report endpoints.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/series", h.Series)
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/grouped", h.Grouped)
}

// Series handles GET /reports/series?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *ReportsHandler) Series(c *gin.Context) {
	var query dto.RangeQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	series, err := h.statsService.ComputeSeries(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSeries(series))
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	var query dto.RangeQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	dashboard, err := h.statsService.Dashboard(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDashboard(dashboard))
}

// Grouped handles GET /reports/grouped. It groups the caller's visible
// items by short code and owner. Optional query params: search (code or
// description substring), owner (account ID, admin only since non-admins
// already see just their own items).
func (h *ReportsHandler) Grouped(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.inventoryService.ListItems(ctx, c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if owner := c.Query("owner"); owner != "" {
		ownerID, err := id.Parse(owner)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid owner id").WithDetail("owner", owner))
			return
		}
		filtered := items[:0]
		for _, item := range items {
			if item.CreatedBy == ownerID {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	accounts, err := h.userRepo.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	names := make(map[id.ID]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Username
	}

	var total int64
	for _, item := range items {
		total += item.Quantity
	}

	resp := dto.FromGroupedReport(reporting.GroupItems(items, names))
	resp.Items = dto.FromItems(items)
	resp.TotalQuantity = total
	h.OK(c, resp)
}
