package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktrack/internal/domain/inventory"
	"stocktrack/internal/infrastructure/http/v1/dto"
)

// ItemsHandler serves the item catalog and movement endpoints.
type ItemsHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(base *BaseHandler, service *inventory.Service) *ItemsHandler {
	return &ItemsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers item endpoints.
func (h *ItemsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/by-code/:shortCode", h.LookupByShortCode)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/movements", h.ListMovements)
	rg.POST("/:id/movements", h.ApplyMovement)
}

// List handles GET /items. Non-admins see only their own items.
func (h *ItemsHandler) List(c *gin.Context) {
	items, err := h.service.ListItems(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.FromItems(items)))
}

// Create handles POST /items.
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), inventory.CreateItemInput{
		ShortCode:   req.ShortCode,
		FullCode:    req.FullCode,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item.ID.String())
}

// Get handles GET /items/:id.
func (h *ItemsHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(item))
}

// LookupByShortCode handles GET /items/by-code/:shortCode.
func (h *ItemsHandler) LookupByShortCode(c *gin.Context) {
	item, err := h.service.LookupByShortCode(c.Request.Context(), c.Param("shortCode"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(item))
}

// Update handles PUT /items/:id.
func (h *ItemsHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), itemID, inventory.UpdateItemInput{
		ShortCode:   req.ShortCode,
		FullCode:    req.FullCode,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(item))
}

// Delete handles DELETE /items/:id.
func (h *ItemsHandler) Delete(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListMovements handles GET /items/:id/movements.
func (h *ItemsHandler) ListMovements(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	movements, err := h.service.ListMovements(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.FromMovements(movements)))
}

// ApplyMovement handles POST /items/:id/movements.
func (h *ItemsHandler) ApplyMovement(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ApplyMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := inventory.MovementInput{
		ItemID:    itemID,
		Direction: inventory.Direction(req.Direction),
		Quantity:  req.Quantity,
		Note:      req.Note,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}

	movement, item, err := h.service.ApplyMovement(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ApplyMovementResponse{
		Movement: dto.FromMovement(movement),
		Item:     dto.FromItem(item),
	})
}
