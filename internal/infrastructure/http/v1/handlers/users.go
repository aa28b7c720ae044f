package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktrack/internal/domain/users"
	"stocktrack/internal/infrastructure/http/v1/dto"
)

// UsersHandler serves the admin account management endpoints.
type UsersHandler struct {
	*BaseHandler
	service *users.Service
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(base *BaseHandler, service *users.Service) *UsersHandler {
	return &UsersHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers account endpoints. The group is expected to be
// behind the admin middleware.
func (h *UsersHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/active", h.SetActive)
}

// List handles GET /users.
func (h *UsersHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.FromUsers(list)))
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Create(c.Request.Context(), users.CreateInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user.ID.String())
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(user))
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Update(c.Request.Context(), userID, users.UpdateInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(user))
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// SetActive handles PATCH /users/:id/active to block or unblock an account.
func (h *UsersHandler) SetActive(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetActive(c.Request.Context(), userID, *req.IsActive); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "account updated")
}
