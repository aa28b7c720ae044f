package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktrack/internal/core/apperror"
	appctx "stocktrack/internal/core/context"
	"stocktrack/internal/domain/auth"
	"stocktrack/internal/domain/users"
	"stocktrack/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	authService *auth.Service
	userRepo    users.Repository
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, authService *auth.Service, userRepo users.Repository) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		userRepo:    userRepo,
	}
}

// RegisterRoutes registers auth endpoints on public and protected groups.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	protected.GET("/me", h.Me)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, err := h.authService.Login(c.Request.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromToken(token))
}

// Me handles GET /auth/me and returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := appctx.GetUser(c.Request.Context())
	if actor == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUser(user))
}
