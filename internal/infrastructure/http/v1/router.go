// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stocktrack/internal/domain/auth"
	"stocktrack/internal/domain/inventory"
	"stocktrack/internal/domain/stats"
	"stocktrack/internal/domain/users"
	"stocktrack/internal/infrastructure/http/v1/handlers"
	"stocktrack/internal/infrastructure/http/v1/middleware"
	"stocktrack/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Services
	AuthService      *auth.Service
	UserService      *users.Service
	InventoryService *inventory.Service
	StatsService     *stats.Service

	// UserRepo backs /auth/me and report owner-name resolution.
	UserRepo users.Repository

	// Database pools for readiness checks
	UsersPool *pgxpool.Pool
	StockPool *pgxpool.Pool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.UsersPool, cfg.StockPool)
	healthHandler.RegisterRoutes(router.Group("/health"))

	baseHandler := handlers.NewBaseHandler()

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService, cfg.UserRepo)
		publicAuth := apiV1.Group("/auth")
		protectedAuth := apiV1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		itemsHandler := handlers.NewItemsHandler(baseHandler, cfg.InventoryService)
		itemsHandler.RegisterRoutes(protected.Group("/items"))

		reportsHandler := handlers.NewReportsHandler(baseHandler, cfg.StatsService, cfg.InventoryService, cfg.UserRepo)
		reportsHandler.RegisterRoutes(protected.Group("/reports"))

		// Account management is admin-only
		usersHandler := handlers.NewUsersHandler(baseHandler, cfg.UserService)
		adminUsers := protected.Group("/users")
		adminUsers.Use(middleware.RequireAdmin())
		usersHandler.RegisterRoutes(adminUsers)
	}

	return router
}
