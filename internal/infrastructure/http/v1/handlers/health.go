package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	usersPool *pgxpool.Pool
	stockPool *pgxpool.Pool
}

// NewHealthHandler creates a new health handler over both database pools.
func NewHealthHandler(usersPool, stockPool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{
		usersPool: usersPool,
		stockPool: stockPool,
	}
}

// RegisterRoutes registers health endpoints.
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Live)
	rg.GET("/ready", h.Ready)
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports readiness of both databases.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	healthy := true

	if err := h.usersPool.Ping(ctx); err != nil {
		checks["users_db"] = err.Error()
		healthy = false
	} else {
		checks["users_db"] = "ok"
	}

	if err := h.stockPool.Ping(ctx); err != nil {
		checks["stock_db"] = err.Error()
		healthy = false
	} else {
		checks["stock_db"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"checks": checks})
}
