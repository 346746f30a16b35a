package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HealthChecker reports on the shared database handle
type HealthChecker interface {
	Configured() bool
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves the unauthenticated health probe
type HealthHandler struct {
	db      HealthChecker
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{db: db, timeout: timeout}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "not configured"
	if h.db != nil && h.db.Configured() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		if err := h.db.HealthCheck(ctx); err != nil {
			log.Error().Err(err).Str("component", "health").Msg("database health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "down",
				"error":  "database unreachable",
			})
			return
		}
		status = "connected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"db":        status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
