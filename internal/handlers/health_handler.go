package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers liveness and readiness probes
type HealthHandler struct {
	dbPing func(c *gin.Context) error
}

// NewHealthHandler creates a new health handler. dbPing checks database
// connectivity for the readiness probe.
func NewHealthHandler(dbPing func(c *gin.Context) error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing}
}

// Healthcheck handles GET /health
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// Readiness handles GET /ready
func (h *HealthHandler) Readiness(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if err := h.dbPing(c); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
