package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
)

// DashboardHandler handles the admin dashboard, standings and settings
type DashboardHandler struct {
	dashboards  services.DashboardServiceInterface
	leaderboard services.LeaderboardServiceInterface
	settings    services.SettingsServiceInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards services.DashboardServiceInterface,
	leaderboard services.LeaderboardServiceInterface, settings services.SettingsServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, leaderboard: leaderboard, settings: settings}
}

// Dashboard handles GET /api/admin/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboards.AdminDashboard(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Dashboard", dashboard)
}

// Leaderboard handles GET /api/admin/leaderboard
func (h *DashboardHandler) Leaderboard(c *gin.Context) {
	lb, err := h.leaderboard.Build(c.Request.Context(), leaderboardParams(c))
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Leaderboard", lb)
}

// GetSettings handles GET /api/admin/settings
func (h *DashboardHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Settings", gin.H{"settings": settings})
}

// UpdateSettings handles PUT /api/admin/settings
func (h *DashboardHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Settings updated", gin.H{"settings": settings})
}
