package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/services"
)

// TechnicianAppHandler handles the technician-facing endpoints. Every
// operation is scoped to the session's own technician id; there is no way
// to reach another technician's data through this surface.
type TechnicianAppHandler struct {
	dashboards  services.DashboardServiceInterface
	ratings     services.RatingServiceInterface
	leaderboard services.LeaderboardServiceInterface
}

// NewTechnicianAppHandler creates a new technician app handler
func NewTechnicianAppHandler(dashboards services.DashboardServiceInterface,
	ratings services.RatingServiceInterface, leaderboard services.LeaderboardServiceInterface) *TechnicianAppHandler {
	return &TechnicianAppHandler{dashboards: dashboards, ratings: ratings, leaderboard: leaderboard}
}

// Dashboard handles GET /api/technician/dashboard
func (h *TechnicianAppHandler) Dashboard(c *gin.Context) {
	technicianID, ok := sessionUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboards.TechnicianDashboard(c.Request.Context(), technicianID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Dashboard", dashboard)
}

// Ratings handles GET /api/technician/ratings
func (h *TechnicianAppHandler) Ratings(c *gin.Context) {
	technicianID, ok := sessionUserID(c)
	if !ok {
		return
	}

	filter := parseRatingFilter(c)
	filter.TechnicianID = technicianID

	page, err := h.ratings.ListRatings(c.Request.Context(), filter)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Ratings", page)
}

// Points handles GET /api/technician/points
func (h *TechnicianAppHandler) Points(c *gin.Context) {
	technicianID, ok := sessionUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	points, err := h.dashboards.TechnicianPoints(c.Request.Context(), technicianID, limit, offset)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Points", points)
}

// Leaderboard handles GET /api/technician/leaderboard
func (h *TechnicianAppHandler) Leaderboard(c *gin.Context) {
	technicianID, ok := sessionUserID(c)
	if !ok {
		return
	}

	view, err := h.leaderboard.TechnicianView(c.Request.Context(), technicianID, leaderboardParams(c))
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Leaderboard", view)
}

// Profile handles GET /api/technician/profile
func (h *TechnicianAppHandler) Profile(c *gin.Context) {
	technicianID, ok := sessionUserID(c)
	if !ok {
		return
	}

	profile, err := h.dashboards.TechnicianProfile(c.Request.Context(), technicianID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Profile", profile)
}
