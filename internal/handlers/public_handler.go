package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
)

// PublicHandler handles the unauthenticated endpoints: system info, the
// token-addressed rating form and the public leaderboard
type PublicHandler struct {
	ratings     services.RatingServiceInterface
	settings    services.SettingsServiceInterface
	leaderboard services.LeaderboardServiceInterface
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(ratings services.RatingServiceInterface, settings services.SettingsServiceInterface,
	leaderboard services.LeaderboardServiceInterface) *PublicHandler {
	return &PublicHandler{ratings: ratings, settings: settings, leaderboard: leaderboard}
}

// Info handles GET /api/public/info
func (h *PublicHandler) Info(c *gin.Context) {
	info, err := h.settings.SystemInfo(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "System info", info)
}

// GetRatingForm handles GET /api/public/rating/:token
func (h *PublicHandler) GetRatingForm(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondError(c, http.StatusBadRequest, "Missing rating token", nil)
		return
	}

	form, err := h.ratings.GetForm(c.Request.Context(), token)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Rating form", form)
}

// SubmitRating handles POST /api/public/rating/:token
func (h *PublicHandler) SubmitRating(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondError(c, http.StatusBadRequest, "Missing rating token", nil)
		return
	}

	var req models.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.ratings.Submit(c.Request.Context(), token, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Rating submitted", resp)
}

// RatingStatus handles GET /api/public/rating/:token/status
func (h *PublicHandler) RatingStatus(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondError(c, http.StatusBadRequest, "Missing rating token", nil)
		return
	}

	status, err := h.ratings.Status(c.Request.Context(), token)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Rating link status", status)
}

// leaderboardParams parses the shared year/month/limit query parameters
func leaderboardParams(c *gin.Context) models.LeaderboardParams {
	var params models.LeaderboardParams
	params.Year, _ = strconv.Atoi(c.Query("year"))
	params.Month, _ = strconv.Atoi(c.Query("month"))
	params.Limit, _ = strconv.Atoi(c.Query("limit"))
	return params
}

// Leaderboard handles GET /api/public/leaderboard
func (h *PublicHandler) Leaderboard(c *gin.Context) {
	lb, err := h.leaderboard.Build(c.Request.Context(), leaderboardParams(c))
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Leaderboard", lb)
}
