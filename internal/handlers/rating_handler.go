package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
)

// RatingHandler handles admin rating listing and overrides
type RatingHandler struct {
	service services.RatingServiceInterface
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(service services.RatingServiceInterface) *RatingHandler {
	return &RatingHandler{service: service}
}

// parseRatingFilter reads the shared listing query parameters
func parseRatingFilter(c *gin.Context) models.RatingFilter {
	var filter models.RatingFilter
	filter.TechnicianID, _ = strconv.ParseInt(c.Query("technician_id"), 10, 64)
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.EndDate = &end
		}
	}

	return filter
}

// List handles GET /api/admin/ratings
func (h *RatingHandler) List(c *gin.Context) {
	page, err := h.service.ListRatings(c.Request.Context(), parseRatingFilter(c))
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Ratings", page)
}

// Get handles GET /api/admin/ratings/:id
func (h *RatingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rating, answers, err := h.service.GetRating(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Rating", gin.H{"rating": rating, "answers": answers})
}

// Override handles PUT /api/admin/ratings/:id/override
func (h *RatingHandler) Override(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	adminID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req models.OverrideRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	rating, err := h.service.OverrideRating(c.Request.Context(), id, adminID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Rating override applied", rating)
}
