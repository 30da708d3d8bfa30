package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
)

// LinkHandler handles admin rating link requests
type LinkHandler struct {
	service services.LinkServiceInterface
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(service services.LinkServiceInterface) *LinkHandler {
	return &LinkHandler{service: service}
}

// Create handles POST /api/admin/rating-links
func (h *LinkHandler) Create(c *gin.Context) {
	adminID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req models.CreateRatingLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.service.Issue(c.Request.Context(), adminID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	status := http.StatusCreated
	message := "Rating link created and emailed"
	if resp.Action == models.LinkActionUpdated {
		status = http.StatusOK
		message = "Existing rating link refreshed and re-emailed"
	}
	respondSuccess(c, status, message, resp)
}

// List handles GET /api/admin/rating-links
func (h *LinkHandler) List(c *gin.Context) {
	filter := models.RatingLinkFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Rating links", page)
}
