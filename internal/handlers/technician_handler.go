package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/middleware"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
)

// TechnicianHandler handles admin technician management requests
type TechnicianHandler struct {
	service services.TechnicianServiceInterface
}

// NewTechnicianHandler creates a new technician handler
func NewTechnicianHandler(service services.TechnicianServiceInterface) *TechnicianHandler {
	return &TechnicianHandler{service: service}
}

// pathID parses a numeric :id path parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return id, true
}

// sessionUserID returns the authenticated caller's id
func sessionUserID(c *gin.Context) (int64, bool) {
	claims, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Authentication required", err)
		return 0, false
	}
	return claims.UserID, true
}

// List handles GET /api/admin/technicians
func (h *TechnicianHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	technicians, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Technicians", gin.H{"technicians": technicians})
}

// Get handles GET /api/admin/technicians/:id
func (h *TechnicianHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	technician, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Technician", technician)
}

// Create handles POST /api/admin/technicians
func (h *TechnicianHandler) Create(c *gin.Context) {
	var req models.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	technician, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Technician created", technician)
}

// Update handles PUT /api/admin/technicians/:id
func (h *TechnicianHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	technician, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Technician updated", technician)
}

// Delete handles DELETE /api/admin/technicians/:id
func (h *TechnicianHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Technician deactivated", nil)
}

// AdjustPoints handles POST /api/admin/technicians/:id/adjust-points
func (h *TechnicianHandler) AdjustPoints(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	adminID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req models.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	technician, err := h.service.AdjustPoints(c.Request.Context(), id, adminID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Points adjusted", technician)
}

// PointHistory handles GET /api/admin/technicians/:id/point-history
func (h *TechnicianHandler) PointHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	history, err := h.service.PointHistory(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Point history", history)
}
