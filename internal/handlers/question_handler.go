package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
)

// QuestionHandler handles admin question management requests
type QuestionHandler struct {
	service services.QuestionServiceInterface
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(service services.QuestionServiceInterface) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// List handles GET /api/admin/questions
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Questions", gin.H{"questions": questions})
}

// ListInactive handles GET /api/admin/questions/inactive
func (h *QuestionHandler) ListInactive(c *gin.Context) {
	questions, err := h.service.ListInactive(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Inactive questions", gin.H{"questions": questions})
}

// Create handles POST /api/admin/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	question, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Question created", question)
}

// Update handles PUT /api/admin/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	question, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Question updated", question)
}

// Delete handles DELETE /api/admin/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, err)
		return
	}

	message := "Question deleted"
	if result.ActionTaken == models.QuestionDeactivated {
		message = "Question deactivated because it has recorded answers"
	}
	respondSuccess(c, http.StatusOK, message, result)
}
