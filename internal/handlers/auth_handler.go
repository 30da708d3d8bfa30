package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctecg/score-api/internal/middleware"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	service services.AuthServiceInterface
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, needsPassword, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	if needsPassword != nil {
		respondSuccess(c, http.StatusOK, "Password creation required", needsPassword)
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", session)
}

// CreatePassword handles POST /api/auth/create-password
func (h *AuthHandler) CreatePassword(c *gin.Context) {
	var req models.CreatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, err := h.service.CreatePassword(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Password created", session)
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "If the account exists, a reset email has been sent", nil)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Password reset successful", nil)
}

// Logout handles POST /api/auth/logout. Sessions are stateless JWTs, so
// this just acknowledges; the client discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	respondSuccess(c, http.StatusOK, "Logged out", nil)
}

// Verify handles GET /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	claims, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Session valid", models.SessionUser{
		ID:       claims.UserID,
		Name:     claims.Name,
		Email:    claims.Email,
		UserType: claims.UserType,
	})
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	claims, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	user, err := h.service.Profile(c.Request.Context(), claims)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Profile", user)
}
