package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func authRouter(service *MockAuthService) *gin.Engine {
	handler := NewAuthHandler(service)
	router := gin.New()
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", handler.Login)
		auth.POST("/create-password", handler.CreatePassword)
		auth.POST("/forgot-password", handler.ForgotPassword)
		auth.POST("/reset-password", handler.ResetPassword)
		auth.POST("/logout", handler.Logout)
	}
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login_Success(t *testing.T) {
	service := new(MockAuthService)
	router := authRouter(service)

	login := &models.LoginResponse{Token: "jwt-token", User: models.SessionUser{ID: 1, UserType: models.UserTypeAdmin}}
	service.On("Login", mock.Anything, mock.MatchedBy(func(req *models.LoginRequest) bool {
		return req.Email == "admin@example.com" && req.UserType == models.UserTypeAdmin
	})).Return(login, nil, nil).Once()

	w := postJSON(router, "/api/auth/login", `{"email":"admin@example.com","password":"secret-pass","user_type":"admin"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Login successful", env.Message)
	service.AssertExpectations(t)
}

func TestAuthHandler_Login_NeedsPasswordCreation(t *testing.T) {
	service := new(MockAuthService)
	router := authRouter(service)

	creation := &models.PasswordCreationResponse{RequiresPasswordCreation: true, UserID: 7, UserType: models.UserTypeTechnician}
	service.On("Login", mock.Anything, mock.Anything).Return(nil, creation, nil).Once()

	w := postJSON(router, "/api/auth/login", `{"email":"sipho@example.com","password":"anything","user_type":"technician"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Password creation required", env.Message)

	data := env.Data.(map[string]any)
	assert.Equal(t, true, data["requires_password_creation"])
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	service := new(MockAuthService)
	router := authRouter(service)

	service.On("Login", mock.Anything, mock.Anything).Return(nil, nil, services.ErrInvalidCredentials).Once()

	w := postJSON(router, "/api/auth/login", `{"email":"admin@example.com","password":"wrong","user_type":"admin"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	service := new(MockAuthService)
	router := authRouter(service)

	w := postJSON(router, "/api/auth/login", `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_CreatePassword_AlreadySet(t *testing.T) {
	service := new(MockAuthService)
	router := authRouter(service)

	service.On("CreatePassword", mock.Anything, mock.Anything).Return(nil, services.ErrPasswordAlreadySet).Once()

	w := postJSON(router, "/api/auth/create-password",
		`{"user_id":7,"user_type":"technician","password":"new-password-1","confirm_password":"new-password-1"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_CreatePassword_MismatchedConfirmation(t *testing.T) {
	service := new(MockAuthService)
	router := authRouter(service)

	w := postJSON(router, "/api/auth/create-password",
		`{"user_id":7,"user_type":"technician","password":"new-password-1","confirm_password":"different"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "CreatePassword", mock.Anything, mock.Anything)
}

func TestAuthHandler_ForgotPassword_AlwaysSucceeds(t *testing.T) {
	service := new(MockAuthService)
	router := authRouter(service)

	service.On("ForgotPassword", mock.Anything, mock.Anything).Return(nil).Once()

	w := postJSON(router, "/api/auth/forgot-password", `{"email":"ghost@example.com","user_type":"admin"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "If the account exists, a reset email has been sent", env.Message)
}

func TestAuthHandler_ResetPassword_ExpiredToken(t *testing.T) {
	service := new(MockAuthService)
	router := authRouter(service)

	service.On("ResetPassword", mock.Anything, mock.Anything).Return(apperrors.GoneError("password reset token")).Once()

	w := postJSON(router, "/api/auth/reset-password",
		`{"token":"stale","password":"new-password-1","confirm_password":"new-password-1"}`)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	router := authRouter(new(MockAuthService))

	w := postJSON(router, "/api/auth/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
}
