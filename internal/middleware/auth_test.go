package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/pkg/jwt"
	"github.com/ctecg/score-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Level: "debug", Environment: "development"}); err != nil {
		panic(err)
	}
}

func sessionRouter(tm *jwt.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{SessionMiddleware(tm)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "user_type": claims.UserType})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestSessionMiddleware_ValidToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "score-api-test", 1)
	token, err := tm.GenerateToken(7, "sipho@example.com", "Sipho", models.UserTypeTechnician)
	assert.NoError(t, err)

	router := sessionRouter(tm)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set(SessionTokenHeader, token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestSessionMiddleware_MissingToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "score-api-test", 1)

	router := sessionRouter(tm)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing session token")
}

func TestSessionMiddleware_GarbageToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "score-api-test", 1)

	router := sessionRouter(tm)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set(SessionTokenHeader, "not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid session token")
}

func TestSessionMiddleware_ExpiredToken(t *testing.T) {
	// Zero TTL issues a token that is already expired
	issuing := jwt.NewTokenManager("test-secret", "score-api-test", 0)
	token, err := issuing.GenerateToken(7, "sipho@example.com", "Sipho", models.UserTypeTechnician)
	assert.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	router := sessionRouter(jwt.NewTokenManager("test-secret", "score-api-test", 1))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set(SessionTokenHeader, token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Session expired")
}

func TestSessionMiddleware_WrongSecret(t *testing.T) {
	other := jwt.NewTokenManager("other-secret", "score-api-test", 1)
	token, err := other.GenerateToken(7, "sipho@example.com", "Sipho", models.UserTypeTechnician)
	assert.NoError(t, err)

	router := sessionRouter(jwt.NewTokenManager("test-secret", "score-api-test", 1))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set(SessionTokenHeader, token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_BlocksTechnician(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "score-api-test", 1)
	token, err := tm.GenerateToken(7, "sipho@example.com", "Sipho", models.UserTypeTechnician)
	assert.NoError(t, err)

	router := sessionRouter(tm, RequireAdmin())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set(SessionTokenHeader, token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "score-api-test", 1)
	token, err := tm.GenerateToken(1, "admin@example.com", "Admin", models.UserTypeAdmin)
	assert.NoError(t, err)

	router := sessionRouter(tm, RequireAdmin())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set(SessionTokenHeader, token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTechnician_BlocksAdmin(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "score-api-test", 1)
	token, err := tm.GenerateToken(1, "admin@example.com", "Admin", models.UserTypeAdmin)
	assert.NoError(t, err)

	router := sessionRouter(tm, RequireTechnician())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set(SessionTokenHeader, token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetSession_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	claims, err := GetSession(c)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
