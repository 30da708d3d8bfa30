package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Healthcheck(t *testing.T) {
	handler := NewHealthHandler(func(c *gin.Context) error { return nil })
	router := gin.New()
	router.GET("/api/health", handler.Healthcheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHealthHandler_Readiness(t *testing.T) {
	handler := NewHealthHandler(func(c *gin.Context) error { return nil })
	router := gin.New()
	router.GET("/api/ready", handler.Readiness)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/ready", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness_DatabaseDown(t *testing.T) {
	handler := NewHealthHandler(func(c *gin.Context) error { return errors.New("connection refused") })
	router := gin.New()
	router.GET("/api/ready", handler.Readiness)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/ready", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database unreachable")
}
