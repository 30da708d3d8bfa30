package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ctecg/score-api/internal/models"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func publicRouter(ratings *MockRatingService, settings *MockSettingsService, leaderboard *MockLeaderboardService) *gin.Engine {
	handler := NewPublicHandler(ratings, settings, leaderboard)
	router := gin.New()
	public := router.Group("/api/public")
	{
		public.GET("/info", handler.Info)
		public.GET("/leaderboard", handler.Leaderboard)
		public.GET("/rating/:token", handler.GetRatingForm)
		public.POST("/rating/:token", handler.SubmitRating)
		public.GET("/rating/:token/status", handler.RatingStatus)
	}
	return router
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestPublicHandler_GetRatingForm(t *testing.T) {
	ratings := new(MockRatingService)
	router := publicRouter(ratings, new(MockSettingsService), new(MockLeaderboardService))

	form := &models.RatingFormData{
		ClientInfo: models.ClientInfo{Name: "Jane Client"},
		Questions:  []models.PublicQuestion{{ID: 1, Text: "Was the technician on time?"}},
	}
	ratings.On("GetForm", mock.Anything, "abc123").Return(form, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/public/rating/abc123", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.NotEmpty(t, env.Timestamp)
	ratings.AssertExpectations(t)
}

func TestPublicHandler_GetRatingForm_UnknownToken(t *testing.T) {
	ratings := new(MockRatingService)
	router := publicRouter(ratings, new(MockSettingsService), new(MockLeaderboardService))

	ratings.On("GetForm", mock.Anything, "nope").Return(nil, apperrors.NotFoundError("rating link")).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/public/rating/nope", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestPublicHandler_GetRatingForm_UsedToken(t *testing.T) {
	ratings := new(MockRatingService)
	router := publicRouter(ratings, new(MockSettingsService), new(MockLeaderboardService))

	ratings.On("GetForm", mock.Anything, "used").Return(nil, apperrors.GoneError("rating link already used")).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/public/rating/used", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestPublicHandler_SubmitRating(t *testing.T) {
	ratings := new(MockRatingService)
	router := publicRouter(ratings, new(MockSettingsService), new(MockLeaderboardService))

	resp := &models.SubmitRatingResponse{RatingID: "100", TotalScore: 9, MaxScore: 10, Percentage: 90, PointsAwarded: 10}
	ratings.On("Submit", mock.Anything, "abc123", mock.MatchedBy(func(req *models.SubmitRatingRequest) bool {
		return req.Answers["1"] == 5 && req.Answers["2"] == 4
	})).Return(resp, nil).Once()

	w := httptest.NewRecorder()
	body := `{"answers":{"1":5,"2":4},"comments":"great service"}`
	req := httptest.NewRequest("POST", "/api/public/rating/abc123", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Rating submitted", env.Message)
	ratings.AssertExpectations(t)
}

func TestPublicHandler_SubmitRating_MissingAnswers(t *testing.T) {
	ratings := new(MockRatingService)
	router := publicRouter(ratings, new(MockSettingsService), new(MockLeaderboardService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/public/rating/abc123", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ratings.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublicHandler_SubmitRating_ConsumedLink(t *testing.T) {
	ratings := new(MockRatingService)
	router := publicRouter(ratings, new(MockSettingsService), new(MockLeaderboardService))

	ratings.On("Submit", mock.Anything, "abc123", mock.Anything).
		Return(nil, apperrors.ConflictError("rating link already used")).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/public/rating/abc123", strings.NewReader(`{"answers":{"1":5}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestPublicHandler_Leaderboard(t *testing.T) {
	leaderboard := new(MockLeaderboardService)
	router := publicRouter(new(MockRatingService), new(MockSettingsService), leaderboard)

	lb := &models.Leaderboard{Period: models.LeaderboardPeriod{Year: 2026, Month: 3, MonthName: "March"}}
	leaderboard.On("Build", mock.Anything, models.LeaderboardParams{Year: 2026, Month: 3, Limit: 10}).Return(lb, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/public/leaderboard?year=2026&month=3&limit=10", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	leaderboard.AssertExpectations(t)
}

func TestPublicHandler_Info(t *testing.T) {
	settings := new(MockSettingsService)
	router := publicRouter(new(MockRatingService), settings, new(MockLeaderboardService))

	settings.On("SystemInfo", mock.Anything).Return(&models.SystemInfo{CompanyName: "Ctecg"}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/public/info", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	data, ok := env.Data.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Ctecg", data["company_name"])
}
