package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func standings() []*models.LeaderboardEntry {
	return []*models.LeaderboardEntry{
		{ID: 1, Name: "Sipho", TotalPoints: 120, RatingsThisMonth: 4, PointsThisMonth: 40, PointsGained: 40, AvgPercentThisMonth: "95.00", RankPosition: 1},
		{ID: 2, Name: "Thandi", TotalPoints: 90, RatingsThisMonth: 3, PointsThisMonth: 30, PointsGained: 30, AvgPercentThisMonth: "85.00", RankPosition: 2},
		{ID: 3, Name: "Johan", TotalPoints: 60, RatingsThisMonth: 2, PointsThisMonth: 5, PointsGained: 20, AvgPercentThisMonth: "70.00", RankPosition: 3},
		{ID: 4, Name: "Pieter", TotalPoints: 20, RatingsThisMonth: 2, PointsThisMonth: -10, PointsGained: 0, AvgPercentThisMonth: "40.00", RankPosition: 4},
		{ID: 5, Name: "Lerato", TotalPoints: 0, RatingsThisMonth: 0, PointsThisMonth: 0, PointsGained: 0, AvgPercentThisMonth: "0", RankPosition: 5},
	}
}

func newLeaderboardService(t *testing.T) (*services.LeaderboardService, *MockLeaderboardRepository, *MockSettingsRepository, *MockLeaderboardCache) {
	t.Helper()
	lbRepo := new(MockLeaderboardRepository)
	settingsRepo := new(MockSettingsRepository)
	lbCache := new(MockLeaderboardCache)
	return services.NewLeaderboardService(lbRepo, settingsRepo, lbCache, false), lbRepo, settingsRepo, lbCache
}

func TestLeaderboardService_Build(t *testing.T) {
	svc, lbRepo, settingsRepo, lbCache := newLeaderboardService(t)
	ctx := context.Background()

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	lbCache.On("Get", 2026, 3, 50).Return(nil, false).Once()
	settingsRepo.On("Scoring", ctx).Return(defaultScoring(), nil).Once()
	lbRepo.On("Standings", ctx, start, end, 80.0).Return(standings(), nil).Once()
	lbCache.On("Set", 2026, 3, 50, mock.AnythingOfType("*models.Leaderboard")).Return().Once()

	lb, err := svc.Build(ctx, models.LeaderboardParams{Year: 2026, Month: 3})
	assert.NoError(t, err)
	assert.Len(t, lb.Leaderboard, 5)
	assert.Equal(t, models.PerformanceExcellent, lb.Leaderboard[0].PerformanceLevel)
	assert.Equal(t, models.PerformanceGood, lb.Leaderboard[1].PerformanceLevel)
	assert.Equal(t, models.PerformanceAverage, lb.Leaderboard[2].PerformanceLevel)
	assert.Equal(t, models.PerformanceNeedsWork, lb.Leaderboard[3].PerformanceLevel)
	assert.Equal(t, models.PerformanceNoRatings, lb.Leaderboard[4].PerformanceLevel)

	assert.Len(t, lb.Leaders, 3)
	assert.Equal(t, "Sipho", lb.Leaders[0].Name)
	assert.Len(t, lb.Trailers, 3)
	assert.Equal(t, "Lerato", lb.Trailers[2].Name)

	assert.Equal(t, int64(5), lb.Summary.TotalActiveTechnicians)
	assert.Equal(t, int64(11), lb.Summary.TotalRatingsThisMonth)
	assert.Equal(t, int64(90), lb.Summary.TotalPointsAwarded)
	assert.Equal(t, int64(40), lb.Summary.HighestMonthlyPoints)
	assert.Equal(t, int64(-10), lb.Summary.LowestMonthlyPoints)
	assert.Equal(t, "72.50", lb.Summary.OverallAvgPercentage)

	assert.Equal(t, "March", lb.Period.MonthName)
	lbRepo.AssertExpectations(t)
	lbCache.AssertExpectations(t)
}

func TestLeaderboardService_Build_ServesFromCache(t *testing.T) {
	svc, lbRepo, _, lbCache := newLeaderboardService(t)
	ctx := context.Background()

	cached := &models.Leaderboard{Period: models.LeaderboardPeriod{Year: 2026, Month: 3}}
	lbCache.On("Get", 2026, 3, 50).Return(cached, true).Once()

	lb, err := svc.Build(ctx, models.LeaderboardParams{Year: 2026, Month: 3})
	assert.NoError(t, err)
	assert.Equal(t, cached, lb)
	lbRepo.AssertNotCalled(t, "Standings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboardService_Build_InvalidMonth(t *testing.T) {
	svc, _, _, _ := newLeaderboardService(t)

	lb, err := svc.Build(context.Background(), models.LeaderboardParams{Year: 2026, Month: 13})
	assert.Nil(t, lb)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestLeaderboardService_Build_SmallFieldHasNoTrailers(t *testing.T) {
	svc, lbRepo, settingsRepo, lbCache := newLeaderboardService(t)
	ctx := context.Background()

	short := standings()[:2]
	lbCache.On("Get", 2026, 3, 50).Return(nil, false).Once()
	settingsRepo.On("Scoring", ctx).Return(defaultScoring(), nil).Once()
	lbRepo.On("Standings", ctx, mock.Anything, mock.Anything, 80.0).Return(short, nil).Once()
	lbCache.On("Set", 2026, 3, 50, mock.Anything).Return().Once()

	lb, err := svc.Build(ctx, models.LeaderboardParams{Year: 2026, Month: 3})
	assert.NoError(t, err)
	assert.Len(t, lb.Leaders, 2)
	assert.Empty(t, lb.Trailers)
}

func TestLeaderboardService_TechnicianView(t *testing.T) {
	svc, lbRepo, settingsRepo, lbCache := newLeaderboardService(t)
	ctx := context.Background()

	lbCache.On("Get", 2026, 3, 50).Return(nil, false).Once()
	settingsRepo.On("Scoring", ctx).Return(defaultScoring(), nil).Once()
	lbRepo.On("Standings", ctx, mock.Anything, mock.Anything, 80.0).Return(standings(), nil).Once()
	lbCache.On("Set", 2026, 3, 50, mock.Anything).Return().Once()

	view, err := svc.TechnicianView(ctx, 3, models.LeaderboardParams{Year: 2026, Month: 3})
	assert.NoError(t, err)
	assert.Len(t, view.Leaderboard, 5)
	assert.False(t, view.Leaderboard[0].IsCurrentUser)
	assert.True(t, view.Leaderboard[2].IsCurrentUser)
	assert.Equal(t, 3, view.CurrentUserPosition.Rank)
	assert.Equal(t, int64(60), view.CurrentUserPosition.TotalPoints)
	assert.Equal(t, int64(60), view.CurrentUserPosition.PointsToFirst)
	assert.Equal(t, 5, view.CurrentUserPosition.TotalTechnicians)
}
