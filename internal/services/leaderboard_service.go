package services

import (
	"context"
	"strconv"
	"time"

	"github.com/ctecg/score-api/internal/cache"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/ctecg/score-api/pkg/metrics"
)

const (
	defaultLeaderboardLimit = 50
	podiumSize              = 3
)

// LeaderboardService builds the ranked monthly standings
type LeaderboardService struct {
	leaderboardRepo repository.LeaderboardRepositoryInterface
	settingsRepo    repository.SettingsRepositoryInterface
	cache           cache.LeaderboardCacheInterface
	cacheDisabled   bool
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(leaderboardRepo repository.LeaderboardRepositoryInterface, settingsRepo repository.SettingsRepositoryInterface,
	lbCache cache.LeaderboardCacheInterface, cacheDisabled bool) *LeaderboardService {
	return &LeaderboardService{
		leaderboardRepo: leaderboardRepo,
		settingsRepo:    settingsRepo,
		cache:           lbCache,
		cacheDisabled:   cacheDisabled,
	}
}

// monthWindow returns the UTC bounds [start, end) of a calendar month
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func normalizeParams(params models.LeaderboardParams) (models.LeaderboardParams, error) {
	now := time.Now().UTC()
	if params.Year == 0 {
		params.Year = now.Year()
	}
	if params.Month == 0 {
		params.Month = int(now.Month())
	}
	if params.Month < 1 || params.Month > 12 {
		return params, apperrors.InvalidInputError("month", "month must be between 1 and 12")
	}
	if params.Year < 2000 || params.Year > now.Year()+1 {
		return params, apperrors.InvalidInputError("year", "year out of range")
	}
	if params.Limit < 1 || params.Limit > 200 {
		params.Limit = defaultLeaderboardLimit
	}
	return params, nil
}

func performanceLevel(entry *models.LeaderboardEntry) string {
	if entry.RatingsThisMonth == 0 {
		return models.PerformanceNoRatings
	}
	avg, err := strconv.ParseFloat(entry.AvgPercentThisMonth, 64)
	if err != nil {
		return models.PerformanceNoRatings
	}
	switch {
	case avg >= 90:
		return models.PerformanceExcellent
	case avg >= 80:
		return models.PerformanceGood
	case avg >= 60:
		return models.PerformanceAverage
	default:
		return models.PerformanceNeedsWork
	}
}

// Build returns the full standings for a period, served from cache when the
// period was computed recently
func (s *LeaderboardService) Build(ctx context.Context, params models.LeaderboardParams) (*models.Leaderboard, error) {
	params, err := normalizeParams(params)
	if err != nil {
		return nil, err
	}

	if !s.cacheDisabled {
		if lb, ok := s.cache.Get(params.Year, params.Month, params.Limit); ok {
			metrics.LeaderboardRequests.WithLabelValues("cached").Inc()
			return lb, nil
		}
	}

	scoring, err := s.settingsRepo.Scoring(ctx)
	if err != nil {
		return nil, err
	}

	start, end := monthWindow(params.Year, params.Month)
	entries, err := s.leaderboardRepo.Standings(ctx, start, end, scoring.PassPercentage)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		e.PerformanceLevel = performanceLevel(e)
	}

	lb := &models.Leaderboard{
		Leaderboard: entries,
		Summary:     summarize(entries),
		Period: models.LeaderboardPeriod{
			Year:           params.Year,
			Month:          params.Month,
			MonthName:      time.Month(params.Month).String(),
			IsCurrentMonth: params.Year == time.Now().UTC().Year() && params.Month == int(time.Now().UTC().Month()),
		},
	}

	if len(entries) > params.Limit {
		lb.Leaderboard = entries[:params.Limit]
	}
	lb.Leaders = head(entries, podiumSize)
	lb.Trailers = tail(entries, podiumSize)

	if !s.cacheDisabled {
		s.cache.Set(params.Year, params.Month, params.Limit, lb)
	}
	metrics.LeaderboardRequests.WithLabelValues("computed").Inc()

	return lb, nil
}

func head(entries []*models.LeaderboardEntry, n int) []*models.LeaderboardEntry {
	if len(entries) < n {
		n = len(entries)
	}
	return entries[:n]
}

func tail(entries []*models.LeaderboardEntry, n int) []*models.LeaderboardEntry {
	if len(entries) <= n {
		return []*models.LeaderboardEntry{}
	}
	return entries[len(entries)-n:]
}

func summarize(entries []*models.LeaderboardEntry) models.LeaderboardSummary {
	summary := models.LeaderboardSummary{
		TotalActiveTechnicians: int64(len(entries)),
		OverallAvgPercentage:   "0",
	}
	if len(entries) == 0 {
		return summary
	}

	var pctSum float64
	var rated int64
	summary.HighestMonthlyPoints = entries[0].PointsThisMonth
	summary.LowestMonthlyPoints = entries[0].PointsThisMonth

	for _, e := range entries {
		summary.TotalRatingsThisMonth += e.RatingsThisMonth
		summary.TotalPointsAwarded += e.PointsGained
		if e.PointsThisMonth > summary.HighestMonthlyPoints {
			summary.HighestMonthlyPoints = e.PointsThisMonth
		}
		if e.PointsThisMonth < summary.LowestMonthlyPoints {
			summary.LowestMonthlyPoints = e.PointsThisMonth
		}
		if e.RatingsThisMonth > 0 {
			if avg, err := strconv.ParseFloat(e.AvgPercentThisMonth, 64); err == nil {
				pctSum += avg
				rated++
			}
		}
	}

	if rated > 0 {
		summary.OverallAvgPercentage = strconv.FormatFloat(pctSum/float64(rated), 'f', 2, 64)
	}

	return summary
}

// TechnicianView returns the standings scoped to one technician, marking
// their row and locating them relative to first place
func (s *LeaderboardService) TechnicianView(ctx context.Context, technicianID int64, params models.LeaderboardParams) (*models.TechnicianLeaderboard, error) {
	lb, err := s.Build(ctx, params)
	if err != nil {
		return nil, err
	}

	view := &models.TechnicianLeaderboard{
		Leaderboard: make([]*models.LeaderboardEntry, 0, len(lb.Leaderboard)),
		Period:      lb.Period,
	}

	var first *models.LeaderboardEntry
	for i, e := range lb.Leaderboard {
		if i == 0 {
			first = e
		}
		row := *e
		row.IsCurrentUser = e.ID == technicianID
		view.Leaderboard = append(view.Leaderboard, &row)

		if row.IsCurrentUser {
			view.CurrentUserPosition = models.CurrentUserPosition{
				Rank:             e.RankPosition,
				TotalPoints:      e.TotalPoints,
				TotalTechnicians: len(lb.Leaderboard),
			}
			if first != nil {
				view.CurrentUserPosition.PointsToFirst = first.TotalPoints - e.TotalPoints
			}
		}
	}

	return view, nil
}
