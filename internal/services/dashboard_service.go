package services

import (
	"context"
	"time"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
)

const (
	recentRatingsLimit  = 10
	topTechniciansLimit = 5
	trendMonths         = 6
)

// DashboardService assembles the admin and technician dashboard payloads
type DashboardService struct {
	leaderboardRepo repository.LeaderboardRepositoryInterface
	ratingRepo      repository.RatingRepositoryInterface
	techRepo        repository.TechnicianRepositoryInterface
	pointsRepo      repository.PointsRepositoryInterface
	settingsRepo    repository.SettingsRepositoryInterface
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(leaderboardRepo repository.LeaderboardRepositoryInterface, ratingRepo repository.RatingRepositoryInterface,
	techRepo repository.TechnicianRepositoryInterface, pointsRepo repository.PointsRepositoryInterface,
	settingsRepo repository.SettingsRepositoryInterface) *DashboardService {
	return &DashboardService{
		leaderboardRepo: leaderboardRepo,
		ratingRepo:      ratingRepo,
		techRepo:        techRepo,
		pointsRepo:      pointsRepo,
		settingsRepo:    settingsRepo,
	}
}

func currentMonthWindow() (time.Time, time.Time) {
	now := time.Now().UTC()
	return monthWindow(now.Year(), int(now.Month()))
}

// AdminDashboard builds the admin landing payload for the current month
func (s *DashboardService) AdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	start, end := currentMonthWindow()

	stats, err := s.leaderboardRepo.DashboardStats(ctx, start, end)
	if err != nil {
		return nil, err
	}

	recent, err := s.ratingRepo.Recent(ctx, recentRatingsLimit)
	if err != nil {
		return nil, err
	}

	top, err := s.leaderboardRepo.TopTechnicians(ctx, start, end, topTechniciansLimit)
	if err != nil {
		return nil, err
	}

	return &models.AdminDashboard{
		Stats:          *stats,
		RecentRatings:  recent,
		TopTechnicians: top,
	}, nil
}

// TechnicianDashboard builds the technician landing payload
func (s *DashboardService) TechnicianDashboard(ctx context.Context, technicianID int64) (*models.TechnicianDashboard, error) {
	tech, err := s.techRepo.GetByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	scoring, err := s.settingsRepo.Scoring(ctx)
	if err != nil {
		return nil, err
	}

	lifetime, err := s.leaderboardRepo.TechnicianLifetime(ctx, technicianID, scoring.PassPercentage)
	if err != nil {
		return nil, err
	}

	start, end := currentMonthWindow()
	month, err := s.leaderboardRepo.TechnicianMonth(ctx, technicianID, start, end, scoring.PassPercentage)
	if err != nil {
		return nil, err
	}

	rank, total, err := s.leaderboardRepo.TechnicianRank(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	d := &models.TechnicianDashboard{}
	d.Technician.ID = tech.ID
	d.Technician.Name = tech.Name
	d.Technician.Email = tech.Email
	d.Technician.EmployeeID = tech.EmployeeID
	d.Summary.TotalPoints = tech.TotalPoints
	d.Summary.TotalRatings = lifetime.TotalRatings
	d.Summary.AveragePercentage = lifetime.AveragePercentage
	d.Summary.CurrentRank = rank
	d.Summary.TotalTechnicians = total
	d.ThisMonth.RatingsCount = month.RatingsCount
	d.ThisMonth.GoodRatings = month.GoodRatings
	d.ThisMonth.BadRatings = month.BadRatings
	d.ThisMonth.PerformancePercentage = month.AvgPercent
	d.ThisMonth.PointsEarned = month.PointsEarned

	return d, nil
}

// TechnicianProfile builds the technician profile payload with a recent
// monthly trend
func (s *DashboardService) TechnicianProfile(ctx context.Context, technicianID int64) (*models.TechnicianProfile, error) {
	tech, err := s.techRepo.GetByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	scoring, err := s.settingsRepo.Scoring(ctx)
	if err != nil {
		return nil, err
	}

	lifetime, err := s.leaderboardRepo.TechnicianLifetime(ctx, technicianID, scoring.PassPercentage)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, -trendMonths, 0)
	trend, err := s.leaderboardRepo.TechnicianTrend(ctx, technicianID, since, scoring.PassPercentage)
	if err != nil {
		return nil, err
	}

	p := &models.TechnicianProfile{
		Technician:        tech,
		RecentPerformance: trend,
	}
	p.Statistics.TotalPoints = tech.TotalPoints
	p.Statistics.TotalRatings = lifetime.TotalRatings
	p.Statistics.AveragePercentage = lifetime.AveragePercentage
	p.Statistics.GoodRatingsCount = lifetime.GoodRatings
	p.Statistics.PoorRatingsCount = lifetime.BadRatings

	return p, nil
}

// TechnicianPoints builds the technician points-tab payload
func (s *DashboardService) TechnicianPoints(ctx context.Context, technicianID int64, limit, offset int) (*models.TechnicianPoints, error) {
	tech, err := s.techRepo.GetByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	history, _, err := s.pointsRepo.History(ctx, technicianID, limit, offset)
	if err != nil {
		return nil, err
	}

	summary, err := s.pointsRepo.Summary(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	p := &models.TechnicianPoints{
		CurrentPoints:      tech.TotalPoints,
		AdjustmentsHistory: history,
	}
	p.Statistics.TotalAdjustments = summary.TotalAdjustments

	for _, h := range history {
		if h.PointsChange > 0 {
			p.Statistics.PositiveAdjustments++
		} else if h.PointsChange < 0 {
			p.Statistics.NegativeAdjustments++
		}
	}

	return p, nil
}
