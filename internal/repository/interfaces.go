package repository

import (
	"context"
	"time"

	"github.com/ctecg/score-api/internal/models"
)

// AdminRepositoryInterface defines data access for admin accounts and
// password resets
type AdminRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	SetPassword(ctx context.Context, id int64, passwordHash string) error
	CreatePasswordReset(ctx context.Context, userType string, userID int64, token string, expiresAt time.Time) error
	ConsumePasswordReset(ctx context.Context, token string) (userType string, userID int64, err error)
}

// TechnicianRepositoryInterface defines data access for technicians
type TechnicianRepositoryInterface interface {
	GetAll(ctx context.Context, includeInactive bool) ([]*models.Technician, error)
	GetByID(ctx context.Context, id int64) (*models.Technician, error)
	GetByEmail(ctx context.Context, email string) (*models.Technician, error)
	Create(ctx context.Context, req *models.CreateTechnicianRequest) (*models.Technician, error)
	Update(ctx context.Context, id int64, req *models.UpdateTechnicianRequest) (*models.Technician, error)
	Deactivate(ctx context.Context, id int64) error
	SetPassword(ctx context.Context, id int64, passwordHash string) error
	GetActiveByIDs(ctx context.Context, ids []int64) ([]*models.Technician, error)
}

// QuestionRepositoryInterface defines data access for survey questions
type QuestionRepositoryInterface interface {
	GetActive(ctx context.Context) ([]*models.Question, error)
	GetInactive(ctx context.Context) ([]*models.Question, error)
	GetByID(ctx context.Context, id int64) (*models.Question, error)
	Create(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error)
	Update(ctx context.Context, id int64, req *models.UpdateQuestionRequest) (*models.Question, error)
	CountAnswers(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
}

// RatingLinkRepositoryInterface defines data access for rating links
type RatingLinkRepositoryInterface interface {
	Create(ctx context.Context, link *models.RatingLink, technicianIDs []int64) (int64, error)
	Refresh(ctx context.Context, linkID int64, expiresAt time.Time, technicianIDs []int64) error
	GetByToken(ctx context.Context, token string) (*models.RatingLink, error)
	FindPendingByClientEmail(ctx context.Context, email string) (*models.RatingLink, error)
	GetTechnicians(ctx context.Context, linkID int64) ([]models.TechnicianSimple, error)
	List(ctx context.Context, filter models.RatingLinkFilter) (*models.RatingLinksPage, error)
}

// RatingRepositoryInterface defines data access for submitted ratings
type RatingRepositoryInterface interface {
	Submit(ctx context.Context, sub *RatingSubmission) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Rating, error)
	GetAnswers(ctx context.Context, ratingID int64) ([]models.QuestionAnswer, error)
	List(ctx context.Context, filter models.RatingFilter) (*models.RatingsPage, error)
	Recent(ctx context.Context, limit int) ([]*models.Rating, error)
	Override(ctx context.Context, ratingID, adminID int64, pointsFinal int, reason string) error
}

// PointsRepositoryInterface defines data access for the point ledger
type PointsRepositoryInterface interface {
	Adjust(ctx context.Context, technicianID, adminID, change int64, reason string) (int64, error)
	History(ctx context.Context, technicianID int64, limit, offset int) ([]*models.PointAdjustment, int64, error)
	Summary(ctx context.Context, technicianID int64) (*models.PointHistorySummary, error)
}

// SettingsRepositoryInterface defines data access for scoring settings
type SettingsRepositoryInterface interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	Scoring(ctx context.Context) (*models.ScoringSettings, error)
}

// LeaderboardRepositoryInterface defines the aggregate queries behind the
// leaderboard and dashboards
type LeaderboardRepositoryInterface interface {
	Standings(ctx context.Context, start, end time.Time, passPercentage float64) ([]*models.LeaderboardEntry, error)
	DashboardStats(ctx context.Context, start, end time.Time) (*models.DashboardStats, error)
	TopTechnicians(ctx context.Context, start, end time.Time, limit int) ([]*models.TopTechnician, error)
	TechnicianLifetime(ctx context.Context, technicianID int64, passPercentage float64) (*LifetimeStats, error)
	TechnicianMonth(ctx context.Context, technicianID int64, start, end time.Time, passPercentage float64) (*MonthStats, error)
	TechnicianTrend(ctx context.Context, technicianID int64, since time.Time, passPercentage float64) ([]*models.MonthlyPerformance, error)
	TechnicianRank(ctx context.Context, technicianID int64) (rank, total int, err error)
}

var (
	_ AdminRepositoryInterface       = (*AdminRepository)(nil)
	_ TechnicianRepositoryInterface  = (*TechnicianRepository)(nil)
	_ QuestionRepositoryInterface    = (*QuestionRepository)(nil)
	_ RatingLinkRepositoryInterface  = (*RatingLinkRepository)(nil)
	_ RatingRepositoryInterface      = (*RatingRepository)(nil)
	_ PointsRepositoryInterface      = (*PointsRepository)(nil)
	_ SettingsRepositoryInterface    = (*SettingsRepository)(nil)
	_ LeaderboardRepositoryInterface = (*LeaderboardRepository)(nil)
)
