package services

import (
	"context"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/pkg/jwt"
)

// AuthServiceInterface defines the interface for authentication operations
type AuthServiceInterface interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *models.PasswordCreationResponse, error)
	CreatePassword(ctx context.Context, req *models.CreatePasswordRequest) (*models.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
	Profile(ctx context.Context, claims *jwt.SessionClaims) (*models.SessionUser, error)
}

// RatingServiceInterface defines the interface for the public rating flow
// and admin rating management
type RatingServiceInterface interface {
	GetForm(ctx context.Context, token string) (*models.RatingFormData, error)
	Status(ctx context.Context, token string) (*models.LinkStatusResponse, error)
	Submit(ctx context.Context, token string, req *models.SubmitRatingRequest) (*models.SubmitRatingResponse, error)
	ListRatings(ctx context.Context, filter models.RatingFilter) (*models.RatingsPage, error)
	GetRating(ctx context.Context, id int64) (*models.Rating, []models.QuestionAnswer, error)
	OverrideRating(ctx context.Context, ratingID, adminID int64, req *models.OverrideRatingRequest) (*models.Rating, error)
}

// LinkServiceInterface defines the interface for rating link issuance
type LinkServiceInterface interface {
	Issue(ctx context.Context, adminID int64, req *models.CreateRatingLinkRequest) (*models.RatingLinkIssueResponse, error)
	List(ctx context.Context, filter models.RatingLinkFilter) (*models.RatingLinksPage, error)
}

// QuestionServiceInterface defines the interface for question management
type QuestionServiceInterface interface {
	ListActive(ctx context.Context) ([]*models.Question, error)
	ListInactive(ctx context.Context) ([]*models.Question, error)
	Create(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error)
	Update(ctx context.Context, id int64, req *models.UpdateQuestionRequest) (*models.Question, error)
	Delete(ctx context.Context, id int64) (*models.DeleteQuestionResponse, error)
}

// TechnicianServiceInterface defines the interface for technician management
type TechnicianServiceInterface interface {
	List(ctx context.Context, includeInactive bool) ([]*models.Technician, error)
	Get(ctx context.Context, id int64) (*models.Technician, error)
	Create(ctx context.Context, req *models.CreateTechnicianRequest) (*models.Technician, error)
	Update(ctx context.Context, id int64, req *models.UpdateTechnicianRequest) (*models.Technician, error)
	Deactivate(ctx context.Context, id int64) error
	AdjustPoints(ctx context.Context, technicianID, adminID int64, req *models.AdjustPointsRequest) (*models.Technician, error)
	PointHistory(ctx context.Context, technicianID int64, limit, offset int) (*models.PointHistoryResponse, error)
}

// LeaderboardServiceInterface defines the interface for the monthly standings
type LeaderboardServiceInterface interface {
	Build(ctx context.Context, params models.LeaderboardParams) (*models.Leaderboard, error)
	TechnicianView(ctx context.Context, technicianID int64, params models.LeaderboardParams) (*models.TechnicianLeaderboard, error)
}

// DashboardServiceInterface defines the interface for dashboard payloads
type DashboardServiceInterface interface {
	AdminDashboard(ctx context.Context) (*models.AdminDashboard, error)
	TechnicianDashboard(ctx context.Context, technicianID int64) (*models.TechnicianDashboard, error)
	TechnicianProfile(ctx context.Context, technicianID int64) (*models.TechnicianProfile, error)
	TechnicianPoints(ctx context.Context, technicianID int64, limit, offset int) (*models.TechnicianPoints, error)
}

// SettingsServiceInterface defines the interface for settings management
type SettingsServiceInterface interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, req *models.UpdateSettingsRequest) (map[string]string, error)
	SystemInfo(ctx context.Context) (*models.SystemInfo, error)
}

// Ensure services implement their interfaces
var _ AuthServiceInterface = (*AuthService)(nil)
var _ RatingServiceInterface = (*RatingService)(nil)
var _ LinkServiceInterface = (*LinkService)(nil)
var _ QuestionServiceInterface = (*QuestionService)(nil)
var _ TechnicianServiceInterface = (*TechnicianService)(nil)
var _ LeaderboardServiceInterface = (*LeaderboardService)(nil)
var _ DashboardServiceInterface = (*DashboardService)(nil)
var _ SettingsServiceInterface = (*SettingsService)(nil)
