package services_test

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockAdminRepository is a mock implementation of AdminRepositoryInterface
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAdminRepository) CreatePasswordReset(ctx context.Context, userType string, userID int64, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userType, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAdminRepository) ConsumePasswordReset(ctx context.Context, token string) (string, int64, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

// MockTechnicianRepository is a mock implementation of TechnicianRepositoryInterface
type MockTechnicianRepository struct {
	mock.Mock
}

func (m *MockTechnicianRepository) GetAll(ctx context.Context, includeInactive bool) ([]*models.Technician, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) GetByID(ctx context.Context, id int64) (*models.Technician, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) GetByEmail(ctx context.Context, email string) (*models.Technician, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) Create(ctx context.Context, req *models.CreateTechnicianRequest) (*models.Technician, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) Update(ctx context.Context, id int64, req *models.UpdateTechnicianRequest) (*models.Technician, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTechnicianRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockTechnicianRepository) GetActiveByIDs(ctx context.Context, ids []int64) ([]*models.Technician, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Technician), args.Error(1)
}

// MockQuestionRepository is a mock implementation of QuestionRepositoryInterface
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetActive(ctx context.Context) ([]*models.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetInactive(ctx context.Context) ([]*models.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, id int64, req *models.UpdateQuestionRequest) (*models.Question, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) CountAnswers(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRatingLinkRepository is a mock implementation of RatingLinkRepositoryInterface
type MockRatingLinkRepository struct {
	mock.Mock
}

func (m *MockRatingLinkRepository) Create(ctx context.Context, link *models.RatingLink, technicianIDs []int64) (int64, error) {
	args := m.Called(ctx, link, technicianIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRatingLinkRepository) Refresh(ctx context.Context, linkID int64, expiresAt time.Time, technicianIDs []int64) error {
	args := m.Called(ctx, linkID, expiresAt, technicianIDs)
	return args.Error(0)
}

func (m *MockRatingLinkRepository) GetByToken(ctx context.Context, token string) (*models.RatingLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingLink), args.Error(1)
}

func (m *MockRatingLinkRepository) FindPendingByClientEmail(ctx context.Context, email string) (*models.RatingLink, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingLink), args.Error(1)
}

func (m *MockRatingLinkRepository) GetTechnicians(ctx context.Context, linkID int64) ([]models.TechnicianSimple, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TechnicianSimple), args.Error(1)
}

func (m *MockRatingLinkRepository) List(ctx context.Context, filter models.RatingLinkFilter) (*models.RatingLinksPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingLinksPage), args.Error(1)
}

// MockRatingRepository is a mock implementation of RatingRepositoryInterface
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Submit(ctx context.Context, sub *repository.RatingSubmission) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetAnswers(ctx context.Context, ratingID int64) ([]models.QuestionAnswer, error) {
	args := m.Called(ctx, ratingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuestionAnswer), args.Error(1)
}

func (m *MockRatingRepository) List(ctx context.Context, filter models.RatingFilter) (*models.RatingsPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingsPage), args.Error(1)
}

func (m *MockRatingRepository) Recent(ctx context.Context, limit int) ([]*models.Rating, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) Override(ctx context.Context, ratingID, adminID int64, pointsFinal int, reason string) error {
	args := m.Called(ctx, ratingID, adminID, pointsFinal, reason)
	return args.Error(0)
}

// MockPointsRepository is a mock implementation of PointsRepositoryInterface
type MockPointsRepository struct {
	mock.Mock
}

func (m *MockPointsRepository) Adjust(ctx context.Context, technicianID, adminID, change int64, reason string) (int64, error) {
	args := m.Called(ctx, technicianID, adminID, change, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPointsRepository) History(ctx context.Context, technicianID int64, limit, offset int) ([]*models.PointAdjustment, int64, error) {
	args := m.Called(ctx, technicianID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.PointAdjustment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPointsRepository) Summary(ctx context.Context, technicianID int64) (*models.PointHistorySummary, error) {
	args := m.Called(ctx, technicianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PointHistorySummary), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepositoryInterface
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockSettingsRepository) Scoring(ctx context.Context) (*models.ScoringSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoringSettings), args.Error(1)
}

// MockLeaderboardRepository is a mock implementation of LeaderboardRepositoryInterface
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) Standings(ctx context.Context, start, end time.Time, passPercentage float64) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, start, end, passPercentage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) DashboardStats(ctx context.Context, start, end time.Time) (*models.DashboardStats, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

func (m *MockLeaderboardRepository) TopTechnicians(ctx context.Context, start, end time.Time, limit int) ([]*models.TopTechnician, error) {
	args := m.Called(ctx, start, end, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TopTechnician), args.Error(1)
}

func (m *MockLeaderboardRepository) TechnicianLifetime(ctx context.Context, technicianID int64, passPercentage float64) (*repository.LifetimeStats, error) {
	args := m.Called(ctx, technicianID, passPercentage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LifetimeStats), args.Error(1)
}

func (m *MockLeaderboardRepository) TechnicianMonth(ctx context.Context, technicianID int64, start, end time.Time, passPercentage float64) (*repository.MonthStats, error) {
	args := m.Called(ctx, technicianID, start, end, passPercentage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MonthStats), args.Error(1)
}

func (m *MockLeaderboardRepository) TechnicianTrend(ctx context.Context, technicianID int64, since time.Time, passPercentage float64) ([]*models.MonthlyPerformance, error) {
	args := m.Called(ctx, technicianID, since, passPercentage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MonthlyPerformance), args.Error(1)
}

func (m *MockLeaderboardRepository) TechnicianRank(ctx context.Context, technicianID int64) (int, int, error) {
	args := m.Called(ctx, technicianID)
	return args.Int(0), args.Int(1), args.Error(2)
}

// MockLeaderboardCache is a mock implementation of LeaderboardCacheInterface
type MockLeaderboardCache struct {
	mock.Mock
}

func (m *MockLeaderboardCache) Get(year, month, limit int) (*models.Leaderboard, bool) {
	args := m.Called(year, month, limit)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.Leaderboard), args.Bool(1)
}

func (m *MockLeaderboardCache) Set(year, month, limit int, lb *models.Leaderboard) {
	m.Called(year, month, limit, lb)
}

func (m *MockLeaderboardCache) Invalidate() {
	m.Called()
}

// MockMailer is a mock implementation of mailer.MailerInterface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMailer) SendRatingLink(clientEmail, clientName, ratingURL, expiresAt string) {
	m.Called(clientEmail, clientName, ratingURL, expiresAt)
}

func (m *MockMailer) SendPasswordReset(email, name, resetURL string) {
	m.Called(email, name, resetURL)
}

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(url, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Get(url string) (*http.Response, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}
