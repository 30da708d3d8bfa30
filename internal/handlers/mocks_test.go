package handlers

import (
	"context"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/pkg/jwt"
	"github.com/stretchr/testify/mock"
)

// MockRatingService is a mock implementation of RatingServiceInterface
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) GetForm(ctx context.Context, token string) (*models.RatingFormData, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingFormData), args.Error(1)
}

func (m *MockRatingService) Status(ctx context.Context, token string) (*models.LinkStatusResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LinkStatusResponse), args.Error(1)
}

func (m *MockRatingService) Submit(ctx context.Context, token string, req *models.SubmitRatingRequest) (*models.SubmitRatingResponse, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitRatingResponse), args.Error(1)
}

func (m *MockRatingService) ListRatings(ctx context.Context, filter models.RatingFilter) (*models.RatingsPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingsPage), args.Error(1)
}

func (m *MockRatingService) GetRating(ctx context.Context, id int64) (*models.Rating, []models.QuestionAnswer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Rating), args.Get(1).([]models.QuestionAnswer), args.Error(2)
}

func (m *MockRatingService) OverrideRating(ctx context.Context, ratingID, adminID int64, req *models.OverrideRatingRequest) (*models.Rating, error) {
	args := m.Called(ctx, ratingID, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

// MockSettingsService is a mock implementation of SettingsServiceInterface
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetAll(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, req *models.UpdateSettingsRequest) (map[string]string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsService) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemInfo), args.Error(1)
}

// MockLeaderboardService is a mock implementation of LeaderboardServiceInterface
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Build(ctx context.Context, params models.LeaderboardParams) (*models.Leaderboard, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Leaderboard), args.Error(1)
}

func (m *MockLeaderboardService) TechnicianView(ctx context.Context, technicianID int64, params models.LeaderboardParams) (*models.TechnicianLeaderboard, error) {
	args := m.Called(ctx, technicianID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TechnicianLeaderboard), args.Error(1)
}

// MockAuthService is a mock implementation of AuthServiceInterface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *models.PasswordCreationResponse, error) {
	args := m.Called(ctx, req)
	var login *models.LoginResponse
	var creation *models.PasswordCreationResponse
	if args.Get(0) != nil {
		login = args.Get(0).(*models.LoginResponse)
	}
	if args.Get(1) != nil {
		creation = args.Get(1).(*models.PasswordCreationResponse)
	}
	return login, creation, args.Error(2)
}

func (m *MockAuthService) CreatePassword(ctx context.Context, req *models.CreatePasswordRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthService) Profile(ctx context.Context, claims *jwt.SessionClaims) (*models.SessionUser, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionUser), args.Error(1)
}
