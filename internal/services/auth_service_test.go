package services_test

import (
	"context"
	"testing"

	"github.com/ctecg/score-api/config"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/ctecg/score-api/pkg/jwt"
	"github.com/ctecg/score-api/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthService(t *testing.T) (*services.AuthService, *MockAdminRepository, *MockTechnicianRepository, *MockMailer) {
	t.Helper()
	adminRepo := new(MockAdminRepository)
	techRepo := new(MockTechnicianRepository)
	mail := new(MockMailer)

	cfg := &config.Config{}
	cfg.Auth.SessionTTLHours = 12
	cfg.Auth.ResetTokenTTLMinutes = 30
	cfg.Server.FrontendURL = "https://score.example.com"

	tokenManager := jwt.NewTokenManager("test-secret-key", "score-api-test", 12)
	return services.NewAuthService(adminRepo, techRepo, tokenManager, mail, cfg), adminRepo, techRepo, mail
}

func hashOf(t *testing.T, plain string) *string {
	t.Helper()
	hash, err := password.Hash(plain)
	assert.NoError(t, err)
	return &hash
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, adminRepo, _, _ := newAuthService(t)
	ctx := context.Background()

	admin := &models.Admin{ID: 1, Name: "Admin", Email: "admin@example.com", PasswordHash: hashOf(t, "correct-horse-9")}
	adminRepo.On("GetByEmail", ctx, "admin@example.com").Return(admin, nil).Once()

	login, needsPassword, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "admin@example.com",
		Password: "correct-horse-9",
		UserType: models.UserTypeAdmin,
	})
	assert.NoError(t, err)
	assert.Nil(t, needsPassword)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, int64(1), login.User.ID)
	assert.Equal(t, models.UserTypeAdmin, login.User.UserType)
	assert.Equal(t, "12h", login.ExpiresIn)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, adminRepo, _, _ := newAuthService(t)
	ctx := context.Background()

	admin := &models.Admin{ID: 1, Email: "admin@example.com", PasswordHash: hashOf(t, "correct-horse-9")}
	adminRepo.On("GetByEmail", ctx, "admin@example.com").Return(admin, nil).Once()

	login, needsPassword, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
		UserType: models.UserTypeAdmin,
	})
	assert.Nil(t, login)
	assert.Nil(t, needsPassword)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownAccountLooksLikeBadPassword(t *testing.T) {
	svc, adminRepo, _, _ := newAuthService(t)
	ctx := context.Background()

	adminRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperrors.NotFoundError("admin")).Once()

	login, needsPassword, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
		UserType: models.UserTypeAdmin,
	})
	assert.Nil(t, login)
	assert.Nil(t, needsPassword)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_Login_FirstLoginNeedsPassword(t *testing.T) {
	svc, _, techRepo, _ := newAuthService(t)
	ctx := context.Background()

	tech := &models.Technician{ID: 7, Name: "Sipho", Email: "sipho@example.com", PasswordHash: nil}
	techRepo.On("GetByEmail", ctx, "sipho@example.com").Return(tech, nil).Once()

	login, needsPassword, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "sipho@example.com",
		Password: "anything",
		UserType: models.UserTypeTechnician,
	})
	assert.NoError(t, err)
	assert.Nil(t, login)
	assert.True(t, needsPassword.RequiresPasswordCreation)
	assert.Equal(t, int64(7), needsPassword.UserID)
	assert.Equal(t, models.UserTypeTechnician, needsPassword.UserType)
}

func TestAuthService_CreatePassword_Success(t *testing.T) {
	svc, _, techRepo, _ := newAuthService(t)
	ctx := context.Background()

	tech := &models.Technician{ID: 7, Name: "Sipho", Email: "sipho@example.com", PasswordHash: nil}
	techRepo.On("GetByID", ctx, int64(7)).Return(tech, nil).Once()
	techRepo.On("SetPassword", ctx, int64(7), mock.AnythingOfType("string")).Return(nil).Once()

	login, err := svc.CreatePassword(ctx, &models.CreatePasswordRequest{
		UserID:          7,
		UserType:        models.UserTypeTechnician,
		Password:        "brand-new-pass1",
		ConfirmPassword: "brand-new-pass1",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	techRepo.AssertExpectations(t)
}

func TestAuthService_CreatePassword_AlreadySet(t *testing.T) {
	svc, _, techRepo, _ := newAuthService(t)
	ctx := context.Background()

	tech := &models.Technician{ID: 7, Email: "sipho@example.com", PasswordHash: hashOf(t, "existing-pass-1")}
	techRepo.On("GetByID", ctx, int64(7)).Return(tech, nil).Once()

	login, err := svc.CreatePassword(ctx, &models.CreatePasswordRequest{
		UserID:          7,
		UserType:        models.UserTypeTechnician,
		Password:        "brand-new-pass1",
		ConfirmPassword: "brand-new-pass1",
	})
	assert.Nil(t, login)
	assert.ErrorIs(t, err, services.ErrPasswordAlreadySet)
}

func TestAuthService_ForgotPassword_SendsResetEmail(t *testing.T) {
	svc, adminRepo, _, mail := newAuthService(t)
	ctx := context.Background()

	admin := &models.Admin{ID: 1, Name: "Admin", Email: "admin@example.com", PasswordHash: hashOf(t, "correct-horse-9")}
	adminRepo.On("GetByEmail", ctx, "admin@example.com").Return(admin, nil).Once()
	adminRepo.On("CreatePasswordReset", ctx, models.UserTypeAdmin, int64(1), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	mail.On("SendPasswordReset", "admin@example.com", "Admin", mock.MatchedBy(func(url string) bool {
		return len(url) > len("https://score.example.com/reset-password?token=")
	})).Return().Once()

	err := svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{
		Email:    "admin@example.com",
		UserType: models.UserTypeAdmin,
	})
	assert.NoError(t, err)
	adminRepo.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestAuthService_ForgotPassword_UnknownEmailIsSilentSuccess(t *testing.T) {
	svc, adminRepo, _, mail := newAuthService(t)
	ctx := context.Background()

	adminRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperrors.NotFoundError("admin")).Once()

	err := svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{
		Email:    "ghost@example.com",
		UserType: models.UserTypeAdmin,
	})
	assert.NoError(t, err)
	mail.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	svc, adminRepo, _, _ := newAuthService(t)
	ctx := context.Background()

	adminRepo.On("ConsumePasswordReset", ctx, "reset-token").Return(models.UserTypeAdmin, int64(1), nil).Once()
	adminRepo.On("SetPassword", ctx, int64(1), mock.AnythingOfType("string")).Return(nil).Once()

	err := svc.ResetPassword(ctx, &models.ResetPasswordRequest{
		Token:           "reset-token",
		Password:        "fresh-new-pass1",
		ConfirmPassword: "fresh-new-pass1",
	})
	assert.NoError(t, err)
	adminRepo.AssertExpectations(t)
}

func TestAuthService_ResetPassword_ConsumedToken(t *testing.T) {
	svc, adminRepo, _, _ := newAuthService(t)
	ctx := context.Background()

	adminRepo.On("ConsumePasswordReset", ctx, "stale-token").Return("", int64(0), apperrors.GoneError("password reset token")).Once()

	err := svc.ResetPassword(ctx, &models.ResetPasswordRequest{
		Token:           "stale-token",
		Password:        "fresh-new-pass1",
		ConfirmPassword: "fresh-new-pass1",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrGone))
}
