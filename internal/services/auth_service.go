package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ctecg/score-api/config"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/ctecg/score-api/pkg/jwt"
	"github.com/ctecg/score-api/pkg/logger"
	"github.com/ctecg/score-api/pkg/mailer"
	"github.com/ctecg/score-api/pkg/metrics"
	"github.com/ctecg/score-api/pkg/password"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrPasswordAlreadySet = errors.New("password has already been set")
)

// AuthService handles login, first-login password creation and resets for
// both user types
type AuthService struct {
	adminRepo    repository.AdminRepositoryInterface
	techRepo     repository.TechnicianRepositoryInterface
	tokenManager *jwt.TokenManager
	mail         mailer.MailerInterface
	config       *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(adminRepo repository.AdminRepositoryInterface, techRepo repository.TechnicianRepositoryInterface,
	tokenManager *jwt.TokenManager, mail mailer.MailerInterface, cfg *config.Config) *AuthService {
	return &AuthService{
		adminRepo:    adminRepo,
		techRepo:     techRepo,
		tokenManager: tokenManager,
		mail:         mail,
		config:       cfg,
	}
}

// account is the common shape of both login principals
type account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash *string
}

func (s *AuthService) findAccount(ctx context.Context, userType, email string) (*account, error) {
	switch userType {
	case models.UserTypeAdmin:
		a, err := s.adminRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &account{ID: a.ID, Name: a.Name, Email: a.Email, PasswordHash: a.PasswordHash}, nil
	case models.UserTypeTechnician:
		t, err := s.techRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &account{ID: t.ID, Name: t.Name, Email: t.Email, PasswordHash: t.PasswordHash}, nil
	default:
		return nil, apperrors.InvalidInputError("user_type", "unknown user type")
	}
}

// Login authenticates a user. When the account exists but has never set a
// password, the first return is nil and the second tells the client to run
// the password creation flow instead.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *models.PasswordCreationResponse, error) {
	acc, err := s.findAccount(ctx, req.UserType, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues(req.UserType, "unknown_account").Inc()
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if acc.PasswordHash == nil {
		metrics.LoginAttempts.WithLabelValues(req.UserType, "needs_password").Inc()
		logger.Info("First login without password",
			zap.String("user_type", req.UserType),
			zap.Int64("user_id", acc.ID))
		return nil, &models.PasswordCreationResponse{
			RequiresPasswordCreation: true,
			UserID:                   acc.ID,
			UserType:                 req.UserType,
			Name:                     acc.Name,
			Email:                    acc.Email,
		}, nil
	}

	if !password.Verify(req.Password, *acc.PasswordHash) {
		metrics.LoginAttempts.WithLabelValues(req.UserType, "bad_password").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	resp, err := s.issueSession(acc, req.UserType)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginAttempts.WithLabelValues(req.UserType, "success").Inc()
	logger.Info("User logged in",
		zap.String("user_type", req.UserType),
		zap.Int64("user_id", acc.ID))

	return resp, nil, nil
}

func (s *AuthService) issueSession(acc *account, userType string) (*models.LoginResponse, error) {
	token, err := s.tokenManager.GenerateToken(acc.ID, acc.Email, acc.Name, userType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &models.LoginResponse{
		Token: token,
		User: models.SessionUser{
			ID:       acc.ID,
			Name:     acc.Name,
			Email:    acc.Email,
			UserType: userType,
		},
		ExpiresIn: fmt.Sprintf("%dh", s.config.Auth.SessionTTLHours),
	}, nil
}

// CreatePassword sets the initial password for a first login and returns a
// fresh session. Fails if a password is already set.
func (s *AuthService) CreatePassword(ctx context.Context, req *models.CreatePasswordRequest) (*models.LoginResponse, error) {
	if err := password.Validate(req.Password); err != nil {
		return nil, apperrors.InvalidInputError("password", err.Error())
	}

	var acc *account
	switch req.UserType {
	case models.UserTypeAdmin:
		a, err := s.adminRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		acc = &account{ID: a.ID, Name: a.Name, Email: a.Email, PasswordHash: a.PasswordHash}
	case models.UserTypeTechnician:
		t, err := s.techRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		acc = &account{ID: t.ID, Name: t.Name, Email: t.Email, PasswordHash: t.PasswordHash}
	default:
		return nil, apperrors.InvalidInputError("user_type", "unknown user type")
	}

	if acc.PasswordHash != nil {
		return nil, ErrPasswordAlreadySet
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.setPassword(ctx, req.UserType, acc.ID, hash); err != nil {
		return nil, err
	}

	logger.Info("Initial password created",
		zap.String("user_type", req.UserType),
		zap.Int64("user_id", acc.ID))

	return s.issueSession(acc, req.UserType)
}

func (s *AuthService) setPassword(ctx context.Context, userType string, userID int64, hash string) error {
	if userType == models.UserTypeAdmin {
		return s.adminRepo.SetPassword(ctx, userID, hash)
	}
	return s.techRepo.SetPassword(ctx, userID, hash)
}

// ForgotPassword issues a reset token and emails a reset URL. An unknown
// email is treated as success so the endpoint cannot be used to probe for
// accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	acc, err := s.findAccount(ctx, req.UserType, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			logger.Info("Password reset requested for unknown email",
				zap.String("user_type", req.UserType))
			return nil
		}
		return err
	}

	token, err := generateToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(time.Duration(s.config.Auth.ResetTokenTTLMinutes) * time.Minute)
	if err := s.adminRepo.CreatePasswordReset(ctx, req.UserType, acc.ID, token, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.Server.FrontendURL, token)
	s.mail.SendPasswordReset(acc.Email, acc.Name, resetURL)

	logger.Info("Password reset issued",
		zap.String("user_type", req.UserType),
		zap.Int64("user_id", acc.ID))

	return nil
}

// ResetPassword consumes a reset token and stores the new password
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := password.Validate(req.Password); err != nil {
		return apperrors.InvalidInputError("password", err.Error())
	}

	userType, userID, err := s.adminRepo.ConsumePasswordReset(ctx, req.Token)
	if err != nil {
		return err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.setPassword(ctx, userType, userID, hash); err != nil {
		return err
	}

	logger.Info("Password reset completed",
		zap.String("user_type", userType),
		zap.Int64("user_id", userID))

	return nil
}

// Profile returns the session principal's account data
func (s *AuthService) Profile(ctx context.Context, claims *jwt.SessionClaims) (*models.SessionUser, error) {
	switch claims.UserType {
	case models.UserTypeAdmin:
		a, err := s.adminRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		return &models.SessionUser{ID: a.ID, Name: a.Name, Email: a.Email, UserType: models.UserTypeAdmin}, nil
	case models.UserTypeTechnician:
		t, err := s.techRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		return &models.SessionUser{ID: t.ID, Name: t.Name, Email: t.Email, UserType: models.UserTypeTechnician}, nil
	default:
		return nil, apperrors.ErrUnauthorized
	}
}

// generateToken returns 32 bytes of entropy as hex, used for single-use
// rating link and password reset tokens
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
