package services

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/ctecg/score-api/internal/cache"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/ctecg/score-api/pkg/logger"
)

// ratingScale is the fixed meaning of the 1..5 answer scores
var ratingScale = map[string]string{
	"1": "Very poor",
	"2": "Poor",
	"3": "Average",
	"4": "Good",
	"5": "Excellent",
}

// SettingsService manages system settings and public branding
type SettingsService struct {
	settingsRepo     repository.SettingsRepositoryInterface
	leaderboardCache cache.LeaderboardCacheInterface
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepositoryInterface, leaderboardCache cache.LeaderboardCacheInterface) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, leaderboardCache: leaderboardCache}
}

// GetAll returns every setting
func (s *SettingsService) GetAll(ctx context.Context) (map[string]string, error) {
	return s.settingsRepo.GetAll(ctx)
}

// knownKeys guards against typoed setting names silently taking effect
var knownKeys = map[string]bool{
	models.SettingPassPercentage:     true,
	models.SettingPointsGood:         true,
	models.SettingPointsBad:          true,
	models.SettingCompanyName:        true,
	models.SettingCompanyColor:       true,
	models.SettingTimezone:           true,
	models.SettingRatingInstructions: true,
	models.SettingThankYouMessage:    true,
}

func validateSetting(key, value string) error {
	switch key {
	case models.SettingPassPercentage:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || v > 100 {
			return apperrors.InvalidInputError(key, "must be a percentage between 0 and 100")
		}
	case models.SettingPointsGood, models.SettingPointsBad:
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return apperrors.InvalidInputError(key, "must be a non-negative integer")
		}
	}
	return nil
}

// Update applies setting changes. Scoring changes only affect future
// submissions; already recorded ratings keep their awarded points.
func (s *SettingsService) Update(ctx context.Context, req *models.UpdateSettingsRequest) (map[string]string, error) {
	for key, value := range req.Settings {
		if !knownKeys[key] {
			return nil, apperrors.InvalidInputError(key, "unknown setting")
		}
		if err := validateSetting(key, value); err != nil {
			return nil, err
		}
	}

	for key, value := range req.Settings {
		if err := s.settingsRepo.Set(ctx, key, value); err != nil {
			return nil, err
		}
		logger.Info("Setting updated", zap.String("key", key))
	}

	s.leaderboardCache.Invalidate()
	return s.settingsRepo.GetAll(ctx)
}

// SystemInfo returns the public branding payload
func (s *SettingsService) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	all, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return &models.SystemInfo{
		CompanyName:  all[models.SettingCompanyName],
		CompanyColor: all[models.SettingCompanyColor],
		Timezone:     all[models.SettingTimezone],
		RatingScale:  ratingScale,
	}, nil
}
