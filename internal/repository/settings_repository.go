package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctecg/score-api/internal/models"
)

// SettingsRepository handles the key/value settings table
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// GetAll returns every setting as a key/value map
func (r *SettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[k] = v
	}

	return settings, rows.Err()
}

// Set upserts one setting
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// Scoring parses the scoring knobs out of the settings table. Missing or
// malformed values fall back to the seeded defaults.
func (r *SettingsRepository) Scoring(ctx context.Context) (*models.ScoringSettings, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s := &models.ScoringSettings{
		PassPercentage:  80,
		PointsGood:      10,
		PointsBad:       5,
		ThankYouMessage: all[models.SettingThankYouMessage],
		Instructions:    all[models.SettingRatingInstructions],
	}

	if v, err := strconv.ParseFloat(all[models.SettingPassPercentage], 64); err == nil {
		s.PassPercentage = v
	}
	if v, err := strconv.Atoi(all[models.SettingPointsGood]); err == nil {
		s.PointsGood = v
	}
	if v, err := strconv.Atoi(all[models.SettingPointsBad]); err == nil {
		s.PointsBad = v
	}

	return s, nil
}
