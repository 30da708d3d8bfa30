package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctecg/score-api/internal/models"
	apperrors "github.com/ctecg/score-api/pkg/errors"
)

// AdminRepository handles admin accounts and password reset tokens
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

const adminColumns = `id, name, email, password_hash, created_at, updated_at`

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	var a models.Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmail returns an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	a, err := scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("admin")
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return a, nil
}

// GetByID returns an admin by id
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	a, err := scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("admin")
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return a, nil
}

// SetPassword stores a new password hash for an admin
func (r *AdminRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("admin")
	}
	return nil
}

// CreatePasswordReset stores a single-use reset token for either user type
func (r *AdminRepository) CreatePasswordReset(ctx context.Context, userType string, userID int64, token string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_resets (user_type, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)`, userType, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// ConsumePasswordReset marks an unexpired, unused reset token as used and
// returns the account it belongs to. An unknown, used or expired token
// returns ErrGone.
func (r *AdminRepository) ConsumePasswordReset(ctx context.Context, token string) (userType string, userID int64, err error) {
	err = r.pool.QueryRow(ctx, `
		UPDATE password_resets SET used = TRUE
		WHERE token = $1 AND NOT used AND expires_at > now()
		RETURNING user_type, user_id`, token).Scan(&userType, &userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, apperrors.GoneError("password reset token")
		}
		return "", 0, fmt.Errorf("failed to consume password reset: %w", err)
	}
	return userType, userID, nil
}
