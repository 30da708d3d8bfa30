package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctecg/score-api/internal/models"
	apperrors "github.com/ctecg/score-api/pkg/errors"
)

// TechnicianRepository handles technician data access
type TechnicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository creates a new technician repository
func NewTechnicianRepository(pool *pgxpool.Pool) *TechnicianRepository {
	return &TechnicianRepository{pool: pool}
}

const technicianColumns = `
	t.id, t.name, t.email, t.phone, t.employee_id, t.password_hash,
	t.total_points, t.active, t.created_at, t.updated_at,
	(SELECT count(*) FROM rating_link_technicians rlt
		JOIN ratings r ON r.rating_link_id = rlt.rating_link_id
		WHERE rlt.technician_id = t.id) AS total_ratings`

func scanTechnician(row pgx.Row) (*models.Technician, error) {
	var t models.Technician
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.EmployeeID, &t.PasswordHash,
		&t.TotalPoints, &t.Active, &t.CreatedAt, &t.UpdatedAt, &t.TotalRatings)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAll returns all technicians, optionally including deactivated ones
func (r *TechnicianRepository) GetAll(ctx context.Context, includeInactive bool) ([]*models.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians t`
	if !includeInactive {
		query += ` WHERE t.active`
	}
	query += ` ORDER BY t.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query technicians: %w", err)
	}
	defer rows.Close()

	var technicians []*models.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, t)
	}

	return technicians, rows.Err()
}

// GetByID returns a technician by id
func (r *TechnicianRepository) GetByID(ctx context.Context, id int64) (*models.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians t WHERE t.id = $1`

	t, err := scanTechnician(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("technician")
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return t, nil
}

// GetByEmail returns an active technician by email
func (r *TechnicianRepository) GetByEmail(ctx context.Context, email string) (*models.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians t WHERE lower(t.email) = lower($1) AND t.active`

	t, err := scanTechnician(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("technician")
		}
		return nil, fmt.Errorf("failed to get technician by email: %w", err)
	}
	return t, nil
}

// Create inserts a new technician. A duplicate email maps to ErrConflict.
func (r *TechnicianRepository) Create(ctx context.Context, req *models.CreateTechnicianRequest) (*models.Technician, error) {
	query := `
		INSERT INTO technicians (name, email, phone, employee_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, req.Name, req.Email, req.Phone, req.EmployeeID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ConflictError("technician email already exists")
		}
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update applies partial updates to a technician
func (r *TechnicianRepository) Update(ctx context.Context, id int64, req *models.UpdateTechnicianRequest) (*models.Technician, error) {
	query := `
		UPDATE technicians SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			employee_id = COALESCE($5, employee_id),
			active = COALESCE($6, active),
			updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, req.Name, req.Email, req.Phone, req.EmployeeID, req.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ConflictError("technician email already exists")
		}
		return nil, fmt.Errorf("failed to update technician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NotFoundError("technician")
	}

	return r.GetByID(ctx, id)
}

// Deactivate soft-deletes a technician so historic ratings stay attributable
func (r *TechnicianRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE technicians SET active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate technician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("technician")
	}
	return nil
}

// SetPassword stores a new password hash
func (r *TechnicianRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE technicians SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to set technician password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("technician")
	}
	return nil
}

// GetActiveByIDs returns the active technicians among the given ids,
// preserving no particular order
func (r *TechnicianRepository) GetActiveByIDs(ctx context.Context, ids []int64) ([]*models.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians t WHERE t.id = ANY($1) AND t.active`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query technicians by ids: %w", err)
	}
	defer rows.Close()

	var technicians []*models.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, t)
	}

	return technicians, rows.Err()
}
