package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctecg/score-api/internal/models"
	apperrors "github.com/ctecg/score-api/pkg/errors"
)

// RatingLinkRepository handles rating link data access
type RatingLinkRepository struct {
	pool *pgxpool.Pool
}

// NewRatingLinkRepository creates a new rating link repository
func NewRatingLinkRepository(pool *pgxpool.Pool) *RatingLinkRepository {
	return &RatingLinkRepository{pool: pool}
}

// Create inserts a link and its technician assignments in one transaction
func (r *RatingLinkRepository) Create(ctx context.Context, link *models.RatingLink, technicianIDs []int64) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO rating_links (token, client_name, client_code, client_email, client_contact, expires_at, created_by_admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		link.Token, link.ClientName, link.ClientCode, link.ClientEmail, link.ClientContact,
		link.ExpiresAt, link.CreatedByAdminID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create rating link: %w", err)
	}

	for _, techID := range technicianIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rating_link_technicians (rating_link_id, technician_id)
			VALUES ($1, $2)`, id, techID); err != nil {
			return 0, fmt.Errorf("failed to assign technician to rating link: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit rating link: %w", err)
	}

	return id, nil
}

// Refresh updates an unused link's expiry and technician set, reusing its token
func (r *RatingLinkRepository) Refresh(ctx context.Context, linkID int64, expiresAt time.Time, technicianIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `
		UPDATE rating_links SET expires_at = $2, updated_at = now()
		WHERE id = $1 AND NOT used`, linkID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to refresh rating link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("rating link")
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM rating_link_technicians WHERE rating_link_id = $1`, linkID); err != nil {
		return fmt.Errorf("failed to clear rating link technicians: %w", err)
	}
	for _, techID := range technicianIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rating_link_technicians (rating_link_id, technician_id)
			VALUES ($1, $2)`, linkID, techID); err != nil {
			return fmt.Errorf("failed to assign technician to rating link: %w", err)
		}
	}

	return tx.Commit(ctx)
}

const linkColumns = `
	l.id, l.token, l.client_name, l.client_code, l.client_email, l.client_contact,
	l.expires_at, l.used, l.used_at, l.created_by_admin_id, l.created_at, l.updated_at`

func scanLink(row pgx.Row) (*models.RatingLink, error) {
	var l models.RatingLink
	err := row.Scan(&l.ID, &l.Token, &l.ClientName, &l.ClientCode, &l.ClientEmail, &l.ClientContact,
		&l.ExpiresAt, &l.Used, &l.UsedAt, &l.CreatedByAdminID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByToken returns a link by its opaque token
func (r *RatingLinkRepository) GetByToken(ctx context.Context, token string) (*models.RatingLink, error) {
	query := `SELECT ` + linkColumns + ` FROM rating_links l WHERE l.token = $1`

	l, err := scanLink(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("rating link")
		}
		return nil, fmt.Errorf("failed to get rating link: %w", err)
	}
	return l, nil
}

// FindPendingByClientEmail returns the newest unused, unexpired link for a
// client email, or ErrNotFound
func (r *RatingLinkRepository) FindPendingByClientEmail(ctx context.Context, email string) (*models.RatingLink, error) {
	query := `SELECT ` + linkColumns + ` FROM rating_links l
		WHERE lower(l.client_email) = lower($1) AND NOT l.used AND l.expires_at > now()
		ORDER BY l.created_at DESC
		LIMIT 1`

	l, err := scanLink(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("rating link")
		}
		return nil, fmt.Errorf("failed to find pending rating link: %w", err)
	}
	return l, nil
}

// GetTechnicians returns the technicians assigned to a link in name order
func (r *RatingLinkRepository) GetTechnicians(ctx context.Context, linkID int64) ([]models.TechnicianSimple, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.name
		FROM rating_link_technicians rlt
		JOIN technicians t ON t.id = rlt.technician_id
		WHERE rlt.rating_link_id = $1
		ORDER BY t.name`, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query link technicians: %w", err)
	}
	defer rows.Close()

	var technicians []models.TechnicianSimple
	for rows.Next() {
		var t models.TechnicianSimple
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan link technician: %w", err)
		}
		technicians = append(technicians, t)
	}

	return technicians, rows.Err()
}

// List returns a filtered, paginated page of links with joined admin and
// rating data for the admin dashboard
func (r *RatingLinkRepository) List(ctx context.Context, filter models.RatingLinkFilter) (*models.RatingLinksPage, error) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch filter.Status {
	case models.LinkStatusActive:
		conditions = append(conditions, "NOT l.used AND l.expires_at > now()")
	case models.LinkStatusUsed:
		conditions = append(conditions, "l.used")
	case models.LinkStatusExpired:
		conditions = append(conditions, "NOT l.used AND l.expires_at <= now()")
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conditions = append(conditions,
			fmt.Sprintf("(l.client_name ILIKE %s OR l.client_email ILIKE %s)", p, p))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT count(*) FROM rating_links l` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count rating links: %w", err)
	}

	query := `SELECT ` + linkColumns + `,
			a.name AS created_by_name,
			rt.submitted_at,
			rt.percentage::text,
			COALESCE(tn.names, '') AS technician_names,
			COALESCE(tn.cnt, 0) AS technician_count
		FROM rating_links l
		JOIN admins a ON a.id = l.created_by_admin_id
		LEFT JOIN ratings rt ON rt.rating_link_id = l.id
		LEFT JOIN LATERAL (
			SELECT string_agg(t.name, ', ' ORDER BY t.name) AS names, count(*) AS cnt
			FROM rating_link_technicians rlt
			JOIN technicians t ON t.id = rlt.technician_id
			WHERE rlt.rating_link_id = l.id
		) tn ON TRUE` + where + `
		ORDER BY l.created_at DESC
		LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg((filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating links: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	page := &models.RatingLinksPage{RatingLinks: []*models.RatingLink{}}
	for rows.Next() {
		var l models.RatingLink
		err := rows.Scan(&l.ID, &l.Token, &l.ClientName, &l.ClientCode, &l.ClientEmail, &l.ClientContact,
			&l.ExpiresAt, &l.Used, &l.UsedAt, &l.CreatedByAdminID, &l.CreatedAt, &l.UpdatedAt,
			&l.CreatedByName, &l.SubmittedAt, &l.RatingPercentage, &l.TechnicianNames, &l.TechnicianCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating link: %w", err)
		}
		l.Status = l.ComputeStatus(now)
		page.RatingLinks = append(page.RatingLinks, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	page.Pagination = models.Pagination{
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		PerPage:     filter.Limit,
		HasNext:     filter.Page < totalPages,
		HasPrev:     filter.Page > 1,
	}
	page.Filters.Status = filter.Status
	page.Filters.Search = filter.Search

	return page, nil
}
