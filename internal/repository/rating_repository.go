package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctecg/score-api/internal/models"
	apperrors "github.com/ctecg/score-api/pkg/errors"
)

// RatingRepository handles rating data access
type RatingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// RatingSubmission is the full write set for one public submission
type RatingSubmission struct {
	LinkID        int64
	TotalScore    int
	MaxScore      int
	Percentage    float64
	PointsAuto    int
	Comments      string
	Answers       []models.QuestionAnswer
	TechnicianIDs []int64
	AwardReason   string
}

// Submit consumes the link and records the rating, its answers and the point
// awards in a single transaction. Marking the link used and inserting the
// rating are atomic, which is what enforces single use: a concurrent second
// submit of the same token fails the conditional UPDATE and gets ErrConflict.
func (r *RatingRepository) Submit(ctx context.Context, sub *RatingSubmission) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `
		UPDATE rating_links SET used = TRUE, used_at = now(), updated_at = now()
		WHERE id = $1 AND NOT used`, sub.LinkID)
	if err != nil {
		return 0, fmt.Errorf("failed to consume rating link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, apperrors.ConflictError("rating link already used")
	}

	var ratingID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO ratings (rating_link_id, total_score, max_score, percentage, points_awarded_auto, comments)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		sub.LinkID, sub.TotalScore, sub.MaxScore, sub.Percentage, sub.PointsAuto, sub.Comments).Scan(&ratingID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert rating: %w", err)
	}

	for _, a := range sub.Answers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rating_answers (rating_id, question_id, score)
			VALUES ($1, $2, $3)`, ratingID, a.QuestionID, a.Score); err != nil {
			return 0, fmt.Errorf("failed to insert rating answer: %w", err)
		}
	}

	for _, techID := range sub.TechnicianIDs {
		if err := applyPointsTx(ctx, tx, techID, int64(sub.PointsAuto),
			models.AdjustmentRatingAward, sub.AwardReason, nil, &ratingID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit rating: %w", err)
	}

	return ratingID, nil
}

// applyPointsTx appends a ledger entry and moves the technician balance
// within an open transaction. The row lock on technicians serializes
// concurrent balance updates.
func applyPointsTx(ctx context.Context, tx pgx.Tx, technicianID, change int64,
	adjustmentType, reason string, adminID, ratingID *int64) error {

	var before int64
	err := tx.QueryRow(ctx,
		`SELECT total_points FROM technicians WHERE id = $1 FOR UPDATE`, technicianID).Scan(&before)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundError("technician")
		}
		return fmt.Errorf("failed to lock technician balance: %w", err)
	}

	after := before + change

	if _, err := tx.Exec(ctx, `
		INSERT INTO point_adjustments (technician_id, adjustment_type, points_change, points_before, points_after, reason, admin_id, rating_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		technicianID, adjustmentType, change, before, after, reason, adminID, ratingID); err != nil {
		return fmt.Errorf("failed to insert point adjustment: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE technicians SET total_points = $2, updated_at = now() WHERE id = $1`,
		technicianID, after); err != nil {
		return fmt.Errorf("failed to update technician balance: %w", err)
	}

	return nil
}

const ratingColumns = `
	r.id, r.rating_link_id, r.total_score, r.max_score, r.percentage::text,
	r.points_awarded_auto, r.points_awarded_final, r.admin_override_reason,
	r.admin_override_by, r.admin_override_at, r.comments, r.submitted_at`

const ratingJoins = `
	FROM ratings r
	JOIN rating_links l ON l.id = r.rating_link_id
	LEFT JOIN admins ov ON ov.id = r.admin_override_by
	LEFT JOIN LATERAL (
		SELECT string_agg(t.name, ', ' ORDER BY t.name) AS names
		FROM rating_link_technicians rlt
		JOIN technicians t ON t.id = rlt.technician_id
		WHERE rlt.rating_link_id = l.id
	) tn ON TRUE`

func scanRatingRow(row pgx.Row) (*models.Rating, error) {
	var rt models.Rating
	var overriddenBy *string
	err := row.Scan(&rt.ID, &rt.RatingLinkID, &rt.TotalScore, &rt.MaxScore, &rt.Percentage,
		&rt.PointsAwardedAuto, &rt.PointsAwardedFinal, &rt.AdminOverrideReason,
		&rt.AdminOverrideBy, &rt.AdminOverrideAt, &rt.Comments, &rt.SubmittedAt,
		&rt.ClientName, &rt.ClientEmail, &rt.ClientCode, &rt.TechnicianNames, &overriddenBy)
	if err != nil {
		return nil, err
	}
	rt.OverriddenBy = overriddenBy
	return &rt, nil
}

// GetByID returns one rating with joined client and technician data
func (r *RatingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	query := `SELECT ` + ratingColumns + `,
		l.client_name, l.client_email, l.client_code,
		COALESCE(tn.names, ''), ov.name` + ratingJoins + ` WHERE r.id = $1`

	rt, err := scanRatingRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("rating")
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return rt, nil
}

// GetAnswers returns the persisted per-question scores for a rating
func (r *RatingRepository) GetAnswers(ctx context.Context, ratingID int64) ([]models.QuestionAnswer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ra.question_id, ra.score, q.text, q.order_position
		FROM rating_answers ra
		JOIN questions q ON q.id = ra.question_id
		WHERE ra.rating_id = $1
		ORDER BY q.order_position, q.id`, ratingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating answers: %w", err)
	}
	defer rows.Close()

	var answers []models.QuestionAnswer
	for rows.Next() {
		var a models.QuestionAnswer
		if err := rows.Scan(&a.QuestionID, &a.Score, &a.QuestionText, &a.OrderPosition); err != nil {
			return nil, fmt.Errorf("failed to scan rating answer: %w", err)
		}
		answers = append(answers, a)
	}

	return answers, rows.Err()
}

// List returns a filtered, paginated page of ratings, newest first
func (r *RatingRepository) List(ctx context.Context, filter models.RatingFilter) (*models.RatingsPage, error) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TechnicianID != 0 {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM rating_link_technicians x
				WHERE x.rating_link_id = l.id AND x.technician_id = %s)`, arg(filter.TechnicianID)))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "r.submitted_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "r.submitted_at <= "+arg(*filter.EndDate))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT count(*) FROM ratings r JOIN rating_links l ON l.id = r.rating_link_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	query := `SELECT ` + ratingColumns + `,
		l.client_name, l.client_email, l.client_code,
		COALESCE(tn.names, ''), ov.name` + ratingJoins + where + `
		ORDER BY r.submitted_at DESC
		LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg((filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	page := &models.RatingsPage{Ratings: []*models.Rating{}}
	for rows.Next() {
		rt, err := scanRatingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		page.Ratings = append(page.Ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page.Pagination.Page = filter.Page
	page.Pagination.Limit = filter.Limit
	page.Pagination.Total = total
	page.Pagination.Pages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return page, nil
}

// Recent returns the newest ratings for the admin dashboard
func (r *RatingRepository) Recent(ctx context.Context, limit int) ([]*models.Rating, error) {
	query := `SELECT ` + ratingColumns + `,
		l.client_name, l.client_email, l.client_code,
		COALESCE(tn.names, ''), ov.name` + ratingJoins + `
		ORDER BY r.submitted_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent ratings: %w", err)
	}
	defer rows.Close()

	ratings := []*models.Rating{}
	for rows.Next() {
		rt, err := scanRatingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}

	return ratings, rows.Err()
}

// Override sets the final points for a rating and applies the per-technician
// delta to the ledger in one transaction. The delta is measured against the
// previously effective points (final when set, auto otherwise), so repeated
// overrides do not double-count.
func (r *RatingRepository) Override(ctx context.Context, ratingID, adminID int64, pointsFinal int, reason string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var linkID int64
	var auto int
	var final *int
	err = tx.QueryRow(ctx, `
		SELECT rating_link_id, points_awarded_auto, points_awarded_final
		FROM ratings WHERE id = $1 FOR UPDATE`, ratingID).Scan(&linkID, &auto, &final)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundError("rating")
		}
		return fmt.Errorf("failed to lock rating: %w", err)
	}

	effective := auto
	if final != nil {
		effective = *final
	}
	delta := int64(pointsFinal - effective)

	if _, err := tx.Exec(ctx, `
		UPDATE ratings SET points_awarded_final = $2, admin_override_reason = $3,
			admin_override_by = $4, admin_override_at = now()
		WHERE id = $1`, ratingID, pointsFinal, reason, adminID); err != nil {
		return fmt.Errorf("failed to override rating: %w", err)
	}

	if delta != 0 {
		rows, err := tx.Query(ctx,
			`SELECT technician_id FROM rating_link_technicians WHERE rating_link_id = $1`, linkID)
		if err != nil {
			return fmt.Errorf("failed to query rated technicians: %w", err)
		}
		var techIDs []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan technician id: %w", err)
			}
			techIDs = append(techIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, techID := range techIDs {
			if err := applyPointsTx(ctx, tx, techID, delta,
				models.AdjustmentRatingOverride, reason, &adminID, &ratingID); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
