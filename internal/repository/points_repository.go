package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctecg/score-api/internal/models"
)

// PointsRepository handles the point adjustment ledger
type PointsRepository struct {
	pool *pgxpool.Pool
}

// NewPointsRepository creates a new points repository
func NewPointsRepository(pool *pgxpool.Pool) *PointsRepository {
	return &PointsRepository{pool: pool}
}

// Adjust appends a manual ledger entry and updates the technician balance
// in one transaction. Returns the new balance.
func (r *PointsRepository) Adjust(ctx context.Context, technicianID, adminID, change int64, reason string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := applyPointsTx(ctx, tx, technicianID, change,
		models.AdjustmentManual, reason, &adminID, nil); err != nil {
		return 0, err
	}

	var after int64
	if err := tx.QueryRow(ctx,
		`SELECT total_points FROM technicians WHERE id = $1`, technicianID).Scan(&after); err != nil {
		return 0, fmt.Errorf("failed to read technician balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit adjustment: %w", err)
	}

	return after, nil
}

// History returns the ledger for one technician, newest first
func (r *PointsRepository) History(ctx context.Context, technicianID int64, limit, offset int) ([]*models.PointAdjustment, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM point_adjustments WHERE technician_id = $1`, technicianID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count point adjustments: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT pa.id, pa.technician_id, pa.adjustment_type, pa.points_change,
			pa.points_before, pa.points_after, pa.reason, pa.admin_id,
			COALESCE(a.name, ''), pa.rating_id, COALESCE(l.client_name, ''), pa.created_at
		FROM point_adjustments pa
		LEFT JOIN admins a ON a.id = pa.admin_id
		LEFT JOIN ratings rt ON rt.id = pa.rating_id
		LEFT JOIN rating_links l ON l.id = rt.rating_link_id
		WHERE pa.technician_id = $1
		ORDER BY pa.created_at DESC, pa.id DESC
		LIMIT $2 OFFSET $3`, technicianID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query point history: %w", err)
	}
	defer rows.Close()

	history := []*models.PointAdjustment{}
	for rows.Next() {
		var pa models.PointAdjustment
		if err := rows.Scan(&pa.ID, &pa.TechnicianID, &pa.AdjustmentType, &pa.PointsChange,
			&pa.PointsBefore, &pa.PointsAfter, &pa.Reason, &pa.AdminID,
			&pa.AdminName, &pa.RatingID, &pa.ClientName, &pa.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan point adjustment: %w", err)
		}
		history = append(history, &pa)
	}

	return history, total, rows.Err()
}

// Summary aggregates the full ledger of one technician
func (r *PointsRepository) Summary(ctx context.Context, technicianID int64) (*models.PointHistorySummary, error) {
	var s models.PointHistorySummary
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
			COALESCE(sum(points_change) FILTER (WHERE points_change > 0), 0),
			COALESCE(abs(sum(points_change) FILTER (WHERE points_change < 0)), 0),
			COALESCE(sum(points_change), 0)
		FROM point_adjustments
		WHERE technician_id = $1`, technicianID).
		Scan(&s.TotalAdjustments, &s.PointsGained, &s.PointsLost, &s.NetChange)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize point history: %w", err)
	}
	return &s, nil
}
