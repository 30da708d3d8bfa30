package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctecg/score-api/internal/models"
)

// LeaderboardRepository runs the monthly aggregation queries behind the
// standings and dashboard views
type LeaderboardRepository struct {
	pool *pgxpool.Pool
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(pool *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

// monthRatingsCTE aggregates per-technician rating stats for a window and
// monthPointsCTE the ledger movement for the same window. Both are keyed by
// technician_id so the outer query can LEFT JOIN them onto technicians.
const leaderboardQuery = `
	WITH month_ratings AS (
		SELECT rlt.technician_id,
			count(*) AS ratings_count,
			count(*) FILTER (WHERE r.percentage >= $3) AS good_ratings,
			count(*) FILTER (WHERE r.percentage < $3) AS bad_ratings,
			avg(r.percentage) AS avg_pct
		FROM ratings r
		JOIN rating_link_technicians rlt ON rlt.rating_link_id = r.rating_link_id
		WHERE r.submitted_at >= $1 AND r.submitted_at < $2
		GROUP BY rlt.technician_id
	),
	month_points AS (
		SELECT technician_id,
			COALESCE(sum(points_change), 0) AS net,
			COALESCE(sum(points_change) FILTER (WHERE points_change > 0), 0) AS gained,
			COALESCE(abs(sum(points_change) FILTER (WHERE points_change < 0)), 0) AS lost
		FROM point_adjustments
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY technician_id
	)
	SELECT t.id, t.name, t.email, t.total_points,
		COALESCE(mr.ratings_count, 0),
		COALESCE(mr.good_ratings, 0),
		COALESCE(mr.bad_ratings, 0),
		COALESCE(mp.net, 0),
		COALESCE(mp.gained, 0),
		COALESCE(mp.lost, 0),
		COALESCE(round(mr.avg_pct, 2), 0)::text
	FROM technicians t
	LEFT JOIN month_ratings mr ON mr.technician_id = t.id
	LEFT JOIN month_points mp ON mp.technician_id = t.id
	WHERE t.active
	ORDER BY COALESCE(mp.net, 0) DESC, t.total_points DESC, t.name`

// Standings ranks all active technicians for the window [start, end) by the
// period's net points, then lifetime points. RankPosition is assigned in
// listing order.
func (r *LeaderboardRepository) Standings(ctx context.Context, start, end time.Time, passPercentage float64) ([]*models.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, leaderboardQuery, start, end, passPercentage)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	entries := []*models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.TotalPoints,
			&e.RatingsThisMonth, &e.GoodRatings, &e.BadRatings,
			&e.PointsThisMonth, &e.PointsGained, &e.PointsLost,
			&e.AvgPercentThisMonth); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		e.RankPosition = len(entries) + 1
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// DashboardStats returns the admin dashboard headline numbers for a window
func (r *LeaderboardRepository) DashboardStats(ctx context.Context, start, end time.Time) (*models.DashboardStats, error) {
	var s models.DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM technicians WHERE active),
			count(r.id),
			COALESCE(round(avg(r.percentage), 2), 0)
		FROM ratings r
		WHERE r.submitted_at >= $1 AND r.submitted_at < $2`, start, end).
		Scan(&s.TotalTechnicians, &s.RatingsThisMonth, &s.AvgPercentThisMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard stats: %w", err)
	}
	return &s, nil
}

// TopTechnicians returns the highest ranked technicians of the window for
// the admin dashboard
func (r *LeaderboardRepository) TopTechnicians(ctx context.Context, start, end time.Time, limit int) ([]*models.TopTechnician, error) {
	rows, err := r.pool.Query(ctx, `
		WITH month_ratings AS (
			SELECT rlt.technician_id,
				count(*) AS ratings_count,
				avg(r.percentage) AS avg_pct
			FROM ratings r
			JOIN rating_link_technicians rlt ON rlt.rating_link_id = r.rating_link_id
			WHERE r.submitted_at >= $1 AND r.submitted_at < $2
			GROUP BY rlt.technician_id
		),
		month_points AS (
			SELECT technician_id, COALESCE(sum(points_change), 0) AS net
			FROM point_adjustments
			WHERE created_at >= $1 AND created_at < $2
			GROUP BY technician_id
		)
		SELECT t.id, t.name, t.total_points,
			COALESCE(mr.ratings_count, 0),
			COALESCE(round(mr.avg_pct, 2), 0)::text,
			COALESCE(mp.net, 0)
		FROM technicians t
		LEFT JOIN month_ratings mr ON mr.technician_id = t.id
		LEFT JOIN month_points mp ON mp.technician_id = t.id
		WHERE t.active
		ORDER BY COALESCE(mp.net, 0) DESC, t.total_points DESC, t.name
		LIMIT $3`, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top technicians: %w", err)
	}
	defer rows.Close()

	top := []*models.TopTechnician{}
	for rows.Next() {
		var t models.TopTechnician
		if err := rows.Scan(&t.ID, &t.Name, &t.TotalPoints,
			&t.RatingsThisMonth, &t.AvgPercentage, &t.PointsThisMonth); err != nil {
			return nil, fmt.Errorf("failed to scan top technician: %w", err)
		}
		top = append(top, &t)
	}

	return top, rows.Err()
}

// LifetimeStats is one technician's all-time rating aggregate
type LifetimeStats struct {
	TotalRatings      int64
	AveragePercentage float64
	GoodRatings       int64
	BadRatings        int64
}

// TechnicianLifetime aggregates every rating a technician ever received
func (r *LeaderboardRepository) TechnicianLifetime(ctx context.Context, technicianID int64, passPercentage float64) (*LifetimeStats, error) {
	var s LifetimeStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
			COALESCE(round(avg(r.percentage), 2), 0),
			count(*) FILTER (WHERE r.percentage >= $2),
			count(*) FILTER (WHERE r.percentage < $2)
		FROM ratings r
		JOIN rating_link_technicians rlt ON rlt.rating_link_id = r.rating_link_id
		WHERE rlt.technician_id = $1`, technicianID, passPercentage).
		Scan(&s.TotalRatings, &s.AveragePercentage, &s.GoodRatings, &s.BadRatings)
	if err != nil {
		return nil, fmt.Errorf("failed to query lifetime stats: %w", err)
	}
	return &s, nil
}

// MonthStats is one technician's aggregate for a single window
type MonthStats struct {
	RatingsCount int64
	GoodRatings  int64
	BadRatings   int64
	AvgPercent   float64
	PointsEarned int64
}

// TechnicianMonth aggregates one technician's window
func (r *LeaderboardRepository) TechnicianMonth(ctx context.Context, technicianID int64, start, end time.Time, passPercentage float64) (*MonthStats, error) {
	var s MonthStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(r.id),
			count(*) FILTER (WHERE r.percentage >= $4),
			count(*) FILTER (WHERE r.percentage < $4),
			COALESCE(round(avg(r.percentage), 2), 0),
			(SELECT COALESCE(sum(points_change), 0) FROM point_adjustments
				WHERE technician_id = $1 AND created_at >= $2 AND created_at < $3)
		FROM ratings r
		JOIN rating_link_technicians rlt ON rlt.rating_link_id = r.rating_link_id
		WHERE rlt.technician_id = $1 AND r.submitted_at >= $2 AND r.submitted_at < $3`,
		technicianID, start, end, passPercentage).
		Scan(&s.RatingsCount, &s.GoodRatings, &s.BadRatings, &s.AvgPercent, &s.PointsEarned)
	if err != nil {
		return nil, fmt.Errorf("failed to query month stats: %w", err)
	}
	return &s, nil
}

// TechnicianTrend returns per-month aggregates for the technician's last
// months, newest first
func (r *LeaderboardRepository) TechnicianTrend(ctx context.Context, technicianID int64, since time.Time, passPercentage float64) ([]*models.MonthlyPerformance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT extract(year FROM r.submitted_at)::int,
			extract(month FROM r.submitted_at)::int,
			count(*),
			count(*) FILTER (WHERE r.percentage >= $3),
			count(*) FILTER (WHERE r.percentage < $3),
			COALESCE(round(avg(r.percentage), 2), 0)::text
		FROM ratings r
		JOIN rating_link_technicians rlt ON rlt.rating_link_id = r.rating_link_id
		WHERE rlt.technician_id = $1 AND r.submitted_at >= $2
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC`, technicianID, since, passPercentage)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly trend: %w", err)
	}
	defer rows.Close()

	trend := []*models.MonthlyPerformance{}
	for rows.Next() {
		var m models.MonthlyPerformance
		if err := rows.Scan(&m.Year, &m.Month, &m.TotalRatings,
			&m.GoodRatings, &m.BadRatings, &m.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan monthly trend row: %w", err)
		}
		trend = append(trend, &m)
	}

	return trend, rows.Err()
}

// TechnicianRank returns the technician's lifetime-points rank among active
// technicians and the active headcount
func (r *LeaderboardRepository) TechnicianRank(ctx context.Context, technicianID int64) (rank, total int, err error) {
	err = r.pool.QueryRow(ctx, `
		WITH ranked AS (
			SELECT id, rank() OVER (ORDER BY total_points DESC, name) AS pos,
				count(*) OVER () AS total
			FROM technicians WHERE active
		)
		SELECT pos, total FROM ranked WHERE id = $1`, technicianID).Scan(&rank, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query technician rank: %w", err)
	}
	return rank, total, nil
}
