package models

import "time"

// Point ledger entry types
const (
	AdjustmentRatingAward    = "rating_award"
	AdjustmentRatingOverride = "rating_override"
	AdjustmentManual         = "manual_adjustment"
)

// PointAdjustment is one append-only ledger entry. PointsBefore/PointsAfter
// snapshot the technician total around the change, so the ledger replays to
// the current balance.
type PointAdjustment struct {
	ID             int64     `json:"id"`
	TechnicianID   int64     `json:"technician_id"`
	AdjustmentType string    `json:"adjustment_type"`
	PointsChange   int64     `json:"points_change"`
	PointsBefore   int64     `json:"points_before"`
	PointsAfter    int64     `json:"points_after"`
	Reason         string    `json:"reason"`
	AdminID        *int64    `json:"admin_id"`
	AdminName      string    `json:"admin_name,omitempty"`
	RatingID       *int64    `json:"rating_id,omitempty"`
	ClientName     string    `json:"client_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AdjustPointsRequest is a manual admin adjustment
type AdjustPointsRequest struct {
	PointsChange int64  `json:"points_change" binding:"required"`
	Reason       string `json:"reason" binding:"required,max=1000"`
}

// PointHistorySummary aggregates a ledger slice
type PointHistorySummary struct {
	TotalAdjustments int64 `json:"total_adjustments"`
	PointsGained     int64 `json:"points_gained"`
	PointsLost       int64 `json:"points_lost"`
	NetChange        int64 `json:"net_change"`
}

// PointHistoryResponse is the paginated ledger for one technician
type PointHistoryResponse struct {
	TechnicianID       int64                `json:"technician_id"`
	TechnicianName     string               `json:"technician_name"`
	CurrentTotalPoints int64                `json:"current_total_points"`
	History            []*PointAdjustment   `json:"history"`
	TotalRecords       int64                `json:"total_records"`
	Summary            *PointHistorySummary `json:"summary,omitempty"`
}
