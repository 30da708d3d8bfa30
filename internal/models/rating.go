package models

import "time"

// Rating is a submitted score for one rating link
type Rating struct {
	ID                  int64      `json:"id"`
	RatingLinkID        int64      `json:"rating_link_id"`
	TotalScore          int        `json:"total_score"`
	MaxScore            int        `json:"max_score"`
	Percentage          string     `json:"percentage"`
	PointsAwardedAuto   int        `json:"points_awarded_auto"`
	PointsAwardedFinal  *int       `json:"points_awarded_final"`
	AdminOverrideReason *string    `json:"admin_override_reason"`
	AdminOverrideBy     *int64     `json:"admin_override_by"`
	AdminOverrideAt     *time.Time `json:"admin_override_at"`
	Comments            string     `json:"comments"`
	SubmittedAt         time.Time  `json:"submitted_at"`

	// Joined fields for listings
	ClientName      string  `json:"client_name,omitempty"`
	ClientEmail     string  `json:"client_email,omitempty"`
	ClientCode      *string `json:"client_code,omitempty"`
	TechnicianNames string  `json:"technician_names,omitempty"`
	OverriddenBy    *string `json:"overridden_by,omitempty"`
}

// QuestionAnswer is one persisted per-question score
type QuestionAnswer struct {
	QuestionID    int64  `json:"question_id"`
	Score         int    `json:"score"`
	QuestionText  string `json:"question_text,omitempty"`
	OrderPosition int    `json:"order_position,omitempty"`
}

// RatingFilter narrows rating listings
type RatingFilter struct {
	TechnicianID int64
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	Limit        int
}

// RatingsPage is a paginated rating listing
type RatingsPage struct {
	Ratings    []*Rating `json:"ratings"`
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int   `json:"pages"`
	} `json:"pagination"`
}

// OverrideRatingRequest applies an admin point override to a rating
type OverrideRatingRequest struct {
	PointsAwardedFinal  *int   `json:"points_awarded_final" binding:"required"`
	AdminOverrideReason string `json:"admin_override_reason" binding:"required,max=1000"`
}
