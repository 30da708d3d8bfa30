package models

import "time"

// Question is one survey item; order is admin-controlled and preserved on
// the public form
type Question struct {
	ID            int64     `json:"id"`
	Text          string    `json:"text"`
	OrderPosition int       `json:"order_position"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateQuestionRequest adds a survey question
type CreateQuestionRequest struct {
	Text          string `json:"text" binding:"required,max=500"`
	OrderPosition int    `json:"order_position" binding:"gte=0"`
}

// UpdateQuestionRequest edits a question; nil fields are untouched
type UpdateQuestionRequest struct {
	Text          *string `json:"text" binding:"omitempty,max=500"`
	OrderPosition *int    `json:"order_position" binding:"omitempty,gte=0"`
	Active        *bool   `json:"active"`
}

// Delete actions reported by DeleteQuestionResponse
const (
	QuestionDeleted     = "deleted"
	QuestionDeactivated = "deactivated"
)

// DeleteQuestionResponse reports whether the question was removed or, when
// referenced by existing ratings, only deactivated
type DeleteQuestionResponse struct {
	ActionTaken  string `json:"action_taken"`
	RatingsCount int64  `json:"ratings_count,omitempty"`
}
