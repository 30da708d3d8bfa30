package models

import "time"

// ClientInfo is the link recipient shown on the public form
type ClientInfo struct {
	Name    string  `json:"name"`
	Code    *string `json:"code"`
	Email   string  `json:"email"`
	Contact string  `json:"contact"`
}

// TechnicianSimple is the minimal technician shape for public responses
type TechnicianSimple struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PublicQuestion is a survey question as shown on the public form
type PublicQuestion struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// RatingFormData is everything the public rating form needs to render
type RatingFormData struct {
	ClientInfo   ClientInfo         `json:"client_info"`
	Technicians  []TechnicianSimple `json:"technicians"`
	Questions    []PublicQuestion   `json:"questions"`
	ExpiresAt    time.Time          `json:"expires_at"`
	Instructions string             `json:"instructions"`
}

// SubmitRatingRequest is the public submission payload. Answer keys are
// question ids as decimal strings, matching the form's answer map.
type SubmitRatingRequest struct {
	Answers        map[string]int `json:"answers" binding:"required"`
	Comments       string         `json:"comments"`
	RecaptchaToken string         `json:"recaptcha_token"`
}

// SubmitRatingResponse is the terminal success payload for a submission
type SubmitRatingResponse struct {
	RatingID       string   `json:"rating_id"`
	TotalScore     int      `json:"total_score"`
	MaxScore       int      `json:"max_score"`
	Percentage     float64  `json:"percentage"`
	PointsAwarded  int      `json:"points_awarded"`
	Technicians    []string `json:"technicians"`
	ThankYouMessage string  `json:"thank_you_message"`
}

// SystemInfo is public branding and scale metadata
type SystemInfo struct {
	CompanyName  string            `json:"company_name"`
	CompanyColor string            `json:"company_color"`
	Timezone     string            `json:"timezone"`
	RatingScale  map[string]string `json:"rating_scale"`
}
