package models

import "time"

// Rating link lifecycle states derived from used/expires_at
const (
	LinkStatusActive  = "active"
	LinkStatusUsed    = "used"
	LinkStatusExpired = "expired"
)

// RatingLink is a single-use token mailed to a client
type RatingLink struct {
	ID               int64      `json:"id"`
	Token            string     `json:"token"`
	ClientName       string     `json:"client_name"`
	ClientCode       *string    `json:"client_code"`
	ClientEmail      string     `json:"client_email"`
	ClientContact    *string    `json:"client_contact"`
	ExpiresAt        time.Time  `json:"expires_at"`
	Used             bool       `json:"used"`
	UsedAt           *time.Time `json:"used_at"`
	CreatedByAdminID int64      `json:"created_by_admin_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Joined fields for admin listings
	CreatedByName    string   `json:"created_by_name,omitempty"`
	Status           string   `json:"status,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	RatingPercentage *string  `json:"rating_percentage,omitempty"`
	TechnicianNames  string   `json:"technician_names,omitempty"`
	TechnicianCount  int      `json:"technician_count,omitempty"`
	TechnicianIDs    []int64  `json:"-"`
}

// ComputeStatus derives the lifecycle state at a given instant
func (l *RatingLink) ComputeStatus(now time.Time) string {
	switch {
	case l.Used:
		return LinkStatusUsed
	case now.After(l.ExpiresAt):
		return LinkStatusExpired
	default:
		return LinkStatusActive
	}
}

// CreateRatingLinkRequest issues (or refreshes) a rating link for a client
type CreateRatingLinkRequest struct {
	TechnicianIDs []int64 `json:"technician_ids" binding:"required,min=1"`
	ClientName    string  `json:"client_name" binding:"required,max=200"`
	ClientCode    string  `json:"client_code" binding:"max=50"`
	ClientEmail   string  `json:"client_email" binding:"required,email"`
	ClientContact string  `json:"client_contact" binding:"max=100"`
}

// Link issue actions
const (
	LinkActionCreated = "created"
	LinkActionUpdated = "updated"
)

// RatingLinkIssueResponse is returned after issuing a link
type RatingLinkIssueResponse struct {
	LinkID      int64     `json:"link_id"`
	Token       string    `json:"token"`
	RatingURL   string    `json:"rating_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	Action      string    `json:"action"`
}

// RatingLinkFilter narrows admin link listings
type RatingLinkFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// Pagination describes a page of an admin listing
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	PerPage     int   `json:"per_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// RatingLinksPage is the paginated admin listing of rating links
type RatingLinksPage struct {
	RatingLinks []*RatingLink `json:"rating_links"`
	Pagination  Pagination    `json:"pagination"`
	Filters     struct {
		Status string `json:"status"`
		Search string `json:"search"`
	} `json:"filters"`
}

// LinkStatusResponse answers the public status probe for a token
type LinkStatusResponse struct {
	Used      bool      `json:"used"`
	Expired   bool      `json:"expired"`
	ExpiresAt time.Time `json:"expires_at"`
}
