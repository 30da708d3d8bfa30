package scoreclient

import "time"

// Question is one survey item on the rating form
type Question struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Technician is the minimal technician shape in public payloads
type Technician struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ClientInfo identifies the link recipient on the form
type ClientInfo struct {
	Name    string  `json:"name"`
	Code    *string `json:"code"`
	Email   string  `json:"email"`
	Contact string  `json:"contact"`
}

// FormData is the server payload for one rating token
type FormData struct {
	ClientInfo   ClientInfo   `json:"client_info"`
	Technicians  []Technician `json:"technicians"`
	Questions    []Question   `json:"questions"`
	ExpiresAt    time.Time    `json:"expires_at"`
	Instructions string       `json:"instructions"`
}

// SubmitResult is the terminal success payload of a submission
type SubmitResult struct {
	RatingID        string   `json:"rating_id"`
	TotalScore      int      `json:"total_score"`
	MaxScore        int      `json:"max_score"`
	Percentage      float64  `json:"percentage"`
	PointsAwarded   int      `json:"points_awarded"`
	Technicians     []string `json:"technicians"`
	ThankYouMessage string   `json:"thank_you_message"`
}

// LinkStatus is the public status probe payload
type LinkStatus struct {
	Used      bool      `json:"used"`
	Expired   bool      `json:"expired"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LeaderboardEntry is one ranked technician
type LeaderboardEntry struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	TotalPoints         int64  `json:"total_points"`
	RatingsThisMonth    int64  `json:"ratings_this_month"`
	PointsThisMonth     int64  `json:"points_this_month"`
	AvgPercentThisMonth string `json:"avg_percentage_this_month"`
	RankPosition        int    `json:"rank_position"`
	PerformanceLevel    string `json:"performance_level"`
}

// LeaderboardPeriod identifies the ranked month
type LeaderboardPeriod struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	MonthName      string `json:"month_name"`
	IsCurrentMonth bool   `json:"is_current_month"`
}

// Leaderboard is the ranked standings payload
type Leaderboard struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Leaders     []LeaderboardEntry `json:"leaders"`
	Trailers    []LeaderboardEntry `json:"trailers"`
	Period      LeaderboardPeriod  `json:"period"`
}

// LeaderboardParams selects the ranked period and result size. Zero values
// mean the server default (current month, default limit).
type LeaderboardParams struct {
	Year  int
	Month int
	Limit int
}

// SessionUser is the authenticated identity
type SessionUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// LoginResult carries a fresh session token
type LoginResult struct {
	Token     string      `json:"token"`
	User      SessionUser `json:"user"`
	ExpiresIn string      `json:"expires_in"`
}

// SystemInfo is the public branding payload
type SystemInfo struct {
	CompanyName  string            `json:"company_name"`
	CompanyColor string            `json:"company_color"`
	Timezone     string            `json:"timezone"`
	RatingScale  map[string]string `json:"rating_scale"`
}
