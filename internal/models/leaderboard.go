package models

// Performance levels derived from the monthly average percentage
const (
	PerformanceExcellent = "excellent"
	PerformanceGood      = "good"
	PerformanceAverage   = "average"
	PerformanceNeedsWork = "needs_improvement"
	PerformanceNoRatings = "no_ratings"
)

// LeaderboardEntry is one ranked technician with monthly and lifetime stats
type LeaderboardEntry struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	TotalPoints          int64  `json:"total_points"`
	RatingsThisMonth     int64  `json:"ratings_this_month"`
	PointsThisMonth      int64  `json:"points_this_month"`
	GoodRatings          int64  `json:"good_ratings"`
	BadRatings           int64  `json:"bad_ratings"`
	PointsGained         int64  `json:"points_gained"`
	PointsLost           int64  `json:"points_lost"`
	AvgPercentThisMonth  string `json:"avg_percentage_this_month"`
	RankPosition         int    `json:"rank_position"`
	PerformanceLevel     string `json:"performance_level"`
	IsCurrentUser        bool   `json:"is_current_user,omitempty"`
}

// LeaderboardSummary aggregates the period across all active technicians
type LeaderboardSummary struct {
	TotalActiveTechnicians int64  `json:"total_active_technicians"`
	TotalRatingsThisMonth  int64  `json:"total_ratings_this_month"`
	OverallAvgPercentage   string `json:"overall_avg_percentage"`
	TotalPointsAwarded     int64  `json:"total_points_awarded"`
	HighestMonthlyPoints   int64  `json:"highest_monthly_points"`
	LowestMonthlyPoints    int64  `json:"lowest_monthly_points"`
}

// LeaderboardPeriod identifies the month being ranked
type LeaderboardPeriod struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	MonthName      string `json:"month_name"`
	IsCurrentMonth bool   `json:"is_current_month"`
}

// Leaderboard is the full ranked standings payload
type Leaderboard struct {
	Leaderboard []*LeaderboardEntry `json:"leaderboard"`
	Leaders     []*LeaderboardEntry `json:"leaders"`
	Trailers    []*LeaderboardEntry `json:"trailers"`
	Summary     LeaderboardSummary  `json:"summary"`
	Period      LeaderboardPeriod   `json:"period"`
}

// LeaderboardParams selects the ranked period and result size
type LeaderboardParams struct {
	Year  int
	Month int
	Limit int
}

// CurrentUserPosition locates the calling technician in the standings
type CurrentUserPosition struct {
	Rank             int   `json:"rank"`
	TotalPoints      int64 `json:"total_points"`
	PointsToFirst    int64 `json:"points_to_first"`
	TotalTechnicians int   `json:"total_technicians"`
}

// TechnicianLeaderboard is the technician-scoped standings view
type TechnicianLeaderboard struct {
	Leaderboard         []*LeaderboardEntry `json:"leaderboard"`
	CurrentUserPosition CurrentUserPosition `json:"current_user_position"`
	Period              LeaderboardPeriod   `json:"month_context"`
}
