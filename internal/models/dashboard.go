package models

// DashboardStats is the admin dashboard headline block
type DashboardStats struct {
	TotalTechnicians     int64   `json:"total_technicians"`
	RatingsThisMonth     int64   `json:"ratings_this_month"`
	AvgPercentThisMonth  float64 `json:"avg_percentage_this_month"`
}

// TopTechnician is an admin dashboard leaderboard row
type TopTechnician struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	TotalPoints      int64  `json:"total_points"`
	RatingsThisMonth int64  `json:"ratings_this_month"`
	AvgPercentage    string `json:"avg_percentage"`
	PointsThisMonth  int64  `json:"points_this_month"`
}

// AdminDashboard is the full admin dashboard payload
type AdminDashboard struct {
	Stats          DashboardStats   `json:"stats"`
	RecentRatings  []*Rating        `json:"recent_ratings"`
	TopTechnicians []*TopTechnician `json:"top_technicians"`
}

// MonthlyStats is one technician's aggregate for a calendar month
type MonthlyStats struct {
	TotalRatings int64 `json:"total_ratings"`
	GoodRatings  int64 `json:"good_ratings"`
	BadRatings   int64 `json:"bad_ratings"`
	PointsGained int64 `json:"points_gained"`
	PointsLost   int64 `json:"points_lost"`
	NetPoints    int64 `json:"net_points"`
}

// TechnicianDashboard is the technician app landing payload
type TechnicianDashboard struct {
	Technician struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		EmployeeID string `json:"employee_id"`
	} `json:"technician"`
	Summary struct {
		TotalPoints       int64   `json:"total_points"`
		TotalRatings      int64   `json:"total_ratings"`
		AveragePercentage float64 `json:"average_percentage"`
		CurrentRank       int     `json:"current_rank"`
		TotalTechnicians  int     `json:"total_technicians"`
	} `json:"summary"`
	ThisMonth struct {
		RatingsCount          int64   `json:"ratings_count"`
		GoodRatings           int64   `json:"good_ratings"`
		BadRatings            int64   `json:"bad_ratings"`
		PerformancePercentage float64 `json:"performance_percentage"`
		PointsEarned          int64   `json:"points_earned"`
	} `json:"this_month"`
}

// MonthlyPerformance is one row of a technician's recent-months trend
type MonthlyPerformance struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	TotalRatings int64  `json:"total_ratings"`
	GoodRatings  int64  `json:"good_ratings"`
	BadRatings   int64  `json:"bad_ratings"`
	Percentage   string `json:"month_percentage"`
}

// TechnicianProfile is the technician app profile payload
type TechnicianProfile struct {
	Technician *Technician `json:"technician"`
	Statistics struct {
		TotalPoints       int64   `json:"total_points"`
		TotalRatings      int64   `json:"total_ratings"`
		AveragePercentage float64 `json:"average_percentage"`
		GoodRatingsCount  int64   `json:"good_ratings_count"`
		PoorRatingsCount  int64   `json:"poor_ratings_count"`
	} `json:"statistics"`
	RecentPerformance []*MonthlyPerformance `json:"recent_performance"`
}

// TechnicianPoints is the technician app points-tab payload
type TechnicianPoints struct {
	CurrentPoints      int64              `json:"current_points"`
	AdjustmentsHistory []*PointAdjustment `json:"adjustments_history"`
	Statistics         struct {
		TotalAdjustments    int64 `json:"total_adjustments"`
		PositiveAdjustments int64 `json:"positive_adjustments"`
		NegativeAdjustments int64 `json:"negative_adjustments"`
	} `json:"statistics"`
}
