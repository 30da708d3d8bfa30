package models

// Setting keys
const (
	SettingPassPercentage     = "pass_percentage"
	SettingPointsGood         = "points_good"
	SettingPointsBad          = "points_bad"
	SettingCompanyName        = "company_name"
	SettingCompanyColor       = "company_color"
	SettingTimezone           = "timezone"
	SettingRatingInstructions = "rating_instructions"
	SettingThankYouMessage    = "thank_you_message"
)

// ScoringSettings are the server-side scoring knobs, parsed from the
// settings table
type ScoringSettings struct {
	PassPercentage  float64
	PointsGood      int
	PointsBad       int
	ThankYouMessage string
	Instructions    string
}

// UpdateSettingsRequest sets one or more settings by key
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required,min=1"`
}
