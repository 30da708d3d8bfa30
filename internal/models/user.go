package models

import "time"

// User types
const (
	UserTypeAdmin      = "admin"
	UserTypeTechnician = "technician"
)

// Admin is a back-office user who manages technicians, questions and links
type Admin struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Technician is a rated field worker
type Technician struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	EmployeeID   string    `json:"employee_id"`
	PasswordHash *string   `json:"-"`
	TotalPoints  int64     `json:"total_points"`
	TotalRatings int64     `json:"total_ratings"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionUser is the authenticated identity embedded in API responses
type SessionUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// LoginRequest is the credentials payload for both user types
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type" binding:"required,oneof=admin technician"`
}

// LoginResponse carries a fresh session token
type LoginResponse struct {
	Token     string      `json:"token"`
	User      SessionUser `json:"user"`
	ExpiresIn string      `json:"expires_in"`
}

// PasswordCreationResponse tells the client a first-login password must be set
type PasswordCreationResponse struct {
	RequiresPasswordCreation bool   `json:"requires_password_creation"`
	UserID                   int64  `json:"user_id"`
	UserType                 string `json:"user_type"`
	Name                     string `json:"name"`
	Email                    string `json:"email"`
}

// CreatePasswordRequest sets the initial password for a first login
type CreatePasswordRequest struct {
	UserID          int64  `json:"user_id" binding:"required"`
	UserType        string `json:"user_type" binding:"required,oneof=admin technician"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// ForgotPasswordRequest asks for a reset email
type ForgotPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	UserType string `json:"user_type" binding:"required,oneof=admin technician"`
}

// ResetPasswordRequest consumes a reset token
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// CreateTechnicianRequest creates a new technician account
type CreateTechnicianRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"max=50"`
	EmployeeID string `json:"employee_id" binding:"max=50"`
}

// UpdateTechnicianRequest edits an existing technician; nil fields are untouched
type UpdateTechnicianRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=200"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	EmployeeID *string `json:"employee_id" binding:"omitempty,max=50"`
	Active     *bool   `json:"active"`
}
