package models

import (
	"errors"
	"regexp"
	"strings"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleOrganizer UserRole = "organizer"
	UserRoleAdmin     UserRole = "admin"
)

// Valid reports whether the role is a known role
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleOrganizer, UserRoleAdmin:
		return true
	}
	return false
}

// UserStatistics summarises a user's bookings in the admin view
type UserStatistics struct {
	TotalBookings     int    `json:"totalBookings"`
	ConfirmedBookings int    `json:"confirmedBookings"`
	CancelledBookings int    `json:"cancelledBookings"`
	TotalSpent        Amount `json:"totalSpent"`
}

// User represents a user in the system
type User struct {
	ID          int             `json:"id"`
	FullName    string          `json:"fullName"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	Role        UserRole        `json:"role"`
	Gender      string          `json:"gender"`
	BirthDate   *string         `json:"birthDate"`
	CreatedAt   string          `json:"createdAt"`
	Statistics  *UserStatistics `json:"statistics,omitempty"`
}

// UserUpdate carries the admin-editable fields of a user
type UserUpdate struct {
	FullName    *string   `json:"fullName,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Role        *UserRole `json:"role,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
	BirthDate   *string   `json:"birthDate,omitempty"`
}

// Validate validates the admin update
func (u *UserUpdate) Validate() error {
	if u.Role != nil && !u.Role.Valid() {
		return NewValidationError("role", "invalid role")
	}
	if u.FullName != nil && strings.TrimSpace(*u.FullName) == "" {
		return NewValidationError("fullName", "full name cannot be empty")
	}
	return nil
}

// Profile is the signed-in user's own profile
type Profile struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender"`
	BirthDate   string `json:"birthDate"`
}

// Credentials is the login/register payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser is the user summary returned on login
type AuthUser struct {
	ID       int      `json:"id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"fullName"`
}

// AuthResponse is the backend's answer to login and register
type AuthResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token,omitempty"`
	User        *AuthUser `json:"user,omitempty"`
}

// PasswordChange is the body of POST /user/change-password
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PasswordReset is the body of POST /auth/reset-password
type PasswordReset struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// OTPVerification is the body of POST /auth/verify-otp
type OTPVerification struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

var userEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate validates login/register credentials
func (c *Credentials) Validate() error {
	if !userEmailRegex.MatchString(strings.TrimSpace(c.Email)) {
		return NewValidationError("email", "email format is invalid")
	}
	if c.Password == "" {
		return NewValidationError("password", "password is required")
	}
	return nil
}

// Validate validates a password change
func (p *PasswordChange) Validate() error {
	if p.CurrentPassword == "" {
		return NewValidationError("currentPassword", "current password is required")
	}
	if err := validatePassword(p.NewPassword); err != nil {
		return NewValidationError("newPassword", err.Error())
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	if len(password) > 128 {
		return errors.New("password must be less than 128 characters")
	}
	return nil
}
