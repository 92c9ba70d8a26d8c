package models

import "time"

// Role is the authorization level of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account record as persisted by the credential store.
// PasswordHash must never leave the service boundary; use Sanitize before
// returning a user to a caller.
type User struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          Role       `json:"role"`
	IsActive      bool       `json:"isActive"`
	EmailVerified bool       `json:"emailVerified"`
	Phone         string     `json:"phone,omitempty"`
	Company       string     `json:"company,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

// SanitizedUser is the public projection of a User.
type SanitizedUser struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          Role       `json:"role"`
	IsActive      bool       `json:"isActive"`
	EmailVerified bool       `json:"emailVerified"`
	Phone         string     `json:"phone,omitempty"`
	Company       string     `json:"company,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

// Sanitize strips credential material from u.
func (u User) Sanitize() SanitizedUser {
	return SanitizedUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		Phone:         u.Phone,
		Company:       u.Company,
		CreatedAt:     u.CreatedAt,
		LastLoginAt:   u.LastLoginAt,
	}
}

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,max=255,emailshape"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone,omitempty" validate:"max=50"`
	Company  string `json:"company,omitempty" validate:"max=255"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the payload of POST /auth/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// SetActiveRequest is the payload of PUT /admin/users/{id}/active.
type SetActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User         SanitizedUser
	SessionToken string
	ExpiresAt    time.Time
}
