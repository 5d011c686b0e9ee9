package models

import "time"

// User roles. A user carries exactly one role; what a role may do is
// decided by the middleware policy table, not here.
const (
	RoleAdmin        = "ADMIN"
	RoleManager      = "MANAGER"
	RoleWaiter       = "WAITER"
	RoleChef         = "CHEF"
	RoleCook         = "COOK"
	RoleAccountant   = "ACCOUNTANT"
	RoleReceptionist = "RECEPTIONIST"
)

// IsValidRole checks if the provided string is one of the fixed roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleWaiter, RoleChef, RoleCook, RoleAccountant, RoleReceptionist:
		return true
	default:
		return false
	}
}

// User represents a back-office user account.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	Email        *string    `json:"email,omitempty" db:"email"`
	FullName     *string    `json:"full_name,omitempty" db:"full_name"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Role         string     `json:"role" db:"role"`
	PhotoPath    *string    `json:"photo_path,omitempty" db:"photo_path"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	HireDate     *time.Time `json:"hire_date,omitempty" db:"hire_date"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegistrationPayload for user registration
type RegistrationPayload struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required,min=8"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"` // defaults to WAITER
}
