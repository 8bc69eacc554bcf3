package domain

import "time"

// Role enumerates account roles. SUPPORT and ADMIN are staff roles.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleSupport Role = "SUPPORT"
	RoleAdmin   Role = "ADMIN"
)

// IsStaff reports whether the role carries operator permissions.
func (r Role) IsStaff() bool {
	return r == RoleSupport || r == RoleAdmin
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for all accounts: students who book services and
// the support/admin operators who work them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
