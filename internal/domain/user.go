package domain

import (
	"regexp"
	"time"
)

// Role represents a user's role in the system.
type Role string

// List of roles
const (
	RoleClient         Role = "client"
	RoleDriver         Role = "driver"
	RoleOwner          Role = "owner"
	RoleAdmin          Role = "admin"
	RoleSupervisor     Role = "supervisor"
	RoleFinanceManager Role = "finance_manager"
)

var allowedRoles = [...]Role{
	RoleClient, RoleDriver, RoleOwner, RoleAdmin, RoleSupervisor, RoleFinanceManager,
}

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// SelfService reports whether the role may be chosen at public registration.
func (r Role) SelfService() bool {
	return r == RoleClient || r == RoleDriver
}

// User is an account that owns deliveries as a client or a driver.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FuelPrice is the published per-liter rate of a fuel type.
type FuelPrice struct {
	FuelType     FuelType
	RatePerLiter float64
	UpdatedBy    *string
	UpdatedAt    time.Time
}

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail validates the email format
func ValidateEmail(s string) bool {
	return reEmail.MatchString(s)
}
