package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role determines which part of the application a user lands in after login.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTenant Role = "tenant"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTenant
}

// User represents an authentication account, distinct from the Tenant
// record it may be bound to.
type User struct {
	ID                  uuid.UUID
	Email               string
	Name                *string
	Role                Role
	FailedLoginAttempts int
	LockedUntil         *time.Time
	MFAEnabled          bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// IsLocked returns true if the account is currently locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// UserPassword stores password credentials separately from user profile.
type UserPassword struct {
	UserID            uuid.UUID
	PasswordHash      string
	PasswordUpdatedAt time.Time
}
