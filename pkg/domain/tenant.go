package domain

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the lifecycle state of a tenant record.
type TenantStatus string

const (
	// TenantStatusPending is the state between invitation and completed signup.
	TenantStatusPending  TenantStatus = "pending"
	TenantStatusActive   TenantStatus = "active"
	TenantStatusDisabled TenantStatus = "disabled"
)

// Tenant represents a renter. The authentication account lives separately
// (AuthUserID is nil until signup completes).
type Tenant struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Status     TenantStatus
	PropertyID *uuid.UUID
	UnitID     *uuid.UUID
	AuthUserID *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAssigned returns true if the tenant currently occupies a unit.
func (t *Tenant) IsAssigned() bool {
	return t.UnitID != nil
}
