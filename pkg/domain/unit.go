package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnitStatus mirrors the occupancy pointer: occupied iff TenantID is set.
type UnitStatus string

const (
	UnitStatusVacant   UnitStatus = "vacant"
	UnitStatusOccupied UnitStatus = "occupied"
)

// Unit is a rentable sub-location within a property, with at most one
// current occupant.
type Unit struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	UnitNumber string
	Rent       float64
	TenantID   *uuid.UUID
	Status     UnitStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOccupied returns true if the unit has a current occupant.
func (u *Unit) IsOccupied() bool {
	return u.Status == UnitStatusOccupied
}

// Consistent reports whether the status field agrees with the occupant
// pointer. The two are always written together; a false result means the
// record diverged and needs repair.
func (u *Unit) Consistent() bool {
	return (u.Status == UnitStatusOccupied) == (u.TenantID != nil)
}
