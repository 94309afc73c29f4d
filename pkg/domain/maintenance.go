package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the workflow state of a maintenance request. Admins may
// set any status at any time, including open directly to resolved; there is
// no enforced forward-only progression.
type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "open"
	RequestStatusInProgress RequestStatus = "in-progress"
	RequestStatusResolved   RequestStatus = "resolved"
)

// Valid reports whether the status is one of the known variants.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusOpen, RequestStatusInProgress, RequestStatusResolved:
		return true
	}
	return false
}

// MaintenanceRequest is a tenant-submitted issue report. Property, Unit and
// Tenant are display snapshots taken at submission time; they are not
// foreign keys and do not update if the tenant is later renamed or
// reassigned, preserving the historical context of the complaint.
type MaintenanceRequest struct {
	ID          uuid.UUID
	Property    string
	Unit        string
	Tenant      string
	TenantID    uuid.UUID
	Title       string
	Description string
	Status      RequestStatus
	SubmittedAt time.Time
	UpdatedAt   time.Time
}
