// Package maintenance tracks tenant-submitted issue reports. Creation is
// append-only by the owning tenant; admins move requests between open,
// in-progress and resolved.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/auth"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/repository"
)

// Service handles maintenance request submission, status changes and views.
type Service struct {
	requests   *repository.MaintenanceRepository
	tenants    *repository.TenantsRepository
	units      *repository.UnitsRepository
	properties *repository.PropertiesRepository
}

// NewService creates a new maintenance service.
func NewService(requests *repository.MaintenanceRepository, tenants *repository.TenantsRepository, units *repository.UnitsRepository, properties *repository.PropertiesRepository) *Service {
	return &Service{
		requests:   requests,
		tenants:    tenants,
		units:      units,
		properties: properties,
	}
}

// Submit creates a request on behalf of a tenant. Property, unit and tenant
// display names are snapshotted from the tenant's current assignment; they
// stay frozen even if the tenant is later renamed or reassigned.
func (s *Service) Submit(ctx context.Context, tenantID uuid.UUID, title, description string) (*domain.MaintenanceRequest, error) {
	title = auth.SanitizeName(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var propertyName, unitNumber string
	if tenant.UnitID != nil {
		if unit, err := s.units.GetByID(ctx, *tenant.UnitID); err == nil {
			unitNumber = unit.UnitNumber
		}
	}
	if tenant.PropertyID != nil {
		if property, err := s.properties.GetByID(ctx, *tenant.PropertyID); err == nil {
			propertyName = property.Name
		}
	}

	now := time.Now()
	req := &domain.MaintenanceRequest{
		ID:          uuid.New(),
		Property:    propertyName,
		Unit:        unitNumber,
		Tenant:      tenant.Name,
		TenantID:    tenant.ID,
		Title:       title,
		Description: description,
		Status:      domain.RequestStatusOpen,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// SetStatus sets a request's status. Any known status may be set at any
// time, including open directly to resolved.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidRequestStatus
	}
	return s.requests.UpdateStatus(ctx, id, status)
}

// ListAll returns all requests matching the filter, newest first.
func (s *Service) ListAll(ctx context.Context, filter Filter) ([]*domain.MaintenanceRequest, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterRequests(requests, filter), nil
}

// ListForTenant returns a tenant's own requests, newest first.
func (s *Service) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.MaintenanceRequest, error) {
	return s.requests.ListByTenant(ctx, tenantID)
}
