// Package leasing maintains the bidirectional link between tenants and
// units. The unit's occupant pointer and the tenant's unit/property
// pointers are always written in one transaction so the two sides cannot
// disagree.
package leasing

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/repository"
)

// Service applies assignment operations and the property deletion guard.
type Service struct {
	db         *sql.DB
	tenants    *repository.TenantsRepository
	units      *repository.UnitsRepository
	properties *repository.PropertiesRepository
}

// NewService creates a new leasing service.
func NewService(db *sql.DB, tenants *repository.TenantsRepository, units *repository.UnitsRepository, properties *repository.PropertiesRepository) *Service {
	return &Service{
		db:         db,
		tenants:    tenants,
		units:      units,
		properties: properties,
	}
}

// Assign places a tenant into a vacant unit. Both sides of the link are
// updated together: unit gains the occupant, tenant gains the unit and the
// unit's property. The reads up front give friendly errors; the conditional
// write inside the transaction is what actually guarantees the unit is
// claimed once.
func (s *Service) Assign(ctx context.Context, tenantID, unitID uuid.UUID) error {
	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return err
	}
	if unit.IsOccupied() {
		return domain.ErrUnitOccupied
	}

	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.IsAssigned() {
		return domain.ErrTenantAlreadyAssigned
	}

	return repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.units.AssignOccupantTx(ctx, tx, unitID, tenantID); err != nil {
			return err
		}
		return s.tenants.SetUnitTx(ctx, tx, tenantID, &unitID, &unit.PropertyID)
	})
}

// Unassign removes a tenant from its unit, restoring the unit to vacant.
// A tenant without a unit is a no-op.
func (s *Service) Unassign(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !tenant.IsAssigned() {
		return nil
	}

	unitID := *tenant.UnitID
	return repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.units.ClearOccupantTx(ctx, tx, unitID, tenantID); err != nil {
			return err
		}
		return s.tenants.SetUnitTx(ctx, tx, tenantID, nil, nil)
	})
}

// DeleteProperty deletes a property, rejecting the request while any unit
// still references it. Checked here rather than left to the foreign key so
// the caller gets a domain error instead of a constraint violation.
func (s *Service) DeleteProperty(ctx context.Context, propertyID uuid.UUID) error {
	n, err := s.units.CountByProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrPropertyHasUnits
	}
	return s.properties.Delete(ctx, propertyID)
}
