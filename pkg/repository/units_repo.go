package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/domain"
)

// UnitsRepository handles unit persistence.
type UnitsRepository struct {
	db *sql.DB
}

// NewUnitsRepository creates a new units repository.
func NewUnitsRepository(db *sql.DB) *UnitsRepository {
	return &UnitsRepository{db: db}
}

const unitColumns = `id, property_id, unit_number, rent, tenant_id, status, created_at, updated_at`

// Create creates a new unit.
func (r *UnitsRepository) Create(ctx context.Context, unit *domain.Unit) error {
	query := `
		INSERT INTO units (id, property_id, unit_number, rent, tenant_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		unit.ID, unit.PropertyID, unit.UnitNumber, unit.Rent,
		unit.TenantID, unit.Status, unit.CreatedAt, unit.UpdatedAt,
	)
	return err
}

// GetByID retrieves a unit by ID.
func (r *UnitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1`
	unit := &domain.Unit{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&unit.ID, &unit.PropertyID, &unit.UnitNumber, &unit.Rent,
		&unit.TenantID, &unit.Status, &unit.CreatedAt, &unit.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnitNotFound
	}
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// List retrieves all units ordered by unit number.
func (r *UnitsRepository) List(ctx context.Context) ([]*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units ORDER BY unit_number`
	return r.queryUnits(ctx, query)
}

// ListByProperty retrieves all units belonging to a property.
func (r *UnitsRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE property_id = $1 ORDER BY unit_number`
	return r.queryUnits(ctx, query, propertyID)
}

func (r *UnitsRepository) queryUnits(ctx context.Context, query string, args ...any) ([]*domain.Unit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*domain.Unit
	for rows.Next() {
		unit := &domain.Unit{}
		if err := rows.Scan(
			&unit.ID, &unit.PropertyID, &unit.UnitNumber, &unit.Rent,
			&unit.TenantID, &unit.Status, &unit.CreatedAt, &unit.UpdatedAt,
		); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

// Update updates a unit's property, number and rent. Occupancy is managed
// separately through AssignOccupantTx and ClearOccupantTx.
func (r *UnitsRepository) Update(ctx context.Context, unit *domain.Unit) error {
	query := `
		UPDATE units
		SET property_id = $2, unit_number = $3, rent = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, unit.ID, unit.PropertyID, unit.UnitNumber, unit.Rent)
	if err != nil {
		return err
	}
	return requireUnitRow(result)
}

// AssignOccupantTx claims a vacant unit for a tenant, within a transaction.
// The vacancy condition lives in the update itself so of two concurrent
// claims on the same unit exactly one sees a row update and the other gets
// ErrUnitOccupied. Status is written together with the occupant pointer so
// the two can never diverge.
func (r *UnitsRepository) AssignOccupantTx(ctx context.Context, q Querier, id, tenantID uuid.UUID) error {
	query := `
		UPDATE units
		SET tenant_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND tenant_id IS NULL
	`
	result, err := q.ExecContext(ctx, query, id, tenantID, domain.UnitStatusOccupied)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish missing from occupied.
		var occupied bool
		err := q.QueryRowContext(ctx, `SELECT tenant_id IS NOT NULL FROM units WHERE id = $1`, id).Scan(&occupied)
		if err == sql.ErrNoRows {
			return domain.ErrUnitNotFound
		}
		if err != nil {
			return err
		}
		if occupied {
			return domain.ErrUnitOccupied
		}
		return domain.ErrUnitNotFound
	}
	return nil
}

// ClearOccupantTx releases a unit currently held by the given tenant,
// within a transaction. Zero rows means the unit was already released or
// claimed by someone else; the caller's tenant-side clear still applies, so
// that is not an error.
func (r *UnitsRepository) ClearOccupantTx(ctx context.Context, q Querier, id, tenantID uuid.UUID) error {
	query := `
		UPDATE units
		SET tenant_id = NULL, status = $3, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`
	_, err := q.ExecContext(ctx, query, id, tenantID, domain.UnitStatusVacant)
	return err
}

// Delete deletes a vacant unit. The occupancy guard lives in the query so a
// concurrent assignment cannot race the check.
func (r *UnitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = $1 AND tenant_id IS NULL`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish missing from occupied.
		var occupied bool
		err := r.db.QueryRowContext(ctx, `SELECT tenant_id IS NOT NULL FROM units WHERE id = $1`, id).Scan(&occupied)
		if err == sql.ErrNoRows {
			return domain.ErrUnitNotFound
		}
		if err != nil {
			return err
		}
		if occupied {
			return domain.ErrUnitOccupied
		}
		return domain.ErrUnitNotFound
	}
	return nil
}

// CountByProperty returns the number of units referencing a property.
func (r *UnitsRepository) CountByProperty(ctx context.Context, propertyID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM units WHERE property_id = $1`, propertyID).Scan(&n)
	return n, err
}

// Counts returns total and occupied unit counts.
func (r *UnitsRepository) Counts(ctx context.Context) (total, occupied int, err error) {
	query := `SELECT COUNT(*), COUNT(tenant_id) FROM units`
	err = r.db.QueryRowContext(ctx, query).Scan(&total, &occupied)
	return total, occupied, err
}

func requireUnitRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}
