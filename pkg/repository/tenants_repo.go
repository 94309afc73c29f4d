package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/domain"
)

// TenantsRepository handles tenant record persistence.
type TenantsRepository struct {
	db *sql.DB
}

// NewTenantsRepository creates a new tenants repository.
func NewTenantsRepository(db *sql.DB) *TenantsRepository {
	return &TenantsRepository{db: db}
}

// Create creates a new tenant.
func (r *TenantsRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	return r.CreateTx(ctx, r.db, tenant)
}

// CreateTx creates a new tenant within a transaction.
func (r *TenantsRepository) CreateTx(ctx context.Context, q Querier, tenant *domain.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, email, status, property_id, unit_id, auth_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.ExecContext(ctx, query,
		tenant.ID, tenant.Name, tenant.Email, tenant.Status,
		tenant.PropertyID, tenant.UnitID, tenant.AuthUserID,
		tenant.CreatedAt, tenant.UpdatedAt,
	)
	return err
}

const tenantColumns = `id, name, email, status, property_id, unit_id, auth_user_id, created_at, updated_at`

// GetByID retrieves a tenant by ID.
func (r *TenantsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(r.db.QueryRowContext(ctx, query, id))
}

// GetByAuthUserID retrieves the tenant bound to an authentication account.
func (r *TenantsRepository) GetByAuthUserID(ctx context.Context, authUserID uuid.UUID) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE auth_user_id = $1`
	return scanTenant(r.db.QueryRowContext(ctx, query, authUserID))
}

func scanTenant(row *sql.Row) (*domain.Tenant, error) {
	tenant := &domain.Tenant{}
	err := row.Scan(
		&tenant.ID, &tenant.Name, &tenant.Email, &tenant.Status,
		&tenant.PropertyID, &tenant.UnitID, &tenant.AuthUserID,
		&tenant.CreatedAt, &tenant.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// List retrieves all tenants ordered by creation time.
func (r *TenantsRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		tenant := &domain.Tenant{}
		if err := rows.Scan(
			&tenant.ID, &tenant.Name, &tenant.Email, &tenant.Status,
			&tenant.PropertyID, &tenant.UnitID, &tenant.AuthUserID,
			&tenant.CreatedAt, &tenant.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

// ExistsByEmail checks if a tenant record exists for an email.
func (r *TenantsRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tenants WHERE email = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, err
}

// Count returns the number of tenant records.
func (r *TenantsRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&n)
	return n, err
}

// UpdateStatus sets a tenant's lifecycle status.
func (r *TenantsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus) error {
	query := `UPDATE tenants SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	return requireTenantRow(result)
}

// ActivateTx marks a tenant active with its display name and bound auth
// account, within a transaction.
func (r *TenantsRepository) ActivateTx(ctx context.Context, q Querier, id uuid.UUID, name string, authUserID uuid.UUID) error {
	query := `
		UPDATE tenants
		SET status = $2, name = $3, auth_user_id = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, id, domain.TenantStatusActive, name, authUserID)
	if err != nil {
		return err
	}
	return requireTenantRow(result)
}

// SetUnitTx sets or clears the tenant side of the unit assignment link,
// within a transaction. Both pointers are written together.
func (r *TenantsRepository) SetUnitTx(ctx context.Context, q Querier, id uuid.UUID, unitID, propertyID *uuid.UUID) error {
	query := `
		UPDATE tenants
		SET unit_id = $2, property_id = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, id, unitID, propertyID)
	if err != nil {
		return err
	}
	return requireTenantRow(result)
}

func requireTenantRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}
