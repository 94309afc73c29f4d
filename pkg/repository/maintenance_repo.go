package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/domain"
)

// MaintenanceRepository handles maintenance request persistence. Requests
// are append-only; only the status field is ever mutated.
type MaintenanceRepository struct {
	db *sql.DB
}

// NewMaintenanceRepository creates a new maintenance requests repository.
func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const requestColumns = `id, property, unit, tenant, tenant_id, title, description, status, submitted_at, updated_at`

// Create creates a new maintenance request.
func (r *MaintenanceRepository) Create(ctx context.Context, req *domain.MaintenanceRequest) error {
	query := `
		INSERT INTO maintenance_requests (id, property, unit, tenant, tenant_id, title, description, status, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.Property, req.Unit, req.Tenant, req.TenantID,
		req.Title, req.Description, req.Status, req.SubmittedAt, req.UpdatedAt,
	)
	return err
}

// GetByID retrieves a maintenance request by ID.
func (r *MaintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_requests WHERE id = $1`
	req := &domain.MaintenanceRequest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.Property, &req.Unit, &req.Tenant, &req.TenantID,
		&req.Title, &req.Description, &req.Status, &req.SubmittedAt, &req.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// List retrieves all maintenance requests, newest first.
func (r *MaintenanceRepository) List(ctx context.Context) ([]*domain.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_requests ORDER BY submitted_at DESC`
	return r.queryRequests(ctx, query)
}

// ListByTenant retrieves a tenant's own requests, newest first.
func (r *MaintenanceRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_requests WHERE tenant_id = $1 ORDER BY submitted_at DESC`
	return r.queryRequests(ctx, query, tenantID)
}

// ListRecent retrieves the newest n requests.
func (r *MaintenanceRepository) ListRecent(ctx context.Context, n int) ([]*domain.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_requests ORDER BY submitted_at DESC LIMIT $1`
	return r.queryRequests(ctx, query, n)
}

func (r *MaintenanceRepository) queryRequests(ctx context.Context, query string, args ...any) ([]*domain.MaintenanceRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.MaintenanceRequest
	for rows.Next() {
		req := &domain.MaintenanceRequest{}
		if err := rows.Scan(
			&req.ID, &req.Property, &req.Unit, &req.Tenant, &req.TenantID,
			&req.Title, &req.Description, &req.Status, &req.SubmittedAt, &req.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// UpdateStatus sets a request's status.
func (r *MaintenanceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	query := `
		UPDATE maintenance_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// CountOpen returns the number of requests not yet resolved.
func (r *MaintenanceRepository) CountOpen(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM maintenance_requests WHERE status <> $1`
	var n int
	err := r.db.QueryRowContext(ctx, query, domain.RequestStatusResolved).Scan(&n)
	return n, err
}
