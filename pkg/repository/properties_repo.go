package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/domain"
)

// PropertiesRepository handles property persistence.
type PropertiesRepository struct {
	db *sql.DB
}

// NewPropertiesRepository creates a new properties repository.
func NewPropertiesRepository(db *sql.DB) *PropertiesRepository {
	return &PropertiesRepository{db: db}
}

// Create creates a new property.
func (r *PropertiesRepository) Create(ctx context.Context, property *domain.Property) error {
	query := `
		INSERT INTO properties (id, name, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		property.ID, property.Name, property.Location, property.CreatedAt, property.UpdatedAt,
	)
	return err
}

// GetByID retrieves a property by ID.
func (r *PropertiesRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	query := `
		SELECT id, name, location, created_at, updated_at
		FROM properties
		WHERE id = $1
	`
	property := &domain.Property{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&property.ID, &property.Name, &property.Location,
		&property.CreatedAt, &property.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return property, nil
}

// List retrieves all properties ordered by name.
func (r *PropertiesRepository) List(ctx context.Context) ([]*domain.Property, error) {
	query := `
		SELECT id, name, location, created_at, updated_at
		FROM properties
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*domain.Property
	for rows.Next() {
		property := &domain.Property{}
		if err := rows.Scan(
			&property.ID, &property.Name, &property.Location,
			&property.CreatedAt, &property.UpdatedAt,
		); err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}

// Update updates a property's name and location.
func (r *PropertiesRepository) Update(ctx context.Context, property *domain.Property) error {
	query := `
		UPDATE properties
		SET name = $2, location = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, property.ID, property.Name, property.Location)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

// Delete permanently deletes a property. Callers must check the unit
// reference guard first; the schema has no cascading foreign key here.
func (r *PropertiesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

// Count returns the number of properties.
func (r *PropertiesRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&n)
	return n, err
}
