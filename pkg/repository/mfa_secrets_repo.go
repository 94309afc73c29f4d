package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/domain"
)

// MFASecretsRepository handles TOTP secret persistence.
type MFASecretsRepository struct {
	db *sql.DB
}

// NewMFASecretsRepository creates a new MFA secrets repository.
func NewMFASecretsRepository(db *sql.DB) *MFASecretsRepository {
	return &MFASecretsRepository{db: db}
}

// Create inserts a new MFA secret.
func (r *MFASecretsRepository) Create(ctx context.Context, secret *domain.MFASecret) error {
	query := `
		INSERT INTO mfa_secrets (id, user_id, secret_encrypted, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		secret.ID, secret.UserID, secret.SecretEncrypted,
		secret.CreatedAt, secret.LastUsedAt,
	)
	return err
}

// GetByUserID retrieves the MFA secret for a user.
func (r *MFASecretsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.MFASecret, error) {
	query := `
		SELECT id, user_id, secret_encrypted, created_at, last_used_at
		FROM mfa_secrets
		WHERE user_id = $1
	`
	secret := &domain.MFASecret{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&secret.ID, &secret.UserID, &secret.SecretEncrypted,
		&secret.CreatedAt, &secret.LastUsedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMFANotEnabled
	}
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// UpdateLastUsed records the last successful verification time.
func (r *MFASecretsRepository) UpdateLastUsed(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE mfa_secrets
		SET last_used_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// DeleteByUserID removes the MFA secret for a user.
func (r *MFASecretsRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mfa_secrets WHERE user_id = $1`, userID)
	return err
}
