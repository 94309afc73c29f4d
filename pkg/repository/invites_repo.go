package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rentwell/propman/pkg/domain"
)

// InvitesRepository handles invite persistence. Invites are keyed by their
// code and never deleted; consumption flips the used flag exactly once.
type InvitesRepository struct {
	db *sql.DB
}

// NewInvitesRepository creates a new invites repository.
func NewInvitesRepository(db *sql.DB) *InvitesRepository {
	return &InvitesRepository{db: db}
}

// Create creates a new invite.
func (r *InvitesRepository) Create(ctx context.Context, invite *domain.Invite) error {
	return r.CreateTx(ctx, r.db, invite)
}

// CreateTx creates a new invite within a transaction.
func (r *InvitesRepository) CreateTx(ctx context.Context, q Querier, invite *domain.Invite) error {
	query := `
		INSERT INTO invites (code, tenant_id, email, created_at, expires_at, used, used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.ExecContext(ctx, query,
		invite.Code, invite.TenantID, invite.Email,
		invite.CreatedAt, invite.ExpiresAt, invite.Used, invite.UsedAt,
	)
	return err
}

// GetByCode retrieves an invite by its code.
func (r *InvitesRepository) GetByCode(ctx context.Context, code string) (*domain.Invite, error) {
	query := `
		SELECT code, tenant_id, email, created_at, expires_at, used, used_at
		FROM invites
		WHERE code = $1
	`
	invite := &domain.Invite{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&invite.Code, &invite.TenantID, &invite.Email,
		&invite.CreatedAt, &invite.ExpiresAt, &invite.Used, &invite.UsedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// MarkUsedTx flips used false→true within a transaction. The conditional
// write is the serialization point for signup completion: of two concurrent
// completions for the same code, exactly one sees a row update here and the
// other gets ErrInviteAlreadyUsed.
func (r *InvitesRepository) MarkUsedTx(ctx context.Context, q Querier, code string) error {
	query := `
		UPDATE invites
		SET used = TRUE, used_at = NOW()
		WHERE code = $1 AND used = FALSE
	`
	result, err := q.ExecContext(ctx, query, code)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInviteAlreadyUsed
	}
	return nil
}
