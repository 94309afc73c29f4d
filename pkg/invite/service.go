// Package invite implements the tenant invite lifecycle: issuing a
// single-use signup code bound to a pending tenant record, verifying it,
// and consuming it exactly once to activate the tenant.
package invite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentwell/propman/pkg/auth"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/repository"
)

// DefaultTTL is how long an invite stays redeemable.
const DefaultTTL = 7 * 24 * time.Hour

// AccountCreator is the auth-provider collaborator consumed by signup
// completion.
type AccountCreator interface {
	CreateAccount(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error)
}

// Config holds invite service settings.
type Config struct {
	// TTL is the invite lifetime (default: 7 days).
	TTL time.Duration
	// BaseURL is the application origin embedded in signup links.
	BaseURL string
}

// Service issues, verifies and consumes tenant invites.
type Service struct {
	config   Config
	db       *sql.DB
	tenants  *repository.TenantsRepository
	invites  *repository.InvitesRepository
	accounts AccountCreator
}

// NewService creates a new invite service.
func NewService(config Config, db *sql.DB, tenants *repository.TenantsRepository, invites *repository.InvitesRepository, accounts AccountCreator) *Service {
	if config.TTL == 0 {
		config.TTL = DefaultTTL
	}
	return &Service{
		config:   config,
		db:       db,
		tenants:  tenants,
		invites:  invites,
		accounts: accounts,
	}
}

// CreateInvite creates a pending tenant record and a single-use invite
// bound to it, returning the invite and the signup URL to hand out. The
// tenant and invite rows are written in one transaction so a store failure
// cannot leave a tenant without an invite.
func (s *Service) CreateInvite(ctx context.Context, name, email string) (*domain.Invite, string, error) {
	if err := auth.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	email = auth.NormalizeEmail(email)
	name = auth.SanitizeName(name)
	if name == "" {
		return nil, "", fmt.Errorf("tenant name is required")
	}

	exists, err := s.tenants.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", domain.ErrTenantAlreadyExists
	}

	code, err := GenerateCode()
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Status:    domain.TenantStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	inv := &domain.Invite{
		Code:      code,
		TenantID:  tenant.ID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}

	err = repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tenants.CreateTx(ctx, tx, tenant); err != nil {
			return err
		}
		return s.invites.CreateTx(ctx, tx, inv)
	})
	if err != nil {
		return nil, "", err
	}

	return inv, s.SignupURL(code), nil
}

// SignupURL returns the signup link for a code.
func (s *Service) SignupURL(code string) string {
	return fmt.Sprintf("%s/signup/%s", s.config.BaseURL, code)
}

// Verify looks up a code and checks it is still redeemable. Pure read,
// safe to call repeatedly.
func (s *Service) Verify(ctx context.Context, code string) (*domain.Invite, error) {
	inv, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := inv.Redeemable(time.Now()); err != nil {
		return nil, err
	}
	return inv, nil
}

// VerifyWithTenant verifies a code and loads the pending tenant bound to
// it, for pre-filling the signup form.
func (s *Service) VerifyWithTenant(ctx context.Context, code string) (*domain.Invite, *domain.Tenant, error) {
	inv, err := s.Verify(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	tenant, err := s.tenants.GetByID(ctx, inv.TenantID)
	if err != nil {
		return nil, nil, err
	}
	return inv, tenant, nil
}

// CompleteSignup consumes a valid invite exactly once: it creates the
// authentication account for the invite's email, then atomically flips the
// used flag and activates the bound tenant. The conditional used-flag
// update serializes concurrent completions; the loser gets
// ErrInviteAlreadyUsed. If the transaction fails after account creation the
// account is left orphaned for the invite email (see DESIGN.md); tenant
// activation and invite consumption themselves can never diverge.
func (s *Service) CompleteSignup(ctx context.Context, code, name, password string) (*domain.Tenant, *domain.User, error) {
	inv, err := s.Verify(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	name = auth.SanitizeName(name)
	if name == "" {
		return nil, nil, fmt.Errorf("display name is required")
	}

	user, err := s.accounts.CreateAccount(ctx, inv.Email, password, name, domain.RoleTenant)
	if err != nil {
		return nil, nil, err
	}

	err = repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.invites.MarkUsedTx(ctx, tx, code); err != nil {
			return err
		}
		return s.tenants.ActivateTx(ctx, tx, inv.TenantID, name, user.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	tenant, err := s.tenants.GetByID(ctx, inv.TenantID)
	if err != nil {
		return nil, nil, err
	}
	return tenant, user, nil
}
