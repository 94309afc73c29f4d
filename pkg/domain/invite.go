package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a single-use, time-limited token binding an email/tenant pair
// to a signup action. The code acts as the primary key.
type Invite struct {
	Code      string
	TenantID  uuid.UUID
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
}

// Redeemable returns nil if the invite can still be consumed at the given
// instant. Expiry is checked before the used flag so an expired invite
// reports expired regardless of whether it was also consumed.
func (i *Invite) Redeemable(now time.Time) error {
	if !now.Before(i.ExpiresAt) {
		return ErrInviteExpired
	}
	if i.Used {
		return ErrInviteAlreadyUsed
	}
	return nil
}
