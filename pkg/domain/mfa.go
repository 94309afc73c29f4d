package domain

import (
	"time"

	"github.com/google/uuid"
)

// MFASecret represents an encrypted TOTP secret for a user.
type MFASecret struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	SecretEncrypted string // AES-256-GCM encrypted TOTP secret
	CreatedAt       time.Time
	LastUsedAt      *time.Time
}

// MFASetupResponse contains data returned when setting up MFA.
type MFASetupResponse struct {
	Secret          string // Base32 TOTP secret (for manual entry)
	ProvisioningURL string // otpauth:// URL for authenticator apps
}
