package auth

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/rentwell/propman/pkg/domain"
	"github.com/rentwell/propman/pkg/repository"
)

const (
	totpPeriod = 30
	totpSkew   = 1 // Allow ±30 seconds clock drift
)

// MFAConfig contains configuration for the MFA service.
type MFAConfig struct {
	Issuer        string // shown in authenticator apps
	EncryptionKey []byte // 32 bytes for AES-256
}

// MFAService handles TOTP enrollment and verification for admin accounts.
type MFAService struct {
	config  MFAConfig
	secrets *repository.MFASecretsRepository
	users   *repository.UsersRepository
}

// NewMFAService creates a new MFA service.
func NewMFAService(config MFAConfig, secrets *repository.MFASecretsRepository, users *repository.UsersRepository) *MFAService {
	return &MFAService{
		config:  config,
		secrets: secrets,
		users:   users,
	}
}

// SetupTOTP generates a TOTP secret for a user and stores it encrypted.
// MFA is not considered enabled until VerifyTOTPAndEnable succeeds.
func (s *MFAService) SetupTOTP(ctx context.Context, userID uuid.UUID) (*domain.MFASetupResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.MFAEnabled {
		return nil, domain.ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.config.Issuer,
		AccountName: user.Email,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	encrypted, err := s.encryptSecret(key.Secret())
	if err != nil {
		return nil, err
	}

	// Replace any earlier unconfirmed enrollment
	if err := s.secrets.DeleteByUserID(ctx, userID); err != nil {
		return nil, err
	}
	secret := &domain.MFASecret{
		ID:              uuid.New(),
		UserID:          userID,
		SecretEncrypted: encrypted,
		CreatedAt:       time.Now(),
	}
	if err := s.secrets.Create(ctx, secret); err != nil {
		return nil, err
	}

	return &domain.MFASetupResponse{
		Secret:          key.Secret(),
		ProvisioningURL: key.URL(),
	}, nil
}

// VerifyTOTPAndEnable confirms the enrollment code and switches MFA on.
func (s *MFAService) VerifyTOTPAndEnable(ctx context.Context, userID uuid.UUID, code string) error {
	ok, err := s.VerifyTOTP(ctx, userID, code)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidMFACode
	}
	return s.users.UpdateMFAEnabled(ctx, userID, true)
}

// VerifyTOTP checks a TOTP code against the user's stored secret.
func (s *MFAService) VerifyTOTP(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	secret, err := s.secrets.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}

	plaintext, err := s.decryptSecret(secret.SecretEncrypted)
	if err != nil {
		return false, err
	}

	valid, err := totp.ValidateCustom(code, plaintext, time.Now(), totp.ValidateOpts{
		Period: totpPeriod,
		Skew:   totpSkew,
		Digits: otp.DigitsSix,
	})
	if err != nil {
		return false, err
	}
	if valid {
		_ = s.secrets.UpdateLastUsed(ctx, userID)
	}
	return valid, nil
}

// DisableMFA removes the stored secret and switches MFA off.
func (s *MFAService) DisableMFA(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFAEnabled {
		return domain.ErrMFANotEnabled
	}
	if err := s.secrets.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.users.UpdateMFAEnabled(ctx, userID, false)
}

// encryptSecret encrypts a secret using AES-256-GCM.
func (s *MFAService) encryptSecret(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.config.EncryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decryptSecret decrypts an encrypted secret using AES-256-GCM.
func (s *MFAService) decryptSecret(encrypted string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(s.config.EncryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
