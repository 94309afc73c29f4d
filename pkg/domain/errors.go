package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked due to too many failed login attempts")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidToken       = errors.New("invalid token")
)

// Invite errors
var (
	ErrInviteNotFound    = errors.New("invite not found")
	ErrInviteExpired     = errors.New("invite expired")
	ErrInviteAlreadyUsed = errors.New("invite already used")
)

// Property management errors
var (
	ErrTenantNotFound        = errors.New("tenant not found")
	ErrTenantAlreadyExists   = errors.New("tenant with this email already exists")
	ErrTenantAlreadyAssigned = errors.New("tenant is already assigned to a unit")
	ErrTenantNotAssigned     = errors.New("tenant is not assigned to a unit")
	ErrPropertyNotFound      = errors.New("property not found")
	ErrPropertyHasUnits      = errors.New("property still has units")
	ErrUnitNotFound          = errors.New("unit not found")
	ErrUnitOccupied          = errors.New("unit is already occupied")
	ErrRequestNotFound       = errors.New("maintenance request not found")
	ErrInvalidRequestStatus  = errors.New("invalid maintenance request status")
)

// Validation errors
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password does not meet requirements")
)

// MFA errors
var (
	ErrMFARequired       = errors.New("multi-factor authentication required")
	ErrMFANotEnabled     = errors.New("MFA is not enabled for this account")
	ErrMFAAlreadyEnabled = errors.New("MFA is already enabled")
	ErrInvalidMFACode    = errors.New("invalid MFA code")
)
