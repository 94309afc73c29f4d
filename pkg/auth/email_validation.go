package auth

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/rentwell/propman/pkg/domain"
)

// Requires the practical local@domain.tld shape (a dot after the @), which
// is stricter than RFC 5322 but matches what invite emails look like.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxEmailLength = 254 // RFC 5321

// ValidateEmail validates an email address for format and length.
func ValidateEmail(email string) error {
	if email == "" {
		return domain.ErrInvalidEmail
	}
	if len(email) > maxEmailLength {
		return domain.ErrInvalidEmail
	}

	normalized := NormalizeEmail(email)

	if _, err := mail.ParseAddress(normalized); err != nil {
		return domain.ErrInvalidEmail
	}
	if !emailRegex.MatchString(normalized) {
		return domain.ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail normalizes an email address by lowercasing and trimming.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
