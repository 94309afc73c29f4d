package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property represents a building or site containing zero or more units.
type Property struct {
	ID        uuid.UUID
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
