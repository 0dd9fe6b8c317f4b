package entities

import (
	"github.com/google/uuid"
)

// Supermarket is unique by its normalized (lowercased, trimmed) name. The
// uniqueIndex backs the get-or-create merchant resolution under concurrent
// uploads: a second creator hits a duplicate key and re-fetches.
type Supermarket struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `gorm:"uniqueIndex" json:"-"`
	Location       string    `json:"location,omitempty"`

	Timestamp
}
