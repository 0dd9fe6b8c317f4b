package entities

import (
	"github.com/google/uuid"
)

// User is created lazily from the identifier the auth middleware supplies.
type User struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuthID string    `gorm:"uniqueIndex" json:"auth_id"`
	Email  string    `json:"email"`

	Timestamp
}
