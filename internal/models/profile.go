package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile carries per-user application state. Its ID is the owning user's ID,
// so at most one profile can ever exist per user.
type Profile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Settings  datatypes.JSON `gorm:"default:'{}'" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
