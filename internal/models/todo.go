package models

import (
	"time"

	"github.com/google/uuid"
)

// Todo rows are hard-deleted: the product has no trash/restore flow.
// Version starts at 1 and is bumped by the versioning plugin on every
// UPDATE that reaches the database, never by callers directly.
type Todo struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string     `gorm:"size:500;not null" json:"title"`
	IsComplete bool       `gorm:"not null;default:false" json:"is_complete"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Version    int        `gorm:"not null;default:1" json:"version"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
}
