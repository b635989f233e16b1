package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForUser returns a GORM scope that filters by the owning user. Every data
// query in the service layer goes through it, so no request can read or write
// another user's rows.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
