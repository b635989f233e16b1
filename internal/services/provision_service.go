package services

import (
	"context"
	"fmt"

	"github.com/gezzzi/taskdeck/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultCategories is the starter set every new user gets.
var defaultCategories = []struct {
	Name  string
	Color string
}{
	{"Personal", "#3b82f6"},
	{"Work", "#ef4444"},
	{"Shopping", "#22c55e"},
	{"Health", "#f59e0b"},
}

type ProvisionService struct {
	db *gorm.DB
}

func NewProvisionService(db *gorm.DB) *ProvisionService {
	return &ProvisionService{db: db}
}

// EnsureDefaults creates the user's profile row and starter categories. It is
// idempotent: invoked twice (e.g. a retried registration callback) it leaves
// exactly one profile and one category per default name. Everything happens
// in a single transaction, so a failure leaves no half-provisioned user.
func (s *ProvisionService) EnsureDefaults(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := models.Profile{ID: userID}
		if err := tx.Where("id = ?", userID).FirstOrCreate(&profile).Error; err != nil {
			return fmt.Errorf("failed to provision profile: %w", err)
		}

		for _, dc := range defaultCategories {
			category := models.Category{
				ID:     uuid.New(),
				UserID: userID,
				Name:   dc.Name,
				Color:  dc.Color,
			}
			if err := tx.Where("user_id = ? AND name = ?", userID, dc.Name).
				FirstOrCreate(&category).Error; err != nil {
				return fmt.Errorf("failed to provision category %q: %w", dc.Name, err)
			}
		}
		return nil
	})
}
