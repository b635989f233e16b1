package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gezzzi/taskdeck/internal/models"
	"github.com/gezzzi/taskdeck/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("a category with that name already exists")
	ErrEmptyCategoryName = errors.New("category name must not be empty")
)

const defaultCategoryColor = "#6b7280"

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, name, color string) (*models.Category, error) {
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	if color == "" {
		color = defaultCategoryColor
	}

	var existing models.Category
	err := s.db.WithContext(ctx).Scopes(scope.ForUser(userID)).
		Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateCategory
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	category := models.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Scopes(scope.ForUser(userID)).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, categoryID uuid.UUID, name, color string) (*models.Category, error) {
	if name == "" {
		return nil, ErrEmptyCategoryName
	}

	var category models.Category
	err := s.db.WithContext(ctx).Scopes(scope.ForUser(userID)).
		First(&category, "id = ?", categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	if name != category.Name {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Category{}).
			Scopes(scope.ForUser(userID)).
			Where("name = ? AND id <> ?", name, categoryID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		if count > 0 {
			return nil, ErrDuplicateCategory
		}
	}

	updates := map[string]interface{}{"name": name}
	if color != "" {
		updates["color"] = color
	}
	if err := s.db.WithContext(ctx).Model(&category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}

// Delete removes a category and detaches its todos in one transaction. The
// todos survive with category_id set to null; a category delete never
// cascades into todo deletion.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Todo{}).
			Scopes(scope.ForUser(userID)).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach todos: %w", err)
		}

		res := tx.Scopes(scope.ForUser(userID)).
			Where("id = ?", categoryID).
			Delete(&models.Category{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}
