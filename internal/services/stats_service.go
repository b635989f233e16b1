package services

import (
	"context"
	"fmt"

	"github.com/gezzzi/taskdeck/internal/dto"
	"github.com/gezzzi/taskdeck/internal/models"
	"github.com/gezzzi/taskdeck/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Overview returns the user's completion statistics: overall totals plus a
// per-category breakdown. Todos without a category land in an unnamed bucket.
func (s *StatsService) Overview(ctx context.Context, userID uuid.UUID) (*dto.StatsResponse, error) {
	var total, completed int64
	base := s.db.WithContext(ctx).Model(&models.Todo{}).Scopes(scope.ForUser(userID))
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("is_complete = ?", true).Count(&completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed todos: %w", err)
	}

	type bucket struct {
		CategoryID *uuid.UUID
		Total      int64
		Completed  int64
	}
	var buckets []bucket
	err := s.db.WithContext(ctx).Model(&models.Todo{}).
		Scopes(scope.ForUser(userID)).
		Select("category_id, COUNT(*) AS total, SUM(CASE WHEN is_complete THEN 1 ELSE 0 END) AS completed").
		Group("category_id").
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CategoryStatsItem, 0, len(buckets))
	for _, b := range buckets {
		item := dto.CategoryStatsItem{
			CategoryID: b.CategoryID,
			Total:      b.Total,
			Completed:  b.Completed,
		}
		if b.CategoryID != nil {
			item.CategoryName = names[*b.CategoryID]
		}
		items = append(items, item)
	}

	resp := &dto.StatsResponse{
		Total:      total,
		Completed:  completed,
		Remaining:  total - completed,
		ByCategory: items,
	}
	if total > 0 {
		resp.CompletionRate = float64(completed) / float64(total)
	}
	return resp, nil
}

func (s *StatsService) categoryNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Scopes(scope.ForUser(userID)).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
