package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gezzzi/taskdeck/internal/models"
	"github.com/gezzzi/taskdeck/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFoundOrDenied = errors.New("todo not found or not owned by caller")
	ErrVersionConflict  = errors.New("todo was modified by another request")
	ErrPartialFailure   = errors.New("some requested todos do not exist or are not owned by caller")
	ErrCategoryNotOwned = errors.New("category not found or not owned by caller")
	ErrEmptyTitle       = errors.New("title must not be empty")
)

type TodoService struct {
	db *gorm.DB
}

func NewTodoService(db *gorm.DB) *TodoService {
	return &TodoService{db: db}
}

func (s *TodoService) Create(ctx context.Context, userID uuid.UUID, title string, categoryID *uuid.UUID) (*models.Todo, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if categoryID != nil {
		if err := s.checkCategoryOwned(s.db.WithContext(ctx), userID, *categoryID); err != nil {
			return nil, err
		}
	}

	todo := models.Todo{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		CategoryID: categoryID,
		Version:    1,
	}
	if err := s.db.WithContext(ctx).Create(&todo).Error; err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return &todo, nil
}

func (s *TodoService) Get(ctx context.Context, userID, todoID uuid.UUID) (*models.Todo, error) {
	var todo models.Todo
	err := s.db.WithContext(ctx).Scopes(scope.ForUser(userID)).First(&todo, "id = ?", todoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFoundOrDenied
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load todo: %w", err)
	}
	return &todo, nil
}

// UpdateWithVersion applies a full update of the mutable fields, but only if
// the row still carries expectedVersion. Exactly one of two concurrent
// writers racing on the same todo wins; the loser gets ErrVersionConflict and
// must re-read before retrying. The version bump itself happens inside the
// same UPDATE via the versioning plugin.
func (s *TodoService) UpdateWithVersion(ctx context.Context, userID, todoID uuid.UUID, title string, isComplete bool, categoryID *uuid.UUID, expectedVersion int) (int, error) {
	if title == "" {
		return 0, ErrEmptyTitle
	}
	if categoryID != nil {
		if err := s.checkCategoryOwned(s.db.WithContext(ctx), userID, *categoryID); err != nil {
			return 0, err
		}
	}

	res := s.db.WithContext(ctx).Model(&models.Todo{}).
		Scopes(scope.ForUser(userID)).
		Where("id = ? AND version = ?", todoID, expectedVersion).
		Updates(map[string]interface{}{
			"title":       title,
			"is_complete": isComplete,
			"category_id": categoryID,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update todo: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// Zero rows means either the row is gone (or foreign) or the
		// version moved on. Re-query by id+owner to tell the two apart.
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Todo{}).
			Scopes(scope.ForUser(userID)).
			Where("id = ?", todoID).
			Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to check todo existence: %w", err)
		}
		if count == 0 {
			return 0, ErrNotFoundOrDenied
		}
		return 0, ErrVersionConflict
	}

	return expectedVersion + 1, nil
}

// Delete removes a single todo owned by the user. Deletion is permanent.
func (s *TodoService) Delete(ctx context.Context, userID, todoID uuid.UUID) error {
	res := s.db.WithContext(ctx).Scopes(scope.ForUser(userID)).
		Where("id = ?", todoID).
		Delete(&models.Todo{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrDenied
	}
	return nil
}

// BulkUpdateComplete marks every named todo complete or incomplete as one
// atomic unit. If any id does not exist or belongs to someone else, nothing
// is changed.
func (s *TodoService) BulkUpdateComplete(ctx context.Context, userID uuid.UUID, todoIDs []uuid.UUID, isComplete bool) (int64, error) {
	ids := normalizeIDs(todoIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Todo{}).
			Scopes(scope.ForUser(userID)).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{"is_complete": isComplete})
		if res.Error != nil {
			return fmt.Errorf("bulk complete update: %w", res.Error)
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrPartialFailure
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// BulkChangeCategory moves every named todo into the given category (or out
// of any category when categoryID is nil). The target category must exist and
// belong to the caller; that is checked before any row is touched.
func (s *TodoService) BulkChangeCategory(ctx context.Context, userID uuid.UUID, todoIDs []uuid.UUID, categoryID *uuid.UUID) (int64, error) {
	ids := normalizeIDs(todoIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if categoryID != nil {
			if err := s.checkCategoryOwned(tx, userID, *categoryID); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Todo{}).
			Scopes(scope.ForUser(userID)).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{"category_id": categoryID})
		if res.Error != nil {
			return fmt.Errorf("bulk category update: %w", res.Error)
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrPartialFailure
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// BulkDelete removes every named todo, all or nothing.
func (s *TodoService) BulkDelete(ctx context.Context, userID uuid.UUID, todoIDs []uuid.UUID) (int64, error) {
	ids := normalizeIDs(todoIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(scope.ForUser(userID)).
			Where("id IN ?", ids).
			Delete(&models.Todo{})
		if res.Error != nil {
			return fmt.Errorf("bulk delete: %w", res.Error)
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrPartialFailure
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *TodoService) checkCategoryOwned(tx *gorm.DB, userID, categoryID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Category{}).
		Scopes(scope.ForUser(userID)).
		Where("id = ?", categoryID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return ErrCategoryNotOwned
	}
	return nil
}

// normalizeIDs deduplicates and sorts ascending. Sorting gives concurrent
// bulk operations on overlapping sets a deterministic row-lock order, which
// rules out lock-cycle deadlocks; deduplication keeps the affected-count
// check meaningful.
func normalizeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
