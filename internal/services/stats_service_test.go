package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsOverview(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()

	category := createCategory(t, db, userID, "Errands")

	inCat := createTodo(t, db, userID, "done errand")
	require.NoError(t, db.Model(&inCat).Updates(map[string]interface{}{
		"category_id": category.ID,
		"is_complete": true,
	}).Error)
	createTodo(t, db, userID, "open task")
	done := createTodo(t, db, userID, "done task")
	require.NoError(t, db.Model(&done).Update("is_complete", true).Error)

	// Another user's data must not leak into the numbers.
	createTodo(t, db, otherUser, "foreign")

	stats, err := svc.Overview(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Remaining)
	assert.InDelta(t, 2.0/3.0, stats.CompletionRate, 1e-9)

	require.Len(t, stats.ByCategory, 2)
	for _, item := range stats.ByCategory {
		if item.CategoryID != nil {
			assert.Equal(t, "Errands", item.CategoryName)
			assert.Equal(t, int64(1), item.Total)
			assert.Equal(t, int64(1), item.Completed)
		} else {
			assert.Equal(t, int64(2), item.Total)
			assert.Equal(t, int64(1), item.Completed)
		}
	}
}

func TestStatsOverviewEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)

	stats, err := svc.Overview(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.CompletionRate)
	assert.Empty(t, stats.ByCategory)
}
