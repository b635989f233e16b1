package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAt(i int) time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
}

func TestSearchRankingTiers(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	createTodoAt(t, db, userID, "I need to buy milk", seedAt(0))
	createTodoAt(t, db, userID, "Buy milk today", seedAt(1))
	createTodoAt(t, db, userID, "Buy milk", seedAt(2))
	createTodoAt(t, db, userID, "Water the plants", seedAt(3))

	results, err := svc.Search(ctx, userID, "buy milk", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Buy milk", results[0].Title)
	assert.Equal(t, 1.0, results[0].Rank)
	assert.Equal(t, "Buy milk today", results[1].Title)
	assert.Equal(t, 0.8, results[1].Rank)
	assert.Equal(t, "I need to buy milk", results[2].Title)
	assert.Equal(t, 0.6, results[2].Rank)
}

func TestSearchFuzzyTier(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	// A typo still matches through trigram similarity, below the
	// substring tier; an unrelated title is excluded entirely.
	createTodoAt(t, db, userID, "buy mikl", seedAt(0))
	createTodoAt(t, db, userID, "water plants", seedAt(1))

	results, err := svc.Search(ctx, userID, "buy milk", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "buy mikl", results[0].Title)
	assert.Greater(t, results[0].Rank, 0.2)
	assert.Less(t, results[0].Rank, 0.6)
}

func TestSearchEmptyTermOrdersByCreatedAt(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	createTodoAt(t, db, userID, "oldest", seedAt(0))
	createTodoAt(t, db, userID, "middle", seedAt(1))
	createTodoAt(t, db, userID, "newest", seedAt(2))

	results, err := svc.Search(ctx, userID, "   ", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "newest", results[0].Title)
	assert.Equal(t, "middle", results[1].Title)
	assert.Equal(t, "oldest", results[2].Title)
	for _, r := range results {
		assert.Zero(t, r.Rank)
	}
}

func TestSearchScopedToUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()

	createTodoAt(t, db, userID, "buy milk", seedAt(0))
	createTodoAt(t, db, otherUser, "buy milk", seedAt(1))

	results, err := svc.Search(ctx, userID, "buy milk", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearchCategoryFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	category := createCategory(t, db, userID, "Errands")
	inCat := createTodoAt(t, db, userID, "buy milk", seedAt(0))
	require.NoError(t, db.Model(&inCat).Update("category_id", category.ID).Error)
	createTodoAt(t, db, userID, "buy milk anyway", seedAt(1))

	results, err := svc.Search(ctx, userID, "buy milk", &category.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, inCat.ID, results[0].ID)
	assert.Equal(t, "Errands", results[0].CategoryName)
}

func TestPaginationInfo(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 25; i++ {
		createTodoAt(t, db, userID, "task", seedAt(i))
	}

	info, err := svc.PaginationInfo(ctx, userID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(25), info.TotalCount)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 10, info.ItemsPerPage)
}

func TestPaginationInfoEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())

	info, err := svc.PaginationInfo(context.Background(), uuid.New(), "", nil)
	require.NoError(t, err)
	assert.Zero(t, info.TotalCount)
	assert.Zero(t, info.TotalPages)
}

func TestSearchOffsetPaging(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		createTodoAt(t, db, userID, "task", seedAt(i))
	}

	page1, err := svc.Search(ctx, userID, "", nil, 2, 0)
	require.NoError(t, err)
	page2, err := svc.Search(ctx, userID, "", nil, 2, 2)
	require.NoError(t, err)
	last, err := svc.Search(ctx, userID, "", nil, 2, 4)
	require.NoError(t, err)
	beyond, err := svc.Search(ctx, userID, "", nil, 2, 10)
	require.NoError(t, err)

	assert.Len(t, page1, 2)
	assert.Len(t, page2, 2)
	assert.Len(t, last, 1)
	assert.Empty(t, beyond)
	assert.NotEqual(t, page1[0].ID, page2[0].ID)
}

func TestSearchCursorExhaustion(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 25; i++ {
		createTodoAt(t, db, userID, "task", seedAt(i))
	}

	first, err := svc.SearchCursor(ctx, userID, nil, 20, "", nil)
	require.NoError(t, err)
	require.Len(t, first.Results, 20)
	assert.True(t, first.HasMore)
	require.NotNil(t, first.NextCursor)

	second, err := svc.SearchCursor(ctx, userID, first.NextCursor, 20, "", nil)
	require.NoError(t, err)
	require.Len(t, second.Results, 5)
	assert.False(t, second.HasMore)

	// No overlap and newest-first within each page.
	seen := make(map[uuid.UUID]bool)
	var prev time.Time
	for i, r := range append(first.Results, second.Results...) {
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
		if i > 0 {
			assert.True(t, r.CreatedAt.Before(prev))
		}
		prev = r.CreatedAt
	}
}

func TestSearchCursorWithTerm(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	createTodoAt(t, db, userID, "buy milk", seedAt(0))
	createTodoAt(t, db, userID, "water plants", seedAt(1))
	createTodoAt(t, db, userID, "buy milk again", seedAt(2))

	page, err := svc.SearchCursor(ctx, userID, nil, 10, "buy milk", nil)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.False(t, page.HasMore)
	assert.Equal(t, "buy milk again", page.Results[0].Title)
	assert.Equal(t, "buy milk", page.Results[1].Title)
}

func TestSearchAdvancedKeywordCoverage(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	createTodoAt(t, db, userID, "buy fresh milk", seedAt(0))
	createTodoAt(t, db, userID, "buy bread", seedAt(1))
	createTodoAt(t, db, userID, "milk chocolate", seedAt(2))
	createTodoAt(t, db, userID, "walk the dog", seedAt(3))

	results, err := svc.SearchAdvanced(ctx, userID, "buy milk", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Full coverage first, then partial matches newest-first.
	assert.Equal(t, "buy fresh milk", results[0].Title)
	assert.Equal(t, 1.0, results[0].Rank)
	assert.Equal(t, "milk chocolate", results[1].Title)
	assert.Equal(t, 0.5, results[1].Rank)
	assert.Equal(t, "buy bread", results[2].Title)
	assert.Equal(t, 0.5, results[2].Rank)
}

func TestSearchAdvancedHardFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	done := createTodoAt(t, db, userID, "buy milk", seedAt(0))
	require.NoError(t, db.Model(&done).Update("is_complete", true).Error)
	createTodoAt(t, db, userID, "buy milk later", seedAt(1))

	isComplete := true
	results, err := svc.SearchAdvanced(ctx, userID, "milk", nil, &isComplete, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, done.ID, results[0].ID)
}

func TestSearchAdvancedEmptyTermMatchesAll(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	createTodoAt(t, db, userID, "anything", seedAt(0))
	createTodoAt(t, db, userID, "something", seedAt(1))

	results, err := svc.SearchAdvanced(ctx, userID, "  ", nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSuggestions(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	createTodoAt(t, db, userID, "Buy milk", seedAt(0))
	createTodoAt(t, db, userID, "Buy milk", seedAt(1))
	createTodoAt(t, db, userID, "Buy bread", seedAt(2))
	createTodoAt(t, db, userID, "Water plants", seedAt(3))

	suggestions, err := svc.Suggestions(ctx, userID, "buy", 5)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	// Most frequent first, then alphabetical.
	assert.Equal(t, "Buy milk", suggestions[0].Suggestion)
	assert.Equal(t, int64(2), suggestions[0].Count)
	assert.Equal(t, "Buy bread", suggestions[1].Suggestion)
	assert.Equal(t, int64(1), suggestions[1].Count)
}

func TestSuggestionsTruncateLongTitles(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())
	ctx := context.Background()
	userID := uuid.New()

	long := "Buy " + strings.Repeat("x", 60)
	createTodoAt(t, db, userID, long, seedAt(0))

	suggestions, err := svc.Suggestions(ctx, userID, "buy", 5)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, long[:50]+"...", suggestions[0].Suggestion)
}

func TestSuggestionsEmptyQuery(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db, testConfig())

	suggestions, err := svc.Suggestions(context.Background(), uuid.New(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}
