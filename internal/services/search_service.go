package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gezzzi/taskdeck/internal/config"
	"github.com/gezzzi/taskdeck/internal/dto"
	"github.com/gezzzi/taskdeck/internal/models"
	"github.com/gezzzi/taskdeck/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const suggestionMaxLen = 50

// SearchService ranks and paginates a user's todos. Hard predicates (owner,
// category, completion) are pushed into SQL; relevance ranking runs in
// process so the same scoring applies on every backing store.
type SearchService struct {
	db              *gorm.DB
	weights         RankWeights
	pageSize        int
	suggestionLimit int
}

func NewSearchService(db *gorm.DB, cfg *config.Config) *SearchService {
	return &SearchService{
		db: db,
		weights: RankWeights{
			Exact:          cfg.SearchRankExact,
			Prefix:         cfg.SearchRankPrefix,
			Substring:      cfg.SearchRankSubstring,
			FuzzyThreshold: cfg.SearchFuzzyThreshold,
		},
		pageSize:        cfg.SearchPageSize,
		suggestionLimit: cfg.SuggestionLimit,
	}
}

// Search returns up to limit ranked rows starting at offset, best match
// first, created_at descending as the tie-break.
func (s *SearchService) Search(ctx context.Context, userID uuid.UUID, term string, categoryID *uuid.UUID, limit, offset int) ([]dto.SearchResultRow, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.rankedRows(ctx, userID, term, categoryID)
	if err != nil {
		return nil, err
	}
	return pageOf(rows, limit, offset), nil
}

// PaginationInfo reports how many rows the equivalent Search would match and
// how many fixed-size pages that makes.
func (s *SearchService) PaginationInfo(ctx context.Context, userID uuid.UUID, term string, categoryID *uuid.UUID) (*dto.PaginationInfo, error) {
	rows, err := s.rankedRows(ctx, userID, term, categoryID)
	if err != nil {
		return nil, err
	}

	total := int64(len(rows))
	return &dto.PaginationInfo{
		TotalCount:   total,
		TotalPages:   int(math.Ceil(float64(total) / float64(s.pageSize))),
		ItemsPerPage: s.pageSize,
	}, nil
}

// SearchCursor pages through rows strictly older than the cursor, newest
// first. It fetches one row past the limit to learn whether more pages exist;
// the caller's next cursor is the created_at of the last returned row. A nil
// cursor means "from the top" (a now+1d sentinel, so rows stamped slightly in
// the future by clock skew still show up).
func (s *SearchService) SearchCursor(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int, term string, categoryID *uuid.UUID) (*dto.CursorPage, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	effective := time.Now().Add(24 * time.Hour)
	if cursor != nil {
		effective = *cursor
	}

	normalized := normalizeTerm(term)

	q := s.db.WithContext(ctx).Model(&models.Todo{}).
		Scopes(scope.ForUser(userID)).
		Where("created_at < ?", effective).
		Order("created_at DESC").
		Preload("Category")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if normalized == "" {
		// No ranking filter, so the overfetch can happen in SQL.
		q = q.Limit(limit + 1)
	}

	var todos []models.Todo
	if err := q.Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("cursor search: %w", err)
	}

	rows := make([]dto.SearchResultRow, 0, limit+1)
	for _, todo := range todos {
		rank, ok := rankTitle(todo.Title, normalized, s.weights)
		if !ok {
			continue
		}
		rows = append(rows, toResultRow(todo, rank))
		if len(rows) == limit+1 {
			break
		}
	}

	page := &dto.CursorPage{HasMore: len(rows) > limit}
	if page.HasMore {
		rows = rows[:limit]
	}
	page.Results = rows
	if len(rows) > 0 {
		last := rows[len(rows)-1].CreatedAt
		page.NextCursor = &last
	}
	return page, nil
}

// SearchAdvanced splits the term on whitespace and ranks rows by keyword
// coverage: matched keywords over total keywords. A single hit qualifies a
// row (OR semantics). Completion state and category act as hard filters, not
// ranking inputs.
func (s *SearchService) SearchAdvanced(ctx context.Context, userID uuid.UUID, term string, categoryID *uuid.UUID, isComplete *bool, limit, offset int) ([]dto.SearchResultRow, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	if offset < 0 {
		offset = 0
	}

	keywords := strings.Fields(normalizeTerm(term))

	q := s.db.WithContext(ctx).Model(&models.Todo{}).
		Scopes(scope.ForUser(userID)).
		Preload("Category")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if isComplete != nil {
		q = q.Where("is_complete = ?", *isComplete)
	}

	var todos []models.Todo
	if err := q.Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("advanced search: %w", err)
	}

	rows := make([]dto.SearchResultRow, 0, len(todos))
	for _, todo := range todos {
		rank, ok := rankKeywords(todo.Title, keywords)
		if !ok {
			continue
		}
		rows = append(rows, toResultRow(todo, rank))
	}
	sortRanked(rows)
	return pageOf(rows, limit, offset), nil
}

// Suggestions returns distinct title prefixes matching the query, most
// frequent first. Long titles are truncated to 50 chars plus an ellipsis. An
// empty query returns nothing without touching the database.
func (s *SearchService) Suggestions(ctx context.Context, userID uuid.UUID, query string, limit int) ([]dto.Suggestion, error) {
	normalized := normalizeTerm(query)
	if normalized == "" {
		return []dto.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = s.suggestionLimit
	}

	pattern := escapeLike(normalized) + "%"

	var suggestions []dto.Suggestion
	err := s.db.WithContext(ctx).Model(&models.Todo{}).
		Scopes(scope.ForUser(userID)).
		Select(fmt.Sprintf(
			"CASE WHEN LENGTH(title) > %d THEN SUBSTR(title, 1, %d) || '...' ELSE title END AS suggestion, COUNT(*) AS match_count",
			suggestionMaxLen, suggestionMaxLen)).
		Where("LOWER(title) LIKE ?", pattern).
		Group("suggestion").
		Order("match_count DESC, suggestion ASC").
		Limit(limit).
		Scan(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}
	return suggestions, nil
}

// rankedRows loads the user's candidate rows (hard filters in SQL), scores
// them and orders best-first.
func (s *SearchService) rankedRows(ctx context.Context, userID uuid.UUID, term string, categoryID *uuid.UUID) ([]dto.SearchResultRow, error) {
	normalized := normalizeTerm(term)

	q := s.db.WithContext(ctx).Model(&models.Todo{}).
		Scopes(scope.ForUser(userID)).
		Preload("Category")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var todos []models.Todo
	if err := q.Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	rows := make([]dto.SearchResultRow, 0, len(todos))
	for _, todo := range todos {
		rank, ok := rankTitle(todo.Title, normalized, s.weights)
		if !ok {
			continue
		}
		rows = append(rows, toResultRow(todo, rank))
	}
	sortRanked(rows)
	return rows, nil
}

func toResultRow(todo models.Todo, rank float64) dto.SearchResultRow {
	row := dto.SearchResultRow{
		ID:         todo.ID,
		Title:      todo.Title,
		IsComplete: todo.IsComplete,
		CategoryID: todo.CategoryID,
		Rank:       rank,
		Version:    todo.Version,
		CreatedAt:  todo.CreatedAt,
	}
	if todo.Category != nil {
		row.CategoryName = todo.Category.Name
	}
	return row
}

func sortRanked(rows []dto.SearchResultRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Rank != rows[j].Rank {
			return rows[i].Rank > rows[j].Rank
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

func pageOf(rows []dto.SearchResultRow, limit, offset int) []dto.SearchResultRow {
	if offset >= len(rows) {
		return []dto.SearchResultRow{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
