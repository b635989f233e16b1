package dto

import (
	"time"

	"github.com/google/uuid"
)

// SearchResultRow is a ranked projection of a todo joined with its category.
// It is derived per request and never persisted.
type SearchResultRow struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	IsComplete   bool       `json:"is_complete"`
	CategoryID   *uuid.UUID `json:"category_id"`
	CategoryName string     `json:"category_name,omitempty"`
	Rank         float64    `json:"rank"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
}

type SearchResponse struct {
	Results []SearchResultRow `json:"results"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

type PaginationInfo struct {
	TotalCount   int64 `json:"total_count"`
	TotalPages   int   `json:"total_pages"`
	ItemsPerPage int   `json:"items_per_page"`
}

type CursorPage struct {
	Results    []SearchResultRow `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor *time.Time        `json:"next_cursor,omitempty"`
}

type Suggestion struct {
	Suggestion string `json:"suggestion" gorm:"column:suggestion"`
	Count      int64  `json:"count" gorm:"column:match_count"`
}
