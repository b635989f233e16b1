package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	Title      string     `json:"title"`
	CategoryID *uuid.UUID `json:"category_id"`
}

// UpdateTodoRequest carries a full replacement of the mutable fields plus the
// version the client last saw.
type UpdateTodoRequest struct {
	Title           string     `json:"title"`
	IsComplete      bool       `json:"is_complete"`
	CategoryID      *uuid.UUID `json:"category_id"`
	ExpectedVersion int        `json:"expected_version"`
}

type UpdateTodoResponse struct {
	Success    bool `json:"success"`
	NewVersion int  `json:"new_version"`
}

type TodoResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	IsComplete bool       `json:"is_complete"`
	CategoryID *uuid.UUID `json:"category_id"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type BulkCompleteRequest struct {
	TodoIDs    []uuid.UUID `json:"todo_ids"`
	IsComplete bool        `json:"is_complete"`
}

type BulkCategoryRequest struct {
	TodoIDs    []uuid.UUID `json:"todo_ids"`
	CategoryID *uuid.UUID  `json:"category_id"`
}

type BulkDeleteRequest struct {
	TodoIDs []uuid.UUID `json:"todo_ids"`
}

// BulkResult is the uniform answer shape of the bulk endpoints. Domain
// failures come back with Success=false and a message, not an HTTP error, so
// clients must check Success rather than only the status code.
type BulkResult struct {
	Success       bool   `json:"success"`
	AffectedCount int64  `json:"affected_count"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

type StatsResponse struct {
	Total          int64               `json:"total"`
	Completed      int64               `json:"completed"`
	Remaining      int64               `json:"remaining"`
	CompletionRate float64             `json:"completion_rate"`
	ByCategory     []CategoryStatsItem `json:"by_category"`
}

type CategoryStatsItem struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Total        int64      `json:"total"`
	Completed    int64      `json:"completed"`
}
