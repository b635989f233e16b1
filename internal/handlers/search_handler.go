package handlers

import (
	"time"

	"github.com/gezzzi/taskdeck/internal/auth"
	"github.com/gezzzi/taskdeck/internal/dto"
	"github.com/gezzzi/taskdeck/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /todos/search?q=&category_id=&limit=&offset= — ranked
// offset pagination.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	categoryID, ok := parseOptionalUUID(c.Query("category_id"))
	if !ok {
		return badRequest(c, "Invalid category_id")
	}

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	results, err := h.searchService.Search(c.Context(), userID, c.Query("q"), categoryID, limit, offset)
	if err != nil {
		return searchFailed(c)
	}

	return c.JSON(dto.SearchResponse{Results: results, Limit: limit, Offset: offset})
}

// PaginationInfo handles GET /todos/search/pages?q=&category_id=.
func (h *SearchHandler) PaginationInfo(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	categoryID, ok := parseOptionalUUID(c.Query("category_id"))
	if !ok {
		return badRequest(c, "Invalid category_id")
	}

	info, err := h.searchService.PaginationInfo(c.Context(), userID, c.Query("q"), categoryID)
	if err != nil {
		return searchFailed(c)
	}
	return c.JSON(info)
}

// ListCursor handles GET /todos?cursor=&limit=&q=&category_id= — the infinite
// scroll listing. The cursor is the created_at of the last row of the
// previous page, RFC 3339.
func (h *SearchHandler) ListCursor(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	categoryID, ok := parseOptionalUUID(c.Query("category_id"))
	if !ok {
		return badRequest(c, "Invalid category_id")
	}

	var cursor *time.Time
	if raw := c.Query("cursor"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return badRequest(c, "Invalid cursor")
		}
		cursor = &t
	}

	limit := c.QueryInt("limit", 0)

	page, err := h.searchService.SearchCursor(c.Context(), userID, cursor, limit, c.Query("q"), categoryID)
	if err != nil {
		return searchFailed(c)
	}
	return c.JSON(page)
}

// SearchAdvanced handles GET /todos/search/advanced?q=&category_id=&is_complete=&limit=&offset=.
func (h *SearchHandler) SearchAdvanced(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	categoryID, ok := parseOptionalUUID(c.Query("category_id"))
	if !ok {
		return badRequest(c, "Invalid category_id")
	}

	var isComplete *bool
	if raw := c.Query("is_complete"); raw != "" {
		v := raw == "true" || raw == "1"
		isComplete = &v
	}

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	results, err := h.searchService.SearchAdvanced(c.Context(), userID, c.Query("q"), categoryID, isComplete, limit, offset)
	if err != nil {
		return searchFailed(c)
	}
	return c.JSON(dto.SearchResponse{Results: results, Limit: limit, Offset: offset})
}

// Suggestions handles GET /todos/suggestions?q=&limit=.
func (h *SearchHandler) Suggestions(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	suggestions, err := h.searchService.Suggestions(c.Context(), userID, c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return searchFailed(c)
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// parseOptionalUUID returns (nil, true) for an empty value, (ptr, true) for a
// valid UUID, and (nil, false) for garbage.
func parseOptionalUUID(raw string) (*uuid.UUID, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func searchFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Search failed",
	})
}
