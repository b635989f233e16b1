package handlers

import (
	"errors"

	"github.com/gezzzi/taskdeck/internal/auth"
	"github.com/gezzzi/taskdeck/internal/dto"
	"github.com/gezzzi/taskdeck/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TodoHandler struct {
	todoService  *services.TodoService
	statsService *services.StatsService
}

func NewTodoHandler(todoService *services.TodoService, statsService *services.StatsService) *TodoHandler {
	return &TodoHandler{todoService: todoService, statsService: statsService}
}

// CreateTodo handles POST /todos.
func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	todo, err := h.todoService.Create(c.Context(), userID, req.Title, req.CategoryID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyTitle) || errors.Is(err, services.ErrCategoryNotOwned) {
			return badRequest(c, err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create todo",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.TodoResponse{
		ID:         todo.ID,
		Title:      todo.Title,
		IsComplete: todo.IsComplete,
		CategoryID: todo.CategoryID,
		Version:    todo.Version,
		CreatedAt:  todo.CreatedAt,
		UpdatedAt:  todo.UpdatedAt,
	})
}

// UpdateTodo handles PUT /todos/:id — the optimistic-lock update. A stale
// expected_version answers 409; the client should re-fetch and retry with
// the fresh version.
func (h *TodoHandler) UpdateTodo(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	todoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid todo ID")
	}

	var req dto.UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	newVersion, err := h.todoService.UpdateWithVersion(
		c.Context(), userID, todoID, req.Title, req.IsComplete, req.CategoryID, req.ExpectedVersion)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFoundOrDenied):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Todo not found",
			})
		case errors.Is(err, services.ErrVersionConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Todo was changed by another request. Reload and try again.",
			})
		case errors.Is(err, services.ErrEmptyTitle), errors.Is(err, services.ErrCategoryNotOwned):
			return badRequest(c, err.Error())
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update todo",
			})
		}
	}

	return c.JSON(dto.UpdateTodoResponse{Success: true, NewVersion: newVersion})
}

// DeleteTodo handles DELETE /todos/:id.
func (h *TodoHandler) DeleteTodo(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	todoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid todo ID")
	}

	if err := h.todoService.Delete(c.Context(), userID, todoID); err != nil {
		if errors.Is(err, services.ErrNotFoundOrDenied) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Todo not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete todo",
		})
	}

	return c.JSON(fiber.Map{"message": "Todo deleted"})
}

// BulkComplete handles POST /todos/bulk/complete.
func (h *TodoHandler) BulkComplete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.BulkCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	affected, err := h.todoService.BulkUpdateComplete(c.Context(), userID, req.TodoIDs, req.IsComplete)
	return c.JSON(bulkResult(affected, err))
}

// BulkCategory handles POST /todos/bulk/category.
func (h *TodoHandler) BulkCategory(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.BulkCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	affected, err := h.todoService.BulkChangeCategory(c.Context(), userID, req.TodoIDs, req.CategoryID)
	return c.JSON(bulkResult(affected, err))
}

// BulkDelete handles POST /todos/bulk/delete.
func (h *TodoHandler) BulkDelete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	affected, err := h.todoService.BulkDelete(c.Context(), userID, req.TodoIDs)
	return c.JSON(bulkResult(affected, err))
}

// Stats handles GET /todos/stats.
func (h *TodoHandler) Stats(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.statsService.Overview(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute stats",
		})
	}
	return c.JSON(stats)
}

// bulkResult maps a bulk-operation outcome onto the uniform result shape:
// domain failures are a 200 with success=false, never a bare HTTP error.
func bulkResult(affected int64, err error) dto.BulkResult {
	if err != nil {
		return dto.BulkResult{Success: false, AffectedCount: 0, ErrorMessage: err.Error()}
	}
	return dto.BulkResult{Success: true, AffectedCount: affected}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
