package handlers

import (
	"errors"

	"github.com/gezzzi/taskdeck/internal/auth"
	"github.com/gezzzi/taskdeck/internal/dto"
	"github.com/gezzzi/taskdeck/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategory handles POST /categories.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Create(c.Context(), userID, req.Name, req.Color)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateCategory) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrEmptyCategoryName) {
			return badRequest(c, err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create category",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	})
}

// ListCategories handles GET /categories.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	categories, err := h.categoryService.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list categories",
		})
	}

	out := make([]dto.CategoryResponse, len(categories))
	for i, category := range categories {
		out[i] = dto.CategoryResponse{
			ID:        category.ID,
			Name:      category.Name,
			Color:     category.Color,
			CreatedAt: category.CreatedAt,
			UpdatedAt: category.UpdatedAt,
		}
	}
	return c.JSON(fiber.Map{"categories": out})
}

// UpdateCategory handles PUT /categories/:id.
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Update(c.Context(), userID, categoryID, req.Name, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Category not found",
			})
		case errors.Is(err, services.ErrDuplicateCategory):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmptyCategoryName):
			return badRequest(c, err.Error())
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update category",
			})
		}
	}

	return c.JSON(dto.CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	})
}

// DeleteCategory handles DELETE /categories/:id. Todos in the category are
// detached, not deleted.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	if err := h.categoryService.Delete(c.Context(), userID, categoryID); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Category not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete category",
		})
	}

	return c.JSON(fiber.Map{"message": "Category deleted"})
}
