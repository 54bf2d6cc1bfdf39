package handlers

import (
	"kriya/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// RegisterRoutes registers the category routes with the Fiber app. Listing
// is public; creation requires an authenticated admin.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Post("/", authRequired, adminRequired, h.HandleCreateCategory)
}

// HandleGetCategories lists all active categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, categories)
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var input services.CreateCategoryInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	category, err := h.service.CreateCategory(input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusCreated, category)
}
