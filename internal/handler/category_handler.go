package handler

import (
	"go-shop-ledger/internal/middleware"
	"go-shop-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	catalog service.CatalogService
}

func NewCategoryHandler(catalog service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.GetCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// GET /api/v1/categories/tree
func (h *CategoryHandler) GetCategoryTree(c *fiber.Ctx) error {
	tree, err := h.catalog.GetCategoryTree(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tree)
}

// POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	category, err := h.catalog.CreateCategory(c.UserContext(), req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Category created", "data": category})
}

// PUT /api/v1/categories/:id
// Renames and/or moves the category; moving it under its own subtree is a 409.
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.CategoryInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	category, err := h.catalog.UpdateCategory(c.UserContext(), id, req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

// DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
