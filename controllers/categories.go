package controllers

import (
	"vitrine/middleware"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/categories
func (h *Handler) GetMyCategories(c *fiber.Ctx) error {
	cats, err := h.Store.Categories(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(cats)
}

// POST /api/admin/categories
func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req models.CategoryReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	cat, err := h.Store.CreateCategory(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	h.Catalog.Invalidate()
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// PUT /api/admin/categories/:id
func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.CategoryReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	cat, err := h.Store.UpdateCategory(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	h.Catalog.Invalidate()
	return c.JSON(cat)
}

// DELETE /api/admin/categories/:id
func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Store.DeleteCategory(c.UserContext(), middleware.UserID(c), id); err != nil {
		return err
	}
	h.Catalog.Invalidate()
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
