package controllers

import (
	"errors"
	"log"

	"vitrine/catalog"
	"vitrine/middleware"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GET /api/admin/catalog
func (h *Handler) GetAdminCatalog(c *fiber.Ctx) error {
	cat, err := h.snapshot(c, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(cat)
}

// GET /api/admin/stats
func (h *Handler) GetStats(c *fiber.Ctx) error {
	cat, err := h.snapshot(c, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(catalog.Stats(cat.Products))
}

// ====================
// เพิ่มสินค้าใหม่ (POST /api/admin/products)
// ====================
func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := c.UserContext()
	var shopID *uuid.UUID
	shop, err := h.Store.ShopByOwner(ctx, middleware.UserID(c))
	switch {
	case err == nil:
		shopID = &shop.ID
	case !errors.Is(err, models.ErrNotFound):
		return err
	}

	id, err := h.Store.CreateProduct(ctx, shopID, req)
	// a partial write still changed the catalog
	h.Catalog.Invalidate()
	if err != nil {
		var partial *models.PartialWriteError
		if errors.As(err, &partial) {
			log.Printf("product %s created without its %s: %v", partial.ProductID, partial.Step, partial.Err)
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created",
		"id":      id,
	})
}

// ====================
// แก้ไขสินค้า (PUT /api/admin/products/:id)
// ====================
func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateProductReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.Store.UpdateProduct(c.UserContext(), req); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.Catalog.Invalidate()
		}
		return err
	}
	h.Catalog.Invalidate()
	return c.JSON(fiber.Map{"message": "Product updated", "id": id})
}

// DELETE /api/admin/products/:id
func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Store.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	h.Catalog.Invalidate()
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
