package controllers

import (
	"vitrine/middleware"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/shop
func (h *Handler) GetMyShop(c *fiber.Ctx) error {
	shop, err := h.Store.ShopByOwner(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(shop)
}

// POST /api/admin/shop
func (h *Handler) CreateShop(c *fiber.Ctx) error {
	var req models.ShopReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	shop, err := h.Store.CreateShop(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	h.Catalog.Invalidate()
	return c.Status(fiber.StatusCreated).JSON(shop)
}

// PUT /api/admin/shop
func (h *Handler) UpdateShop(c *fiber.Ctx) error {
	var req models.ShopReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	shop, err := h.Store.UpdateShop(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	h.Catalog.Invalidate()
	return c.JSON(shop)
}

// PUT /api/admin/shop/whatsapp
func (h *Handler) UpdateWhatsapp(c *fiber.Ctx) error {
	var req models.WhatsappReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}

	shop, err := h.Store.UpdateWhatsapp(c.UserContext(), middleware.UserID(c), req.WhatsappNumber)
	if err != nil {
		return err
	}
	h.Catalog.Invalidate()
	return c.JSON(shop)
}

// DELETE /api/admin/shop
func (h *Handler) DeleteShop(c *fiber.Ctx) error {
	if err := h.Store.DeleteShop(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	h.Catalog.Invalidate()
	return c.JSON(fiber.Map{"message": "Shop deleted"})
}
