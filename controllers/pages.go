package controllers

import (
	"errors"

	"vitrine/catalog"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GET /
func (h *Handler) HomePage(c *fiber.Ctx) error {
	query := c.Query("q")
	category := c.Query("category", catalog.AllCategories)
	data := fiber.Map{
		"Title":      "Vitrine",
		"Query":      query,
		"Category":   category,
		"Categories": []string{catalog.AllCategories},
	}

	cat, err := h.snapshot(c, uuid.Nil)
	if err != nil {
		data["Error"] = err.Error()
		return c.Status(fiber.StatusBadGateway).Render("index", data, "layouts/main")
	}

	data["Categories"] = storefrontChips(cat.Products)
	data["Products"] = catalog.Filter(cat.Products, query, category)
	data["NewProducts"] = catalog.NewProducts(cat.Products)
	return c.Render("index", data, "layouts/main")
}

// GET /product/:id
func (h *Handler) ProductPage(c *fiber.Ctx) error {
	p, err := h.product(c)
	if errors.Is(err, models.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{
			"Title": "Produit introuvable",
			"Code":  fiber.StatusNotFound,
			"Error": "Ce produit n'existe pas ou a été retiré.",
		}, "layouts/main")
	}
	if err != nil {
		return err
	}
	return c.Render("product", fiber.Map{"Title": p.Name, "Product": p}, "layouts/main")
}
