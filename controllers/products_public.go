package controllers

import (
	"vitrine/catalog"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GET /api/products?q=&category=
func (h *Handler) GetProducts(c *fiber.Ctx) error {
	cat, err := h.snapshot(c, uuid.Nil)
	if err != nil {
		return err
	}

	items := catalog.Filter(cat.Products, c.Query("q"), c.Query("category", catalog.AllCategories))
	return c.JSON(models.ProductsListResp{
		Items:      items,
		Total:      len(items),
		Categories: storefrontChips(cat.Products),
	})
}

// GET /api/products/new
func (h *Handler) GetNewProducts(c *fiber.Ctx) error {
	cat, err := h.snapshot(c, uuid.Nil)
	if err != nil {
		return err
	}
	return c.JSON(catalog.NewProducts(cat.Products))
}

// GET /api/products/featured
func (h *Handler) GetFeaturedProducts(c *fiber.Ctx) error {
	cat, err := h.snapshot(c, uuid.Nil)
	if err != nil {
		return err
	}
	return c.JSON(catalog.FeaturedProducts(cat.Products))
}

// GET /api/products/:id
func (h *Handler) GetProductByID(c *fiber.Ctx) error {
	p, err := h.product(c)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// GET /api/products/:id/order?source=card|detail
func (h *Handler) OrderProduct(c *fiber.Ctx) error {
	p, err := h.product(c)
	if err != nil {
		return err
	}

	opts := h.Order
	opts.Source = catalog.FromCard
	if c.Query("source") == string(catalog.FromDetail) {
		opts.Source = catalog.FromDetail
	}
	return c.Redirect(catalog.OrderLink(p, opts), fiber.StatusFound)
}

// GET /api/categories
func (h *Handler) GetCategories(c *fiber.Ctx) error {
	cat, err := h.snapshot(c, uuid.Nil)
	if err != nil {
		return err
	}
	return c.JSON(storefrontChips(cat.Products))
}

// GET /api/shops
func (h *Handler) GetShops(c *fiber.Ctx) error {
	shops, err := h.Store.ActiveShops(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(shops)
}

func (h *Handler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) product(c *fiber.Ctx) (models.ProductView, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return models.ProductView{}, err
	}
	cat, err := h.snapshot(c, uuid.Nil)
	if err != nil {
		return models.ProductView{}, err
	}
	p, ok := catalog.Find(cat.Products, id)
	if !ok {
		return models.ProductView{}, models.ErrNotFound
	}
	return p, nil
}

// storefrontChips is the "Tous" chip followed by the categories in use.
func storefrontChips(products []models.ProductView) []string {
	return append([]string{catalog.AllCategories}, catalog.CategoryNames(products)...)
}
