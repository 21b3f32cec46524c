// Package popular serves the storefront hero slider built from the featured
// products.
package popular

import (
	"vitrine/catalog"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxSlides = 5

type Slide struct {
	ProductID uuid.UUID `json:"product_id"`
	Image     string    `json:"image"`
	Alt       string    `json:"alt"`
	Link      string    `json:"link"`
}

// Slides takes the first image of each featured product, skipping products
// without images.
func Slides(products []models.ProductView) []Slide {
	slides := []Slide{}
	for _, p := range catalog.FeaturedProducts(products) {
		if len(p.Images) == 0 {
			continue
		}
		slides = append(slides, Slide{
			ProductID: p.ID,
			Image:     p.Images[0],
			Alt:       models.ImageAlt(p.Name, 0),
			Link:      "/product/" + p.ID.String(),
		})
		if len(slides) == maxSlides {
			break
		}
	}
	return slides
}

// GET /api/hero-slider
func Popular(holder *catalog.Holder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, _ := holder.Get(c.UserContext(), uuid.Nil)
		if st.Status != catalog.StatusReady {
			return st.Err
		}
		return c.JSON(Slides(st.Catalog.Products))
	}
}
