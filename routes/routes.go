package routes

import (
	"vitrine/controllers"
	"vitrine/controllers/popular"
	"vitrine/middleware"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *controllers.Handler) {

	// storefront pages
	app.Get("/", h.HomePage)
	app.Get("/product/:id", h.ProductPage)
	app.Get("/healthz", h.Healthz)

	api := app.Group("/api")

	// storefront
	api.Get("/products", h.GetProducts)
	api.Get("/products/new", h.GetNewProducts)
	api.Get("/products/featured", h.GetFeaturedProducts)
	api.Get("/products/:id", h.GetProductByID)
	api.Get("/products/:id/order", h.OrderProduct)
	api.Get("/categories", h.GetCategories)
	api.Get("/shops", h.GetShops)

	//hero-slider
	api.Get("/hero-slider", popular.Popular(h.Catalog))

	// auth
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", middleware.JWTMiddleware, h.Me)

	// dashboard
	admin := api.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/catalog", h.GetAdminCatalog)
	admin.Get("/stats", h.GetStats)

	admin.Get("/categories", h.GetMyCategories)
	admin.Post("/categories", h.CreateCategory)
	admin.Put("/categories/:id", h.UpdateCategory)
	admin.Delete("/categories/:id", h.DeleteCategory)

	admin.Get("/shop", h.GetMyShop)
	admin.Post("/shop", h.CreateShop)
	admin.Put("/shop", h.UpdateShop)
	admin.Put("/shop/whatsapp", h.UpdateWhatsapp)
	admin.Delete("/shop", h.DeleteShop)

	admin.Post("/products", h.CreateProduct)
	admin.Put("/products/:id", h.UpdateProduct)
	admin.Delete("/products/:id", h.DeleteProduct)

	admin.Get("/images", h.ListImages)
	admin.Post("/images", h.UploadImages)
	admin.Delete("/images", h.ClearImages)
	admin.Delete("/images/*", h.DeleteImage)
}
