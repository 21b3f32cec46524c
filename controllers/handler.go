package controllers

import (
	"context"
	"errors"
	"log"
	"strings"

	"vitrine/catalog"
	"vitrine/media"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Store is the record store the handlers read and write through.
type Store interface {
	catalog.Reader

	ActiveShops(ctx context.Context) ([]models.Shop, error)
	ShopByOwner(ctx context.Context, ownerID uuid.UUID) (models.Shop, error)
	CreateShop(ctx context.Context, ownerID uuid.UUID, req models.ShopReq) (models.Shop, error)
	UpdateShop(ctx context.Context, ownerID uuid.UUID, req models.ShopReq) (models.Shop, error)
	UpdateWhatsapp(ctx context.Context, ownerID uuid.UUID, number string) (models.Shop, error)
	DeleteShop(ctx context.Context, ownerID uuid.UUID) error

	CreateCategory(ctx context.Context, ownerID uuid.UUID, req models.CategoryReq) (models.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id uuid.UUID, req models.CategoryReq) (models.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error

	CreateProduct(ctx context.Context, shopID *uuid.UUID, req models.CreateProductReq) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, req models.UpdateProductReq) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateUser(ctx context.Context, email, passwordHash, role string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

type Handler struct {
	Store   Store
	Catalog *catalog.Holder
	Media   media.Storage
	Order   catalog.OrderOptions
}

func New(store Store, holder *catalog.Holder, storage media.Storage, order catalog.OrderOptions) *Handler {
	return &Handler{Store: store, Catalog: holder, Media: storage, Order: order}
}

// snapshot returns the current catalog for ownerID; uuid.Nil is the public
// storefront, which carries no owner categories.
func (h *Handler) snapshot(c *fiber.Ctx, ownerID uuid.UUID) (catalog.Catalog, error) {
	st, _ := h.Catalog.Get(c.UserContext(), ownerID)
	if st.Status != catalog.StatusReady {
		return catalog.Catalog{}, st.Err
	}
	return st.Catalog, nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, models.ErrNotFound
	}
	return id, nil
}

func badBody(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "Invalid request: "+err.Error())
}

// ErrorHandler turns handler errors into status codes. API routes get the
// {"error": ...} body, pages get the error template.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{"error": err.Error()}

	var (
		fiberErr   *fiber.Error
		fetchErr   *catalog.FetchError
		invalid    *models.ValidationError
		partialErr *models.PartialWriteError
	)
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.As(err, &fetchErr):
		code = fiber.StatusBadGateway
	case errors.As(err, &invalid):
		code = fiber.StatusUnprocessableEntity
		body["fields"] = invalid.Fields
	case errors.As(err, &partialErr):
		body["step"] = partialErr.Step
		body["product_id"] = partialErr.ProductID
	case errors.Is(err, models.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		code = fiber.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		code = fiber.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		code = fiber.StatusUnauthorized
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)
	}

	if strings.HasPrefix(c.Path(), "/api") || c.Path() == "/healthz" {
		return c.Status(code).JSON(body)
	}
	return c.Status(code).Render("error", fiber.Map{
		"Title": "Erreur",
		"Code":  code,
		"Error": body["error"],
	}, "layouts/main")
}
