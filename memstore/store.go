// Package memstore keeps every record in process memory. It backs dev mode
// and the handler tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"vitrine/catalog"
	"vitrine/models"

	"github.com/google/uuid"
)

type Store struct {
	mu  sync.Mutex
	now func() time.Time
	// failStep makes the named product write step ("images", "details") fail.
	failStep string

	users      []models.User
	shops      []models.Shop
	categories []models.Category
	products   []models.Product
	images     []models.ProductImage
	details    []models.ProductDetail
}

func New() *Store {
	return &Store{now: time.Now}
}

// tick returns a strictly increasing timestamp so newest-first ordering is
// stable even when writes land in the same clock reading.
func (s *Store) tick() time.Time {
	t := s.now()
	for _, p := range s.products {
		if !p.CreatedAt.Before(t) {
			t = p.CreatedAt.Add(time.Microsecond)
		}
	}
	return t
}

// ====================
// catalog reads
// ====================

func (s *Store) ProductRows(ctx context.Context) ([]catalog.ProductRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })

	rows := make([]catalog.ProductRow, 0, len(products))
	for _, p := range products {
		row := catalog.ProductRow{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			Price:         p.Price,
			IsFeatured:    p.IsFeatured,
			IsNew:         p.IsNew,
			StockQuantity: p.StockQuantity,
			CreatedAt:     p.CreatedAt,
		}
		if p.CategoryID != nil {
			if c, ok := s.category(*p.CategoryID); ok {
				name := c.Name
				row.CategoryName = &name
			}
		}
		if p.ShopID != nil {
			if sh, ok := s.shop(*p.ShopID); ok {
				row.Shop = &catalog.ShopRow{ID: sh.ID, Name: sh.Name, WhatsappNumber: sh.WhatsappNumber}
			}
		}
		for _, img := range s.images {
			if img.ProductID == p.ID {
				row.Images = append(row.Images, catalog.ImageRow{ImageURL: img.ImageURL, AltText: img.AltText, DisplayOrder: img.DisplayOrder})
			}
		}
		for _, d := range s.details {
			if d.ProductID == p.ID {
				row.Details = append(row.Details, catalog.DetailRow{DetailText: d.DetailText, DisplayOrder: d.DisplayOrder})
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) Categories(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Category{}
	for _, c := range s.categories {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) category(id uuid.UUID) (models.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

func (s *Store) shop(id uuid.UUID) (models.Shop, bool) {
	for _, sh := range s.shops {
		if sh.ID == id {
			return sh, true
		}
	}
	return models.Shop{}, false
}

// ====================
// categories
// ====================

func (s *Store) CreateCategory(ctx context.Context, ownerID uuid.UUID, req models.CategoryReq) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := models.Category{
		ID:          uuid.New(),
		UserID:      ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: models.OptionalText(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, ownerID, id uuid.UUID, req models.CategoryReq) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID != id {
			continue
		}
		if c.UserID != ownerID {
			return models.Category{}, models.ErrForbidden
		}
		s.categories[i].Name = strings.TrimSpace(req.Name)
		s.categories[i].Description = models.OptionalText(req.Description)
		s.categories[i].UpdatedAt = s.now()
		return s.categories[i], nil
	}
	return models.Category{}, models.ErrNotFound
}

// DeleteCategory removes the category. Products keep existing without one.
func (s *Store) DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID != id {
			continue
		}
		if c.UserID != ownerID {
			return models.ErrForbidden
		}
		s.categories = append(s.categories[:i], s.categories[i+1:]...)
		for j := range s.products {
			if s.products[j].CategoryID != nil && *s.products[j].CategoryID == id {
				s.products[j].CategoryID = nil
			}
		}
		return nil
	}
	return models.ErrNotFound
}

// ====================
// shops
// ====================

func (s *Store) ActiveShops(ctx context.Context) ([]models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Shop{}
	for _, sh := range s.shops {
		if sh.IsActive {
			out = append(out, sh)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ShopByOwner(ctx context.Context, ownerID uuid.UUID) (models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.ownedShop(ownerID)
	if i < 0 {
		return models.Shop{}, models.ErrNotFound
	}
	return s.shops[i], nil
}

func (s *Store) ownedShop(ownerID uuid.UUID) int {
	for i, sh := range s.shops {
		if sh.UserID == ownerID {
			return i
		}
	}
	return -1
}

func (s *Store) CreateShop(ctx context.Context, ownerID uuid.UUID, req models.ShopReq) (models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ownedShop(ownerID) >= 0 {
		return models.Shop{}, models.ErrConflict
	}
	now := s.now()
	sh := models.Shop{
		ID:             uuid.New(),
		UserID:         ownerID,
		Name:           strings.TrimSpace(req.Name),
		Description:    models.OptionalText(req.Description),
		WhatsappNumber: models.OptionalText(req.WhatsappNumber),
		IsActive:       req.IsActive == nil || *req.IsActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.shops = append(s.shops, sh)
	return sh, nil
}

func (s *Store) UpdateShop(ctx context.Context, ownerID uuid.UUID, req models.ShopReq) (models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.ownedShop(ownerID)
	if i < 0 {
		return models.Shop{}, models.ErrNotFound
	}
	s.shops[i].Name = strings.TrimSpace(req.Name)
	s.shops[i].Description = models.OptionalText(req.Description)
	s.shops[i].WhatsappNumber = models.OptionalText(req.WhatsappNumber)
	if req.IsActive != nil {
		s.shops[i].IsActive = *req.IsActive
	}
	s.shops[i].UpdatedAt = s.now()
	return s.shops[i], nil
}

func (s *Store) UpdateWhatsapp(ctx context.Context, ownerID uuid.UUID, number string) (models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.ownedShop(ownerID)
	if i < 0 {
		return models.Shop{}, models.ErrNotFound
	}
	s.shops[i].WhatsappNumber = models.OptionalText(number)
	s.shops[i].UpdatedAt = s.now()
	return s.shops[i], nil
}

// DeleteShop removes the owner's shop. Its products stay, detached.
func (s *Store) DeleteShop(ctx context.Context, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.ownedShop(ownerID)
	if i < 0 {
		return models.ErrNotFound
	}
	id := s.shops[i].ID
	s.shops = append(s.shops[:i], s.shops[i+1:]...)
	for j := range s.products {
		if s.products[j].ShopID != nil && *s.products[j].ShopID == id {
			s.products[j].ShopID = nil
		}
	}
	return nil
}

// ====================
// products
// ====================

var errStepFailed = errors.New("write step failed")

// CreateProduct stores the product, then its images, then its details. A
// failure after the first step leaves what was already stored in place.
func (s *Store) CreateProduct(ctx context.Context, shopID *uuid.UUID, req models.CreateProductReq) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	p := models.Product{
		ID:            uuid.New(),
		ShopID:        shopID,
		CategoryID:    req.CategoryID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		IsFeatured:    req.IsFeatured,
		IsNew:         req.IsNew,
		StockQuantity: req.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.products = append(s.products, p)

	if err := s.insertImages(p.ID, p.Name, req.Images); err != nil {
		return p.ID, &models.PartialWriteError{Step: "images", ProductID: p.ID, Err: err}
	}
	if err := s.insertDetails(p.ID, req.Details); err != nil {
		return p.ID, &models.PartialWriteError{Step: "details", ProductID: p.ID, Err: err}
	}
	return p.ID, nil
}

func (s *Store) insertImages(productID uuid.UUID, name string, urls []string) error {
	if s.failStep == "images" {
		return errStepFailed
	}
	for i, u := range urls {
		if strings.TrimSpace(u) == "" {
			return models.ErrEmptyImageURL
		}
		s.images = append(s.images, models.ProductImage{
			ID:           uuid.New(),
			ProductID:    productID,
			ImageURL:     u,
			AltText:      models.ImageAlt(name, i),
			DisplayOrder: i,
		})
	}
	return nil
}

func (s *Store) insertDetails(productID uuid.UUID, details []string) error {
	if s.failStep == "details" {
		return errStepFailed
	}
	for i, d := range models.CleanDetails(details) {
		s.details = append(s.details, models.ProductDetail{
			ID:           uuid.New(),
			ProductID:    productID,
			DetailText:   d,
			DisplayOrder: i,
		})
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, req models.UpdateProductReq) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(req.ID)
	if i < 0 {
		return models.ErrNotFound
	}
	p := &s.products[i]
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = req.Price
	p.CategoryID = req.CategoryID
	p.IsFeatured = req.IsFeatured
	p.IsNew = req.IsNew
	p.StockQuantity = req.StockQuantity
	p.UpdatedAt = s.now()

	if req.Images != nil {
		s.images = dropImages(s.images, req.ID)
		if err := s.insertImages(req.ID, p.Name, req.Images); err != nil {
			return &models.PartialWriteError{Step: "images", ProductID: req.ID, Err: err}
		}
	}
	if req.Details != nil {
		s.details = dropDetails(s.details, req.ID)
		if err := s.insertDetails(req.ID, req.Details); err != nil {
			return &models.PartialWriteError{Step: "details", ProductID: req.ID, Err: err}
		}
	}
	return nil
}

// DeleteProduct removes images, details, then the product.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return models.ErrNotFound
	}
	s.images = dropImages(s.images, id)
	s.details = dropDetails(s.details, id)
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

func (s *Store) productIndex(id uuid.UUID) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func dropImages(images []models.ProductImage, productID uuid.UUID) []models.ProductImage {
	out := images[:0]
	for _, img := range images {
		if img.ProductID != productID {
			out = append(out, img)
		}
	}
	return out
}

func dropDetails(details []models.ProductDetail, productID uuid.UUID) []models.ProductDetail {
	out := details[:0]
	for _, d := range details {
		if d.ProductID != productID {
			out = append(out, d)
		}
	}
	return out
}

// ====================
// users
// ====================

func (s *Store) CreateUser(ctx context.Context, email, passwordHash, role string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return models.User{}, models.ErrConflict
		}
	}
	u := models.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: s.now()}
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}
