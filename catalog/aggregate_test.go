package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"vitrine/models"

	"github.com/google/uuid"
)

type fakeReader struct {
	rows       []ProductRow
	categories []models.Category
	rowsErr    error
	catErr     error
	productHit int32
	catHit     int32
}

func (f *fakeReader) ProductRows(ctx context.Context) ([]ProductRow, error) {
	atomic.AddInt32(&f.productHit, 1)
	return f.rows, f.rowsErr
}

func (f *fakeReader) Categories(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	atomic.AddInt32(&f.catHit, 1)
	return f.categories, f.catErr
}

func strp(s string) *string { return &s }

func TestBuildViewSortsImagesAndDetails(t *testing.T) {
	row := ProductRow{
		ID:           uuid.New(),
		Name:         "Casque Gaming Pro",
		CategoryName: strp("Gaming"),
		Images: []ImageRow{
			{ImageURL: "c.jpg", DisplayOrder: 2},
			{ImageURL: "a.jpg", DisplayOrder: 0},
			{ImageURL: "b1.jpg", DisplayOrder: 1},
			{ImageURL: "b2.jpg", DisplayOrder: 1},
		},
		Details: []DetailRow{
			{DetailText: "son surround 7.1", DisplayOrder: 5},
			{DetailText: "micro détachable", DisplayOrder: -1},
		},
	}

	v := BuildView(row)

	wantImages := []string{"a.jpg", "b1.jpg", "b2.jpg", "c.jpg"}
	if len(v.Images) != len(wantImages) {
		t.Fatalf("expected %d images, got %d", len(wantImages), len(v.Images))
	}
	for i := range wantImages {
		if v.Images[i] != wantImages[i] {
			t.Fatalf("image %d: got %s want %s", i, v.Images[i], wantImages[i])
		}
	}
	if v.Details[0] != "micro détachable" || v.Details[1] != "son surround 7.1" {
		t.Fatalf("details not ordered by display_order: %v", v.Details)
	}
	if row.Images[0].ImageURL != "c.jpg" {
		t.Fatal("BuildView must not reorder the row's images in place")
	}
	if v.Category != "Gaming" {
		t.Fatalf("category: got %q", v.Category)
	}
}

func TestBuildViewMissingRelations(t *testing.T) {
	v := BuildView(ProductRow{ID: uuid.New(), Name: "Orphan"})

	if v.Category != "" {
		t.Fatalf("expected empty category, got %q", v.Category)
	}
	if v.Shop != nil {
		t.Fatalf("expected no shop, got %+v", v.Shop)
	}
	if v.Images == nil || v.Details == nil {
		t.Fatal("images and details should be empty, not nil")
	}
	if got := ContactNumber(v, ""); got != DefaultWhatsappNumber {
		t.Fatalf("expected default contact for a product without shop, got %s", got)
	}
}

func TestBuildViewAttachesShop(t *testing.T) {
	shopID := uuid.New()
	v := BuildView(ProductRow{
		ID:   uuid.New(),
		Shop: &ShopRow{ID: shopID, Name: "Boutique Cotonou", WhatsappNumber: strp("22990000000")},
	})
	if v.Shop == nil || v.Shop.ID != shopID || v.Shop.WhatsappNumber != "22990000000" {
		t.Fatalf("unexpected shop: %+v", v.Shop)
	}
}

func TestLoadCatalogKeepsOrderAndDegradesMissingJoins(t *testing.T) {
	now := time.Now()
	r := &fakeReader{
		rows: []ProductRow{
			{ID: uuid.New(), Name: "newest", CategoryName: strp("Mode"), CreatedAt: now},
			{ID: uuid.New(), Name: "no category", CreatedAt: now.Add(-time.Hour)},
		},
		categories: []models.Category{{ID: uuid.New(), Name: "Mode"}},
	}

	c, err := LoadCatalog(context.Background(), r, uuid.New())
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	if len(c.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(c.Products))
	}
	if c.Products[0].Name != "newest" || c.Products[1].Name != "no category" {
		t.Fatalf("product order changed: %s, %s", c.Products[0].Name, c.Products[1].Name)
	}
	if c.Products[1].Category != "" {
		t.Fatalf("missing category should be empty, got %q", c.Products[1].Category)
	}
	if len(c.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(c.Categories))
	}
}

func TestLoadCatalogWithoutOwnerSkipsCategories(t *testing.T) {
	r := &fakeReader{categories: []models.Category{{Name: "Mode"}}}

	c, err := LoadCatalog(context.Background(), r, uuid.Nil)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	if r.catHit != 0 {
		t.Fatal("categories should not be read without an owner")
	}
	if c.Categories == nil || len(c.Categories) != 0 {
		t.Fatalf("expected empty category list, got %v", c.Categories)
	}
}

func TestLoadCatalogReportsFetchFailure(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := LoadCatalog(context.Background(), &fakeReader{rowsErr: boom}, uuid.Nil)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Op != "products" {
		t.Fatalf("expected products FetchError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatal("FetchError should unwrap to the store error")
	}

	_, err = LoadCatalog(context.Background(), &fakeReader{catErr: boom}, uuid.New())
	if !errors.As(err, &fe) || fe.Op != "categories" {
		t.Fatalf("expected categories FetchError, got %v", err)
	}
}

func TestStats(t *testing.T) {
	s := Stats([]models.ProductView{
		{IsNew: true, StockQuantity: 3},
		{IsFeatured: true, StockQuantity: 2},
		{IsNew: true, IsFeatured: true},
	})
	if s.TotalProducts != 3 || s.NewProducts != 2 || s.FeaturedProducts != 2 || s.TotalStock != 5 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}
