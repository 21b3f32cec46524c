package catalog

import (
	"context"
	"fmt"
	"sort"

	"vitrine/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Reader is the read side of the record store the aggregator needs.
type Reader interface {
	// ProductRows returns every product with its relations, newest first.
	ProductRows(ctx context.Context) ([]ProductRow, error)
	// Categories returns the categories owned by ownerID, ordered by name.
	Categories(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error)
}

type Catalog struct {
	Products   []models.ProductView `json:"products"`
	Categories []models.Category    `json:"categories"`
}

// FetchError reports which read of a catalog load failed.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("catalog %s: %v", e.Op, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// LoadCatalog reads products and the owner's categories concurrently and
// shapes them. With a nil ownerID the category list is empty.
func LoadCatalog(ctx context.Context, r Reader, ownerID uuid.UUID) (Catalog, error) {
	var (
		rows       []ProductRow
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = r.ProductRows(gctx)
		if err != nil {
			return &FetchError{Op: "products", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		if ownerID == uuid.Nil {
			return nil
		}
		var err error
		categories, err = r.Categories(gctx, ownerID)
		if err != nil {
			return &FetchError{Op: "categories", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}

	if categories == nil {
		categories = []models.Category{}
	}
	return Catalog{Products: BuildViews(rows), Categories: categories}, nil
}

func BuildViews(rows []ProductRow) []models.ProductView {
	out := make([]models.ProductView, 0, len(rows))
	for _, row := range rows {
		out = append(out, BuildView(row))
	}
	return out
}

// BuildView projects one joined row. Images and details are ordered by
// display_order; equal orders keep their stored order.
func BuildView(row ProductRow) models.ProductView {
	v := models.ProductView{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Price:         row.Price,
		IsFeatured:    row.IsFeatured,
		IsNew:         row.IsNew,
		StockQuantity: row.StockQuantity,
	}
	if row.CategoryName != nil {
		v.Category = *row.CategoryName
	}

	images := make([]ImageRow, len(row.Images))
	copy(images, row.Images)
	sort.SliceStable(images, func(i, j int) bool { return images[i].DisplayOrder < images[j].DisplayOrder })
	v.Images = make([]string, 0, len(images))
	for _, img := range images {
		v.Images = append(v.Images, img.ImageURL)
	}

	details := make([]DetailRow, len(row.Details))
	copy(details, row.Details)
	sort.SliceStable(details, func(i, j int) bool { return details[i].DisplayOrder < details[j].DisplayOrder })
	v.Details = make([]string, 0, len(details))
	for _, d := range details {
		v.Details = append(v.Details, d.DetailText)
	}

	if row.Shop != nil {
		v.Shop = &models.ShopSummary{ID: row.Shop.ID, Name: row.Shop.Name}
		if row.Shop.WhatsappNumber != nil {
			v.Shop.WhatsappNumber = *row.Shop.WhatsappNumber
		}
	}
	return v
}

// Find returns the product with the given id.
func Find(products []models.ProductView, id uuid.UUID) (models.ProductView, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.ProductView{}, false
}

func Stats(products []models.ProductView) models.DashboardStats {
	s := models.DashboardStats{TotalProducts: len(products)}
	for _, p := range products {
		if p.IsNew {
			s.NewProducts++
		}
		if p.IsFeatured {
			s.FeaturedProducts++
		}
		s.TotalStock += p.StockQuantity
	}
	return s
}
