// Package catalog turns the normalized record store rows into the storefront
// view model and filters it.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ProductRow is one product as read from the record store, with its joined
// relations. A missing relation is a nil pointer or an empty slice.
type ProductRow struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Price         int64
	IsFeatured    bool
	IsNew         bool
	StockQuantity int
	CreatedAt     time.Time

	CategoryName *string
	Shop         *ShopRow
	Images       []ImageRow
	Details      []DetailRow
}

type ShopRow struct {
	ID             uuid.UUID
	Name           string
	WhatsappNumber *string
}

type ImageRow struct {
	ImageURL     string `json:"image_url"`
	AltText      string `json:"alt_text"`
	DisplayOrder int    `json:"display_order"`
}

type DetailRow struct {
	DetailText   string `json:"detail_text"`
	DisplayOrder int    `json:"display_order"`
}
