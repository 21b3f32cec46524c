package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ShopID        *uuid.UUID `gorm:"type:uuid;index" json:"shop_id,omitempty"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name          string     `gorm:"type:varchar(200);not null" json:"name"`
	Description   string     `gorm:"type:text;not null;default:''" json:"description"`
	Price         int64      `gorm:"not null;default:0;check:price >= 0" json:"price"`
	IsFeatured    bool       `gorm:"not null;default:false" json:"is_featured"`
	IsNew         bool       `gorm:"not null;default:false" json:"is_new"`
	StockQuantity int        `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type ProductImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ImageURL     string    `gorm:"type:text;not null" json:"image_url"`
	AltText      string    `gorm:"type:text;not null;default:''" json:"alt_text"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
}

func (ProductImage) TableName() string { return "product_images" }

type ProductDetail struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	DetailText   string    `gorm:"type:text;not null" json:"detail_text"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
}

func (ProductDetail) TableName() string { return "product_details" }

// ShopSummary is the part of a shop carried on a ProductView.
type ShopSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	WhatsappNumber string    `json:"whatsapp_number,omitempty"`
}

// ProductView is the read-only projection of a product served to the storefront.
// Shop is nil when the product has no owning shop.
type ProductView struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         int64        `json:"price"`
	Category      string       `json:"category"`
	Images        []string     `json:"images"`
	Details       []string     `json:"details"`
	IsFeatured    bool         `json:"is_featured"`
	IsNew         bool         `json:"is_new"`
	StockQuantity int          `json:"stock_quantity"`
	Shop          *ShopSummary `json:"shop,omitempty"`
}

// InStock reports whether the product can still be ordered.
func (p ProductView) InStock() bool { return p.StockQuantity > 0 }
