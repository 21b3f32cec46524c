package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type CreateProductReq struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         int64      `json:"price"`
	CategoryID    *uuid.UUID `json:"category_id"`
	IsFeatured    bool       `json:"is_featured"`
	IsNew         bool       `json:"is_new"`
	StockQuantity int        `json:"stock_quantity"`
	Images        []string   `json:"images"`
	Details       []string   `json:"details"`
}

// Validate checks the required form fields before anything is written.
func (r *CreateProductReq) Validate() error {
	var fields []string
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(r.Description) == "" {
		fields = append(fields, "description")
	}
	if r.CategoryID == nil || *r.CategoryID == uuid.Nil {
		fields = append(fields, "category_id")
	}
	if r.Price < 0 {
		fields = append(fields, "price")
	}
	if r.StockQuantity < 0 {
		fields = append(fields, "stock_quantity")
	}
	for _, u := range r.Images {
		if strings.TrimSpace(u) == "" {
			fields = append(fields, "images")
			break
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CleanDetails drops blank bullet lines, keeping the order of the rest.
func CleanDetails(details []string) []string {
	out := make([]string, 0, len(details))
	for _, d := range details {
		if strings.TrimSpace(d) != "" {
			out = append(out, d)
		}
	}
	return out
}

// UpdateProductReq replaces the product fields. Images and Details are only
// rewritten when present in the request.
type UpdateProductReq struct {
	CreateProductReq
	ID uuid.UUID `json:"-"`
}

type CategoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CategoryReq) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Fields: []string{"name"}}
	}
	return nil
}

type ShopReq struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	WhatsappNumber string `json:"whatsapp_number"`
	IsActive       *bool  `json:"is_active"`
}

func (r *ShopReq) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Fields: []string{"name"}}
	}
	return nil
}

type WhatsappReq struct {
	WhatsappNumber string `json:"whatsapp_number"`
}

type ProductsListResp struct {
	Items      []ProductView `json:"items"`
	Total      int           `json:"total"`
	Categories []string      `json:"categories"`
}

type DashboardStats struct {
	TotalProducts    int `json:"total_products"`
	NewProducts      int `json:"new_products"`
	FeaturedProducts int `json:"featured_products"`
	TotalStock       int `json:"total_stock"`
}

// OptionalText turns a blank form value into nil.
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ImageAlt is the alt text stored with the index-th uploaded image.
func ImageAlt(name string, index int) string {
	return fmt.Sprintf("%s - Image %d", name, index+1)
}
