package memstore

import (
	"context"
	"fmt"

	"vitrine/models"

	"github.com/google/uuid"
)

// Seed fills an empty store with an admin account, a shop, its categories
// and a handful of products so dev mode has something to show.
func (s *Store) Seed(ctx context.Context, adminEmail, passwordHash string) (models.User, error) {
	admin, err := s.CreateUser(ctx, adminEmail, passwordHash, models.RoleAdmin)
	if err != nil {
		return models.User{}, fmt.Errorf("seed admin: %w", err)
	}

	shop, err := s.CreateShop(ctx, admin.ID, models.ShopReq{
		Name:           "Boutique Vitrine",
		Description:    "Électronique et mode à Cotonou",
		WhatsappNumber: "22967676767",
	})
	if err != nil {
		return admin, fmt.Errorf("seed shop: %w", err)
	}

	cats := map[string]uuid.UUID{}
	for _, name := range []string{"Électronique", "Mode", "Gaming"} {
		c, err := s.CreateCategory(ctx, admin.ID, models.CategoryReq{Name: name})
		if err != nil {
			return admin, fmt.Errorf("seed category %s: %w", name, err)
		}
		cats[name] = c.ID
	}

	products := []struct {
		category string
		req      models.CreateProductReq
	}{
		{"Mode", models.CreateProductReq{
			Name: "T-shirt coton bio", Description: "T-shirt unisexe en coton biologique",
			Price: 7500, StockQuantity: 40,
			Images:  []string{"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800"},
			Details: []string{"100% coton bio", "Tailles S à XXL"},
		}},
		{"Gaming", models.CreateProductReq{
			Name: "Casque Gaming Pro", Description: "Casque avec son surround 7.1 et micro détachable",
			Price: 45000, StockQuantity: 0, IsFeatured: true,
			Images:  []string{"https://images.unsplash.com/photo-1599669454699-248893623440?w=800"},
			Details: []string{"Son surround 7.1", "Micro détachable", "Câble tressé 2 m"},
		}},
		{"Électronique", models.CreateProductReq{
			Name: "iPhone 15", Description: "Smartphone Apple, 128 Go",
			Price: 650000, StockQuantity: 5, IsNew: true, IsFeatured: true,
			Images: []string{
				"https://images.unsplash.com/photo-1695048133142-1a20484d2569?w=800",
				"https://images.unsplash.com/photo-1696446701796-da61225697cc?w=800",
			},
			Details: []string{"Écran 6,1 pouces", "Puce A16 Bionic", "USB-C"},
		}},
	}
	for _, p := range products {
		id := cats[p.category]
		p.req.CategoryID = &id
		if _, err := s.CreateProduct(ctx, &shop.ID, p.req); err != nil {
			return admin, fmt.Errorf("seed product %s: %w", p.req.Name, err)
		}
	}
	return admin, nil
}
