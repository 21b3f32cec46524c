package catalog

import (
	"strings"

	"vitrine/models"
)

// AllCategories is the category filter value that disables the category match.
const AllCategories = "Tous"

// Filter keeps the products whose name or description contains query
// (case-insensitive, no trimming, no accent folding) and whose category name is
// exactly category, unless category is AllCategories. Input order is kept and
// the input slice is not modified.
func Filter(products []models.ProductView, query, category string) []models.ProductView {
	q := strings.ToLower(query)
	out := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		if !matchesSearch(p, q) {
			continue
		}
		if category != AllCategories && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p models.ProductView, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Description), lowerQuery)
}

func NewProducts(products []models.ProductView) []models.ProductView {
	return subsequence(products, func(p models.ProductView) bool { return p.IsNew })
}

func FeaturedProducts(products []models.ProductView) []models.ProductView {
	return subsequence(products, func(p models.ProductView) bool { return p.IsFeatured })
}

func subsequence(products []models.ProductView, keep func(models.ProductView) bool) []models.ProductView {
	out := make([]models.ProductView, 0)
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// CategoryNames returns the storefront filter chips: the distinct category
// names of products in first-seen order. Products without a category add no chip.
func CategoryNames(products []models.ProductView) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		names = append(names, p.Category)
	}
	return names
}
