// Package views holds the storefront page templates.
package views

import (
	"embed"
	"net/http"

	"vitrine/catalog"
	"vitrine/models"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html layouts/*.html
var files embed.FS

// Engine builds the template engine with the storefront helpers.
func Engine(order catalog.OrderOptions) *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")

	engine.AddFunc("price", func(p int64) string {
		currency := order.Currency
		if currency == "" {
			currency = catalog.DefaultCurrency
		}
		return catalog.FormatPrice(p, order.Locale) + " " + currency
	})
	engine.AddFunc("cardOrderLink", func(p models.ProductView) string {
		opts := order
		opts.Source = catalog.FromCard
		return catalog.OrderLink(p, opts)
	})
	engine.AddFunc("detailOrderLink", func(p models.ProductView) string {
		opts := order
		opts.Source = catalog.FromDetail
		return catalog.OrderLink(p, opts)
	})
	engine.AddFunc("firstImage", func(p models.ProductView) string {
		if len(p.Images) == 0 {
			return ""
		}
		return p.Images[0]
	})
	return engine
}
