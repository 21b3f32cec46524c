package catalog

import (
	"net/url"
	"strings"

	"vitrine/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultWhatsappNumber = "22967676767"
	DefaultCurrency       = "XOF"
)

// OrderSource selects the message a shopper sends from the storefront.
type OrderSource string

const (
	FromCard   OrderSource = "card"
	FromDetail OrderSource = "detail"
)

type OrderOptions struct {
	DefaultNumber string
	Currency      string
	Locale        string
	Source        OrderSource
}

// ContactNumber is the shop's WhatsApp number, or the fallback when the
// product has no shop or the shop left it blank.
func ContactNumber(p models.ProductView, fallback string) string {
	if p.Shop != nil && strings.TrimSpace(p.Shop.WhatsappNumber) != "" {
		return strings.TrimSpace(p.Shop.WhatsappNumber)
	}
	if fallback == "" {
		return DefaultWhatsappNumber
	}
	return fallback
}

func OrderMessage(p models.ProductView, opts OrderOptions) string {
	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	price := FormatPrice(p.Price, opts.Locale)

	if opts.Source == FromDetail {
		return "Bonjour! Je suis intéressé(e) par: " + p.Name + " - " + price + " " + currency
	}
	return "Salut! Je suis intéressé par le produit \"" + p.Name + "\" au prix de " + price + " " + currency +
		". Pouvez-vous me donner plus d'informations?"
}

// OrderLink builds the wa.me deep link that opens a chat with the shop and a
// prefilled order message.
func OrderLink(p models.ProductView, opts OrderOptions) string {
	number := ContactNumber(p, opts.DefaultNumber)
	text := strings.ReplaceAll(url.QueryEscape(OrderMessage(p, opts)), "+", "%20")
	return "https://wa.me/" + url.PathEscape(number) + "?text=" + text
}

// FormatPrice groups digits the way the given locale does, French by default.
func FormatPrice(price int64, locale string) string {
	tag := language.French
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return message.NewPrinter(tag).Sprintf("%d", price)
}
