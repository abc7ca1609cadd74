// Package catalog loads the equipment and accessory price lists that feed the cart.
package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

// System is the equipment family derived from the article group.
type System string

const (
	SystemRAC System = "RAC" // single split
	SystemFJM System = "FJM" // multi split
	SystemBAC System = "BAC" // commercial
	SystemDVM System = "DVM" // everything else, searched by text
)

// Systems lists the families in menu order.
var Systems = []System{SystemRAC, SystemFJM, SystemBAC, SystemDVM}

func (s System) Label() string {
	switch s {
	case SystemRAC:
		return "Single Split (RAC)"
	case SystemFJM:
		return "Multi Split (FJM)"
	case SystemBAC:
		return "Gewerbe (BAC)"
	default:
		return "DVM (VRF)"
	}
}

// Product is one catalog row.
type Product struct {
	Article     string
	Description string
	Price       decimal.Decimal
	Group       string
	System      System
	Kind        quote.Kind

	// PriceRecovered is set when the price cell was not a number and zero was used.
	PriceRecovered bool
}

// LineItem turns p into a cart line with quantity 1.
func (p Product) LineItem(discount decimal.Decimal) quote.LineItem {
	return quote.LineItem{
		Kind:            p.Kind,
		SKU:             p.Article,
		Description:     p.Description,
		Quantity:        decimal.NewFromInt(1),
		UnitPrice:       p.Price,
		DiscountPercent: discount,
	}
}

// Catalog holds both price lists.
type Catalog struct {
	Equipment   []Product
	Accessories []Product
}

// Filter returns the equipment of system whose fields contain term
// case-insensitively. An empty system matches all.
func Filter(products []Product, system System, term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))

	var out []Product

	for _, p := range products {
		if system != "" && p.System != system {
			continue
		}

		if term != "" && !p.matches(term) {
			continue
		}

		out = append(out, p)
	}

	return out
}

func (p Product) matches(term string) bool {
	return slices.ContainsFunc([]string{p.Article, p.Description, p.Group}, func(s string) bool {
		return strings.Contains(strings.ToLower(s), term)
	})
}

// classify derives the system family and line kind of an equipment row.
func classify(group, description string) (System, quote.Kind) {
	g := strings.ToUpper(group)

	switch {
	case strings.Contains(g, "S_RAC"):
		return SystemRAC, quote.KindSet
	case strings.Contains(g, "S_BAC"):
		return SystemBAC, quote.KindSet
	case strings.Contains(g, "S_FJM"):
		if isOutdoorUnit(description) {
			return SystemFJM, quote.KindOutdoorUnit
		}

		return SystemFJM, quote.KindIndoorUnit
	}

	return SystemDVM, quote.KindOther
}

func isOutdoorUnit(description string) bool {
	if strings.Contains(strings.ToLower(description), "außengerät") {
		return true
	}

	return slices.Contains(strings.Fields(strings.ToUpper(description)), "AG")
}
