package quote

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

// numeric is an amount field that takes a JSON number or a string such as
// "1.234,56". Unreadable input becomes zero and is flagged, never rejected.
type numeric struct {
	quote.Coerced
	set bool
}

func (n *numeric) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		*n = numeric{}
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	n.Coerced = quote.ParseNumber(raw)
	n.set = true

	return nil
}

type lineItemRequest struct {
	Position        int        `json:"position"`
	Kind            quote.Kind `json:"kind"`
	SKU             string     `json:"sku"`
	Description     string     `json:"description"`
	Quantity        numeric    `json:"quantity"`
	UnitPrice       numeric    `json:"unit_price"`
	DiscountPercent numeric    `json:"discount_percent"`
	Note            string     `json:"note"`
}

func (li lineItemRequest) toLineItem() quote.LineItem {
	return quote.LineItem{
		Position:        li.Position,
		Kind:            li.Kind,
		SKU:             li.SKU,
		Description:     li.Description,
		Quantity:        li.Quantity.Value,
		UnitPrice:       li.UnitPrice.Value,
		DiscountPercent: li.DiscountPercent.Value,
		Note:            li.Note,
	}
}

type pricingRequest struct {
	Items                 []lineItemRequest `json:"items"`
	TaxRate               numeric           `json:"tax_rate"`
	ExtraDiscountPercent  numeric           `json:"extra_discount_percent"`
	ExtraDiscountAbsolute numeric           `json:"extra_discount_absolute"`
	FlatPrice             bool              `json:"flat_price"`
	FlatGross             numeric           `json:"flat_gross"`
}

// cart adds the items in position order; the cart assigns 10, 20, 30...
func (p pricingRequest) cart() *quote.Cart {
	items := slices.Clone(p.Items)
	slices.SortStableFunc(items, func(a, b lineItemRequest) int { return a.Position - b.Position })

	c := quote.NewCart()
	for _, it := range items {
		c.Add(it.toLineItem())
	}

	return c
}

func (p pricingRequest) params(defaultTaxRate decimal.Decimal) quote.Params {
	rate := defaultTaxRate
	if p.TaxRate.set {
		rate = p.TaxRate.Value
	}

	return quote.Params{
		TaxRate:               rate,
		ExtraDiscountPercent:  p.ExtraDiscountPercent.Value,
		ExtraDiscountAbsolute: p.ExtraDiscountAbsolute.Value,
		FlatPrice:             p.FlatPrice,
		FlatGross:             p.FlatGross.Value,
	}
}

// recovered lists the fields whose input could not be read and was priced
// as zero, e.g. "items[1].unit_price". Item indexes follow the request order.
func (p pricingRequest) recovered() []string {
	var fields []string

	flag := func(name string, n numeric) {
		if n.Recovered {
			fields = append(fields, name)
		}
	}

	for i, it := range p.Items {
		flag(fmt.Sprintf("items[%d].quantity", i), it.Quantity)
		flag(fmt.Sprintf("items[%d].unit_price", i), it.UnitPrice)
		flag(fmt.Sprintf("items[%d].discount_percent", i), it.DiscountPercent)
	}

	flag("tax_rate", p.TaxRate)
	flag("extra_discount_percent", p.ExtraDiscountPercent)
	flag("extra_discount_absolute", p.ExtraDiscountAbsolute)
	flag("flat_gross", p.FlatGross)

	return fields
}

type saveQuoteRequest struct {
	pricingRequest

	// Number is a number previously reserved through POST /numbers.
	Number       string             `json:"number"`
	NumberSource quote.NumberSource `json:"number_source"`

	CustomerName     string `json:"customer_name"`
	ProjectReference string `json:"project_reference"`
	CustomerNumber   string `json:"customer_number"`
	Preparer         string `json:"preparer"`
	Company          string `json:"company"`
	ClosingText      string `json:"closing_text"`
	Notes            string `json:"notes"`
	PricesHidden     bool   `json:"prices_hidden"`
}

type updateStatusRequest struct {
	Status quote.Status `json:"status"`
}

type externalReferenceRequest struct {
	ExternalID string `json:"external_id"`
}

type exportRequest struct {
	Place    string `json:"place"`
	Document []byte `json:"document"`
	Force    bool   `json:"force"`
}
