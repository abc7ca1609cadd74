package quote

import "github.com/shopspring/decimal"

// Params selects the pricing mode and the post-subtotal adjustments.
type Params struct {
	TaxRate               decimal.Decimal `validate:"gte=0"`
	ExtraDiscountPercent  decimal.Decimal `validate:"gte=0"`
	ExtraDiscountAbsolute decimal.Decimal `validate:"gte=0"`

	// FlatPrice switches to a manually entered gross package price; line
	// items are then carried for display only.
	FlatPrice bool
	FlatGross decimal.Decimal `validate:"gte=0"`
}

// Validate rejects parameters Calculate cannot price. A negative tax rate
// would let the flat-price divisor reach zero.
func (p Params) Validate() error {
	return checkStruct(p)
}

// Warning flags a computed result the caller may want to reject.
type Warning string

const (
	WarnNegativeNet     Warning = "negative_net"
	WarnDiscountOver100 Warning = "discount_over_100"
)

// Totals is the result of a pricing run. Values are unrounded.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal // percentage part of the extra discount
	Net      decimal.Decimal
	Tax      decimal.Decimal
	Gross    decimal.Decimal
	Warnings []Warning
}

// Subtotal sums the line totals. The sum does not depend on item order or positions.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}

	return sum
}

// Calculate runs the pricing pipeline over items. Discounts are not clamped:
// a net below zero is returned as is and flagged in Warnings. p must pass
// Validate.
func Calculate(items []LineItem, p Params) Totals {
	t := Totals{Subtotal: Subtotal(items)}
	rate := p.TaxRate.Div(hundred)

	if p.FlatPrice {
		t.Gross = p.FlatGross
		t.Net = p.FlatGross.Div(decimal.NewFromInt(1).Add(rate))
		t.Tax = p.FlatGross.Sub(t.Net)
	} else {
		t.Discount = t.Subtotal.Mul(p.ExtraDiscountPercent).Div(hundred)
		t.Net = t.Subtotal.Sub(t.Discount).Sub(p.ExtraDiscountAbsolute)
		t.Tax = t.Net.Mul(rate)
		t.Gross = t.Net.Add(t.Tax)
	}

	if t.Net.IsNegative() {
		t.Warnings = append(t.Warnings, WarnNegativeNet)
	}

	if p.ExtraDiscountPercent.GreaterThan(hundred) || anyDiscountOver100(items) {
		t.Warnings = append(t.Warnings, WarnDiscountOver100)
	}

	return t
}

func anyDiscountOver100(items []LineItem) bool {
	for _, item := range items {
		if item.DiscountPercent.GreaterThan(hundred) {
			return true
		}
	}

	return false
}
