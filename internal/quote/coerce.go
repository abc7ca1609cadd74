package quote

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coerced is the outcome of parsing an untrusted numeric field.
// Recovered is set when the input could not be parsed and zero was substituted.
type Coerced struct {
	Value     decimal.Decimal
	Recovered bool
}

// ParseNumber parses user or catalog input such as "1.234,56", "1,234.56",
// "12.5", "30 %" or "1 200 €". Input that is not a number yields zero with Recovered set;
// it is never an error.
func ParseNumber(s string) Coerced {
	clean := strings.NewReplacer(" ", "", "\u00a0", "", "€", "", "%", "", "EUR", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return Coerced{Value: decimal.Zero, Recovered: true}
	}

	// With both separators present the last one is the decimal mark:
	// "1.234,56" and "1,234.56" both read as 1234.56. A lone comma is decimal.
	switch comma, dot := strings.LastIndex(clean, ","), strings.LastIndex(clean, "."); {
	case comma >= 0 && dot > comma:
		clean = strings.ReplaceAll(clean, ",", "")
	case comma >= 0:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Coerced{Value: decimal.Zero, Recovered: true}
	}

	return Coerced{Value: d}
}

// Number is a convenience for callers that only need the value.
func (c Coerced) Number() decimal.Decimal {
	return c.Value
}
