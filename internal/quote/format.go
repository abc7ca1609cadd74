package quote

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.German)

// FormatEUR renders an amount for display as "1.234,56 €". Display only:
// the rounded value never feeds back into pricing.
func FormatEUR(d decimal.Decimal) string {
	return FormatAmount(d) + " €"
}

// FormatAmount renders d with two decimals and German separators.
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprint(number.Decimal(f, number.Scale(2)))
}
