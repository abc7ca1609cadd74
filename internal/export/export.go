package export

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrNotConfigured = errors.New("export target not configured")
	ErrNotPersisted  = errors.New("quote must be saved before export")
)

// Payload is the flat record handed to the task board together with the
// rendered document.
type Payload struct {
	QuoteNumber string
	Date        time.Time
	Gross       decimal.Decimal
	Partner     string
	PostalCode  string
	Customer    string
	Document    []byte
	Filename    string
}

type Result struct {
	ExternalID string
}

//go:generate mockgen -source=export.go -destination=exporter_mock.go -package=export
type Exporter interface {
	Export(ctx context.Context, p Payload) (Result, error)
}

// ReferenceStore records the external id on the persisted quote.
type ReferenceStore interface {
	UpdateExternalReference(ctx context.Context, number, externalID string) error
}

// Disabled is the exporter used when no task board is configured.
type Disabled struct{}

func (Disabled) Export(context.Context, Payload) (Result, error) {
	return Result{}, ErrNotConfigured
}

// PostalCode returns the leading run of digits of a free-text place such as
// "4020 Linz". A place without leading digits yields "".
func PostalCode(place string) string {
	place = strings.TrimSpace(place)

	end := strings.IndexFunc(place, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		return place
	}

	return place[:end]
}

// Filename returns the document name used for uploads, e.g. AN_AN-2025-0001.pdf.
func Filename(number string) string {
	return "AN_" + strings.NewReplacer("/", "_", " ", "_").Replace(number) + ".pdf"
}
