package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a line item for category reporting.
type Kind string

const (
	KindOutdoorUnit Kind = "outdoor-unit"
	KindIndoorUnit  Kind = "indoor-unit"
	KindSet         Kind = "set"
	KindAccessory   Kind = "accessory"
	KindOther       Kind = "other"
)

// Status represents the lifecycle state of a persisted quote.
type Status string

const (
	StatusCreated   Status = "Created"
	StatusSent      Status = "Sent"
	StatusAccepted  Status = "Accepted"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusCreated, StatusSent, StatusAccepted, StatusRejected, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}

	return false
}

var hundred = decimal.NewFromInt(100)

// LineItem is one priced cart entry.
type LineItem struct {
	Position        int             `validate:"gt=0"`
	Kind            Kind            `validate:"omitempty,oneof=outdoor-unit indoor-unit set accessory other"`
	SKU             string          `validate:"max=100"`
	Description     string          `validate:"max=1000"`
	Quantity        decimal.Decimal `validate:"gte=0"`
	UnitPrice       decimal.Decimal `validate:"gte=0"`
	DiscountPercent decimal.Decimal `validate:"gte=0"`
	Note            string
}

// Total returns quantity * unit price * (1 - discount/100).
// It is never cached on the item; stores may keep a copy for reporting only.
func (li LineItem) Total() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(li.DiscountPercent.Div(hundred))
	return li.Quantity.Mul(li.UnitPrice).Mul(factor)
}

// Quote is a persisted offer: header fields plus a snapshot of its line items.
type Quote struct {
	ID                    int64
	Number                string `validate:"required,max=64"`
	CustomerName          string `validate:"max=255"`
	ProjectReference      string `validate:"max=255"`
	CustomerNumber        string `validate:"max=100"`
	CreatedAt             time.Time
	ValidUntil            time.Time
	Preparer              string
	Company               string
	NetTotal              decimal.Decimal
	GrossTotal            decimal.Decimal
	TaxRate               decimal.Decimal `validate:"gte=0"`
	ExtraDiscountPercent  decimal.Decimal `validate:"gte=0"`
	ExtraDiscountAbsolute decimal.Decimal `validate:"gte=0"`
	FlatPrice             bool
	PricesHidden          bool
	Status                Status `validate:"required,quote_status"`
	ExternalReferenceID   string
	ClosingText           string
	Notes                 string
	Items                 []LineItem `validate:"dive"`
}

// ProductEvent is one row of the append-only analytical log written per
// line item when a quote is saved.
type ProductEvent struct {
	Article     string
	Description string
	Category    Kind
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Quantity    decimal.Decimal
	RecordedAt  time.Time
}

// Events derives the product log rows for q.
func Events(q *Quote) []ProductEvent {
	events := make([]ProductEvent, len(q.Items))
	for i, item := range q.Items {
		events[i] = ProductEvent{
			Article:     item.SKU,
			Description: item.Description,
			Category:    item.Kind,
			Price:       item.UnitPrice,
			Discount:    item.DiscountPercent,
			Quantity:    item.Quantity,
			RecordedAt:  q.CreatedAt,
		}
	}

	return events
}

// NormalizeSKU strips the ".0" suffix left behind when an article number was
// imported as a float.
func NormalizeSKU(sku string) string {
	return strings.TrimSuffix(strings.TrimSpace(sku), ".0")
}

// FormatSequenceNumber renders a store-issued sequence value as PREFIX-YYYY-NNNN.
func FormatSequenceNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// Statistics holds the read-only rollups over all stored quotes.
type Statistics struct {
	Summary     Summary
	Monthly     []MonthlyStat
	TopProducts []ProductStat
	Categories  []CategoryStat
	Statuses    []StatusStat
}

type Summary struct {
	Count   int64
	Sum     decimal.Decimal
	Average decimal.Decimal
	Min     decimal.Decimal
	Max     decimal.Decimal
}

type MonthlyStat struct {
	Month string // YYYY-MM
	Count int64
	Sum   decimal.Decimal
}

type ProductStat struct {
	Article         string
	Description     string
	Category        Kind
	Count           int64
	Quantity        decimal.Decimal
	AveragePrice    decimal.Decimal
	AverageDiscount decimal.Decimal
}

type CategoryStat struct {
	Category Kind
	Count    int64
	Revenue  decimal.Decimal
}

type StatusStat struct {
	Status Status
	Count  int64
	Sum    decimal.Decimal
}
