package quote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/export"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

type lineItemResponse struct {
	Position        int             `json:"position"`
	Kind            quote.Kind      `json:"kind"`
	SKU             string          `json:"sku"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Total           decimal.Decimal `json:"total"`
	Note            string          `json:"note,omitempty"`
}

type totalsResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Net            decimal.Decimal `json:"net"`
	Tax            decimal.Decimal `json:"tax"`
	Gross          decimal.Decimal `json:"gross"`
	GrossFormatted string          `json:"gross_formatted"`
	Warnings       []quote.Warning `json:"warnings,omitempty"`
}

type previewResponse struct {
	Items     []lineItemResponse `json:"items"`
	Totals    totalsResponse     `json:"totals"`
	Recovered []string           `json:"recovered,omitempty"`
}

type numberResponse struct {
	Number string             `json:"number"`
	Source quote.NumberSource `json:"source"`
}

type quoteResponse struct {
	ID                    int64              `json:"id,omitempty"`
	Number                string             `json:"number"`
	CustomerName          string             `json:"customer_name"`
	ProjectReference      string             `json:"project_reference,omitempty"`
	CustomerNumber        string             `json:"customer_number,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	ValidUntil            time.Time          `json:"valid_until"`
	Preparer              string             `json:"preparer,omitempty"`
	Company               string             `json:"company,omitempty"`
	NetTotal              decimal.Decimal    `json:"net_total"`
	GrossTotal            decimal.Decimal    `json:"gross_total"`
	TaxRate               decimal.Decimal    `json:"tax_rate"`
	ExtraDiscountPercent  decimal.Decimal    `json:"extra_discount_percent"`
	ExtraDiscountAbsolute decimal.Decimal    `json:"extra_discount_absolute"`
	FlatPrice             bool               `json:"flat_price"`
	PricesHidden          bool               `json:"prices_hidden"`
	Status                quote.Status       `json:"status"`
	ExternalReferenceID   string             `json:"external_reference_id,omitempty"`
	ClosingText           string             `json:"closing_text,omitempty"`
	Notes                 string             `json:"notes,omitempty"`
	Items                 []lineItemResponse `json:"items,omitempty"`
}

type saveQuoteResponse struct {
	Quote        quoteResponse      `json:"quote"`
	Totals       totalsResponse     `json:"totals"`
	NumberSource quote.NumberSource `json:"number_source"`
	Renumbered   bool               `json:"renumbered"`
	Recovered    []string           `json:"recovered,omitempty"`
}

type exportResponse struct {
	Synced     bool   `json:"synced"`
	Skipped    bool   `json:"skipped"`
	ExternalID string `json:"external_id,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

type summaryResponse struct {
	Count   int64           `json:"count"`
	Sum     decimal.Decimal `json:"sum"`
	Average decimal.Decimal `json:"average"`
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
}

type monthlyResponse struct {
	Month string          `json:"month"`
	Count int64           `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

type productResponse struct {
	Article         string          `json:"article"`
	Description     string          `json:"description"`
	Category        quote.Kind      `json:"category"`
	Count           int64           `json:"count"`
	Quantity        decimal.Decimal `json:"quantity"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	AverageDiscount decimal.Decimal `json:"average_discount"`
}

type categoryResponse struct {
	Category quote.Kind      `json:"category"`
	Count    int64           `json:"count"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type statusResponse struct {
	Status quote.Status    `json:"status"`
	Count  int64           `json:"count"`
	Sum    decimal.Decimal `json:"sum"`
}

type statisticsResponse struct {
	Summary     summaryResponse    `json:"summary"`
	Monthly     []monthlyResponse  `json:"monthly"`
	TopProducts []productResponse  `json:"top_products"`
	Categories  []categoryResponse `json:"categories"`
	Statuses    []statusResponse   `json:"statuses"`
}

func toLineItemResponse(li quote.LineItem) lineItemResponse {
	return lineItemResponse{
		Position:        li.Position,
		Kind:            li.Kind,
		SKU:             li.SKU,
		Description:     li.Description,
		Quantity:        li.Quantity,
		UnitPrice:       li.UnitPrice,
		DiscountPercent: li.DiscountPercent,
		Total:           li.Total(),
		Note:            li.Note,
	}
}

func toLineItemResponses(items []quote.LineItem) []lineItemResponse {
	resp := make([]lineItemResponse, len(items))
	for i, li := range items {
		resp[i] = toLineItemResponse(li)
	}

	return resp
}

func toTotalsResponse(t quote.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:       t.Subtotal,
		Discount:       t.Discount,
		Net:            t.Net,
		Tax:            t.Tax,
		Gross:          t.Gross,
		GrossFormatted: quote.FormatEUR(t.Gross),
		Warnings:       t.Warnings,
	}
}

func toResponse(q *quote.Quote) quoteResponse {
	resp := quoteResponse{
		ID:                    q.ID,
		Number:                q.Number,
		CustomerName:          q.CustomerName,
		ProjectReference:      q.ProjectReference,
		CustomerNumber:        q.CustomerNumber,
		CreatedAt:             q.CreatedAt,
		ValidUntil:            q.ValidUntil,
		Preparer:              q.Preparer,
		Company:               q.Company,
		NetTotal:              q.NetTotal,
		GrossTotal:            q.GrossTotal,
		TaxRate:               q.TaxRate,
		ExtraDiscountPercent:  q.ExtraDiscountPercent,
		ExtraDiscountAbsolute: q.ExtraDiscountAbsolute,
		FlatPrice:             q.FlatPrice,
		PricesHidden:          q.PricesHidden,
		Status:                q.Status,
		ExternalReferenceID:   q.ExternalReferenceID,
		ClosingText:           q.ClosingText,
		Notes:                 q.Notes,
	}

	if len(q.Items) > 0 {
		resp.Items = toLineItemResponses(q.Items)
	}

	return resp
}

func toResponseList(quotes []*quote.Quote) []quoteResponse {
	resp := make([]quoteResponse, len(quotes))
	for i, q := range quotes {
		resp[i] = toResponse(q)
	}

	return resp
}

func toExportResponse(o export.Outcome) exportResponse {
	resp := exportResponse{
		Synced:     o.Synced,
		Skipped:    o.Skipped,
		ExternalID: o.ExternalID,
	}

	if o.Err != nil {
		resp.Warning = o.Err.Error()
	}

	return resp
}

func toStatisticsResponse(s *quote.Statistics) statisticsResponse {
	resp := statisticsResponse{
		Summary: summaryResponse{
			Count:   s.Summary.Count,
			Sum:     s.Summary.Sum,
			Average: s.Summary.Average,
			Min:     s.Summary.Min,
			Max:     s.Summary.Max,
		},
		Monthly:     make([]monthlyResponse, len(s.Monthly)),
		TopProducts: make([]productResponse, len(s.TopProducts)),
		Categories:  make([]categoryResponse, len(s.Categories)),
		Statuses:    make([]statusResponse, len(s.Statuses)),
	}

	for i, m := range s.Monthly {
		resp.Monthly[i] = monthlyResponse{Month: m.Month, Count: m.Count, Sum: m.Sum}
	}

	for i, p := range s.TopProducts {
		resp.TopProducts[i] = productResponse{
			Article:         p.Article,
			Description:     p.Description,
			Category:        p.Category,
			Count:           p.Count,
			Quantity:        p.Quantity,
			AveragePrice:    p.AveragePrice,
			AverageDiscount: p.AverageDiscount,
		}
	}

	for i, c := range s.Categories {
		resp.Categories[i] = categoryResponse{Category: c.Category, Count: c.Count, Revenue: c.Revenue}
	}

	for i, st := range s.Statuses {
		resp.Statuses[i] = statusResponse{Status: st.Status, Count: st.Count, Sum: st.Sum}
	}

	return resp
}
