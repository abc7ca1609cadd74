// Package report renders stored quotes and their statistics as an Excel workbook.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

const (
	SheetQuotes = "Angebote"
	SheetLines  = "Positionen"
	SheetStats  = "Statistiken"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Source is the read side of the quote service.
type Source interface {
	ListRecent(ctx context.Context, limit int) ([]*quote.Quote, error)
	Get(ctx context.Context, number string) (*quote.Quote, error)
	Statistics(ctx context.Context) (*quote.Statistics, error)
}

type Builder struct {
	src   Source
	limit int
}

// NewBuilder returns a builder covering the latest limit quotes.
func NewBuilder(src Source, limit int) *Builder {
	return &Builder{src: src, limit: limit}
}

// Filename is the suggested download name for a workbook built at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("angebote_%s.xlsx", t.Format("20060102"))
}

// Write builds the workbook and writes it to w.
func (b *Builder) Write(ctx context.Context, w io.Writer) error {
	f, err := b.Build(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

// Build loads the quotes with their lines and the statistics into a new workbook.
func (b *Builder) Build(ctx context.Context) (*excelize.File, error) {
	headers, err := b.src.ListRecent(ctx, b.limit)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	quotes := make([]*quote.Quote, 0, len(headers))

	for _, h := range headers {
		q, err := b.src.Get(ctx, h.Number)
		if err != nil {
			return nil, fmt.Errorf("load quote %s: %w", h.Number, err)
		}

		quotes = append(quotes, q)
	}

	stats, err := b.src.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}

	f := excelize.NewFile()

	if err := render(f, quotes, stats); err != nil {
		_ = f.Close()
		return nil, err
	}

	return f, nil
}

func render(f *excelize.File, quotes []*quote.Quote, stats *quote.Statistics) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetQuotes); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for _, name := range []string{SheetLines, SheetStats} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	s := sheetWriter{f: f, money: money, bold: bold}

	s.quotes(quotes)
	s.lines(quotes)
	s.statistics(stats)

	return s.err
}

// sheetWriter keeps the first error so rows can be written without checks.
type sheetWriter struct {
	f     *excelize.File
	money int
	bold  int
	err   error
}

func (s *sheetWriter) row(sheet string, row int, values ...any) {
	if s.err != nil {
		return
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		s.err = err
		return
	}

	if err := s.f.SetSheetRow(sheet, cell, &values); err != nil {
		s.err = fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
}

func (s *sheetWriter) header(sheet string, row int, values ...any) {
	s.row(sheet, row, values...)

	if s.err != nil {
		return
	}

	last, _ := excelize.CoordinatesToCellName(len(values), row)
	first, _ := excelize.CoordinatesToCellName(1, row)

	if err := s.f.SetCellStyle(sheet, first, last, s.bold); err != nil {
		s.err = fmt.Errorf("style %s header: %w", sheet, err)
	}
}

func (s *sheetWriter) moneyColumns(sheet string, fromRow, toRow int, cols ...int) {
	if s.err != nil || toRow < fromRow {
		return
	}

	for _, c := range cols {
		top, _ := excelize.CoordinatesToCellName(c, fromRow)
		bottom, _ := excelize.CoordinatesToCellName(c, toRow)

		if err := s.f.SetCellStyle(sheet, top, bottom, s.money); err != nil {
			s.err = fmt.Errorf("style %s: %w", sheet, err)
			return
		}
	}
}

func (s *sheetWriter) quotes(quotes []*quote.Quote) {
	s.header(SheetQuotes, 1,
		"Angebotsnummer", "Datum", "Gültig bis", "Kunde", "Projekt", "Kundennummer",
		"Ersteller", "Netto", "Brutto", "Status", "Monday-ID")

	for i, q := range quotes {
		s.row(SheetQuotes, i+2,
			q.Number,
			q.CreatedAt.Format("02.01.2006"),
			q.ValidUntil.Format("02.01.2006"),
			q.CustomerName,
			q.ProjectReference,
			q.CustomerNumber,
			q.Preparer,
			amount(q.NetTotal),
			amount(q.GrossTotal),
			string(q.Status),
			q.ExternalReferenceID,
		)
	}

	s.moneyColumns(SheetQuotes, 2, len(quotes)+1, 8, 9)
}

func (s *sheetWriter) lines(quotes []*quote.Quote) {
	s.header(SheetLines, 1,
		"Angebotsnummer", "Pos", "Art", "Artikel", "Bezeichnung", "Menge", "Einzelpreis", "Rabatt %", "Gesamt")

	row := 2

	for _, q := range quotes {
		for _, item := range q.Items {
			s.row(SheetLines, row,
				q.Number,
				item.Position,
				string(item.Kind),
				item.SKU,
				item.Description,
				amount(item.Quantity),
				amount(item.UnitPrice),
				amount(item.DiscountPercent),
				amount(item.Total()),
			)
			row++
		}
	}

	s.moneyColumns(SheetLines, 2, row-1, 7, 9)
}

func (s *sheetWriter) statistics(stats *quote.Statistics) {
	row := 1

	s.header(SheetStats, row, "Übersicht")
	row++
	s.row(SheetStats, row, "Angebote", stats.Summary.Count)
	row++
	s.row(SheetStats, row, "Summe brutto", amount(stats.Summary.Sum))
	row++
	s.row(SheetStats, row, "Durchschnitt", amount(stats.Summary.Average))
	row++
	s.row(SheetStats, row, "Minimum", amount(stats.Summary.Min))
	row++
	s.row(SheetStats, row, "Maximum", amount(stats.Summary.Max))
	s.moneyColumns(SheetStats, row-3, row, 2)
	row += 2

	s.header(SheetStats, row, "Monat", "Anzahl", "Summe brutto")
	row++
	start := row

	for _, m := range stats.Monthly {
		s.row(SheetStats, row, m.Month, m.Count, amount(m.Sum))
		row++
	}

	s.moneyColumns(SheetStats, start, row-1, 3)
	row++

	s.header(SheetStats, row, "Kategorie", "Positionen", "Umsatz netto")
	row++
	start = row

	for _, c := range stats.Categories {
		s.row(SheetStats, row, string(c.Category), c.Count, amount(c.Revenue))
		row++
	}

	s.moneyColumns(SheetStats, start, row-1, 3)
	row++

	s.header(SheetStats, row, "Status", "Anzahl", "Summe brutto")
	row++
	start = row

	for _, st := range stats.Statuses {
		s.row(SheetStats, row, string(st.Status), st.Count, amount(st.Sum))
		row++
	}

	s.moneyColumns(SheetStats, start, row-1, 3)
	row++

	s.header(SheetStats, row, "Artikel", "Bezeichnung", "Kategorie", "Angebote", "Menge", "Ø Preis", "Ø Rabatt %")
	row++
	start = row

	for _, p := range stats.TopProducts {
		s.row(SheetStats, row,
			p.Article, p.Description, string(p.Category), p.Count,
			amount(p.Quantity), amount(p.AveragePrice), amount(p.AverageDiscount))
		row++
	}

	s.moneyColumns(SheetStats, start, row-1, 6)
}

// amount converts d to a cell number rounded to cents.
func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
