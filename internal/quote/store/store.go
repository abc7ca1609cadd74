package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

const DefaultTimeout = 5 * time.Second

type Store struct {
	db      *sql.DB
	dialect dialect
	timeout time.Duration
}

// New wraps db for the given backend. Every call is bounded by timeout.
func New(db *sql.DB, backend config.Backend, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var d dialect = sqlite{}
	if backend == config.BackendPostgres {
		d = postgres{}
	}

	return &Store{db: db, dialect: d, timeout: timeout}
}

var _ quote.Repository = (*Store)(nil)

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectQuoteColumns = `
	id, quote_number, customer_name, project_reference, customer_number,
	created_at, valid_until, preparer, company, net_total, gross_total,
	tax_rate, extra_discount_percent, extra_discount_absolute, flat_price,
	prices_hidden, status, external_reference_id, closing_text, notes
`

// scanQuote reads a header row in selectQuoteColumns order.
func scanQuote(s scanner) (*quote.Quote, error) {
	var q quote.Quote

	var created, validUntil timeColumn

	var status string

	if err := s.Scan(
		&q.ID, &q.Number, &q.CustomerName, &q.ProjectReference, &q.CustomerNumber,
		&created, &validUntil, &q.Preparer, &q.Company, &q.NetTotal, &q.GrossTotal,
		&q.TaxRate, &q.ExtraDiscountPercent, &q.ExtraDiscountAbsolute, &q.FlatPrice,
		&q.PricesHidden, &status, &q.ExternalReferenceID, &q.ClosingText, &q.Notes,
	); err != nil {
		return nil, err
	}

	q.CreatedAt = created.Time
	q.ValidUntil = validUntil.Time
	q.Status = quote.Status(status)

	return &q, nil
}

func (s *Store) SaveQuote(ctx context.Context, q *quote.Quote) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.wrap("beginning transaction", err)
	}
	defer dbTx.Rollback()

	headerQuery := s.q(`
		INSERT INTO quotes (
			quote_number, customer_name, project_reference, customer_number,
			created_at, valid_until, preparer, company, net_total, gross_total,
			tax_rate, extra_discount_percent, extra_discount_absolute, flat_price,
			prices_hidden, status, external_reference_id, closing_text, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int64

	err = dbTx.QueryRowContext(ctx, headerQuery,
		q.Number, q.CustomerName, q.ProjectReference, q.CustomerNumber,
		s.dialect.timeValue(q.CreatedAt), s.dialect.timeValue(q.ValidUntil),
		q.Preparer, q.Company, q.NetTotal, q.GrossTotal,
		q.TaxRate, q.ExtraDiscountPercent, q.ExtraDiscountAbsolute, q.FlatPrice,
		q.PricesHidden, string(q.Status), q.ExternalReferenceID, q.ClosingText, q.Notes,
	).Scan(&id)
	if err != nil {
		return 0, s.wrap("inserting quote", err)
	}

	lineQuery := s.q(`
		INSERT INTO quote_lines (
			quote_id, position, kind, sku, description, quantity,
			unit_price, discount_percent, line_total, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	for _, item := range q.Items {
		_, err := dbTx.ExecContext(ctx, lineQuery,
			id, item.Position, string(item.Kind), item.SKU, item.Description, item.Quantity,
			item.UnitPrice, item.DiscountPercent, item.Total(), item.Note,
		)
		if err != nil {
			return 0, s.wrap(fmt.Sprintf("inserting line %d", item.Position), err)
		}
	}

	eventQuery := s.q(`
		INSERT INTO product_events (
			quote_id, article, description, category, price, discount, quantity, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	for _, ev := range quote.Events(q) {
		_, err := dbTx.ExecContext(ctx, eventQuery,
			id, ev.Article, ev.Description, string(ev.Category),
			ev.Price, ev.Discount, ev.Quantity, s.dialect.timeValue(ev.RecordedAt),
		)
		if err != nil {
			return 0, s.wrap("inserting product event", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, s.wrap("committing quote", err)
	}

	return id, nil
}

func (s *Store) GetQuote(ctx context.Context, number string) (*quote.Quote, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	query := s.q(`SELECT ` + selectQuoteColumns + ` FROM quotes WHERE quote_number = ?`)

	q, err := scanQuote(s.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("getting quote %s: %w", number, quote.ErrNotFound)
		}

		return nil, s.wrap("getting quote", err)
	}

	items, err := s.lines(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	q.Items = items

	return q, nil
}

func (s *Store) lines(ctx context.Context, quoteID int64) ([]quote.LineItem, error) {
	query := s.q(`
		SELECT position, kind, sku, description, quantity, unit_price, discount_percent, note
		FROM quote_lines
		WHERE quote_id = ?
		ORDER BY position ASC
	`)

	rows, err := s.db.QueryContext(ctx, query, quoteID)
	if err != nil {
		return nil, s.wrap("listing quote lines", err)
	}
	defer rows.Close()

	var items []quote.LineItem

	for rows.Next() {
		var item quote.LineItem

		var kind string

		if err := rows.Scan(
			&item.Position, &kind, &item.SKU, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.DiscountPercent, &item.Note,
		); err != nil {
			return nil, fmt.Errorf("scanning quote line: %w", err)
		}

		item.Kind = quote.Kind(kind)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, s.wrap("iterating quote lines", err)
	}

	return items, nil
}

// escapeLike escapes LIKE wildcards so term matches literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// SearchQuotes returns headers whose customer name, number, project reference
// or customer number contain term, newest first. Items are not loaded.
func (s *Store) SearchQuotes(ctx context.Context, term string) ([]*quote.Quote, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	like := s.dialect.like()
	query := s.q(`SELECT ` + selectQuoteColumns + ` FROM quotes
		WHERE customer_name ` + like + ` ? ESCAPE '\'
		   OR quote_number ` + like + ` ? ESCAPE '\'
		   OR project_reference ` + like + ` ? ESCAPE '\'
		   OR customer_number ` + like + ` ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC`)

	pattern := "%" + escapeLike(strings.TrimSpace(term)) + "%"

	return s.listQuotes(ctx, "searching quotes", query, pattern, pattern, pattern, pattern)
}

// ListRecent returns up to limit headers, newest first. Items are not loaded.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*quote.Quote, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	query := s.q(`SELECT ` + selectQuoteColumns + ` FROM quotes ORDER BY created_at DESC, id DESC LIMIT ?`)

	return s.listQuotes(ctx, "listing quotes", query, limit)
}

func (s *Store) listQuotes(ctx context.Context, op, query string, args ...any) ([]*quote.Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrap(op, err)
	}
	defer rows.Close()

	var quotes []*quote.Quote

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}

		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, s.wrap(op, err)
	}

	return quotes, nil
}

func (s *Store) UpdateStatus(ctx context.Context, number string, status quote.Status) error {
	return s.updateOne(ctx, "updating status", `UPDATE quotes SET status = ? WHERE quote_number = ?`, number, string(status))
}

func (s *Store) UpdateExternalReference(ctx context.Context, number, externalID string) error {
	return s.updateOne(ctx, "updating external reference",
		`UPDATE quotes SET external_reference_id = ? WHERE quote_number = ?`, number, externalID)
}

func (s *Store) updateOne(ctx context.Context, op, query, number string, value any) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.q(query), value, number)
	if err != nil {
		return s.wrap(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return s.wrap(op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, number, quote.ErrNotFound)
	}

	return nil
}

// DeleteQuote removes the header and its lines. Product events stay in the
// analytical log with their quote reference cleared.
func (s *Store) DeleteQuote(ctx context.Context, number string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap("beginning transaction", err)
	}
	defer dbTx.Rollback()

	var id int64
	if err := dbTx.QueryRowContext(ctx, s.q(`SELECT id FROM quotes WHERE quote_number = ?`), number).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("deleting quote %s: %w", number, quote.ErrNotFound)
		}

		return s.wrap("deleting quote", err)
	}

	if _, err := dbTx.ExecContext(ctx, s.q(`DELETE FROM quote_lines WHERE quote_id = ?`), id); err != nil {
		return s.wrap("deleting quote lines", err)
	}

	if _, err := dbTx.ExecContext(ctx, s.q(`DELETE FROM quotes WHERE id = ?`), id); err != nil {
		return s.wrap("deleting quote", err)
	}

	if err := dbTx.Commit(); err != nil {
		return s.wrap("committing delete", err)
	}

	return nil
}

// NextQuoteNumber atomically advances the counter for prefix and year.
func (s *Store) NextQuoteNumber(ctx context.Context, prefix string, year int) (string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	query := s.q(`
		INSERT INTO quote_sequences (prefix, year, last_value)
		VALUES (?, ?, 1)
		ON CONFLICT (prefix, year) DO UPDATE SET last_value = quote_sequences.last_value + 1
		RETURNING last_value
	`)

	var seq int64
	if err := s.db.QueryRowContext(ctx, query, prefix, year).Scan(&seq); err != nil {
		return "", s.wrap("advancing quote sequence", err)
	}

	return quote.FormatSequenceNumber(prefix, year, seq), nil
}

// timeColumn scans timestamps stored as unix milliseconds or native times.
type timeColumn struct {
	time.Time
}

func (t *timeColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case int64:
		t.Time = time.UnixMilli(v).UTC()
	case time.Time:
		t.Time = v.UTC()
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}

	return nil
}
