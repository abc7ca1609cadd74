package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

const (
	statsMonths      = 12
	statsTopProducts = 15
)

// Statistics folds the quote headers and the product event log into the
// reporting rollups.
func (s *Store) Statistics(ctx context.Context) (*quote.Statistics, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var stats quote.Statistics

	var err error

	if stats.Summary, err = s.summary(ctx); err != nil {
		return nil, err
	}

	if stats.Monthly, err = s.monthly(ctx); err != nil {
		return nil, err
	}

	if stats.TopProducts, err = s.topProducts(ctx); err != nil {
		return nil, err
	}

	if stats.Categories, err = s.categories(ctx); err != nil {
		return nil, err
	}

	if stats.Statuses, err = s.statuses(ctx); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *Store) summary(ctx context.Context) (quote.Summary, error) {
	g := s.dialect.num("gross_total")
	query := fmt.Sprintf(`SELECT COUNT(*), SUM(%[1]s), AVG(%[1]s), MIN(%[1]s), MAX(%[1]s) FROM quotes`, g)

	var out quote.Summary

	var sum, avg, lo, hi decimal.NullDecimal

	if err := s.db.QueryRowContext(ctx, query).Scan(&out.Count, &sum, &avg, &lo, &hi); err != nil {
		return out, s.wrap("summarising quotes", err)
	}

	out.Sum = sum.Decimal
	out.Average = avg.Decimal
	out.Min = lo.Decimal
	out.Max = hi.Decimal

	return out, nil
}

func (s *Store) monthly(ctx context.Context) ([]quote.MonthlyStat, error) {
	query := s.q(fmt.Sprintf(`
		SELECT %s AS month, COUNT(*), SUM(%s)
		FROM quotes
		GROUP BY month
		ORDER BY month DESC
		LIMIT ?`, s.dialect.month("created_at"), s.dialect.num("gross_total")))

	rows, err := s.db.QueryContext(ctx, query, statsMonths)
	if err != nil {
		return nil, s.wrap("monthly statistics", err)
	}
	defer rows.Close()

	var out []quote.MonthlyStat

	for rows.Next() {
		var m quote.MonthlyStat

		var sum decimal.NullDecimal

		if err := rows.Scan(&m.Month, &m.Count, &sum); err != nil {
			return nil, fmt.Errorf("scanning monthly statistics: %w", err)
		}

		m.Sum = sum.Decimal
		out = append(out, m)
	}

	return out, s.wrap("monthly statistics", rows.Err())
}

func (s *Store) topProducts(ctx context.Context) ([]quote.ProductStat, error) {
	query := s.q(fmt.Sprintf(`
		SELECT article, MAX(description), MAX(category), COUNT(*),
		       SUM(%s), AVG(%s), AVG(%s)
		FROM product_events
		GROUP BY article
		ORDER BY COUNT(*) DESC, article ASC
		LIMIT ?`, s.dialect.num("quantity"), s.dialect.num("price"), s.dialect.num("discount")))

	rows, err := s.db.QueryContext(ctx, query, statsTopProducts)
	if err != nil {
		return nil, s.wrap("product statistics", err)
	}
	defer rows.Close()

	var out []quote.ProductStat

	for rows.Next() {
		var p quote.ProductStat

		var category string

		var qty, price, discount decimal.NullDecimal

		if err := rows.Scan(&p.Article, &p.Description, &category, &p.Count, &qty, &price, &discount); err != nil {
			return nil, fmt.Errorf("scanning product statistics: %w", err)
		}

		p.Category = quote.Kind(category)
		p.Quantity = qty.Decimal
		p.AveragePrice = price.Decimal
		p.AverageDiscount = discount.Decimal
		out = append(out, p)
	}

	return out, s.wrap("product statistics", rows.Err())
}

func (s *Store) categories(ctx context.Context) ([]quote.CategoryStat, error) {
	d := s.dialect
	revenue := fmt.Sprintf("SUM(%s * %s * (1 - %s / 100.0))", d.num("quantity"), d.num("price"), d.num("discount"))
	query := fmt.Sprintf(`
		SELECT category, COUNT(*), %[1]s AS revenue
		FROM product_events
		WHERE category <> ''
		GROUP BY category
		ORDER BY revenue DESC`, revenue)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, s.wrap("category statistics", err)
	}
	defer rows.Close()

	var out []quote.CategoryStat

	for rows.Next() {
		var c quote.CategoryStat

		var category string

		var rev decimal.NullDecimal

		if err := rows.Scan(&category, &c.Count, &rev); err != nil {
			return nil, fmt.Errorf("scanning category statistics: %w", err)
		}

		c.Category = quote.Kind(category)
		c.Revenue = rev.Decimal
		out = append(out, c)
	}

	return out, s.wrap("category statistics", rows.Err())
}

func (s *Store) statuses(ctx context.Context) ([]quote.StatusStat, error) {
	query := fmt.Sprintf(`
		SELECT status, COUNT(*), SUM(%s)
		FROM quotes
		GROUP BY status
		ORDER BY status`, s.dialect.num("gross_total"))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, s.wrap("status statistics", err)
	}
	defer rows.Close()

	var out []quote.StatusStat

	for rows.Next() {
		var st quote.StatusStat

		var status string

		var sum decimal.NullDecimal

		if err := rows.Scan(&status, &st.Count, &sum); err != nil {
			return nil, fmt.Errorf("scanning status statistics: %w", err)
		}

		st.Status = quote.Status(status)
		st.Sum = sum.Decimal
		out = append(out, st)
	}

	return out, s.wrap("status statistics", rows.Err())
}
