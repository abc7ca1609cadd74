package quote

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Numberer issues store-backed sequence numbers.
type Numberer interface {
	NextQuoteNumber(ctx context.Context, prefix string, year int) (string, error)
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=quote
type Repository interface {
	Numberer

	SaveQuote(ctx context.Context, q *Quote) (int64, error)
	GetQuote(ctx context.Context, number string) (*Quote, error)
	SearchQuotes(ctx context.Context, term string) ([]*Quote, error)
	ListRecent(ctx context.Context, limit int) ([]*Quote, error)
	UpdateStatus(ctx context.Context, number string, status Status) error
	UpdateExternalReference(ctx context.Context, number, externalID string) error
	DeleteQuote(ctx context.Context, number string) error
	Statistics(ctx context.Context) (*Statistics, error)
}

// Settings are the quoting defaults applied by the service.
type Settings struct {
	Prefix       string
	ValidityDays int
	Clock        func() time.Time
}

type Service struct {
	repo     Repository
	settings Settings
}

func NewService(repo Repository, settings Settings) *Service {
	if settings.Clock == nil {
		settings.Clock = time.Now
	}

	return &Service{repo: repo, settings: settings}
}

// NewSession starts a session numbering against the service's store.
func (s *Service) NewSession() *Session {
	sess := NewSession(s.repo, s.settings.Prefix)
	sess.now = s.settings.Clock

	return sess
}

// Draft carries the header fields entered for a quote; items and the number
// come from the session.
type Draft struct {
	CustomerName     string
	ProjectReference string
	CustomerNumber   string
	Preparer         string
	Company          string
	ClosingText      string
	Notes            string
	PricesHidden     bool
	Params           Params
}

type SaveResult struct {
	Quote  *Quote
	Totals Totals
	Number Number

	// Renumbered is set when the first number was taken and a fresh one was used.
	Renumbered bool
}

// Save prices the session cart and persists it under the session's number.
// A number conflict is retried once with a freshly drawn number.
func (s *Service) Save(ctx context.Context, sess *Session, d Draft) (*SaveResult, error) {
	if err := d.Params.Validate(); err != nil {
		return nil, err
	}

	items := sess.Cart.Snapshot()
	totals := Calculate(items, d.Params)
	number := sess.QuoteNumber(ctx)

	// Stores keep milliseconds; the returned quote must match what GetQuote reads back.
	created := s.settings.Clock().UTC().Truncate(time.Millisecond)
	q := &Quote{
		Number:                number.Value,
		CustomerName:          d.CustomerName,
		ProjectReference:      d.ProjectReference,
		CustomerNumber:        d.CustomerNumber,
		CreatedAt:             created,
		ValidUntil:            ValidUntil(created, s.settings.ValidityDays),
		Preparer:              d.Preparer,
		Company:               d.Company,
		NetTotal:              totals.Net,
		GrossTotal:            totals.Gross,
		TaxRate:               d.Params.TaxRate,
		ExtraDiscountPercent:  d.Params.ExtraDiscountPercent,
		ExtraDiscountAbsolute: d.Params.ExtraDiscountAbsolute,
		FlatPrice:             d.Params.FlatPrice,
		PricesHidden:          d.PricesHidden,
		Status:                StatusCreated,
		ClosingText:           d.ClosingText,
		Notes:                 d.Notes,
		Items:                 items,
	}

	if err := Validate(q); err != nil {
		return nil, err
	}

	res := &SaveResult{Quote: q, Totals: totals, Number: number}

	id, err := s.repo.SaveQuote(ctx, q)
	if errors.Is(err, ErrConflict) {
		saveConflicts.Inc()

		number = sess.Renumber(ctx)
		q.Number = number.Value
		res.Number = number
		res.Renumbered = true

		id, err = s.repo.SaveQuote(ctx, q)
	}

	if err != nil {
		return nil, fmt.Errorf("save quote %s: %w", q.Number, err)
	}

	q.ID = id
	sess.Committed(number.Value)
	quotesSaved.Inc()

	return res, nil
}

// ValidUntil returns the calendar date validityDays after created.
func ValidUntil(created time.Time, validityDays int) time.Time {
	y, m, d := created.Date()
	return time.Date(y, m, d+validityDays, 0, 0, 0, 0, time.UTC)
}

func (s *Service) Get(ctx context.Context, number string) (*Quote, error) {
	return s.repo.GetQuote(ctx, number)
}

func (s *Service) Search(ctx context.Context, term string) ([]*Quote, error) {
	return s.repo.SearchQuotes(ctx, term)
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]*Quote, error) {
	if limit <= 0 {
		limit = 50
	}

	return s.repo.ListRecent(ctx, limit)
}

func (s *Service) UpdateStatus(ctx context.Context, number string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}

	return s.repo.UpdateStatus(ctx, number, status)
}

func (s *Service) SetExternalReference(ctx context.Context, number, externalID string) error {
	return s.repo.UpdateExternalReference(ctx, number, externalID)
}

func (s *Service) Delete(ctx context.Context, number string) error {
	return s.repo.DeleteQuote(ctx, number)
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.repo.Statistics(ctx)
}

// NextNumber reserves a sequence number outside of a session.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	n, err := s.repo.NextQuoteNumber(ctx, s.settings.Prefix, s.settings.Clock().Year())
	if err != nil {
		return "", fmt.Errorf("next quote number: %w", err)
	}

	return n, nil
}
