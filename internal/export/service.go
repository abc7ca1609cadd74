package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

var exportFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quote_export_failures_total",
		Help: "Number of failed task board exports",
	},
	[]string{"stage"},
)

// Service pushes saved quotes to the task board. Export problems never undo
// or fail the save; they are reported in the Outcome.
type Service struct {
	exporter Exporter
	refs     ReferenceStore
	partner  string
}

// NewService creates an export service. partner is used when a quote carries
// no company name.
func NewService(exporter Exporter, refs ReferenceStore, partner string) *Service {
	if exporter == nil {
		exporter = Disabled{}
	}

	return &Service{exporter: exporter, refs: refs, partner: partner}
}

// Outcome describes what happened to one publish attempt.
type Outcome struct {
	Synced     bool
	Skipped    bool
	ExternalID string
	Err        error
}

// Publish sends q and its rendered document to the task board and records the
// returned id on the quote. A quote that already carries an external reference
// is skipped; use Republish to create another board item.
func (s *Service) Publish(ctx context.Context, q *quote.Quote, place string, doc []byte) Outcome {
	if q != nil && q.ID != 0 && q.ExternalReferenceID != "" {
		return Outcome{Skipped: true, ExternalID: q.ExternalReferenceID}
	}

	return s.publish(ctx, q, place, doc)
}

// Republish exports q even when it was exported before and replaces the
// recorded reference.
func (s *Service) Republish(ctx context.Context, q *quote.Quote, place string, doc []byte) Outcome {
	return s.publish(ctx, q, place, doc)
}

func (s *Service) publish(ctx context.Context, q *quote.Quote, place string, doc []byte) Outcome {
	if q == nil || q.ID == 0 {
		return Outcome{Err: ErrNotPersisted}
	}

	res, err := s.exporter.Export(ctx, s.payload(q, place, doc))

	switch {
	case errors.Is(err, ErrNotConfigured):
		return Outcome{Skipped: true}
	case err != nil && res.ExternalID == "":
		exportFailures.WithLabelValues("export").Inc()
		slog.Warn("quote export failed", "number", q.Number, "error", err)

		return Outcome{Err: fmt.Errorf("exporting quote %s: %w", q.Number, err)}
	}

	out := Outcome{Synced: err == nil, ExternalID: res.ExternalID}
	if err != nil {
		exportFailures.WithLabelValues("document").Inc()
		slog.Warn("quote exported without document", "number", q.Number, "external_id", res.ExternalID, "error", err)
		out.Err = fmt.Errorf("exporting quote %s: %w", q.Number, err)
	}

	if s.refs == nil {
		return out
	}

	if err := s.refs.UpdateExternalReference(ctx, q.Number, res.ExternalID); err != nil {
		exportFailures.WithLabelValues("reference").Inc()
		slog.Warn("recording external reference failed", "number", q.Number, "external_id", res.ExternalID, "error", err)
		out.Err = errors.Join(out.Err, fmt.Errorf("recording external reference: %w", err))

		return out
	}

	q.ExternalReferenceID = res.ExternalID

	return out
}

func (s *Service) payload(q *quote.Quote, place string, doc []byte) Payload {
	partner := q.Company
	if partner == "" {
		partner = s.partner
	}

	return Payload{
		QuoteNumber: q.Number,
		Date:        q.CreatedAt,
		Gross:       q.GrossTotal,
		Partner:     partner,
		PostalCode:  PostalCode(place),
		Customer:    q.CustomerName,
		Document:    doc,
		Filename:    Filename(q.Number),
	}
}
