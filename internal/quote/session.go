package quote

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// NumberSource tells where a quote number came from.
type NumberSource string

const (
	SourceSequence NumberSource = "sequence"
	SourceFallback NumberSource = "fallback"
	SourceManual   NumberSource = "manual"
)

// Number is a quote number together with its origin. Fallback numbers are
// derived from the clock and are not guaranteed unique.
type Number struct {
	Value  string
	Source NumberSource
}

func (n Number) IsFallback() bool {
	return n.Source == SourceFallback
}

// Session is one user's working context: the cart being assembled and the
// quote number reserved for it. A Session is not safe for concurrent use.
type Session struct {
	ID   uuid.UUID
	Cart *Cart

	numbers Numberer
	prefix  string
	now     func() time.Time
	current *Number
}

func NewSession(numbers Numberer, prefix string) *Session {
	return &Session{
		ID:      uuid.New(),
		Cart:    NewCart(),
		numbers: numbers,
		prefix:  prefix,
		now:     time.Now,
	}
}

// QuoteNumber returns the session's quote number, reserving one from the
// store on first use. Later calls return the cached value until Committed.
func (s *Session) QuoteNumber(ctx context.Context) Number {
	if s.current != nil {
		return *s.current
	}

	n := s.draw(ctx)
	s.current = &n

	return n
}

// Renumber drops the cached number and reserves a fresh one.
func (s *Session) Renumber(ctx context.Context) Number {
	s.current = nil
	return s.QuoteNumber(ctx)
}

// Adopt makes n the session's number, e.g. a number the client already holds.
func (s *Session) Adopt(n Number) {
	s.current = &n
}

// Committed releases the cached number after a successful save with it.
func (s *Session) Committed(number string) {
	if s.current != nil && s.current.Value == number {
		s.current = nil
	}
}

// Pending reports whether a number is currently reserved.
func (s *Session) Pending() (Number, bool) {
	if s.current == nil {
		return Number{}, false
	}

	return *s.current, true
}

func (s *Session) draw(ctx context.Context) Number {
	now := s.now()

	value, err := s.numbers.NextQuoteNumber(ctx, s.prefix, now.Year())
	if err == nil {
		return Number{Value: value, Source: SourceSequence}
	}

	fallback := FallbackNumber(s.prefix, now)
	numberFallbacks.Inc()
	slog.Warn("quote sequence unavailable, using fallback number",
		"session", s.ID, "number", fallback, "error", err)

	return Number{Value: fallback, Source: SourceFallback}
}

// FallbackNumber renders PREFIX-YYYYMMDD-HHMM for t.
func FallbackNumber(prefix string, t time.Time) string {
	return prefix + "-" + t.Format("20060102-1504")
}
