package quote_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

func TestSession_QuoteNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	numbers := quote.NewMockNumberer(ctrl)
	gomock.InOrder(
		numbers.EXPECT().NextQuoteNumber(gomock.Any(), "AN", gomock.Any()).Return("AN-2025-0001", nil),
		numbers.EXPECT().NextQuoteNumber(gomock.Any(), "AN", gomock.Any()).Return("AN-2025-0002", nil),
	)

	sess := quote.NewSession(numbers, "AN")
	ctx := context.Background()

	first := sess.QuoteNumber(ctx)
	again := sess.QuoteNumber(ctx)

	assert.Equal(t, quote.Number{Value: "AN-2025-0001", Source: quote.SourceSequence}, first)
	assert.Equal(t, first, again)

	sess.Committed("AN-2025-0001")
	_, pending := sess.Pending()
	assert.False(t, pending)

	next := sess.QuoteNumber(ctx)
	assert.Equal(t, "AN-2025-0002", next.Value)
}

func TestSession_CommittedIgnoresOtherNumbers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	numbers := quote.NewMockNumberer(ctrl)
	numbers.EXPECT().NextQuoteNumber(gomock.Any(), "AN", gomock.Any()).Return("AN-2025-0007", nil).Times(1)

	sess := quote.NewSession(numbers, "AN")
	ctx := context.Background()

	n := sess.QuoteNumber(ctx)
	sess.Committed("AN-2025-0001")

	assert.Equal(t, n, sess.QuoteNumber(ctx))
}

func TestSession_Fallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	numbers := quote.NewMockNumberer(ctrl)
	numbers.EXPECT().
		NextQuoteNumber(gomock.Any(), "AN", gomock.Any()).
		Return("", quote.ErrUnavailable)

	sess := quote.NewSession(numbers, "AN")
	n := sess.QuoteNumber(context.Background())

	assert.True(t, n.IsFallback())
	assert.Regexp(t, regexp.MustCompile(`^AN-\d{8}-\d{4}$`), n.Value)
	assert.Equal(t, n, sess.QuoteNumber(context.Background()))
}

func TestSession_Renumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	numbers := quote.NewMockNumberer(ctrl)
	gomock.InOrder(
		numbers.EXPECT().NextQuoteNumber(gomock.Any(), "AN", gomock.Any()).Return("", errors.New("timeout")),
		numbers.EXPECT().NextQuoteNumber(gomock.Any(), "AN", gomock.Any()).Return("AN-2025-0003", nil),
	)

	sess := quote.NewSession(numbers, "AN")
	ctx := context.Background()

	assert.True(t, sess.QuoteNumber(ctx).IsFallback())
	assert.Equal(t, quote.Number{Value: "AN-2025-0003", Source: quote.SourceSequence}, sess.Renumber(ctx))
}
