package quote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(repo quote.Repository) *quote.Service {
	return quote.NewService(repo, quote.Settings{
		Prefix:       "AN",
		ValidityDays: 7,
		Clock:        func() time.Time { return fixedNow },
	})
}

func TestService_Save(t *testing.T) {
	type testCase struct {
		name           string
		setupMock      func(m *quote.MockRepository)
		wantErr        error
		wantNumber     string
		wantRenumbered bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil)
				m.EXPECT().
					SaveQuote(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, q *quote.Quote) (int64, error) {
						assert.Equal(t, "AN-2025-0001", q.Number)
						assert.Equal(t, quote.StatusCreated, q.Status)
						assert.Len(t, q.Items, 2)
						assertDecimal(t, "840", q.GrossTotal)
						assertDecimal(t, "700", q.NetTotal)
						assert.Equal(t, time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), q.ValidUntil)
						return 42, nil
					})
			},
			wantNumber: "AN-2025-0001",
		},
		{
			name: "ConflictRetriedOnce",
			setupMock: func(m *quote.MockRepository) {
				gomock.InOrder(
					m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil),
					m.EXPECT().SaveQuote(gomock.Any(), gomock.Any()).Return(int64(0), quote.ErrConflict),
					m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0002", nil),
					m.EXPECT().
						SaveQuote(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, q *quote.Quote) (int64, error) {
							assert.Equal(t, "AN-2025-0002", q.Number)
							return 43, nil
						}),
				)
			},
			wantNumber:     "AN-2025-0002",
			wantRenumbered: true,
		},
		{
			name: "SecondConflictSurfaces",
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil).Times(2)
				m.EXPECT().SaveQuote(gomock.Any(), gomock.Any()).Return(int64(0), quote.ErrConflict).Times(2)
			},
			wantErr: quote.ErrConflict,
		},
		{
			name: "UnavailableIsNotRetried",
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil)
				m.EXPECT().SaveQuote(gomock.Any(), gomock.Any()).Return(int64(0), quote.ErrUnavailable)
			},
			wantErr: quote.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := quote.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := newTestService(repo)
			sess := svc.NewSession()
			for _, it := range sampleItems() {
				sess.Cart.Add(it)
			}

			got, err := svc.Save(context.Background(), sess, quote.Draft{
				CustomerName: "Max Mustermann",
				Params: quote.Params{
					TaxRate:               dec("20"),
					ExtraDiscountPercent:  dec("10"),
					ExtraDiscountAbsolute: dec("20"),
				},
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				_, pending := sess.Pending()
				assert.True(t, pending, "number stays reserved after a failed save")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, got.Quote.Number)
			assert.Equal(t, tt.wantRenumbered, got.Renumbered)
			assert.NotZero(t, got.Quote.ID)

			_, pending := sess.Pending()
			assert.False(t, pending)
		})
	}
}

func TestService_SaveRejectsInvalidItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := quote.NewMockRepository(ctrl)
	repo.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil)

	svc := newTestService(repo)
	sess := svc.NewSession()
	sess.Cart.Add(quote.LineItem{Quantity: dec("-1"), UnitPrice: dec("10")})

	_, err := svc.Save(context.Background(), sess, quote.Draft{})
	assert.ErrorIs(t, err, quote.ErrInvalid)
}

func TestService_SaveRejectsInvalidParams(t *testing.T) {
	type testCase struct {
		name   string
		params quote.Params
	}

	tests := []testCase{
		{
			name:   "NegativeTaxRateFlat",
			params: quote.Params{TaxRate: dec("-100"), FlatPrice: true, FlatGross: dec("1200")},
		},
		{
			name:   "NegativeTaxRate",
			params: quote.Params{TaxRate: dec("-20")},
		},
		{
			name:   "NegativeAbsoluteDiscount",
			params: quote.Params{TaxRate: dec("20"), ExtraDiscountAbsolute: dec("-5")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No repository call is expected: the number is not even drawn.
			svc := newTestService(quote.NewMockRepository(ctrl))
			sess := svc.NewSession()
			sess.Cart.Add(quote.LineItem{Quantity: dec("1"), UnitPrice: dec("10")})

			res, err := svc.Save(context.Background(), sess, quote.Draft{Params: tt.params})
			require.ErrorIs(t, err, quote.ErrInvalid)
			assert.Nil(t, res)

			_, pending := sess.Pending()
			assert.False(t, pending)
		})
	}
}

func TestService_SaveTruncatesCreatedAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := quote.NewMockRepository(ctrl)
	repo.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil)
	repo.EXPECT().SaveQuote(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	svc := quote.NewService(repo, quote.Settings{
		Prefix:       "AN",
		ValidityDays: 7,
		Clock:        func() time.Time { return time.Date(2025, 3, 14, 9, 30, 15, 123456789, time.UTC) },
	})

	sess := svc.NewSession()
	sess.Cart.Add(quote.LineItem{Quantity: dec("1"), UnitPrice: dec("10")})

	res, err := svc.Save(context.Background(), sess, quote.Draft{Params: quote.Params{TaxRate: dec("20")}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 15, 123000000, time.UTC), res.Quote.CreatedAt)
}

func TestService_UpdateStatus(t *testing.T) {
	type args struct {
		status quote.Status
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *quote.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{status: quote.StatusSent},
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().UpdateStatus(gomock.Any(), "AN-2025-0001", quote.StatusSent).Return(nil)
			},
		},
		{
			name:    "UnknownStatus",
			args:    args{status: "Archived"},
			wantErr: quote.ErrInvalid,
		},
		{
			name: "NotFound",
			args: args{status: quote.StatusAccepted},
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().UpdateStatus(gomock.Any(), "AN-2025-0001", quote.StatusAccepted).Return(quote.ErrNotFound)
			},
			wantErr: quote.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := quote.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := newTestService(repo).UpdateStatus(context.Background(), "AN-2025-0001", tt.args.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_ListRecentDefaultsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := quote.NewMockRepository(ctrl)
	repo.EXPECT().ListRecent(gomock.Any(), 50).Return([]*quote.Quote{{Number: "AN-2025-0001"}}, nil)

	got, err := newTestService(repo).ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_NextNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := quote.NewMockRepository(ctrl)
	repo.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("", errors.New("connection refused"))

	_, err := newTestService(repo).NextNumber(context.Background())
	assert.Error(t, err)
}

func TestValidUntil(t *testing.T) {
	created := time.Date(2025, 12, 28, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), quote.ValidUntil(created, 7))
}
