package quote_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/catalog"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/export"
	apphttp "github.com/michaelschaepers/coolsulting-testing-area/internal/http"
	catalogHandler "github.com/michaelschaepers/coolsulting-testing-area/internal/http/catalog"
	quoteHandler "github.com/michaelschaepers/coolsulting-testing-area/internal/http/quote"
	reportHandler "github.com/michaelschaepers/coolsulting-testing-area/internal/http/report"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/report"
)

const adminSecret = "admin-secret"

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	repo     *quote.MockRepository
	exporter *export.MockExporter
	router   http.Handler
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     quote.NewMockRepository(ctrl),
		exporter: export.NewMockExporter(ctrl),
	}

	svc := quote.NewService(f.repo, quote.Settings{
		Prefix:       "AN",
		ValidityDays: 7,
		Clock:        func() time.Time { return fixedNow },
	})

	handler := quoteHandler.NewHandler(svc, export.NewService(f.exporter, f.repo, "°coolsulting"), quoteHandler.Defaults{
		TaxRate:     decimal.NewFromInt(20),
		Place:       "4020 Linz",
		ClosingText: func(preparer string) string { return "MfG " + preparer },
	})

	reports := reportHandler.NewHandler(report.NewBuilder(svc, 50))
	catalogs := catalogHandler.NewHandler(catalog.NewHolder(nil))

	f.router = apphttp.New(handler, reports, catalogs, apphttp.Options{
		AllowedOrigins: []string{"*"},
		AdminSecret:    adminSecret,
	})

	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func adminHeader(t *testing.T) http.Header {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).SignedString([]byte(adminSecret))
	require.NoError(t, err)

	return http.Header{"Authorization": {"Bearer " + token}}
}

func item(position int, qty, price, discount string) map[string]any {
	return map[string]any{
		"position":         position,
		"kind":             "set",
		"sku":              fmt.Sprintf("SKU%d.0", position),
		"description":      "Wind-Free",
		"quantity":         qty,
		"unit_price":       price,
		"discount_percent": discount,
	}
}

type totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Net            decimal.Decimal `json:"net"`
	Tax            decimal.Decimal `json:"tax"`
	Gross          decimal.Decimal `json:"gross"`
	GrossFormatted string          `json:"gross_formatted"`
	Warnings       []string        `json:"warnings"`
}

func TestHandler_Preview(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/quotes/preview", map[string]any{
		"items": []any{item(20, "2", "50", "0"), item(10, "1", "1000", "30")},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Items []struct {
			Position int    `json:"position"`
			SKU      string `json:"sku"`
		} `json:"items"`
		Totals totals `json:"totals"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Len(t, resp.Items, 2)
	assert.Equal(t, 10, resp.Items[0].Position)
	assert.Equal(t, "SKU10", resp.Items[0].SKU)
	assert.Equal(t, 20, resp.Items[1].Position)

	assert.True(t, decimal.NewFromInt(800).Equal(resp.Totals.Net), resp.Totals.Net.String())
	assert.True(t, decimal.NewFromInt(960).Equal(resp.Totals.Gross), resp.Totals.Gross.String())
	assert.Equal(t, "960,00 €", resp.Totals.GrossFormatted)
	assert.Empty(t, resp.Totals.Warnings)
}

func TestHandler_PreviewWarnings(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/quotes/preview", map[string]any{
		"items":                   []any{item(10, "1", "100", "0")},
		"tax_rate":                "10",
		"extra_discount_absolute": "150",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Totals totals `json:"totals"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.True(t, decimal.NewFromInt(-55).Equal(resp.Totals.Gross), resp.Totals.Gross.String())
	assert.Equal(t, []string{string(quote.WarnNegativeNet)}, resp.Totals.Warnings)
}

func TestHandler_PreviewCoercesNumbers(t *testing.T) {
	type args struct {
		body map[string]any
	}

	type testCase struct {
		name          string
		args          args
		wantStatus    int
		wantGross     string
		wantRecovered []string
	}

	tests := []testCase{
		{
			name: "UnreadableQuantity",
			args: args{body: map[string]any{
				"items": []any{map[string]any{"quantity": "abc", "unit_price": "100"}},
			}},
			wantStatus:    http.StatusOK,
			wantGross:     "0",
			wantRecovered: []string{"items[0].quantity"},
		},
		{
			name: "GermanUnitPrice",
			args: args{body: map[string]any{
				"items": []any{item(10, "1", "1.234,56", "0")},
			}},
			wantStatus: http.StatusOK,
			wantGross:  "1481.472",
		},
		{
			name: "EnglishUnitPrice",
			args: args{body: map[string]any{
				"items": []any{item(10, "1", "1,234.56", "0")},
			}},
			wantStatus: http.StatusOK,
			wantGross:  "1481.472",
		},
		{
			name: "JSONNumbers",
			args: args{body: map[string]any{
				"items":    []any{map[string]any{"quantity": 2, "unit_price": 50.5, "discount_percent": 0}},
				"tax_rate": 10,
			}},
			wantStatus: http.StatusOK,
			wantGross:  "111.1",
		},
		{
			name: "UnreadableFieldsAcrossItems",
			args: args{body: map[string]any{
				"items": []any{
					item(10, "1", "100", "0"),
					item(20, "1", "auf Anfrage", "viel"),
				},
				"tax_rate": "n/a",
			}},
			wantStatus:    http.StatusOK,
			wantGross:     "100",
			wantRecovered: []string{"items[1].unit_price", "items[1].discount_percent", "tax_rate"},
		},
		{
			name: "NegativeTaxRateFlat",
			args: args{body: map[string]any{
				"items":      []any{item(10, "1", "100", "0")},
				"tax_rate":   -100,
				"flat_price": true,
				"flat_gross": "1200",
			}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(t, http.MethodPost, "/api/v1/quotes/preview", tt.args.body, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Totals    totals   `json:"totals"`
				Recovered []string `json:"recovered"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			assert.True(t, decimal.RequireFromString(tt.wantGross).Equal(resp.Totals.Gross), resp.Totals.Gross.String())
			assert.Equal(t, tt.wantRecovered, resp.Recovered)
		})
	}
}

func TestHandler_CreateReportsRecoveredFields(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil)
	f.repo.EXPECT().
		SaveQuote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *quote.Quote) (int64, error) {
			require.Len(t, q.Items, 2)
			assert.True(t, q.Items[0].Quantity.IsZero())
			assert.True(t, decimal.RequireFromString("1234.56").Equal(q.Items[1].UnitPrice))
			return 1, nil
		})

	rec := f.do(t, http.MethodPost, "/api/v1/quotes", map[string]any{
		"customer_name": "Muster GmbH",
		"items": []any{
			item(10, "abc", "100", "0"),
			item(20, "1", "1.234,56", "0"),
		},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Totals    totals   `json:"totals"`
		Recovered []string `json:"recovered"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, []string{"items[0].quantity"}, resp.Recovered)
	assert.True(t, decimal.RequireFromString("1481.472").Equal(resp.Totals.Gross), resp.Totals.Gross.String())
}

func TestHandler_ReserveNumber(t *testing.T) {
	type testCase struct {
		name       string
		setupMock  func(m *quote.MockRepository)
		wantNumber string
		wantSource quote.NumberSource
	}

	tests := []testCase{
		{
			name: "Sequence",
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0007", nil)
			},
			wantNumber: "AN-2025-0007",
			wantSource: quote.SourceSequence,
		},
		{
			name: "Fallback",
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("", quote.ErrUnavailable)
			},
			wantNumber: "AN-20250314-0930",
			wantSource: quote.SourceFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f.repo)

			rec := f.do(t, http.MethodPost, "/api/v1/quotes/numbers", nil, nil)
			require.Equal(t, http.StatusCreated, rec.Code)

			var resp struct {
				Number string             `json:"number"`
				Source quote.NumberSource `json:"source"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			assert.Equal(t, tt.wantNumber, resp.Number)
			assert.Equal(t, tt.wantSource, resp.Source)
		})
	}
}

func TestHandler_Create(t *testing.T) {
	type args struct {
		body map[string]any
	}

	type testCase struct {
		name       string
		args       args
		setupMock  func(m *quote.MockRepository)
		wantStatus int
		wantNumber string
	}

	body := func(extra map[string]any) map[string]any {
		b := map[string]any{
			"customer_name": "Muster GmbH",
			"preparer":      "Michael",
			"items":         []any{item(10, "1", "1000", "30")},
		}
		for k, v := range extra {
			b[k] = v
		}

		return b
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{body: body(nil)},
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil)
				m.EXPECT().
					SaveQuote(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, q *quote.Quote) (int64, error) {
						assert.Equal(t, "MfG Michael", q.ClosingText)
						assert.True(t, decimal.NewFromInt(840).Equal(q.GrossTotal))
						assert.Equal(t, 10, q.Items[0].Position)
						return 1, nil
					})
			},
			wantStatus: http.StatusCreated,
			wantNumber: "AN-2025-0001",
		},
		{
			name: "ReservedNumber",
			args: args{body: body(map[string]any{"number": "AN-2025-0042", "number_source": "sequence"})},
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().
					SaveQuote(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, q *quote.Quote) (int64, error) {
						assert.Equal(t, "AN-2025-0042", q.Number)
						return 2, nil
					})
			},
			wantStatus: http.StatusCreated,
			wantNumber: "AN-2025-0042",
		},
		{
			name: "ConflictAfterRetry",
			args: args{body: body(nil)},
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil).Times(2)
				m.EXPECT().SaveQuote(gomock.Any(), gomock.Any()).Return(int64(0), quote.ErrConflict).Times(2)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "StoreUnavailable",
			args: args{body: body(nil)},
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil)
				m.EXPECT().SaveQuote(gomock.Any(), gomock.Any()).Return(int64(0), quote.ErrUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "InvalidItem",
			args: args{body: body(map[string]any{"items": []any{item(10, "-1", "100", "0")}})},
			setupMock: func(m *quote.MockRepository) {
				m.EXPECT().NextQuoteNumber(gomock.Any(), "AN", 2025).Return("AN-2025-0001", nil)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "NegativeTaxRate",
			args:       args{body: body(map[string]any{"tax_rate": "-100", "flat_price": true, "flat_gross": "1200"})},
			setupMock:  func(*quote.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f.repo)

			rec := f.do(t, http.MethodPost, "/api/v1/quotes", tt.args.body, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantNumber == "" {
				return
			}

			var resp struct {
				Quote struct {
					Number string `json:"number"`
				} `json:"quote"`
				Totals totals `json:"totals"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			assert.Equal(t, tt.wantNumber, resp.Quote.Number)
			assert.True(t, decimal.NewFromInt(840).Equal(resp.Totals.Gross))
		})
	}
}

func TestHandler_Get(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
	}

	tests := []testCase{
		{name: "Found", wantStatus: http.StatusOK},
		{name: "NotFound", err: fmt.Errorf("get quote: %w", quote.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "Unavailable", err: quote.ErrUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "Unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			var q *quote.Quote
			if tt.err == nil {
				q = &quote.Quote{ID: 1, Number: "AN-2025-0001", Status: quote.StatusCreated}
			}

			f.repo.EXPECT().GetQuote(gomock.Any(), "AN-2025-0001").Return(q, tt.err)

			rec := f.do(t, http.MethodGet, "/api/v1/quotes/AN-2025-0001", nil, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_List(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().SearchQuotes(gomock.Any(), "muster").Return([]*quote.Quote{{Number: "AN-2025-0002"}}, nil)
	f.repo.EXPECT().ListRecent(gomock.Any(), 50).Return([]*quote.Quote{{Number: "AN-2025-0002"}, {Number: "AN-2025-0001"}}, nil)
	f.repo.EXPECT().ListRecent(gomock.Any(), 5).Return(nil, nil)

	var found []map[string]any

	rec := f.do(t, http.MethodGet, "/api/v1/quotes?q=muster", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	assert.Len(t, found, 1)

	rec = f.do(t, http.MethodGet, "/api/v1/quotes", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	assert.Len(t, found, 2)

	rec = f.do(t, http.MethodGet, "/api/v1/quotes?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandler_UpdateStatus(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().UpdateStatus(gomock.Any(), "AN-2025-0001", quote.StatusSent).Return(nil)
	f.repo.EXPECT().UpdateStatus(gomock.Any(), "AN-2025-0009", quote.StatusSent).Return(quote.ErrNotFound)

	rec := f.do(t, http.MethodPatch, "/api/v1/quotes/AN-2025-0001/status", map[string]any{"status": "Sent"}, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/v1/quotes/AN-2025-0009/status", map[string]any{"status": "Sent"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/v1/quotes/AN-2025-0001/status", map[string]any{"status": "Lost"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_AdminRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/api/v1/quotes/AN-2025-0001", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	f.repo.EXPECT().DeleteQuote(gomock.Any(), "AN-2025-0001").Return(nil)

	rec = f.do(t, http.MethodDelete, "/api/v1/quotes/AN-2025-0001", nil, adminHeader(t))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	f.repo.EXPECT().UpdateExternalReference(gomock.Any(), "AN-2025-0001", "987").Return(nil)

	rec = f.do(t, http.MethodPut, "/api/v1/quotes/AN-2025-0001/external-reference",
		map[string]any{"external_id": "987"}, adminHeader(t))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_Export(t *testing.T) {
	type testCase struct {
		name        string
		force       bool
		setupMock   func(f *fixture)
		wantSynced  bool
		wantSkipped bool
		wantWarning bool
		wantID      string
	}

	saved := func() *quote.Quote {
		return &quote.Quote{ID: 3, Number: "AN-2025-0003", CustomerName: "Muster", GrossTotal: decimal.NewFromInt(840), CreatedAt: fixedNow}
	}

	exported := func() *quote.Quote {
		q := saved()
		q.ExternalReferenceID = "555"
		return q
	}

	tests := []testCase{
		{
			name: "Synced",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetQuote(gomock.Any(), "AN-2025-0003").Return(saved(), nil)
				f.exporter.EXPECT().
					Export(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p export.Payload) (export.Result, error) {
						assert.Equal(t, "4020", p.PostalCode)
						assert.Equal(t, "°coolsulting", p.Partner)
						assert.Equal(t, []byte("%PDF"), p.Document)
						return export.Result{ExternalID: "555"}, nil
					})
				f.repo.EXPECT().UpdateExternalReference(gomock.Any(), "AN-2025-0003", "555").Return(nil)
			},
			wantSynced: true,
			wantID:     "555",
		},
		{
			name: "AlreadyExported",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetQuote(gomock.Any(), "AN-2025-0003").Return(exported(), nil)
			},
			wantSkipped: true,
			wantID:      "555",
		},
		{
			name:  "AlreadyExportedForced",
			force: true,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetQuote(gomock.Any(), "AN-2025-0003").Return(exported(), nil)
				f.exporter.EXPECT().Export(gomock.Any(), gomock.Any()).Return(export.Result{ExternalID: "556"}, nil)
				f.repo.EXPECT().UpdateExternalReference(gomock.Any(), "AN-2025-0003", "556").Return(nil)
			},
			wantSynced: true,
			wantID:     "556",
		},
		{
			name: "NotConfigured",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetQuote(gomock.Any(), "AN-2025-0003").Return(saved(), nil)
				f.exporter.EXPECT().Export(gomock.Any(), gomock.Any()).Return(export.Result{}, export.ErrNotConfigured)
			},
			wantSkipped: true,
		},
		{
			name: "Failed",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetQuote(gomock.Any(), "AN-2025-0003").Return(saved(), nil)
				f.exporter.EXPECT().Export(gomock.Any(), gomock.Any()).Return(export.Result{}, errors.New("timeout"))
			},
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			rec := f.do(t, http.MethodPost, "/api/v1/quotes/AN-2025-0003/export",
				map[string]any{"document": []byte("%PDF"), "force": tt.force}, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp struct {
				Synced     bool   `json:"synced"`
				Skipped    bool   `json:"skipped"`
				ExternalID string `json:"external_id"`
				Warning    string `json:"warning"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			assert.Equal(t, tt.wantSynced, resp.Synced)
			assert.Equal(t, tt.wantSkipped, resp.Skipped)
			assert.Equal(t, tt.wantWarning, resp.Warning != "")
			assert.Equal(t, tt.wantID, resp.ExternalID)
		})
	}
}

func TestHandler_Statistics(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Statistics(gomock.Any()).Return(&quote.Statistics{
		Summary: quote.Summary{Count: 2, Sum: decimal.NewFromInt(900)},
		Monthly: []quote.MonthlyStat{{Month: "2025-03", Count: 2, Sum: decimal.NewFromInt(900)}},
	}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/quotes/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Summary struct {
			Count int64 `json:"count"`
		} `json:"summary"`
		Monthly []struct {
			Month string `json:"month"`
		} `json:"monthly"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, int64(2), resp.Summary.Count)
	require.Len(t, resp.Monthly, 1)
	assert.Equal(t, "2025-03", resp.Monthly[0].Month)
}

func TestReportDownload(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().ListRecent(gomock.Any(), 50).Return(nil, nil)
	f.repo.EXPECT().Statistics(gomock.Any()).Return(&quote.Statistics{}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/reports/quotes.xlsx", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "angebote_")
	assert.NotZero(t, rec.Body.Len())
}
