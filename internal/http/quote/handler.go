package quote

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/export"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

// Defaults fill in what a request leaves out.
type Defaults struct {
	TaxRate     decimal.Decimal
	Place       string
	ClosingText func(preparer string) string
}

type Handler struct {
	svc      *quote.Service
	exports  *export.Service
	defaults Defaults
}

func NewHandler(svc *quote.Service, exports *export.Service, defaults Defaults) *Handler {
	return &Handler{svc: svc, exports: exports, defaults: defaults}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/preview", h.preview)
	r.Post("/numbers", h.reserveNumber)
	r.Get("/stats", h.statistics)
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{number}", h.get)
	r.Patch("/{number}/status", h.updateStatus)
	r.Post("/{number}/export", h.export)
}

// AdminRoutes registers the routes that need an admin token.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Put("/{number}/external-reference", h.setExternalReference)
	r.Delete("/{number}", h.delete)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req pricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := req.params(h.defaults.TaxRate)
	if err := params.Validate(); err != nil {
		writeError(w, err)
		return
	}

	cart := req.cart()
	totals := cart.Totals(params)

	writeJSON(w, http.StatusOK, previewResponse{
		Items:     toLineItemResponses(cart.Items()),
		Totals:    toTotalsResponse(totals),
		Recovered: req.recovered(),
	})
}

func (h *Handler) reserveNumber(w http.ResponseWriter, r *http.Request) {
	n := h.svc.NewSession().QuoteNumber(r.Context())

	writeJSON(w, http.StatusCreated, numberResponse{Number: n.Value, Source: n.Source})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req saveQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := h.svc.NewSession()
	sess.Cart = req.cart()

	if req.Number != "" {
		source := req.NumberSource
		if source == "" {
			source = quote.SourceManual
		}

		sess.Adopt(quote.Number{Value: req.Number, Source: source})
	}

	closing := req.ClosingText
	if closing == "" && h.defaults.ClosingText != nil {
		closing = h.defaults.ClosingText(req.Preparer)
	}

	res, err := h.svc.Save(r.Context(), sess, quote.Draft{
		CustomerName:     req.CustomerName,
		ProjectReference: req.ProjectReference,
		CustomerNumber:   req.CustomerNumber,
		Preparer:         req.Preparer,
		Company:          req.Company,
		ClosingText:      closing,
		Notes:            req.Notes,
		PricesHidden:     req.PricesHidden,
		Params:           req.params(h.defaults.TaxRate),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("quote saved", "number", res.Quote.Number, "source", res.Number.Source, "renumbered", res.Renumbered)

	writeJSON(w, http.StatusCreated, saveQuoteResponse{
		Quote:        toResponse(res.Quote),
		Totals:       toTotalsResponse(res.Totals),
		NumberSource: res.Number.Source,
		Renumbered:   res.Renumbered,
		Recovered:    req.recovered(),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		quotes []*quote.Quote
		err    error
	)

	if term := r.URL.Query().Get("q"); term != "" {
		quotes, err = h.svc.Search(r.Context(), term)
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		quotes, err = h.svc.ListRecent(r.Context(), limit)
	}

	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(quotes))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(q))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "number"), req.Status); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setExternalReference(w http.ResponseWriter, r *http.Request) {
	var req externalReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetExternalReference(r.Context(), chi.URLParam(r, "number"), req.ExternalID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	if err := h.svc.Delete(r.Context(), number); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("quote deleted", "number", number)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatisticsResponse(stats))
}

// export pushes a saved quote and its document to the task board. Export
// problems come back as a warning with status 200; the quote stays saved.
// Already exported quotes are skipped unless the request sets force.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := h.svc.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, err)
		return
	}

	place := req.Place
	if place == "" {
		place = h.defaults.Place
	}

	publish := h.exports.Publish
	if req.Force {
		publish = h.exports.Republish
	}

	writeJSON(w, http.StatusOK, toExportResponse(publish(r.Context(), q, place, req.Document)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quote.ErrNotFound):
		http.Error(w, "quote not found", http.StatusNotFound)
	case errors.Is(err, quote.ErrConflict):
		http.Error(w, "quote number already taken", http.StatusConflict)
	case errors.Is(err, quote.ErrInvalid), errors.Is(err, quote.ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, quote.ErrUnavailable):
		slog.Warn("store unavailable", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
