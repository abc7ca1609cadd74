package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/report"
)

type Handler struct {
	builder *report.Builder
}

func NewHandler(builder *report.Builder) *Handler {
	return &Handler{builder: builder}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/quotes.xlsx", h.quotes)
}

func (h *Handler) quotes(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.builder.Write(r.Context(), &buf); err != nil {
		slog.Error("failed to build report", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(time.Now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}
