package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/catalog"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

const maxUploadSize = 20 << 20

type Handler struct {
	holder *catalog.Holder
}

func NewHandler(holder *catalog.Holder) *Handler {
	return &Handler{holder: holder}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/products", h.products)
	r.Get("/accessories", h.accessories)
	r.Get("/summary", h.summary)
}

// AdminRoutes replaces a price list from an uploaded CSV or XLSX file.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/equipment", h.uploadEquipment)
	r.Post("/accessories", h.uploadAccessories)
}

type productResponse struct {
	Article        string          `json:"article"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Group          string          `json:"group,omitempty"`
	System         catalog.System  `json:"system,omitempty"`
	Kind           quote.Kind      `json:"kind"`
	PriceRecovered bool            `json:"price_recovered,omitempty"`
}

type systemSummary struct {
	System     catalog.System `json:"system,omitempty"`
	Label      string         `json:"label"`
	Products   int            `json:"products"`
	Unreadable int            `json:"unreadable_prices"`
}

type summaryResponse struct {
	Systems     []systemSummary `json:"systems"`
	Accessories systemSummary   `json:"accessories"`
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	system := catalog.System(r.URL.Query().Get("system"))
	if system != "" && !slices.Contains(catalog.Systems, system) {
		http.Error(w, "unknown system: "+string(system), http.StatusBadRequest)
		return
	}

	products := catalog.Filter(h.holder.Current().Equipment, system, r.URL.Query().Get("q"))

	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) accessories(w http.ResponseWriter, r *http.Request) {
	products := catalog.Filter(h.holder.Current().Accessories, "", r.URL.Query().Get("q"))

	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSummary(h.holder.Current()))
}

func (h *Handler) uploadEquipment(w http.ResponseWriter, r *http.Request) {
	rows, ok := readUpload(w, r)
	if !ok {
		return
	}

	products, err := catalog.ParseEquipment(rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.holder.ReplaceEquipment(products)
	slog.Info("equipment list replaced", "products", len(products))

	writeJSON(w, http.StatusOK, toSummary(h.holder.Current()))
}

func (h *Handler) uploadAccessories(w http.ResponseWriter, r *http.Request) {
	rows, ok := readUpload(w, r)
	if !ok {
		return
	}

	products := catalog.ParseAccessories(rows)
	if len(products) == 0 {
		http.Error(w, "no accessories found in file", http.StatusBadRequest)
		return
	}

	h.holder.ReplaceAccessories(products)
	slog.Info("accessory list replaced", "products", len(products))

	writeJSON(w, http.StatusOK, toSummary(h.holder.Current()))
}

func readUpload(w http.ResponseWriter, r *http.Request) ([][]string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	rows, err := catalog.ReadRows(header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return rows, true
}

func toProductResponses(products []catalog.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{
			Article:        p.Article,
			Description:    p.Description,
			Price:          p.Price,
			Group:          p.Group,
			System:         p.System,
			Kind:           p.Kind,
			PriceRecovered: p.PriceRecovered,
		})
	}

	return out
}

func toSummary(c *catalog.Catalog) summaryResponse {
	resp := summaryResponse{
		Systems:     make([]systemSummary, 0, len(catalog.Systems)),
		Accessories: summarize("", "Accessories", c.Accessories),
	}

	for _, s := range catalog.Systems {
		resp.Systems = append(resp.Systems, summarize(s, s.Label(), catalog.Filter(c.Equipment, s, "")))
	}

	return resp
}

func summarize(system catalog.System, label string, products []catalog.Product) systemSummary {
	sum := systemSummary{System: system, Label: label, Products: len(products)}

	for _, p := range products {
		if p.PriceRecovered {
			sum.Unreadable++
		}
	}

	return sum
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
