package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/http/catalog"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/http/middleware"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/http/quote"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/http/report"
)

type Options struct {
	AllowedOrigins []string
	AdminSecret    string
}

func New(
	quotesV1 *quote.Handler,
	reportsV1 *report.Handler,
	catalogV1 *catalog.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/quotes", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.AllowContentType("application/json"))
				quotesV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Admin(opts.AdminSecret))
				quotesV1.AdminRoutes(r)
			})
		})

		r.Route("/reports", reportsV1.Routes)

		r.Route("/catalog", func(r chi.Router) {
			catalogV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Admin(opts.AdminSecret))
				catalogV1.AdminRoutes(r)
			})
		})
	})

	return router
}
