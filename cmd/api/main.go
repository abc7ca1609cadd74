package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/catalog"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/database"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/export"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/export/monday"
	appHttp "github.com/michaelschaepers/coolsulting-testing-area/internal/http"
	catalogHandler "github.com/michaelschaepers/coolsulting-testing-area/internal/http/catalog"
	quoteHandler "github.com/michaelschaepers/coolsulting-testing-area/internal/http/quote"
	reportHandler "github.com/michaelschaepers/coolsulting-testing-area/internal/http/report"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
	quoteStore "github.com/michaelschaepers/coolsulting-testing-area/internal/quote/store"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/report"
)

const reportLimit = 500

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, backend, err := database.Open(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := quoteStore.New(db, backend, cfg.DB.Timeout)

	cat, err := catalog.Load(cfg.Catalog.EquipmentPath, cfg.Catalog.AccessoryPath)
	if err != nil {
		// The lists can still be uploaded through the admin routes.
		slog.Warn("failed to load catalog", "error", err)
	}

	var (
		quoteService  = quote.NewService(store, quote.Settings{Prefix: cfg.Quote.Prefix, ValidityDays: cfg.Quote.ValidityDays})
		exportService = export.NewService(newExporter(cfg), store, cfg.Partner.Company)
		reportBuilder = report.NewBuilder(quoteService, reportLimit)
	)

	var (
		quoteH = quoteHandler.NewHandler(quoteService, exportService, quoteHandler.Defaults{
			TaxRate:     cfg.Quote.TaxRate,
			Place:       cfg.Partner.Place,
			ClosingText: cfg.ClosingText,
		})
		reportH  = reportHandler.NewHandler(reportBuilder)
		catalogH = catalogHandler.NewHandler(catalog.NewHolder(cat))
	)

	router := appHttp.New(quoteH, reportH, catalogH, appHttp.Options{
		AllowedOrigins: cfg.App.AllowedOrigins,
		AdminSecret:    cfg.Admin.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "backend", backend, "monday", cfg.MondayEnabled())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newExporter(cfg *config.Config) export.Exporter {
	if !cfg.MondayEnabled() {
		return export.Disabled{}
	}

	return monday.NewClient(monday.OptionsFromConfig(cfg))
}
