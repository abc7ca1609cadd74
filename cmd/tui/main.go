package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/michaelschaepers/coolsulting-testing-area/cmd/tui/internal/view"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/catalog"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/database"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
	quoteStore "github.com/michaelschaepers/coolsulting-testing-area/internal/quote/store"
)

type model struct {
	cfg          *config.Config
	quoteService *quote.Service
	session      *quote.Session
	catalog      *catalog.Catalog

	currentView View

	catalogView view.CatalogModel
	cartView    view.CartModel
	historyView view.HistoryModel
	statsView   view.StatsModel
}

type View int

const (
	ViewMenu    View = 0
	ViewCatalog View = 1
	ViewCart    View = 2
	ViewHistory View = 3
	ViewStats   View = 4
)

func initialModel() model {
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

	var cat *catalog.Catalog
	if cfg.Catalog.EquipmentPath != "" || cfg.Catalog.AccessoryPath != "" {
		cat, err = catalog.Load(cfg.Catalog.EquipmentPath, cfg.Catalog.AccessoryPath)
		if err != nil {
			slog.Warn("failed to load catalog, pick a file instead", "error", err)
			cat = nil
		}
	}

	quoteSvc := quote.NewService(quoteStore.New(db, backend, cfg.DB.Timeout), quote.Settings{
		Prefix:       cfg.Quote.Prefix,
		ValidityDays: cfg.Quote.ValidityDays,
	})

	return model{
		cfg:          cfg,
		quoteService: quoteSvc,
		session:      quoteSvc.NewSession(),
		catalog:      cat,
		currentView:  ViewMenu,
	}
}

func (m model) cartSettings() view.CartSettings {
	return view.CartSettings{
		TaxRate:     m.cfg.Quote.TaxRate,
		Company:     m.cfg.Partner.Company,
		ClosingText: m.cfg.ClosingText,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCatalog
				m.catalogView = view.NewCatalogModel(m.session, m.catalog, m.cfg.Quote.DefaultDiscount)

				return m, m.catalogView.Init()
			case "2":
				m.currentView = ViewCart
				m.cartView = view.NewCartModel(m.quoteService, m.session, m.cartSettings())

				return m, m.cartView.Init()
			case "3":
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(m.quoteService)

				return m, m.historyView.Init()
			case "4":
				m.currentView = ViewStats
				m.statsView = view.NewStatsModel(m.quoteService)

				return m, m.statsView.Init()
			}
		}
	case view.BackMsg:
		if m.currentView == ViewCatalog {
			m.catalog = m.catalogView.Catalog()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewCatalog:
		var newModel tea.Model
		newModel, cmd = m.catalogView.Update(msg)
		m.catalogView = newModel.(view.CatalogModel)
	case ViewCart:
		var newModel tea.Model
		newModel, cmd = m.cartView.Update(msg)
		m.cartView = newModel.(view.CartModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	case ViewStats:
		var newModel tea.Model
		newModel, cmd = m.statsView.Update(msg)
		m.statsView = newModel.(view.StatsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + "\n\n" +
				"1. Catalog\n" +
				"2. Cart\n" +
				"3. Quotes\n" +
				"4. Statistics\n\n" +
				"q. Quit",
		)
	case ViewCatalog:
		return m.catalogView.View()
	case ViewCart:
		return m.cartView.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewStats:
		return m.statsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
