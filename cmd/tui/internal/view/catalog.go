package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/catalog"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

type catalogState int

const (
	catalogStateFilePick catalogState = iota
	catalogStateSystem
	catalogStateBrowse
)

// accessoriesEntry is the menu slot after the equipment systems.
const accessoriesEntry = "Accessories"

type CatalogModel struct {
	CommonModel
	session  *quote.Session
	catalog  *catalog.Catalog
	discount decimal.Decimal

	state      catalogState
	filePicker filepicker.Model
	cursor     int
	system     catalog.System
	accessory  bool

	search   textinput.Model
	table    table.Model
	products []catalog.Product

	status string
	err    error
}

// NewCatalogModel browses c and adds picked products to the session cart.
// A nil catalog starts with a file picker for the equipment list.
func NewCatalogModel(session *quote.Session, c *catalog.Catalog, discount decimal.Decimal) CatalogModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	ti := textinput.New()
	ti.Placeholder = "search article, description or group"
	ti.Width = 40

	m := CatalogModel{
		session:    session,
		catalog:    c,
		discount:   discount,
		filePicker: fp,
		search:     ti,
		table: newTable([]table.Column{
			{Title: "Article", Width: 18},
			{Title: "Description", Width: 50},
			{Title: "Price", Width: 14},
			{Title: "Kind", Width: 14},
		}, 15),
	}

	if c == nil {
		m.state = catalogStateFilePick
	} else {
		m.state = catalogStateSystem
	}

	return m
}

func (m CatalogModel) Title() string { return "Catalog" }

// Catalog returns the loaded catalog, including one picked from a file.
func (m CatalogModel) Catalog() *catalog.Catalog { return m.catalog }

func (m CatalogModel) ShortHelp() string {
	if m.state == catalogStateBrowse {
		return "Esc: back | Enter: add to cart | /: search"
	}

	return "Esc: back | Enter: select"
}

func (m CatalogModel) Init() tea.Cmd {
	if m.state == catalogStateFilePick {
		return m.filePicker.Init()
	}

	return nil
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.catalog = msg.catalog
		m.err = nil
		m.state = catalogStateSystem
		m.status = fmt.Sprintf("Loaded %d products.", len(msg.catalog.Equipment))

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}
	}

	switch m.state {
	case catalogStateFilePick:
		return m.updateFilePick(msg)
	case catalogStateSystem:
		return m.updateSystem(msg)
	case catalogStateBrowse:
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m CatalogModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == catalogStateBrowse {
		if m.search.Focused() {
			m.search.Blur()
			m.table.Focus()

			return m, nil
		}

		m.state = catalogStateSystem
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m CatalogModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.status = fmt.Sprintf("Loading %s...", path)
		return m, loadCatalogCmd(path)
	}

	return m, cmd
}

func (m CatalogModel) menu() []string {
	entries := make([]string, 0, len(catalog.Systems)+1)
	for _, s := range catalog.Systems {
		entries = append(entries, s.Label())
	}

	return append(entries, accessoriesEntry)
}

func (m CatalogModel) updateSystem(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.menu())-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		m.accessory = m.cursor == len(catalog.Systems)
		if !m.accessory {
			m.system = catalog.Systems[m.cursor]
		}

		m.state = catalogStateBrowse
		m.search.SetValue("")
		m.status = ""
		m.applyFilter()
	}

	return m, nil
}

func (m CatalogModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.search.Focused() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
			m.search.Blur()
			m.table.Focus()

			return m, nil
		}

		m.search, cmd = m.search.Update(msg)
		m.applyFilter()

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "/":
			m.table.Blur()
			return m, m.search.Focus()
		case "enter":
			m.addSelected()
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *CatalogModel) addSelected() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return
	}

	p := m.products[idx]

	discount := m.discount
	if m.accessory {
		discount = decimal.Zero
	}

	item := m.session.Cart.Add(p.LineItem(discount))
	m.status = fmt.Sprintf("Added %s at position %d.", item.SKU, item.Position)

	if p.PriceRecovered {
		m.status += " Price was not readable and was set to 0."
	}
}

func (m *CatalogModel) applyFilter() {
	source := m.catalog.Equipment
	system := m.system

	if m.accessory {
		source = m.catalog.Accessories
		system = ""
	}

	m.products = catalog.Filter(source, system, m.search.Value())

	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{
			p.Article,
			p.Description,
			FormatAmount(p.Price),
			string(p.Kind),
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m CatalogModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)",
		)
	}

	switch m.state {
	case catalogStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select equipment price list (.csv or .xlsx):\n\n" + m.filePicker.View(),
		)
	case catalogStateSystem:
		return m.viewSystem()
	case catalogStateBrowse:
		return m.viewBrowse()
	}

	return ""
}

func (m CatalogModel) viewSystem() string {
	s := "Select system:\n\n"

	for i, entry := range m.menu() {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, entry)
	}

	if m.status != "" {
		s += "\n" + okStyle(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m CatalogModel) viewBrowse() string {
	title := accessoriesEntry
	if !m.accessory {
		title = m.system.Label()
	}

	header := fmt.Sprintf("%s | %d items in cart | %s",
		activeStyle(title), m.session.Cart.Len(), m.search.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type catalogLoadedMsg struct {
	catalog *catalog.Catalog
	err     error
}

func loadCatalogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		c, err := catalog.Load(path, "")
		return catalogLoadedMsg{catalog: c, err: err}
	}
}
