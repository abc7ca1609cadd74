package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

const historyLimit = 50

type HistoryModel struct {
	CommonModel
	svc *quote.Service

	table  table.Model
	search textinput.Model
	quotes []*quote.Quote
	detail *quote.Quote

	loading bool
	err     error
	status  string
}

func NewHistoryModel(svc *quote.Service) HistoryModel {
	ti := textinput.New()
	ti.Placeholder = "customer, number, project or customer no."
	ti.Width = 40

	return HistoryModel{
		svc:    svc,
		search: ti,
		table: newTable([]table.Column{
			{Title: "Number", Width: 18},
			{Title: "Date", Width: 12},
			{Title: "Customer", Width: 30},
			{Title: "Project", Width: 20},
			{Title: "Gross", Width: 14},
			{Title: "Status", Width: 10},
		}, 15),
		loading: true,
	}
}

func (m HistoryModel) Title() string { return "Quotes" }

func (m HistoryModel) ShortHelp() string {
	return "Esc: back | /: search | Enter: details | s: next status | r: refresh"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd("")
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.quotes = msg.quotes
		m.refreshTable()

		return m, nil

	case historyDetailMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.detail = msg.quote

		return m, nil

	case historyStatusMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error updating status: %v", msg.err)
		} else {
			m.status = ""
		}

		return m, m.loadCmd(m.search.Value())

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	var cmd tea.Cmd

	if m.search.Focused() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.Type {
			case tea.KeyEnter:
				m.search.Blur()
				m.table.Focus()
				m.loading = true

				return m, m.loadCmd(m.search.Value())
			case tea.KeyEsc:
				m.search.Blur()
				m.table.Focus()

				return m, nil
			}
		}

		m.search, cmd = m.search.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			if m.detail != nil {
				m.detail = nil
				return m, nil
			}

			return m, Back
		case "/":
			m.table.Blur()
			return m, m.search.Focus()
		case "r":
			m.loading = true
			return m, m.loadCmd(m.search.Value())
		case "enter":
			if q, ok := m.selected(); ok {
				return m, m.detailCmd(q.Number)
			}

			return m, nil
		case "s":
			if q, ok := m.selected(); ok {
				return m, m.statusCmd(q.Number, nextStatus(q.Status))
			}

			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func nextStatus(s quote.Status) quote.Status {
	i := slices.Index(quote.Statuses, s)
	return quote.Statuses[(i+1)%len(quote.Statuses)]
}

func (m HistoryModel) selected() (*quote.Quote, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.quotes) {
		return nil, false
	}

	return m.quotes[idx], true
}

func (m *HistoryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.quotes))
	for _, q := range m.quotes {
		rows = append(rows, table.Row{
			q.Number,
			FormatDate(q.CreatedAt),
			q.CustomerName,
			q.ProjectReference,
			FormatAmount(q.GrossTotal),
			string(q.Status),
		})
	}

	m.table.SetRows(rows)
}

func (m HistoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading quotes...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("%d quotes | Search: %s", len(m.quotes), m.search.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.detail != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(60).
			Render(renderDetail(m.detail))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func renderDetail(q *quote.Quote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", activeStyle(q.Number))
	fmt.Fprintf(&b, "%s, valid until %s\n", FormatDate(q.CreatedAt), FormatDate(q.ValidUntil))
	fmt.Fprintf(&b, "Customer: %s\n", q.CustomerName)

	if q.ProjectReference != "" {
		fmt.Fprintf(&b, "Project: %s\n", q.ProjectReference)
	}

	if q.ExternalReferenceID != "" {
		fmt.Fprintf(&b, "Board item: %s\n", q.ExternalReferenceID)
	}

	b.WriteString("\n")

	for _, it := range q.Items {
		fmt.Fprintf(&b, "%3d  %-14s %s x %s\n", it.Position, it.SKU, it.Quantity, FormatAmount(it.Total()))
	}

	fmt.Fprintf(&b, "\nNet %s\nGross %s\n", FormatAmount(q.NetTotal), FormatAmount(q.GrossTotal))

	return b.String()
}

// Messages

type historyLoadedMsg struct {
	quotes []*quote.Quote
	err    error
}

type historyDetailMsg struct {
	quote *quote.Quote
	err   error
}

type historyStatusMsg struct {
	err error
}

func (m HistoryModel) loadCmd(term string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if strings.TrimSpace(term) != "" {
			quotes, err := m.svc.Search(ctx, term)
			return historyLoadedMsg{quotes: quotes, err: err}
		}

		quotes, err := m.svc.ListRecent(ctx, historyLimit)

		return historyLoadedMsg{quotes: quotes, err: err}
	}
}

func (m HistoryModel) detailCmd(number string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		q, err := m.svc.Get(ctx, number)

		return historyDetailMsg{quote: q, err: err}
	}
}

func (m HistoryModel) statusCmd(number string, status quote.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return historyStatusMsg{err: m.svc.UpdateStatus(ctx, number, status)}
	}
}
