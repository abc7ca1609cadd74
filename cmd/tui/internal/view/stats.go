package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

type StatsModel struct {
	CommonModel
	svc *quote.Service

	stats   *quote.Statistics
	loading bool
	err     error
}

func NewStatsModel(svc *quote.Service) StatsModel {
	return StatsModel{svc: svc, loading: true}
}

func (m StatsModel) Title() string     { return "Statistics" }
func (m StatsModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m StatsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		m.stats, m.err = msg.stats, msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m StatsModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return style.Render("Loading statistics...")
	}

	if m.err != nil {
		return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.stats
	heading := lipgloss.NewStyle().Bold(true)

	var b strings.Builder

	b.WriteString(heading.Render("Overview") + "\n")
	fmt.Fprintf(&b, "Quotes: %d  Sum: %s  Average: %s  Min: %s  Max: %s\n\n",
		s.Summary.Count,
		FormatAmount(s.Summary.Sum),
		FormatAmount(s.Summary.Average),
		FormatAmount(s.Summary.Min),
		FormatAmount(s.Summary.Max),
	)

	b.WriteString(heading.Render("By month") + "\n")
	for _, mo := range s.Monthly {
		fmt.Fprintf(&b, "  %s  %4d  %s\n", mo.Month, mo.Count, FormatAmount(mo.Sum))
	}

	b.WriteString("\n" + heading.Render("By status") + "\n")
	for _, st := range s.Statuses {
		fmt.Fprintf(&b, "  %-10s %4d  %s\n", st.Status, st.Count, FormatAmount(st.Sum))
	}

	b.WriteString("\n" + heading.Render("By category") + "\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&b, "  %-13s %4d  %s\n", c.Category, c.Count, FormatAmount(c.Revenue))
	}

	b.WriteString("\n" + heading.Render("Top products") + "\n")
	for _, p := range s.TopProducts {
		fmt.Fprintf(&b, "  %-16s %3dx  qty %s  avg %s  -%s%%\n",
			p.Article, p.Count, p.Quantity, FormatAmount(p.AveragePrice), p.AverageDiscount.StringFixed(1))
	}

	return style.Render(b.String())
}

// Messages

type statsLoadedMsg struct {
	stats *quote.Statistics
	err   error
}

func (m StatsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stats, err := m.svc.Statistics(ctx)

		return statsLoadedMsg{stats: stats, err: err}
	}
}
