package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

type cartState int

const (
	cartStateBrowse cartState = iota
	cartStateEdit
	cartStateDiscount
	cartStateSave
)

// CartSettings are the defaults the cart screen prices and saves with.
type CartSettings struct {
	TaxRate     decimal.Decimal
	Company     string
	ClosingText func(preparer string) string
}

type CartModel struct {
	CommonModel
	svc      *quote.Service
	session  *quote.Session
	settings CartSettings

	state cartState
	table table.Model
	items []quote.LineItem
	form  *huh.Form

	// pricing inputs
	extraPercent  decimal.Decimal
	extraAbsolute decimal.Decimal
	flatPrice     bool
	flatGross     decimal.Decimal

	status string
	err    error

	// Form bindings live behind a pointer so huh writes survive model copies.
	bind *cartForm
}

type cartForm struct {
	qty       string
	price     string
	discount  string
	note      string
	customer  string
	project   string
	custNo    string
	preparer  string
	extraPct  string
	extraAbs  string
	flatGross string
	flat      bool
	hidden    bool
}

func NewCartModel(svc *quote.Service, session *quote.Session, settings CartSettings) CartModel {
	m := CartModel{
		svc:      svc,
		session:  session,
		settings: settings,
		bind:     &cartForm{},
		table: newTable([]table.Column{
			{Title: "Pos", Width: 5},
			{Title: "Article", Width: 16},
			{Title: "Description", Width: 40},
			{Title: "Qty", Width: 6},
			{Title: "Unit price", Width: 14},
			{Title: "Disc. %", Width: 8},
			{Title: "Total", Width: 14},
		}, 12),
	}
	m.refreshTable()

	return m
}

func (m CartModel) Title() string { return "Cart" }

func (m CartModel) ShortHelp() string {
	if m.state != cartStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | d: delete | c: clear | b: bulk discount | o: renumber | s: save"
}

func (m CartModel) Init() tea.Cmd {
	return nil
}

func (m CartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cartSavedMsg:
		m.state = cartStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Quote was NOT saved: %v", msg.err)

			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("Saved %s, gross %s.", msg.res.Quote.Number, FormatAmount(msg.res.Totals.Gross))

		if msg.res.Number.IsFallback() {
			m.status += " Numbering was unavailable, a time-based number was used."
		}

		if msg.res.Renumbered {
			m.status += " The reserved number was taken, a new one was assigned."
		}

		m.session.Cart.Clear()
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	if m.state == cartStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m CartModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "e":
			return m.enterForm(cartStateEdit)
		case "b":
			return m.enterForm(cartStateDiscount)
		case "s":
			if m.session.Cart.Len() == 0 {
				m.status = "Cart is empty."
				return m, nil
			}

			return m.enterForm(cartStateSave)
		case "d":
			if item, ok := m.selected(); ok {
				_ = m.session.Cart.Remove(item.Position)
				m.status = fmt.Sprintf("Removed position %d.", item.Position)
				m.refreshTable()
			}

			return m, nil
		case "c":
			m.session.Cart.Clear()
			m.status = "Cart cleared."
			m.refreshTable()

			return m, nil
		case "o":
			m.session.Cart.Renumber()
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CartModel) selected() (quote.LineItem, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return quote.LineItem{}, false
	}

	return m.items[idx], true
}

func numberField(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}

			if quote.ParseNumber(s).Recovered {
				return fmt.Errorf("not a number")
			}

			return nil
		})
}

func (m CartModel) enterForm(state cartState) (tea.Model, tea.Cmd) {
	switch state {
	case cartStateEdit:
		item, ok := m.selected()
		if !ok {
			return m, nil
		}

		m.bind.qty = item.Quantity.String()
		m.bind.price = item.UnitPrice.String()
		m.bind.discount = item.DiscountPercent.String()
		m.bind.note = item.Note

		m.form = huh.NewForm(
			huh.NewGroup(
				numberField("Quantity", &m.bind.qty),
				numberField("Unit price (EUR)", &m.bind.price),
				numberField("Discount %", &m.bind.discount),
				huh.NewInput().Title("Note").Value(&m.bind.note),
			),
		)

	case cartStateDiscount:
		m.bind.discount = ""
		m.form = huh.NewForm(
			huh.NewGroup(
				numberField("Discount % for all lines", &m.bind.discount),
			),
		)

	case cartStateSave:
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Customer").Value(&m.bind.customer).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("customer cannot be empty")
						}
						return nil
					}),
				huh.NewInput().Title("Project").Value(&m.bind.project),
				huh.NewInput().Title("Customer number").Value(&m.bind.custNo),
				huh.NewInput().Title("Prepared by").Value(&m.bind.preparer),
			),
			huh.NewGroup(
				numberField("Extra discount %", &m.bind.extraPct),
				numberField("Extra discount (EUR)", &m.bind.extraAbs),
				huh.NewConfirm().Title("Flat package price?").Value(&m.bind.flat),
				numberField("Flat gross price (EUR)", &m.bind.flatGross),
				huh.NewConfirm().Title("Hide line prices?").Value(&m.bind.hidden),
			),
		)
	}

	m.form = m.form.WithWidth(45).WithShowHelp(false)
	m.state = state
	m.table.Blur()

	return m, m.form.Init()
}

func (m CartModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = cartStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	cmd = nil

	switch m.state {
	case cartStateEdit:
		m.applyEdit()
	case cartStateDiscount:
		m.session.Cart.ApplyDiscount(quote.ParseNumber(m.bind.discount).Value)
		m.status = "Discount applied to all lines."
	case cartStateSave:
		m.extraPercent = quote.ParseNumber(m.bind.extraPct).Value
		m.extraAbsolute = quote.ParseNumber(m.bind.extraAbs).Value
		m.flatPrice = m.bind.flat
		m.flatGross = quote.ParseNumber(m.bind.flatGross).Value
		m.status = "Saving..."
		cmd = m.saveCmd()
	}

	m.state = cartStateBrowse
	m.form = nil
	m.table.Focus()
	m.refreshTable()

	return m, cmd
}

func (m *CartModel) applyEdit() {
	item, ok := m.selected()
	if !ok {
		return
	}

	item.Quantity = quote.ParseNumber(m.bind.qty).Value
	item.UnitPrice = quote.ParseNumber(m.bind.price).Value
	item.DiscountPercent = quote.ParseNumber(m.bind.discount).Value
	item.Note = m.bind.note

	if err := m.session.Cart.Update(item.Position, item); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	}
}

func (m CartModel) params() quote.Params {
	return quote.Params{
		TaxRate:               m.settings.TaxRate,
		ExtraDiscountPercent:  m.extraPercent,
		ExtraDiscountAbsolute: m.extraAbsolute,
		FlatPrice:             m.flatPrice,
		FlatGross:             m.flatGross,
	}
}

func (m *CartModel) refreshTable() {
	m.items = m.session.Cart.Items()

	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		rows = append(rows, table.Row{
			strconv.Itoa(it.Position),
			it.SKU,
			it.Description,
			it.Quantity.String(),
			FormatAmount(it.UnitPrice),
			it.DiscountPercent.String(),
			FormatAmount(it.Total()),
		})
	}

	m.table.SetRows(rows)
}

func (m CartModel) summary() string {
	params := m.params()
	if err := params.Validate(); err != nil {
		return errorStyle(err.Error())
	}

	totals := m.session.Cart.Totals(params)

	summary := fmt.Sprintf(
		"Subtotal %s | Net %s | Tax %s | Gross %s",
		FormatAmount(totals.Subtotal),
		FormatAmount(totals.Net),
		FormatAmount(totals.Tax),
		activeStyle(FormatAmount(totals.Gross)),
	)

	for _, w := range totals.Warnings {
		summary += "\n" + errorStyle("Warning: "+string(w))
	}

	return summary
}

func (m CartModel) View() string {
	summary := m.summary()

	header := "Cart"
	if n, ok := m.session.Pending(); ok {
		header += " | reserved " + n.Value
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
		lipgloss.NewStyle().PaddingTop(1).Render(summary),
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		status := lipgloss.NewStyle().Faint(true).Render(m.status)
		if m.err != nil {
			status = errorStyle(m.status)
		}

		content = status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type cartSavedMsg struct {
	res *quote.SaveResult
	err error
}

func (m CartModel) saveCmd() tea.Cmd {
	draft := quote.Draft{
		CustomerName:     m.bind.customer,
		ProjectReference: m.bind.project,
		CustomerNumber:   m.bind.custNo,
		Preparer:         m.bind.preparer,
		Company:          m.settings.Company,
		PricesHidden:     m.bind.hidden,
		Params:           m.params(),
	}

	if m.settings.ClosingText != nil {
		draft.ClosingText = m.settings.ClosingText(m.bind.preparer)
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.svc.Save(ctx, m.session, draft)

		return cartSavedMsg{res: res, err: err}
	}
}
