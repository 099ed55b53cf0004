package view

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KVinaykumar2002/reckon-snap/internal/client"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
)

const listLimit = 200

// txItem wraps an API transaction to implement list.Item.
type txItem struct {
	tx client.Transaction
}

func (i txItem) Title() string       { return "" }
func (i txItem) Description() string { return "" }

func (i txItem) FilterValue() string {
	return i.tx.Description + " " + i.tx.Category
}

// TransactionsModel lists stored transactions for a chosen timeframe.
type TransactionsModel struct {
	CommonModel
	api *client.Client

	state           txState
	timeframePicker TimeframePicker
	list            list.Model

	startDate time.Time
	endDate   time.Time
	allTime   bool
	typeName  string

	loading bool
	status  string
}

func NewTransactionsModel(api *client.Client) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		api:             api,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		list:            l,
	}
}

func (m TransactionsModel) Title() string { return "Browse Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | r: refresh | i/e/a: income/expense/all | /: filter"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		m.loading = true
		m.state = txStateList

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.txs))
		for i, tx := range msg.txs {
			items[i] = txItem{tx: tx}
		}

		m.list.SetItems(items)

		m.status = fmt.Sprintf("%d transaction(s)", len(msg.txs))
		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.list.FilterState() != list.Filtering {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "r":
				m.loading = true
				return m, m.loadTxsCmd()
			case "i":
				m.typeName = "income"
				m.loading = true

				return m, m.loadTxsCmd()
			case "e":
				m.typeName = "expense"
				m.loading = true

				return m, m.loadTxsCmd()
			case "a":
				m.typeName = ""
				m.loading = true

				return m, m.loadTxsCmd()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		if m.typeName != "" {
			statusLine += lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("Filter: %s", m.typeName)) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
	}

	return ""
}

// Messages

type loadTxsMsg struct {
	txs []client.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	api := m.api
	opts := client.ListOptions{Limit: listLimit, Type: m.typeName}

	if !m.allTime {
		start, end := m.startDate, m.endDate
		opts.StartDate = &start
		opts.EndDate = &end
	}

	return func() tea.Msg {
		txs, err := api.List(context.Background(), opts)

		return loadTxsMsg{txs: txs, err: err}
	}
}

// txItemDelegate renders one transaction per line.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 1 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	tx := i.tx

	amount := FormatMoney(tx.Amount)
	if tx.Type == "expense" {
		amount = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("-" + amount)
	} else {
		amount = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("+" + amount)
	}

	line := fmt.Sprintf("%s  %s  %s  %s", FormatDate(tx.Date), amount, tx.Category, tx.Description)

	if index == m.Index() {
		line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + line)
	} else {
		line = "  " + line
	}

	fmt.Fprintf(w, "%s\n", line)
}
