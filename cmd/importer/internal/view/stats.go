package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KVinaykumar2002/reckon-snap/internal/client"
)

const overviewMonths = 6

// StatsModel shows ledger totals, the recent monthly overview and the
// expense breakdown by category.
type StatsModel struct {
	CommonModel
	api *client.Client

	loading bool
	spinner spinner.Model

	stats      *client.Stats
	months     []client.MonthSummary
	categories []client.CategorySummary

	err error
}

func NewStatsModel(api *client.Client) StatsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StatsModel{
		api:     api,
		loading: true,
		spinner: s,
	}
}

func (m StatsModel) Title() string { return "Statistics" }

func (m StatsModel) ShortHelp() string {
	if m.loading {
		return "Loading..."
	}

	return "Esc: back | r: refresh"
}

func (m StatsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case statsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.stats = msg.stats
		m.months = msg.months
		m.categories = msg.categories

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.loadCmd())
			}
		}

		return m, nil
	}

	if m.loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m StatsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Loading statistics...", m.spinner.View()),
		)
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n(Esc to go back)",
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewTotals(),
			"",
			m.viewMonths(),
			"",
			m.viewCategories(),
		),
	)
}

func (m StatsModel) viewTotals() string {
	header := lipgloss.NewStyle().Bold(true).Render("Totals")

	income := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(FormatMoney(m.stats.TotalIncome))
	expenses := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(FormatMoney(m.stats.TotalExpenses))
	balance := lipgloss.NewStyle().Bold(true).Render(FormatMoney(m.stats.Balance))

	return fmt.Sprintf("%s\n  Income:   %s\n  Expenses: %s\n  Balance:  %s\n  Records:  %d",
		header, income, expenses, balance, m.stats.TransactionCount)
}

func (m StatsModel) viewMonths() string {
	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Last %d Months", overviewMonths))

	if len(m.months) == 0 {
		return header + "\n  " + lipgloss.NewStyle().Faint(true).Render("no data")
	}

	var b strings.Builder

	b.WriteString(header)

	for _, month := range m.months {
		fmt.Fprintf(&b, "\n  %s  +%s  -%s", month.Month, FormatMoney(month.Income), FormatMoney(month.Expenses))
	}

	return b.String()
}

func (m StatsModel) viewCategories() string {
	header := lipgloss.NewStyle().Bold(true).Render("Spending by Category")

	if len(m.categories) == 0 {
		return header + "\n  " + lipgloss.NewStyle().Faint(true).Render("no expenses recorded")
	}

	var b strings.Builder

	b.WriteString(header)

	for _, cat := range m.categories {
		fmt.Fprintf(&b, "\n  %-20s %10s  (%d)", cat.Category, FormatMoney(cat.Total), cat.Count)
	}

	return b.String()
}

// Messages

type statsLoadedMsg struct {
	stats      *client.Stats
	months     []client.MonthSummary
	categories []client.CategorySummary
	err        error
}

func (m StatsModel) loadCmd() tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx := context.Background()

		stats, err := api.Stats(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}

		months, err := api.MonthlyOverview(ctx, overviewMonths)
		if err != nil {
			return statsLoadedMsg{err: err}
		}

		categories, err := api.CategoryBreakdown(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}

		return statsLoadedMsg{stats: stats, months: months, categories: categories}
	}
}
