package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/KVinaykumar2002/reckon-snap/cmd/importer/internal/view"
	"github.com/KVinaykumar2002/reckon-snap/internal/client"
	"github.com/KVinaykumar2002/reckon-snap/internal/config"
)

type model struct {
	appName string
	api     *client.Client

	currentView View

	importView       view.ImportModel
	reviewView       view.ReviewModel
	transactionsView view.TransactionsModel
	statsView        view.StatsModel
	exportView       view.ExportModel
}

type View int

const (
	ViewMenu View = iota
	ViewImport
	ViewReview
	ViewTransactions
	ViewStats
	ViewExport
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	api := client.New(cfg.Client.BaseURL, cfg.Client.Timeout)

	return model{
		appName:     cfg.App.Name,
		api:         api,
		currentView: ViewMenu,
		importView:  view.NewImportModel(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel()

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.api)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewStats
				m.statsView = view.NewStatsModel(m.api)

				return m, m.statsView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.api)

				return m, m.exportView.Init()
			}
		}

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil

	case view.BatchReadyMsg:
		m.currentView = ViewReview
		m.reviewView = view.NewReviewModel(m.api, msg.Result)

		return m, m.reviewView.Init()
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewStats:
		var newModel tea.Model
		newModel, cmd = m.statsView.Update(msg)
		m.statsView = newModel.(view.StatsModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Import Transactions\n" +
				"2. Browse Transactions\n" +
				"3. Statistics\n" +
				"4. Export Transactions\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewStats:
		return m.statsView.View()
	case ViewExport:
		return m.exportView.View()
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
