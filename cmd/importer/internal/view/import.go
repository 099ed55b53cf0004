package view

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KVinaykumar2002/reckon-snap/internal/importer"
)

type importState int

const (
	importStatePicking importState = iota
	importStateProcessing
	importStateFailed
)

// BatchReadyMsg hands a processed batch to the review screen.
type BatchReadyMsg struct {
	Result *importer.BatchResult
}

// ImportModel stages CSV and XLSX files, runs them through the batch
// processor and hands the outcome off for review.
type ImportModel struct {
	CommonModel

	state      importState
	filePicker filepicker.Model
	files      []string

	progress progress.Model
	fraction float64
	events   chan tea.Msg

	err error
}

func NewImportModel() ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(12)

	return ImportModel{
		filePicker: fp,
		progress:   progress.New(progress.WithDefaultGradient()),
		events:     make(chan tea.Msg),
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateProcessing:
		return "Processing..."
	case importStateFailed:
		return "Esc: back to file selection"
	}

	return "Enter: stage file | backspace: unstage | p: process | Esc: back"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.progress.Width = msg.Width - 8

		return m, nil

	case batchProgressMsg:
		m.fraction = float64(msg)

		return m, awaitEvent(m.events)

	case batchDoneMsg:
		if msg.err != nil {
			m.state = importStateFailed
			m.err = msg.err

			return m, nil
		}

		return m, func() tea.Msg { return BatchReadyMsg{Result: msg.result} }

	case tea.KeyMsg:
		switch m.state {
		case importStatePicking:
			return m.updatePicking(msg)
		case importStateFailed:
			if msg.Type == tea.KeyEsc {
				m.state = importStatePicking
				m.err = nil

				return m, nil
			}

			return m, nil
		case importStateProcessing:
			return m, nil
		}
	}

	if m.state == importStatePicking {
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, Back

	case "backspace":
		if len(m.files) > 0 {
			m.files = m.files[:len(m.files)-1]
		}

		return m, nil

	case "p":
		if len(m.files) == 0 {
			return m, nil
		}

		m.state = importStateProcessing
		m.fraction = 0

		return m, tea.Batch(m.processCmd(), awaitEvent(m.events))
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.stage(path)
	}

	return m, cmd
}

func (m *ImportModel) stage(path string) {
	for _, staged := range m.files {
		if staged == path {
			return
		}
	}

	m.files = append(m.files, path)
}

func (m ImportModel) View() string {
	switch m.state {
	case importStatePicking:
		return m.viewPicking()

	case importStateProcessing:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Processing %d file(s)...\n\n%s", len(m.files), m.progress.ViewAs(m.fraction)),
		)

	case importStateFailed:
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\nNothing from this batch was kept.\n\n(Esc to go back)",
		)
	}

	return ""
}

func (m ImportModel) viewPicking() string {
	staged := "Staged files: none"
	if len(m.files) > 0 {
		staged = "Staged files:"
		for _, f := range m.files {
			staged += fmt.Sprintf("\n  %s", filepath.Base(f))
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf(
		"%s\n\nSelect files to import:\n\n%s",
		lipgloss.NewStyle().Faint(true).Render(staged),
		m.filePicker.View(),
	))
}

// Messages

type batchProgressMsg float64

type batchDoneMsg struct {
	result *importer.BatchResult
	err    error
}

// awaitEvent relays the next message from the processing goroutine. It is
// re-armed after every progress update so sends never go unheard.
func awaitEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m ImportModel) processCmd() tea.Cmd {
	events := m.events
	paths := append([]string(nil), m.files...)

	return func() tea.Msg {
		proc := importer.NewProcessor(func(fraction float64) {
			events <- batchProgressMsg(fraction)
		})

		files := make([]importer.File, 0, len(paths))

		for _, path := range paths {
			f, err := os.Open(path)
			if err != nil {
				events <- batchDoneMsg{err: err}
				return nil
			}
			defer f.Close()

			files = append(files, importer.File{Name: filepath.Base(path), Reader: f})
		}

		result, err := proc.Process(files)
		events <- batchDoneMsg{result: result, err: err}

		return nil
	}
}
