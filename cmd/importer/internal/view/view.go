package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg returns control to the home menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
