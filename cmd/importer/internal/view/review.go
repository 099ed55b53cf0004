package view

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/KVinaykumar2002/reckon-snap/internal/client"
	"github.com/KVinaykumar2002/reckon-snap/internal/importer"
	"github.com/KVinaykumar2002/reckon-snap/internal/transaction"
)

type reviewState int

const (
	reviewStateBrowsing reviewState = iota
	reviewStateEditing
	reviewStateConfirm
	reviewStateUploading
	reviewStateDone
)

type reviewPane int

const (
	paneRejected reviewPane = iota
	paneAccepted
)

// ReviewModel shows a processed batch split into rejected rows and accepted
// records. Rejected rows can be edited until they validate; the accepted set
// is then uploaded in one bulk request.
type ReviewModel struct {
	CommonModel
	api *client.Client

	state reviewState
	pane  reviewPane

	result       *importer.BatchResult
	rejectedList list.Model
	acceptedList list.Model

	form         *huh.Form
	editIndex    int
	formType     string
	formAmount   string
	formCategory string
	formDate     string
	formDesc     string
	suggestion   string

	confirmUpload bool
	spinner       spinner.Model
	response      *client.BulkResponse
	uploadErr     error

	status string
}

func NewReviewModel(api *client.Client, result *importer.BatchResult) ReviewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	rl := list.New(nil, rejectedDelegate{}, 80, 14)
	rl.Title = "Rejected Rows"
	rl.SetShowStatusBar(false)
	rl.SetFilteringEnabled(false)
	rl.SetShowHelp(false)

	al := list.New(nil, acceptedDelegate{}, 80, 14)
	al.Title = "Accepted Records"
	al.SetShowStatusBar(false)
	al.SetFilteringEnabled(false)
	al.SetShowHelp(false)

	m := ReviewModel{
		api:          api,
		result:       result,
		rejectedList: rl,
		acceptedList: al,
		spinner:      s,
	}

	if len(result.Rejected) == 0 {
		m.pane = paneAccepted
	}

	m.refreshLists()

	return m
}

func (m ReviewModel) Title() string { return "Review Batch" }

func (m ReviewModel) ShortHelp() string {
	switch m.state {
	case reviewStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	case reviewStateConfirm:
		return "Enter: confirm"
	case reviewStateUploading:
		return "Uploading..."
	case reviewStateDone:
		return "Esc: back to menu"
	}

	if m.pane == paneRejected {
		return "Tab: accepted | e: edit row | u: upload | Esc: discard batch"
	}

	return "Tab: rejected | u: upload | Esc: discard batch"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.rejectedList.SetSize(msg.Width-4, msg.Height-10)
		m.acceptedList.SetSize(msg.Width-4, msg.Height-10)

		return m, nil

	case uploadDoneMsg:
		m.state = reviewStateDone
		m.response = msg.response
		m.uploadErr = msg.err

		return m, nil
	}

	switch m.state {
	case reviewStateBrowsing:
		return m.updateBrowsing(msg)
	case reviewStateEditing:
		return m.updateEditing(msg)
	case reviewStateConfirm:
		return m.updateConfirm(msg)
	case reviewStateUploading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case reviewStateDone:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		return m, nil
	}

	return m, nil
}

func (m ReviewModel) updateBrowsing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back

	case "tab":
		if m.pane == paneRejected {
			m.pane = paneAccepted
		} else {
			m.pane = paneRejected
		}

		return m, nil

	case "e":
		if m.pane != paneRejected {
			return m, nil
		}

		return m.startEditing()

	case "u":
		if len(m.result.Accepted) == 0 {
			m.status = "Nothing to upload."
			return m, nil
		}

		m.confirmUpload = false
		m.form = m.buildConfirmForm()
		m.state = reviewStateConfirm

		return m, m.form.Init()
	}

	var cmd tea.Cmd

	if m.pane == paneRejected {
		m.rejectedList, cmd = m.rejectedList.Update(msg)
	} else {
		m.acceptedList, cmd = m.acceptedList.Update(msg)
	}

	return m, cmd
}

func (m ReviewModel) startEditing() (tea.Model, tea.Cmd) {
	selected, ok := m.rejectedList.SelectedItem().(rejectedItem)
	if !ok {
		return m, nil
	}

	rec := selected.rowErr.Data
	m.editIndex = selected.index
	m.formType = rec.Type
	m.formAmount = strconv.FormatFloat(rec.Amount, 'f', -1, 64)
	m.formCategory = rec.Category
	m.formDate = rec.Date
	m.formDesc = rec.Description

	// Ask the server for a category hint before the form opens.
	m.suggestion = ""
	if rec.Description != "" {
		if s, err := m.api.SuggestCategory(context.Background(), rec.Description); err == nil {
			m.suggestion = s
		}
	}

	m.form = m.buildEditForm()
	m.state = reviewStateEditing

	return m, m.form.Init()
}

func (m ReviewModel) buildEditForm() *huh.Form {
	categoryInput := huh.NewInput().
		Key("category").
		Title("Category").
		Value(&m.formCategory)

	if m.suggestion != "" && m.suggestion != m.formCategory {
		categoryInput = categoryInput.Description(fmt.Sprintf("Suggested: %s", m.suggestion))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("type").
				Title("Type").
				Description("income or expense").
				Value(&m.formType),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.formAmount),

			categoryInput,

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ReviewModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = reviewStateBrowsing
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.finishEditing()
}

// finishEditing re-validates the edited row under the same rules as the
// original parse. A row that still fails stays rejected with the new error;
// one that passes moves to the accepted set.
func (m ReviewModel) finishEditing() (tea.Model, tea.Cmd) {
	old := m.result.Rejected[m.editIndex]

	// Read the typed values off the completed form. The bound struct fields
	// only carry the pre-edit seed values.
	rec := importer.CandidateRecord{
		Row:         old.Row,
		Type:        strings.ToLower(strings.TrimSpace(m.form.GetString("type"))),
		Amount:      coerceFormAmount(m.form.GetString("amount")),
		Category:    strings.TrimSpace(m.form.GetString("category")),
		Date:        strings.TrimSpace(m.form.GetString("date")),
		Description: strings.TrimSpace(m.form.GetString("description")),
	}

	m.state = reviewStateBrowsing
	m.form = nil

	params, rowErr := importer.Validate(rec)
	if rowErr != nil {
		rowErr.File = old.File
		m.result.Rejected[m.editIndex] = *rowErr
		m.refreshLists()
		m.status = fmt.Sprintf("Still invalid: %s", rowErr.Message)

		return m, nil
	}

	m.result.Rejected = append(m.result.Rejected[:m.editIndex], m.result.Rejected[m.editIndex+1:]...)
	m.result.Accepted = append(m.result.Accepted, params)
	m.refreshLists()
	m.status = fmt.Sprintf("Row %d fixed.", old.Row)

	if len(m.result.Rejected) == 0 {
		m.pane = paneAccepted
	}

	return m, m.learnCmd(params)
}

// learnCmd stores the fixed row's description-to-category pairing so future
// suggestions improve. Failures are irrelevant to the batch.
func (m ReviewModel) learnCmd(params transaction.CreateParams) tea.Cmd {
	api := m.api

	return func() tea.Msg {
		_ = api.LearnCategory(context.Background(), params.Description, params.Category)

		return nil
	}
}

func (m ReviewModel) buildConfirmForm() *huh.Form {
	title := fmt.Sprintf("Upload %d record(s)?", len(m.result.Accepted))
	if len(m.result.Rejected) > 0 {
		title = fmt.Sprintf("Upload %d record(s)? %d rejected row(s) will be left behind.",
			len(m.result.Accepted), len(m.result.Rejected))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("upload").
				Title(title).
				Affirmative("Upload").
				Negative("Cancel").
				Value(&m.confirmUpload),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ReviewModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = reviewStateBrowsing
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	confirmed := m.form.GetBool("upload")
	m.form = nil

	if !confirmed {
		m.state = reviewStateBrowsing
		return m, nil
	}

	m.state = reviewStateUploading

	return m, tea.Batch(m.spinner.Tick, m.uploadCmd())
}

type uploadDoneMsg struct {
	response *client.BulkResponse
	err      error
}

const uploadTimeout = 2 * time.Minute

func (m ReviewModel) uploadCmd() tea.Cmd {
	api := m.api
	accepted := m.result.Accepted

	return func() tea.Msg {
		records := make([]client.Record, len(accepted))
		for i, params := range accepted {
			records[i] = client.NewRecord(params)
		}

		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		resp, err := api.CreateBulk(ctx, records)

		return uploadDoneMsg{response: resp, err: err}
	}
}

func (m *ReviewModel) refreshLists() {
	rejected := make([]list.Item, len(m.result.Rejected))
	for i, re := range m.result.Rejected {
		rejected[i] = rejectedItem{rowErr: re, index: i}
	}

	m.rejectedList.SetItems(rejected)

	accepted := make([]list.Item, len(m.result.Accepted))
	for i, params := range m.result.Accepted {
		accepted[i] = acceptedItem{params: params, index: i}
	}

	m.acceptedList.SetItems(accepted)
}

func (m ReviewModel) View() string {
	switch m.state {
	case reviewStateEditing, reviewStateConfirm:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case reviewStateUploading:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Uploading %d record(s)...", m.spinner.View(), len(m.result.Accepted)),
		)

	case reviewStateDone:
		return m.viewDone()
	}

	return m.viewBrowsing()
}

func (m ReviewModel) viewBrowsing() string {
	tabs := m.paneTabs()

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	pane := m.rejectedList.View()
	if m.pane == paneAccepted {
		pane = m.acceptedList.View()
	}

	return lipgloss.NewStyle().Padding(1).Render(tabs + "\n" + statusLine + pane)
}

func (m ReviewModel) paneTabs() string {
	rejected := fmt.Sprintf("Rejected (%d)", len(m.result.Rejected))
	accepted := fmt.Sprintf("Accepted (%d)", len(m.result.Accepted))

	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	inactive := lipgloss.NewStyle().Faint(true)

	if m.pane == paneRejected {
		return active.Render(rejected) + "  " + inactive.Render(accepted)
	}

	return inactive.Render(rejected) + "  " + active.Render(accepted)
}

func (m ReviewModel) viewDone() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.uploadErr != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Upload failed: %v", m.uploadErr)) +
				fmt.Sprintf("\n\nAll %d record(s) were treated as failed; none were saved.", len(m.result.Accepted)) +
				"\n\n(Esc to go back)",
		)
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render(m.response.Message)

	body := fmt.Sprintf("Succeeded: %d\nFailed:    %d", m.response.SuccessCount, m.response.ErrorCount)

	if len(m.response.Results.Errors) > 0 {
		body += "\n\nFailed records:"
		for _, entry := range m.response.Results.Errors {
			body += fmt.Sprintf("\n  #%d %s %s %s: %s",
				entry.Index+1,
				entry.Data.Date,
				entry.Data.Type,
				FormatMoney(entry.Data.Amount),
				entry.Error,
			)
		}
	}

	return style.Render(header + "\n\n" + body + "\n\n(Esc to go back)")
}

// coerceFormAmount mirrors the parser's amount handling: anything that is
// not a number validates as 0 and gets reported by the row rules.
func coerceFormAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}

	return v
}

// Rejected list item

type rejectedItem struct {
	rowErr importer.RowError
	index  int
}

func (i rejectedItem) Title() string       { return "" }
func (i rejectedItem) Description() string { return "" }
func (i rejectedItem) FilterValue() string { return "" }

type rejectedDelegate struct{}

func (d rejectedDelegate) Height() int                             { return 3 }
func (d rejectedDelegate) Spacing() int                            { return 0 }
func (d rejectedDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rejectedDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(rejectedItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	rec := item.rowErr.Data

	line1 := fmt.Sprintf("%s%s:%d  %s  %s  %s  %s",
		cursor,
		item.rowErr.File,
		item.rowErr.Row,
		rec.Type,
		FormatMoney(rec.Amount),
		rec.Date,
		rec.Description,
	)

	line2 := "      " + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(item.rowErr.Message)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}

// Accepted list item

type acceptedItem struct {
	params transaction.CreateParams
	index  int
}

func (i acceptedItem) Title() string       { return "" }
func (i acceptedItem) Description() string { return "" }
func (i acceptedItem) FilterValue() string { return "" }

type acceptedDelegate struct{}

func (d acceptedDelegate) Height() int                             { return 1 }
func (d acceptedDelegate) Spacing() int                            { return 0 }
func (d acceptedDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d acceptedDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(acceptedItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	p := item.params

	fmt.Fprintf(w, "%s%s  %-7s  %s  %s  %s\n",
		cursor,
		FormatDate(p.Date),
		p.Type,
		FormatAmount(p.Amount),
		p.Category,
		p.Description,
	)
}
