package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/adapters/tui/styles"
	"prestito/internal/application/commands"
)

// ReturnKeyMap defines key bindings for the return view
type ReturnKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var ReturnKeys = ReturnKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

type returnStep int

const (
	returnStepBorrower returnStep = iota
	returnStepPick
	returnStepConfirm
)

// ReturnModel finds a borrower's open note and closes it
type ReturnModel struct {
	ViewState
	coord    *commands.Coordinator
	step     returnStep
	borrower textinput.Model
	notes    []commands.OpenNote
	cursor   int
	preview  string
	confirm  Confirmation
}

// NewReturnModel creates a new return view
func NewReturnModel(coord *commands.Coordinator) *ReturnModel {
	borrower := textinput.New()
	borrower.Placeholder = "Full name"
	borrower.CharLimit = 64
	return &ReturnModel{coord: coord, borrower: borrower}
}

// Start resets the view for a new return
func (m *ReturnModel) Start() tea.Cmd {
	m.step = returnStepBorrower
	m.notes = nil
	m.cursor = 0
	m.preview = ""
	m.confirm = Confirmation{}
	m.borrower.SetValue("")
	m.ClearMessage()
	return m.borrower.Focus()
}

// Init initializes the return view
func (m *ReturnModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the return view
func (m *ReturnModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.confirm.HandleKeyMsg(msg); handled {
			return m, cmd
		}

		switch m.step {
		case returnStepBorrower:
			return m.updateBorrower(msg)
		case returnStepPick:
			return m.updatePick(msg)
		case returnStepConfirm:
			if key.Matches(msg, ReturnKeys.Cancel) {
				return m, m.Start()
			}
		}
	}
	return m, nil
}

func (m *ReturnModel) updateBorrower(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ReturnKeys.Cancel):
		return m, emit(SwitchToMenuMsg{})

	case key.Matches(msg, ReturnKeys.Select):
		name := strings.TrimSpace(m.borrower.Value())
		notes, err := m.coord.OpenNotes(context.Background(), name)
		if err != nil {
			m.SetMessage(err.Error(), true)
			return m, nil
		}
		if len(notes) == 0 {
			m.SetMessage(fmt.Sprintf("%s has no open notes", name), true)
			return m, nil
		}

		m.ClearMessage()
		m.notes = notes
		m.cursor = 0
		m.borrower.Blur()
		if len(notes) == 1 {
			return m, m.showPreview(notes[0].ID)
		}
		m.step = returnStepPick
		return m, nil
	}

	var cmd tea.Cmd
	m.borrower, cmd = m.borrower.Update(msg)
	return m, cmd
}

func (m *ReturnModel) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ReturnKeys.Cancel):
		return m, m.Start()
	case key.Matches(msg, ReturnKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, ReturnKeys.Down):
		if m.cursor < len(m.notes)-1 {
			m.cursor++
		}
	case key.Matches(msg, ReturnKeys.Select):
		return m, m.showPreview(m.notes[m.cursor].ID)
	}
	return m, nil
}

// showPreview shows the note's current invoice and asks for confirmation
func (m *ReturnModel) showPreview(id string) tea.Cmd {
	view, err := m.coord.PrintNote(context.Background(), id)
	if err != nil {
		return emit(errMsg{err})
	}

	m.step = returnStepConfirm
	m.preview = view.Invoice
	m.confirm.Ask(fmt.Sprintf("Return all %d books of %s?", len(view.Note.Books), id), "",
		func() tea.Cmd { return emit(m.returnNote(id)) },
		func() tea.Cmd {
			m.preview = ""
			if len(m.notes) > 1 {
				m.step = returnStepPick
				return nil
			}
			return m.Start()
		})
	return nil
}

func (m *ReturnModel) returnNote(id string) tea.Msg {
	receipt, err := m.coord.Return(context.Background(), id, true)
	if receipt == nil {
		return errMsg{err}
	}

	message := receipt.Message
	if err != nil {
		message += "\nwarning: " + err.Error()
	}
	path, _ := m.coord.Store.InvoicePath(id)
	return ShowInvoiceMsg{ID: id, Invoice: receipt.Invoice, Path: path, Message: message}
}

// View renders the return view
func (m *ReturnModel) View() string {
	vb := NewViewBuilder().Title("Return books")

	switch m.step {
	case returnStepBorrower:
		return vb.
			Line(styles.InputLabel.Render("Borrower")).
			Line(styles.InputFocused.Render(m.borrower.View())).
			BlankLine().
			Message(m.Message, m.MessageErr).
			Help(ReturnKeys.Select, ReturnKeys.Cancel).
			String()

	case returnStepPick:
		vb.Subtitle(fmt.Sprintf("%d open notes", len(m.notes)))
		for i, n := range m.notes {
			line := fmt.Sprintf("%d. %s  borrowed %s", i+1, n.ID, n.BorrowedAt.Format("02 Jan 2006 15:04"))
			vb.Line(RenderRow(line, i == m.cursor))
		}
		return vb.
			BlankLine().
			Message(m.Message, m.MessageErr).
			Help(ReturnKeys.Up, ReturnKeys.Down, ReturnKeys.Select, ReturnKeys.Cancel).
			String()
	}

	vb.Line(styles.Invoice.Render(m.preview)).
		BlankLine().
		Message(m.Message, m.MessageErr)
	if m.confirm.Active() {
		return vb.Raw(m.confirm.View()).String()
	}
	return vb.Help(ReturnKeys.Cancel).String()
}
