package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/adapters/tui/styles"
	"prestito/internal/application"
	"prestito/internal/application/commands"
	"prestito/internal/domain"
)

// BorrowKeyMap defines key bindings for the borrow view
type BorrowKeyMap struct {
	Add    key.Binding
	Finish key.Binding
	Cancel key.Binding
}

var BorrowKeys = BorrowKeyMap{
	Add: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add book"),
	),
	Finish: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s / enter on empty", "finish note"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

type borrowStep int

const (
	borrowStepBorrower borrowStep = iota
	borrowStepBooks
)

// BorrowModel collects books for one borrower and writes the note
type BorrowModel struct {
	ViewState
	coord    *commands.Coordinator
	step     borrowStep
	borrower textinput.Model
	query    textinput.Model
	session  *commands.BorrowSession
	confirm  Confirmation
}

// NewBorrowModel creates a new borrow view
func NewBorrowModel(coord *commands.Coordinator) *BorrowModel {
	borrower := textinput.New()
	borrower.Placeholder = "Full name"
	borrower.CharLimit = 64

	query := textinput.New()
	query.Placeholder = "Book ID or name"
	query.CharLimit = 100

	return &BorrowModel{coord: coord, borrower: borrower, query: query}
}

// Start resets the view for a new borrower
func (m *BorrowModel) Start() tea.Cmd {
	m.step = borrowStepBorrower
	m.session = nil
	m.confirm = Confirmation{}
	m.borrower.SetValue("")
	m.query.SetValue("")
	m.query.Blur()
	m.ClearMessage()
	return m.borrower.Focus()
}

// Init initializes the borrow view
func (m *BorrowModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the borrow view
func (m *BorrowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.confirm.HandleKeyMsg(msg); handled {
			return m, cmd
		}

		switch m.step {
		case borrowStepBorrower:
			return m.updateBorrower(msg)
		case borrowStepBooks:
			return m.updateBooks(msg)
		}
	}
	return m, nil
}

func (m *BorrowModel) updateBorrower(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, BorrowKeys.Cancel):
		return m, emit(SwitchToMenuMsg{})

	case key.Matches(msg, BorrowKeys.Add):
		session, err := m.coord.NewBorrowSession(m.borrower.Value())
		if err != nil {
			m.SetMessage(err.Error(), true)
			return m, nil
		}
		m.session = session
		m.step = borrowStepBooks
		m.ClearMessage()
		m.borrower.Blur()
		return m, m.query.Focus()
	}

	var cmd tea.Cmd
	m.borrower, cmd = m.borrower.Update(msg)
	return m, cmd
}

func (m *BorrowModel) updateBooks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, BorrowKeys.Cancel):
		books := m.session.Books()
		if len(books) == 0 {
			_ = m.session.Cancel(context.Background())
			return m, emit(SwitchToMenuMsg{})
		}
		m.confirm.Ask(fmt.Sprintf("Cancel and put %d books back on the shelf?", len(books)), "",
			func() tea.Cmd { return emit(m.cancel()) }, nil)
		return m, nil

	case key.Matches(msg, BorrowKeys.Finish):
		return m, emit(m.finalize())

	case key.Matches(msg, BorrowKeys.Add):
		q := m.query.Value()
		if q == "" {
			return m, emit(m.finalize())
		}
		m.query.SetValue("")
		return m, m.resolve(q)
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m *BorrowModel) resolve(query string) tea.Cmd {
	res, err := m.session.Resolve(query)
	if err != nil {
		return emit(errMsg{err})
	}
	if !res.NeedsConfirm() {
		return emit(m.add(res.Book))
	}

	m.confirm.Ask(fmt.Sprintf("No book named %q. Did you mean this one?", query),
		RenderBookInfo(res.Book, "Suggestion"),
		func() tea.Cmd { return emit(m.add(res.Book)) },
		func() tea.Cmd { return emit(successMsg{"Skipped " + query}) })
	return nil
}

func (m *BorrowModel) add(book *domain.Book) tea.Msg {
	result, err := m.session.Add(book)
	if err != nil {
		if result.Outcome == commands.AddBorrowed && result.Book != nil {
			return errMsg{fmt.Errorf("added %s but the catalog was not saved: %w", book.Name, err)}
		}
		return errMsg{err}
	}
	if result.Outcome != commands.AddBorrowed {
		return errMsg{errors.New(result.Message)}
	}
	return successMsg{result.Message}
}

func (m *BorrowModel) finalize() tea.Msg {
	receipt, err := m.session.Finalize(context.Background())
	if errors.Is(err, application.ErrEmptySession) {
		return errMsg{errors.New("add at least one book, or esc to cancel")}
	}
	if err != nil {
		return errMsg{err}
	}
	path, _ := m.coord.Store.InvoicePath(receipt.ID)
	return ShowInvoiceMsg{
		ID:      receipt.ID,
		Invoice: receipt.Invoice,
		Path:    path,
		Message: receipt.Message,
	}
}

func (m *BorrowModel) cancel() tea.Msg {
	if err := m.session.Cancel(context.Background()); err != nil {
		return SwitchToMenuMsg{Status: err.Error(), StatusErr: true}
	}
	return SwitchToMenuMsg{Status: "Borrow cancelled, books restocked"}
}

// View renders the borrow view
func (m *BorrowModel) View() string {
	vb := NewViewBuilder().Title("Borrow books")

	if m.step == borrowStepBorrower {
		return vb.
			Line(styles.InputLabel.Render("Borrower")).
			Line(styles.InputFocused.Render(m.borrower.View())).
			BlankLine().
			Message(m.Message, m.MessageErr).
			Help(BorrowKeys.Add, BorrowKeys.Cancel).
			String()
	}

	vb.Subtitle("For " + m.session.Borrower)

	books := m.session.Books()
	if len(books) == 0 {
		vb.Muted("No books yet.")
	}
	for i, b := range books {
		vb.Line(fmt.Sprintf("%d. %s %s", i+1, b.ID, b.Name))
	}
	vb.BlankLine()

	if m.confirm.Active() {
		return vb.Raw(m.confirm.View()).String()
	}

	return vb.
		Line(styles.InputLabel.Render("Book")).
		Line(styles.InputFocused.Render(m.query.View())).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Help(BorrowKeys.Add, BorrowKeys.Finish, BorrowKeys.Cancel).
		String()
}
