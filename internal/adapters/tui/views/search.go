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

// SearchKeyMap defines key bindings for the note search view
type SearchKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	OpenOnly key.Binding
	Cancel   key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "print"),
	),
	OpenOnly: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open notes only"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// maxSearchResults is the number of notes listed at once
const maxSearchResults = 10

// SearchModel finds notes by keyword and prints the selected one
type SearchModel struct {
	ViewState
	coord    *commands.Coordinator
	input    textinput.Model
	results  []commands.NoteListing
	cursor   int
	openOnly bool
}

// NewSearchModel creates a new note search view
func NewSearchModel(coord *commands.Coordinator) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Borrower name or note ID"
	input.Focus()

	return &SearchModel{
		coord: coord,
		input: input,
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset resets the search view
func (m *SearchModel) Reset() tea.Cmd {
	m.input.SetValue("")
	m.results = nil
	m.cursor = 0
	m.ClearMessage()
	return m.input.Focus()
}

type searchResultsMsg struct {
	query   string
	results []commands.NoteListing
	err     error
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultsMsg:
		if msg.query != m.keyword() {
			return m, nil
		}
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
		}
		m.results = msg.results
		m.cursor = 0
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, emit(SwitchToMenuMsg{})

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < min(len(m.results), maxSearchResults)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.OpenOnly):
			m.openOnly = !m.openOnly
			return m, m.search(m.keyword())

		case key.Matches(msg, SearchKeys.Select):
			if m.cursor >= 0 && m.cursor < len(m.results) {
				return m, m.print(m.results[m.cursor].ID)
			}
			return m, nil
		}
	}

	// Update input
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ClearMessage()

	// Trigger search on input change
	if query := m.keyword(); query != "" {
		return m, tea.Batch(cmd, m.search(query))
	}
	m.results = nil
	return m, cmd
}

func (m *SearchModel) keyword() string {
	return strings.TrimSpace(m.input.Value())
}

func (m *SearchModel) search(query string) tea.Cmd {
	if query == "" {
		return nil
	}
	openOnly := m.openOnly
	return func() tea.Msg {
		results, err := m.coord.SearchNotes(context.Background(), query, openOnly)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

func (m *SearchModel) print(id string) tea.Cmd {
	return func() tea.Msg {
		view, err := m.coord.PrintNote(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return ShowInvoiceMsg{ID: view.ID, Invoice: view.Invoice, Path: view.Path}
	}
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Print a note"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n")
	if m.openOnly {
		b.WriteString(styles.MutedText.Render("open notes only"))
	}
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		if m.keyword() != "" {
			b.WriteString(styles.MutedText.Render("No notes found"))
		} else {
			b.WriteString(styles.MutedText.Render("Type part of a borrower name"))
		}
	} else {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d notes", len(m.results))))
		b.WriteString("\n\n")

		for i, r := range m.results[:min(len(m.results), maxSearchResults)] {
			b.WriteString(m.renderResult(r, i == m.cursor))
			b.WriteString("\n")
		}
		if len(m.results) > maxSearchResults {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("... and %d more", len(m.results)-maxSearchResults)))
		}
	}

	b.WriteString("\n\n")
	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n\n")
	}
	b.WriteString(RenderHelpLine(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.OpenOnly, SearchKeys.Cancel))

	return styles.App.Render(b.String())
}

func (m *SearchModel) renderResult(r commands.NoteListing, selected bool) string {
	state := styles.NoteOpen.Render("[OPEN]")
	if r.Closed {
		state = styles.NoteReturned.Render("[RETURNED]")
	}
	text := fmt.Sprintf("%s %s", r.ID, r.BorrowedAt)
	if selected {
		return state + " " + styles.RowSelected.Render(text)
	}
	return state + " " + text
}
