package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/application/commands"
)

// MenuKeyMap defines key bindings for the main menu
type MenuKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Save  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var MenuKeys = MenuKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type menuEntry struct {
	label string
	msg   tea.Msg
}

var menuEntries = []menuEntry{
	{"Borrow books", SwitchToBorrowMsg{}},
	{"Return books", SwitchToReturnMsg{}},
	{"Available books", SwitchToCatalogMsg{AvailableOnly: true}},
	{"All books", SwitchToCatalogMsg{}},
	{"Add a book", SwitchToAddBookMsg{}},
	{"Print a note", SwitchToNotesMsg{}},
}

// MenuModel is the home screen listing the lending actions
type MenuModel struct {
	ViewState
	coord    *commands.Coordinator
	operator string
	cursor   int
}

// NewMenuModel creates a new menu model
func NewMenuModel(coord *commands.Coordinator) *MenuModel {
	return &MenuModel{coord: coord}
}

// SetOperator sets the logged-in operator shown in the header
func (m *MenuModel) SetOperator(user string) {
	m.operator = user
}

// Init initializes the menu
func (m *MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu
func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, MenuKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, MenuKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, MenuKeys.Down):
			if m.cursor < len(menuEntries)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, MenuKeys.Enter):
			return m, emit(menuEntries[m.cursor].msg)

		case key.Matches(msg, MenuKeys.Save):
			return m, emit(m.save())

		case key.Matches(msg, MenuKeys.Help):
			return m, emit(SwitchToHelpMsg{})
		}

		// Number shortcuts
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && int(s[0]-'0') <= len(menuEntries) {
			m.cursor = int(s[0] - '1')
			return m, emit(menuEntries[m.cursor].msg)
		}
	}

	return m, nil
}

func (m *MenuModel) save() tea.Msg {
	msg, err := commands.NewSaveCatalogCommand(m.coord.Catalog).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return successMsg{msg}
}

// View renders the menu
func (m *MenuModel) View() string {
	vb := NewViewBuilder().Title(m.coord.Header.LibraryName)

	subtitle := fmt.Sprintf("%d books in catalog", m.coord.Catalog.Len())
	if m.operator != "" {
		subtitle = fmt.Sprintf("Logged in as %s • %s", m.operator, subtitle)
	}
	vb.Subtitle(subtitle)

	for i, e := range menuEntries {
		line := fmt.Sprintf("%d. %s", i+1, e.label)
		vb.Line(RenderRow(line, i == m.cursor))
	}
	vb.BlankLine()

	vb.Message(m.Message, m.MessageErr)
	vb.Help(MenuKeys.Up, MenuKeys.Down, MenuKeys.Enter, MenuKeys.Save, MenuKeys.Help, MenuKeys.Quit)
	return vb.String()
}
