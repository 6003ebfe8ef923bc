package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, emit(SwitchToMenuMsg{})
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Prestito Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Menu"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("1-6 / Enter", "Open an action"))
	b.WriteString(helpLine("s", "Save the stock file"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Borrowing"))
	b.WriteString("\n")
	b.WriteString(helpLine("Enter", "Add the typed book ID or name"))
	b.WriteString(helpLine("Enter (empty) / Ctrl+S", "Finish and write the note"))
	b.WriteString(helpLine("y / n", "Accept or reject a suggested title"))
	b.WriteString(helpLine("Esc", "Cancel and put the books back"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Catalog"))
	b.WriteString("\n")
	b.WriteString(helpLine("/", "Filter by ID, name or author"))
	b.WriteString(helpLine("a", "Toggle available only"))
	b.WriteString(helpLine("n / d", "Add / remove a book"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Notes"))
	b.WriteString("\n")
	b.WriteString(helpLine("Ctrl+O", "Only notes with books out"))
	b.WriteString(helpLine("c", "Copy the note ID"))
	b.WriteString(helpLine("o", "Open the note in $EDITOR"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Fines"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Books are due after the loan period. Each late day adds the daily fine."))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 24)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
