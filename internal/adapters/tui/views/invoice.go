package views

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/adapters/tui/styles"
)

// InvoiceKeyMap defines key bindings for the invoice view
type InvoiceKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Copy key.Binding
	Edit key.Binding
	Back key.Binding
}

var InvoiceKeys = InvoiceKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy note ID"),
	),
	Edit: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in editor"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "enter", "q"),
		key.WithHelp("esc", "menu"),
	),
}

// invoiceChrome is the number of lines around the invoice viewport
const invoiceChrome = 10

// InvoiceModel shows a rendered note invoice
type InvoiceModel struct {
	ViewState
	id        string
	path      string
	viewport  viewport.Model
	canEdit   bool
	copyToClp func(string) error
}

// NewInvoiceModel creates a new invoice view. canEdit enables the editor key.
func NewInvoiceModel(canEdit bool) *InvoiceModel {
	return &InvoiceModel{
		viewport:  viewport.New(0, 20),
		canEdit:   canEdit,
		copyToClp: clipboard.WriteAll,
	}
}

// Show loads an invoice into the view
func (m *InvoiceModel) Show(msg ShowInvoiceMsg) {
	m.id = msg.ID
	m.path = msg.Path
	m.viewport.SetContent(msg.Invoice)
	m.viewport.GotoTop()
	m.SetMessage(msg.Message, false)
}

// ID returns the note being shown
func (m *InvoiceModel) ID() string {
	return m.id
}

// SetSize updates the view dimensions and the viewport
func (m *InvoiceModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.viewport.Width = max(width-8, 20)
	m.viewport.Height = max(height-invoiceChrome, 5)
}

// Init initializes the invoice view
func (m *InvoiceModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the invoice view
func (m *InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, InvoiceKeys.Back):
			return m, emit(SwitchToMenuMsg{})

		case key.Matches(msg, InvoiceKeys.Copy):
			if err := m.copyToClp(m.id); err != nil {
				m.SetMessage("clipboard unavailable: "+err.Error(), true)
			} else {
				m.SetMessage("Copied "+m.id, false)
			}
			return m, nil

		case key.Matches(msg, InvoiceKeys.Edit):
			if !m.canEdit || m.path == "" {
				m.SetMessage("no stored invoice to open", true)
				return m, nil
			}
			return m, emit(OpenEditorMsg{Path: m.path})
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the invoice
func (m *InvoiceModel) View() string {
	vb := NewViewBuilder().
		Title("Note " + m.id).
		Line(styles.Invoice.Render(m.viewport.View())).
		BlankLine().
		Message(m.Message, m.MessageErr)

	bindings := []key.Binding{InvoiceKeys.Up, InvoiceKeys.Down, InvoiceKeys.Copy}
	if m.canEdit {
		bindings = append(bindings, InvoiceKeys.Edit)
	}
	bindings = append(bindings, InvoiceKeys.Back)
	return vb.Help(bindings...).String()
}
