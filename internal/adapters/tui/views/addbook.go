package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/application"
	"prestito/internal/application/commands"
)

const (
	addFieldID = iota
	addFieldName
	addFieldAuthor
	addFieldPublisher
	addFieldYear
	addFieldTotal
	addFieldPrice
)

// AddBookModel is a form for adding one book to the catalog
type AddBookModel struct {
	ViewState
	catalog *application.Catalog
	form    *InputForm
}

// NewAddBookModel creates a new add book view
func NewAddBookModel(catalog *application.Catalog) *AddBookModel {
	return &AddBookModel{
		catalog: catalog,
		form: NewInputForm(
			NewInputField("ID", "B12", 16),
			NewInputField("Name", "Title", 100),
			NewInputField("Author", "Author", 64),
			NewInputField("Publisher", "Publisher", 64),
			NewInputField("Publication year", "1987", 4),
			NewInputField("Copies", "3", 6),
			NewInputField("Price", "4.50", 12),
		),
	}
}

// Start clears the form
func (m *AddBookModel) Start() tea.Cmd {
	m.form.Reset()
	m.ClearMessage()
	return m.form.Init()
}

// Init initializes the add book view
func (m *AddBookModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the add book view
func (m *AddBookModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, emit(SwitchToMenuMsg{})

		case key.Matches(msg, m.form.Keys.Submit):
			if m.form.FocusedField < addFieldPrice {
				m.form.NextField()
				return m, nil
			}
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *AddBookModel) submit() tea.Cmd {
	v := m.form.Values()
	add := commands.NewAddBookCommand(m.catalog,
		v[addFieldID], v[addFieldName], v[addFieldAuthor], v[addFieldPublisher],
		v[addFieldYear], v[addFieldTotal], v[addFieldPrice])

	result, err := add.Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}

	m.form.Reset()
	m.SetMessage(result.Message, false)
	return nil
}

// View renders the add book form
func (m *AddBookModel) View() string {
	return NewViewBuilder().
		Title("Add a book").
		Subtitle("All copies start on the shelf").
		Raw(m.form.RenderFields()).
		BlankLine().
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("next / save")).
		String()
}
