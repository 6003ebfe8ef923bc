package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/application"
	"prestito/internal/application/commands"
	"prestito/internal/domain"
)

// CatalogKeyMap defines key bindings for the catalog view
type CatalogKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Filter    key.Binding
	Available key.Binding
	New       key.Binding
	Remove    key.Binding
	Back      key.Binding
}

var CatalogKeys = CatalogKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "prev page"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "next page"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Available: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "available only"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "add book"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// catalogChrome is the number of lines around the book rows
const catalogChrome = 12

// CatalogModel lists the catalog with stock counts
type CatalogModel struct {
	ViewState
	catalog       *application.Catalog
	availableOnly bool
	books         []*domain.Book
	pager         *Paginator
	filter        textinput.Model
	filtering     bool
	confirm       Confirmation
}

// NewCatalogModel creates a new catalog view
func NewCatalogModel(catalog *application.Catalog) *CatalogModel {
	filter := textinput.New()
	filter.Placeholder = "id, name or author"
	filter.CharLimit = 64
	return &CatalogModel{
		catalog: catalog,
		pager:   NewPaginator(15),
		filter:  filter,
	}
}

// Show resets the view to list all or only available books
func (m *CatalogModel) Show(availableOnly bool) {
	m.availableOnly = availableOnly
	m.filter.SetValue("")
	m.filter.Blur()
	m.filtering = false
	m.ClearMessage()
	m.pager.Reset()
	m.refresh()
}

// SetSize updates the view dimensions and the page size
func (m *CatalogModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(height - catalogChrome)
}

// refresh rebuilds the visible rows from the catalog and filter
func (m *CatalogModel) refresh() {
	query := m.filter.Value()
	var books []*domain.Book
	if len(query) >= 2 {
		for _, match := range m.catalog.Search(query) {
			books = append(books, match.Book)
		}
	} else {
		books = m.catalog.Books()
	}

	if m.availableOnly {
		kept := books[:0:0]
		for _, b := range books {
			if b.Available() {
				kept = append(kept, b)
			}
		}
		books = kept
	}

	m.books = books
	m.pager.SetTotal(len(books))
}

// Init initializes the catalog view
func (m *CatalogModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the catalog view
func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.confirm.HandleKeyMsg(msg); handled {
			return m, cmd
		}
		if m.filtering {
			return m.updateFilter(msg)
		}

		m.ClearMessage()
		switch {
		case key.Matches(msg, CatalogKeys.Back):
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.refresh()
				return m, nil
			}
			return m, emit(SwitchToMenuMsg{})

		case key.Matches(msg, CatalogKeys.Up):
			m.pager.CursorUp()
		case key.Matches(msg, CatalogKeys.Down):
			m.pager.CursorDown()
		case key.Matches(msg, CatalogKeys.PageUp):
			m.pager.PrevPage()
		case key.Matches(msg, CatalogKeys.PageDown):
			m.pager.NextPage()

		case key.Matches(msg, CatalogKeys.Filter):
			m.filtering = true
			return m, m.filter.Focus()

		case key.Matches(msg, CatalogKeys.Available):
			m.availableOnly = !m.availableOnly
			m.refresh()

		case key.Matches(msg, CatalogKeys.New):
			return m, emit(SwitchToAddBookMsg{})

		case key.Matches(msg, CatalogKeys.Remove):
			if book := m.selected(); book != nil {
				m.confirm.Ask("Remove this book from the catalog?", RenderBookInfo(book, "Remove"),
					func() tea.Cmd { return emit(m.remove(book)) }, nil)
			}
		}
	}
	return m, nil
}

func (m *CatalogModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		if msg.Type == tea.KeyEsc {
			m.filter.SetValue("")
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.pager.Reset()
	m.refresh()
	return m, cmd
}

func (m *CatalogModel) remove(book *domain.Book) tea.Msg {
	result, err := commands.NewRemoveBookCommand(m.catalog, book.ID, false).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	m.pager.RemoveAtCursor()
	return successMsg{result.Message}
}

func (m *CatalogModel) selected() *domain.Book {
	if c := m.pager.Cursor(); c >= 0 && c < len(m.books) {
		return m.books[c]
	}
	return nil
}

// View renders the catalog
func (m *CatalogModel) View() string {
	title := "All books"
	if m.availableOnly {
		title = "Available books"
	}
	vb := NewViewBuilder().Title(title)

	if m.filtering || m.filter.Value() != "" {
		vb.Line(RenderLabelValue("Search", m.filter.View())).BlankLine()
	}

	if len(m.books) == 0 {
		vb.Muted("No books.")
	} else {
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			vb.Line(RenderBookRow(m.books[i], i == m.pager.Cursor()))
		}
		if page, count := m.pager.Page(); count > 1 {
			vb.BlankLine().Muted(fmt.Sprintf("Page %d of %d", page, count))
		}
	}
	vb.BlankLine()

	if m.confirm.Active() {
		return vb.Raw(m.confirm.View()).String()
	}

	vb.Message(m.Message, m.MessageErr)
	if m.filtering {
		return vb.Raw(RenderMuted("enter to keep results • esc to clear")).String()
	}
	return vb.Help(CatalogKeys.Up, CatalogKeys.Down, CatalogKeys.Filter, CatalogKeys.Available,
		CatalogKeys.New, CatalogKeys.Remove, CatalogKeys.Back).String()
}
