package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/adapters/tui/views"
	"prestito/internal/application/commands"
	"prestito/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewMenu
	ViewCatalog
	ViewBorrow
	ViewReturn
	ViewAddBook
	ViewNotes
	ViewInvoice
	ViewHelp
)

// App is the main TUI application model
type App struct {
	coord  *commands.Coordinator
	editor ports.EditorOpener

	state   ViewState
	login   *views.LoginModel
	menu    *views.MenuModel
	catalog *views.CatalogModel
	borrow  *views.BorrowModel
	ret     *views.ReturnModel
	addBook *views.AddBookModel
	notes   *views.SearchModel
	invoice *views.InvoiceModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. With a nil creds the login screen
// is skipped and operator is used as is.
func NewApp(coord *commands.Coordinator, creds ports.CredentialStore, ed ports.EditorOpener, operator string) *App {
	a := &App{
		coord:   coord,
		editor:  ed,
		state:   ViewLogin,
		menu:    views.NewMenuModel(coord),
		catalog: views.NewCatalogModel(coord.Catalog),
		borrow:  views.NewBorrowModel(coord),
		ret:     views.NewReturnModel(coord),
		addBook: views.NewAddBookModel(coord.Catalog),
		notes:   views.NewSearchModel(coord),
		invoice: views.NewInvoiceModel(ed != nil),
		help:    views.NewHelpModel(),
	}
	if creds == nil {
		a.state = ViewMenu
		a.menu.SetOperator(operator)
	} else {
		a.login = views.NewLoginModel(creds, coord.Header.LibraryName, operator)
	}
	return a
}

// State returns the current view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	if a.state == ViewLogin {
		return a.login.Init()
	}
	return a.menu.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(msg.Width, msg.Height)
		a.catalog.SetSize(msg.Width, msg.Height)
		a.borrow.SetSize(msg.Width, msg.Height)
		a.ret.SetSize(msg.Width, msg.Height)
		a.addBook.SetSize(msg.Width, msg.Height)
		a.notes.SetSize(msg.Width, msg.Height)
		a.invoice.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		if a.login != nil {
			a.login.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case views.LoginSuccessMsg:
		a.menu.SetOperator(msg.User)
		a.coord.Header.Operator = msg.User
		a.state = ViewMenu
		return a, nil

	// View switching messages
	case views.SwitchToMenuMsg:
		a.state = ViewMenu
		if msg.Status != "" {
			a.menu.SetMessage(msg.Status, msg.StatusErr)
		} else {
			a.menu.ClearMessage()
		}
		return a, nil

	case views.SwitchToCatalogMsg:
		a.state = ViewCatalog
		a.catalog.Show(msg.AvailableOnly)
		return a, nil

	case views.SwitchToBorrowMsg:
		a.state = ViewBorrow
		return a, a.borrow.Start()

	case views.SwitchToReturnMsg:
		a.state = ViewReturn
		return a, a.ret.Start()

	case views.SwitchToAddBookMsg:
		a.state = ViewAddBook
		return a, a.addBook.Start()

	case views.SwitchToNotesMsg:
		a.state = ViewNotes
		return a, a.notes.Reset()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.ShowInvoiceMsg:
		a.state = ViewInvoice
		a.invoice.Show(msg)
		return a, nil

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.invoice.SetMessage("editor: "+msg.err.Error(), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewMenu:
		_, cmd = a.menu.Update(msg)
	case ViewCatalog:
		_, cmd = a.catalog.Update(msg)
	case ViewBorrow:
		_, cmd = a.borrow.Update(msg)
	case ViewReturn:
		_, cmd = a.ret.Update(msg)
	case ViewAddBook:
		_, cmd = a.addBook.Update(msg)
	case ViewNotes:
		_, cmd = a.notes.Update(msg)
	case ViewInvoice:
		_, cmd = a.invoice.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewLogin:
		return a.login.View()
	case ViewCatalog:
		return a.catalog.View()
	case ViewBorrow:
		return a.borrow.View()
	case ViewReturn:
		return a.ret.View()
	case ViewAddBook:
		return a.addBook.View()
	case ViewNotes:
		return a.notes.View()
	case ViewInvoice:
		return a.invoice.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.menu.View()
	}
}
