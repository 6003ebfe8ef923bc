package views

import tea "github.com/charmbracelet/bubbletea"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type SwitchToMenuMsg struct {
	// Status is shown on the menu after switching
	Status    string
	StatusErr bool
}

type SwitchToCatalogMsg struct {
	AvailableOnly bool
}

type SwitchToBorrowMsg struct{}

type SwitchToReturnMsg struct{}

type SwitchToAddBookMsg struct{}

type SwitchToNotesMsg struct{}

type SwitchToHelpMsg struct{}

// LoginSuccessMsg is sent once an operator's password is verified
type LoginSuccessMsg struct {
	User string
}

// ShowInvoiceMsg switches to the invoice view for a note
type ShowInvoiceMsg struct {
	ID      string
	Invoice string
	Path    string
	Message string
}

// OpenEditorMsg asks the app to open path in the external editor
type OpenEditorMsg struct {
	Path string
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}

// emit wraps an already computed message as a command. Catalog changes run
// inside Update; only their result travels as a message.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
