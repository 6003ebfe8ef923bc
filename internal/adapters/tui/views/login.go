package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/application/commands"
	"prestito/internal/ports"
)

const (
	loginFieldUser = iota
	loginFieldPassword
)

// MaxLoginAttempts is the number of wrong passwords before the app exits
const MaxLoginAttempts = 3

// LoginModel asks for an operator name and password
type LoginModel struct {
	ViewState
	creds       ports.CredentialStore
	libraryName string
	form        *InputForm
	attempts    int
}

// NewLoginModel creates a login view checking against creds
func NewLoginModel(creds ports.CredentialStore, libraryName, user string) *LoginModel {
	form := NewInputForm(
		NewInputField("Operator", "user name", 32),
		NewPasswordField("Password"),
	)
	if user != "" {
		form.SetValue(loginFieldUser, user)
		form.SetFocus(loginFieldPassword)
	}
	return &LoginModel{creds: creds, libraryName: libraryName, form: form}
}

// Init initializes the login view
func (m *LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the login view
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case msg.Type == tea.KeyCtrlC, key.Matches(msg, m.form.Keys.Cancel):
			return m, tea.Quit

		case key.Matches(msg, m.form.Keys.Submit):
			if m.form.FocusedField == loginFieldUser {
				m.form.NextField()
				return m, nil
			}
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *LoginModel) submit() tea.Cmd {
	user, password := m.form.Value(loginFieldUser), m.form.Fields[loginFieldPassword].Input.Value()

	login := commands.NewLoginCommand(m.creds, user, password)
	verified, err := login.Execute(context.Background())
	if err != nil {
		m.attempts++
		if m.attempts >= MaxLoginAttempts {
			return tea.Quit
		}
		m.form.SetValue(loginFieldPassword, "")
		m.SetMessage(err.Error(), true)
		return nil
	}

	m.ClearMessage()
	return emit(LoginSuccessMsg{User: verified})
}

// Attempts returns the number of failed logins
func (m *LoginModel) Attempts() int {
	return m.attempts
}

// View renders the login form
func (m *LoginModel) View() string {
	return NewViewBuilder().
		Title(m.libraryName).
		Subtitle("Operator login").
		Raw(m.form.RenderFields()).
		BlankLine().
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("log in")).
		String()
}
