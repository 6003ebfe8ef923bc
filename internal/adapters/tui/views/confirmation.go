package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prestito/internal/adapters/tui/styles"
	"prestito/internal/domain"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// Confirmation is a pending yes/no question. The zero value is inactive.
type Confirmation struct {
	Question string
	Target   string // Rendered below the question, optional
	Keys     ConfirmKeyMap

	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
}

// Ask activates the prompt. onCancel may be nil.
func (c *Confirmation) Ask(question, target string, onConfirm, onCancel func() tea.Cmd) {
	c.Question = question
	c.Target = target
	c.Keys = DefaultConfirmKeys
	c.onConfirm = onConfirm
	c.onCancel = onCancel
}

// Active reports whether a question is waiting for an answer
func (c *Confirmation) Active() bool {
	return c.onConfirm != nil
}

// HandleKeyMsg answers the question on y or n/esc and deactivates it.
// Returns (handled, cmd) where handled is true if the key was processed.
func (c *Confirmation) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !c.Active() {
		return false, nil
	}
	switch {
	case key.Matches(msg, c.Keys.Confirm):
		fn := c.onConfirm
		c.reset()
		return true, fn()
	case key.Matches(msg, c.Keys.Cancel):
		fn := c.onCancel
		c.reset()
		if fn == nil {
			return true, nil
		}
		return true, fn()
	}
	// Swallow other keys while a question is open
	return true, nil
}

func (c *Confirmation) reset() {
	*c = Confirmation{}
}

// View renders the question and target, or nothing when inactive
func (c *Confirmation) View() string {
	if !c.Active() {
		return ""
	}
	var b strings.Builder
	if c.Target != "" {
		b.WriteString(c.Target)
		b.WriteString("\n\n")
	}
	b.WriteString(RenderConfirmPrompt(c.Question))
	return b.String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}

// RenderBookInfo renders the book a prompt is about
func RenderBookInfo(b *domain.Book, action string) string {
	if b == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styles.InputLabel.Render(action + ":"))
	sb.WriteString("\n  ")
	sb.WriteString(b.ID)
	sb.WriteString(" ")
	sb.WriteString(b.Name)
	sb.WriteString(styles.MutedText.Render(" by " + b.Author))
	return sb.String()
}
