package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation views
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

// ConfirmationModel asks a yes/no question before running an action. The
// action runs inside Update, on the goroutine that owns the board.
type ConfirmationModel struct {
	ViewState
	Question string
	Detail   string
	Keys     ConfirmKeyMap

	onConfirm func() tea.Msg
}

// NewConfirmationModel creates a confirmation running onConfirm on "y"
func NewConfirmationModel(question, detail string, onConfirm func() tea.Msg) *ConfirmationModel {
	return &ConfirmationModel{
		Question:  question,
		Detail:    detail,
		Keys:      DefaultConfirmKeys,
		onConfirm: onConfirm,
	}
}

// Init initializes the confirmation view
func (m *ConfirmationModel) Init() tea.Cmd { return nil }

// Update handles key presses for the confirmation
func (m *ConfirmationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Cancel):
		return m, func() tea.Msg { return ResultMsg{Message: "Cancelled"} }
	case key.Matches(keyMsg, m.Keys.Confirm):
		result := m.onConfirm()
		return m, func() tea.Msg { return result }
	}
	return m, nil
}

// View renders the confirmation prompt
func (m *ConfirmationModel) View() string {
	v := NewViewBuilder().Title("Confirm")
	if m.Detail != "" {
		v.Line(styles.WarningMsg.Render(m.Detail)).BlankLine()
	}
	return v.Raw(RenderConfirmPrompt(m.Question)).String()
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
