package views

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/internal/adapters/tui/styles"
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
	help help.Model
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = styles.HelpKey
	h.Styles.FullDesc = styles.HelpDesc
	h.Styles.FullSeparator = styles.MutedText
	return &HelpModel{help: h}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, HelpKeys.Close) {
		return m, func() tea.Msg { return SwitchToBoardMsg{} }
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	m.help.Width = m.Width
	return NewViewBuilder().
		Title("Whiteboard Help").
		Subtitle("Nodes, frames and edges on an infinite canvas").
		Line(m.help.View(BoardKeys)).
		BlankLine().
		Muted("Selection drives delete and group. Generation runs one chunk per frame;").
		Muted("the board stays usable while it runs and x stops it at the next chunk.").
		BlankLine().
		Help(HelpKeys.Close).
		String()
}
