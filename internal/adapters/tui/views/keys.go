package views

import "github.com/charmbracelet/bubbles/key"

// BoardKeyMap defines key bindings for the board view
type BoardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Toggle    key.Binding
	SelectOne key.Binding
	SelectAll key.Binding
	Deselect  key.Binding

	AddSticky key.Binding
	AddShape  key.Binding
	AddText   key.Binding
	Connect   key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Group     key.Binding
	Ungroup   key.Binding

	MoveUp    key.Binding
	MoveDown  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding

	Defaults key.Binding
	Generate key.Binding
	Cancel   key.Binding
	Copy     key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BoardKeys = BoardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle select"),
	),
	SelectOne: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select only"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	Deselect: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "deselect"),
	),
	AddSticky: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "sticky"),
	),
	AddShape: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "shape"),
	),
	AddText: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "text"),
	),
	Connect: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "connect"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit text"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete selected"),
	),
	Group: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "group"),
	),
	Ungroup: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "ungroup"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "nudge up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "nudge down"),
	),
	MoveLeft: key.NewBinding(
		key.WithKeys("H", "shift+left"),
		key.WithHelp("H", "nudge left"),
	),
	MoveRight: key.NewBinding(
		key.WithKeys("L", "shift+right"),
		key.WithHelp("L", "nudge right"),
	),
	Defaults: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "defaults"),
	),
	Generate: key.NewBinding(
		key.WithKeys("1", "2", "3", "4"),
		key.WithHelp("1-4", "generate 500/1k/5k/10k"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cancel generation"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy JSON"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset board"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.AddSticky, k.Connect, k.Delete, k.Group, k.Generate, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.Toggle, k.SelectOne, k.SelectAll, k.Deselect},
		{k.AddSticky, k.AddShape, k.AddText, k.Connect, k.Edit, k.Delete, k.Group, k.Ungroup},
		{k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight, k.Defaults},
		{k.Generate, k.Cancel, k.Copy, k.Reset, k.Help, k.Quit},
	}
}
