package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Node kind colors
	KindSticky = lipgloss.Color("#FACC15") // Yellow
	KindShape  = lipgloss.Color("#60A5FA") // Blue
	KindText   = lipgloss.Color("#E5E7EB") // Light gray
	KindGroup  = lipgloss.Color("#A78BFA") // Violet

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Node list styles
	NodeRow = lipgloss.NewStyle()

	NodeCursor = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	NodeChecked = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	NodeID = lipgloss.NewStyle().
		Foreground(Muted).
		Width(6).
		Align(lipgloss.Right)

	NodePosition = lipgloss.NewStyle().
			Foreground(Muted)

	// Tree indicators
	TreeBranch = lipgloss.NewStyle().Foreground(Muted)
	TreeChild  = "└ "
	Checked    = "● "
	Unchecked  = "○ "

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Padding(0, 1).
			MarginRight(1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// KindColor returns the color for a node kind name
func KindColor(kind string) lipgloss.Color {
	switch kind {
	case "sticky":
		return KindSticky
	case "shape":
		return KindShape
	case "text":
		return KindText
	case "group":
		return KindGroup
	default:
		return Primary
	}
}

// Kind returns the badge style for a node kind
func Kind(kind string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(KindColor(kind)).
		Width(7)
}
