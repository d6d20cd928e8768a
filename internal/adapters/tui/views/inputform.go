package views

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/internal/adapters/tui/styles"
)

type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
	Cycle  key.Binding
}

var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Cycle:  key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "cycle option")),
}

// InputField is one labelled text input. Fields with choices only accept
// one of them and are cycled with the arrow keys.
type InputField struct {
	Label   string
	Input   textinput.Model
	Choices []string
}

// NewInputField creates a field with a placeholder and initial value
func NewInputField(label, placeholder, value string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	input.SetValue(value)
	return InputField{Label: label, Input: input}
}

// WithChoices restricts the field to choices
func (f InputField) WithChoices(choices ...string) InputField {
	f.Choices = choices
	return f
}

func (f *InputField) cycle(step int) {
	if len(f.Choices) == 0 {
		return
	}
	i := slices.Index(f.Choices, strings.TrimSpace(f.Input.Value()))
	i = (i + step + len(f.Choices)) % len(f.Choices)
	f.Input.SetValue(f.Choices[i])
	f.Input.CursorEnd()
}

// InputForm moves focus between fields and collects their values
type InputForm struct {
	Fields  []InputField
	Focused int
	Keys    InputFormKeyMap
}

func NewInputForm(fields ...InputField) *InputForm {
	f := &InputForm{Fields: fields, Keys: DefaultInputFormKeys}
	if len(fields) > 0 {
		f.Fields[0].Input.Focus()
	}
	return f
}

func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes navigation keys and forwards the rest to the focused input.
// It reports whether the message was consumed by navigation.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if len(f.Fields) == 0 {
		return false, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, f.Keys.Next):
			f.focus(f.Focused + 1)
			return true, nil
		case key.Matches(keyMsg, f.Keys.Prev):
			f.focus(f.Focused - 1)
			return true, nil
		case key.Matches(keyMsg, f.Keys.Cycle) && len(f.Fields[f.Focused].Choices) > 0:
			step := 1
			if keyMsg.String() == "up" {
				step = -1
			}
			f.Fields[f.Focused].cycle(step)
			return true, nil
		}
	}

	var cmd tea.Cmd
	f.Fields[f.Focused].Input, cmd = f.Fields[f.Focused].Input.Update(msg)
	return false, cmd
}

func (f *InputForm) focus(i int) {
	n := len(f.Fields)
	if n <= 1 {
		return
	}
	f.Fields[f.Focused].Input.Blur()
	f.Focused = (i + n) % n
	f.Fields[f.Focused].Input.Focus()
}

// Value returns the trimmed value of field i
func (f *InputForm) Value(i int) string {
	if i < 0 || i >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[i].Input.Value())
}

func (f *InputForm) Values() []string {
	out := make([]string, len(f.Fields))
	for i := range f.Fields {
		out[i] = f.Value(i)
	}
	return out
}

func (f *InputForm) RenderField(i int) string {
	if i < 0 || i >= len(f.Fields) {
		return ""
	}
	field := f.Fields[i]
	label := field.Label
	if len(field.Choices) > 0 {
		label += " (" + strings.Join(field.Choices, "/") + ")"
	}

	style := styles.InputField
	if i == f.Focused {
		style = styles.InputFocused
	}
	return styles.InputLabel.Render(label) + "\n" + style.Render(field.Input.View())
}

// RenderHelp lists the bindings that apply to the focused field
func (f *InputForm) RenderHelp(submitText string) string {
	bindings := []key.Binding{}
	if len(f.Fields) > 1 {
		bindings = append(bindings, f.Keys.Next)
	}
	if len(f.Fields) > 0 && len(f.Fields[f.Focused].Choices) > 0 {
		bindings = append(bindings, f.Keys.Cycle)
	}

	parts := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		parts = append(parts, styles.HelpKey.Render(b.Help().Key)+" "+styles.HelpDesc.Render(b.Help().Desc))
	}
	parts = append(parts,
		styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText),
		styles.HelpKey.Render("esc")+" "+styles.HelpDesc.Render("cancel"),
	)
	return strings.Join(parts, "  ")
}
