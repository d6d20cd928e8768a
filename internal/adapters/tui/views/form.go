package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// FormModel collects a few values and hands them to a submit function. The
// function runs inside Update, on the goroutine that owns the board.
type FormModel struct {
	ViewState
	Title  string
	Submit string
	form   *InputForm

	onSubmit func(values []string) ResultMsg
}

// NewFormModel creates a form over fields
func NewFormModel(title, submit string, onSubmit func([]string) ResultMsg, fields ...InputField) *FormModel {
	return &FormModel{
		Title:    title,
		Submit:   submit,
		form:     NewInputForm(fields...),
		onSubmit: onSubmit,
	}
}

// Init starts the cursor blink
func (m *FormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles input for the form. A failed submission keeps the form
// open with the error shown.
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBoardMsg{} }
		case key.Matches(keyMsg, m.form.Keys.Submit):
			result := m.onSubmit(m.form.Values())
			if result.Err != nil {
				m.SetMessage(result.Err.Error(), true)
				return m, nil
			}
			return m, func() tea.Msg { return result }
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// Values returns the current field values
func (m *FormModel) Values() []string {
	return m.form.Values()
}

// View renders the form
func (m *FormModel) View() string {
	v := NewViewBuilder().Title(m.Title).BlankLine()
	for i := range m.form.Fields {
		v.Line(m.form.RenderField(i))
	}
	v.BlankLine().Message(m.Message, m.MessageErr)
	return v.Raw(m.form.RenderHelp(m.Submit)).String()
}
