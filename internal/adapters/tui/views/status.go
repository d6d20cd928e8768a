package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/internal/adapters/tui/styles"
	"whiteboard/internal/application/generator"
)

// StatusModel shows generation progress under the node list
type StatusModel struct {
	progress progress.Model
	spinner  spinner.Model
	current  generator.Progress
	last     string
}

// NewStatusModel creates an idle status line
func NewStatusModel() *StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.HelpKey
	return &StatusModel{
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spinner:  s,
	}
}

// Running reports whether a run is in progress
func (m *StatusModel) Running() bool { return m.current.Running }

// Last returns the latest progress seen while running
func (m *StatusModel) Last() generator.Progress { return m.current }

// SetProgress records a progress report. The spinner starts ticking when a
// run begins.
func (m *StatusModel) SetProgress(p generator.Progress) tea.Cmd {
	wasRunning := m.current.Running
	m.current = p
	if p.Running && !wasRunning {
		m.last = ""
		return m.spinner.Tick
	}
	return nil
}

// Finish records how the last run ended
func (m *StatusModel) Finish(state generator.State, done, total int) {
	m.current = generator.Progress{}
	m.last = fmt.Sprintf("generation %s: %d/%d nodes", state, done, total)
}

// Update advances the spinner while a run is in progress
func (m *StatusModel) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); ok && m.current.Running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

// View renders the progress bar, or the outcome of the last run
func (m *StatusModel) View() string {
	if !m.current.Running {
		if m.last == "" {
			return ""
		}
		return styles.StatusText.Render(m.last)
	}
	return fmt.Sprintf("%s %s %s",
		m.spinner.View(),
		m.progress.ViewAs(m.current.Fraction()),
		styles.StatusText.Render(fmt.Sprintf("%d/%d", m.current.Done, m.current.Total)),
	)
}
