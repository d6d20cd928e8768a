package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/internal/adapters/tui/views"
	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/workspace"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewForm
	ViewConfirm
	ViewHelp
)

// App is the main TUI application model
type App struct {
	board     *application.Board
	generator *generator.Generator
	frames    *FrameScheduler

	state   ViewState
	main    *views.BoardModel
	status  *views.StatusModel
	help    *views.HelpModel
	form    *views.FormModel
	confirm *views.ConfirmationModel

	width  int
	height int
}

// NewApp creates a new TUI application over an opened workspace
func NewApp(ws *workspace.Workspace) *App {
	frames := NewFrameScheduler(ws.Config.Generator.FrameTime.Duration)
	status := views.NewStatusModel()
	return &App{
		board:     ws.Board,
		generator: ws.NewGenerator(frames),
		frames:    frames,
		state:     ViewBoard,
		main:      views.NewBoardModel(ws.Board, ws.Config.Board.Name, status),
		status:    status,
		help:      views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.main.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := a.update(msg)
	return a, tea.Batch(cmd, a.frames.Arm())
}

func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.main.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case frameMsg:
		a.frames.RunFrame()
		return a, a.syncProgress()

	case views.GenerateMsg:
		return a, a.startGeneration(msg)

	case views.CancelGenerationMsg:
		if a.generator.State() != generator.Running {
			return a.main.Update(views.ResultMsg{Message: "No generation running"})
		}
		a.generator.Cancel()
		return a, nil

	// View switching messages
	case views.SwitchToFormMsg:
		a.state = ViewForm
		a.form = msg.Form
		return a, a.form.Init()

	case views.SwitchToConfirmMsg:
		a.state = ViewConfirm
		a.confirm = msg.Confirm
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBoardMsg:
		a.state = ViewBoard
		a.form, a.confirm = nil, nil
		return a, nil

	case views.ResultMsg:
		a.state = ViewBoard
		a.form, a.confirm = nil, nil
		return a.main.Update(msg)
	}

	if cmd := a.status.Update(msg); cmd != nil {
		return a, cmd
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBoard:
		_, cmd = a.main.Update(msg)
	case ViewForm:
		_, cmd = a.form.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}
	return a, cmd
}

// startGeneration resets the board when asked and starts a run. The first
// chunk lands on the next frame.
func (a *App) startGeneration(msg views.GenerateMsg) tea.Cmd {
	if a.generator.State() == generator.Running {
		_, cmd := a.main.Update(views.ResultMsg{Err: generator.ErrAlreadyRunning})
		return cmd
	}
	if msg.Reset {
		a.board.Reset()
	}
	if err := a.generator.Start(msg.Count); err != nil {
		_, cmd := a.main.Update(views.ResultMsg{Err: err})
		return cmd
	}
	return a.status.SetProgress(a.generator.Progress())
}

// syncProgress copies the generator state into the status line
func (a *App) syncProgress() tea.Cmd {
	p := a.generator.Progress()
	switch a.generator.State() {
	case generator.Running:
		return a.status.SetProgress(p)
	case generator.Completed:
		if a.status.Running() {
			a.status.Finish(generator.Completed, p.Done, p.Total)
		}
	case generator.Cancelled:
		if a.status.Running() {
			last := a.status.Last()
			a.status.Finish(generator.Cancelled, last.Done, last.Total)
			if err := a.generator.Err(); err != nil {
				a.main.Update(views.ResultMsg{Err: err})
			}
		}
	}
	return nil
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewForm:
		return a.form.View()
	case ViewConfirm:
		return a.confirm.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.main.View()
	}
}
