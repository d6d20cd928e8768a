package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/internal/adapters/tui/styles"
	"whiteboard/internal/application"
	"whiteboard/internal/application/commands"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/domain"
	"whiteboard/internal/persistence"
)

// NudgeStep is how far the nudge keys move the selection
const NudgeStep = 10

// headerRows is the space taken by title, subtitle, message, status and help
const headerRows = 12

// BoardModel lists the nodes of a board in document order and runs edits on
// it. It reads the board through snapshots refreshed on every change.
type BoardModel struct {
	ViewState
	board     *application.Board
	name      string
	snap      domain.Snapshot
	depth     map[string]int
	dirty     bool
	paginator *Paginator
	help      help.Model
	status    *StatusModel

	// copy writes to the system clipboard; replaced in tests
	copy func(string) error
}

// NewBoardModel creates a board view and subscribes it to changes
func NewBoardModel(board *application.Board, name string, status *StatusModel) *BoardModel {
	m := &BoardModel{
		board:     board,
		name:      name,
		paginator: NewPaginator(20),
		help:      help.New(),
		status:    status,
		dirty:     true,
		copy:      clipboard.WriteAll,
	}
	m.help.Styles.ShortKey = styles.HelpKey
	m.help.Styles.ShortDesc = styles.HelpDesc
	m.help.Styles.ShortSeparator = styles.MutedText
	board.Subscribe(func(domain.Snapshot) { m.dirty = true })
	return m
}

// Init initializes the board view
func (m *BoardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions and the page size
func (m *BoardModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.help.Width = width
	m.paginator.SetPageSize(max(height-headerRows, 5))
}

// refresh rebuilds the cached snapshot when the board changed
func (m *BoardModel) refresh() {
	if !m.dirty {
		return
	}
	m.dirty = false
	m.snap = m.board.Snapshot()
	m.depth = make(map[string]int, len(m.snap.Nodes))
	for _, n := range m.snap.Nodes {
		if n.ParentID != "" {
			m.depth[n.ID] = m.depth[n.ParentID] + 1
		}
	}
	m.paginator.SetTotal(len(m.snap.Nodes))
}

// Cursor returns the node under the cursor
func (m *BoardModel) Cursor() (domain.Node, bool) {
	m.refresh()
	i := m.paginator.Cursor()
	if i < 0 || i >= len(m.snap.Nodes) {
		return domain.Node{}, false
	}
	return m.snap.Nodes[i], true
}

// Update handles messages for the board view
func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.refresh()
	switch msg := msg.(type) {
	case ResultMsg:
		m.SetResult(msg.Message, msg.Err)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *BoardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	cur, hasCur := m.Cursor()

	switch {
	case key.Matches(msg, BoardKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BoardKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(msg, BoardKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(msg, BoardKeys.PrevPage):
		m.paginator.PrevPage()
	case key.Matches(msg, BoardKeys.NextPage):
		m.paginator.NextPage()

	case key.Matches(msg, BoardKeys.Toggle):
		if hasCur {
			if cur.Selected {
				m.board.PatchNodes(application.MatchIDs(cur.ID), application.NodePatch{Selected: application.Ptr(false)})
			} else {
				m.board.Select([]string{cur.ID}, true)
			}
		}
	case key.Matches(msg, BoardKeys.SelectOne):
		if hasCur {
			m.board.Select([]string{cur.ID}, false)
		}
	case key.Matches(msg, BoardKeys.SelectAll):
		n, _ := m.board.PatchNodes(application.MatchAll(), application.NodePatch{Selected: application.Ptr(true)})
		m.SetMessage(fmt.Sprintf("Selected %d node(s)", n), false)
	case key.Matches(msg, BoardKeys.Deselect):
		m.board.ClearSelection()

	case key.Matches(msg, BoardKeys.AddSticky):
		m.addNode(domain.KindSticky)
	case key.Matches(msg, BoardKeys.AddShape):
		m.addNode(domain.KindShape)
	case key.Matches(msg, BoardKeys.AddText):
		m.addNode(domain.KindText)

	case key.Matches(msg, BoardKeys.Connect):
		return m.connect(cur, hasCur)
	case key.Matches(msg, BoardKeys.Edit):
		if hasCur {
			return m.editText(cur)
		}
	case key.Matches(msg, BoardKeys.Delete):
		result, err := commands.NewDeleteCommand(m.board).Execute(context.Background())
		m.setCommandResult(result, err)
	case key.Matches(msg, BoardKeys.Group):
		result, err := commands.NewGroupCommand(m.board).Execute(context.Background())
		m.setCommandResult(result, err)
	case key.Matches(msg, BoardKeys.Ungroup):
		if hasCur {
			result, err := commands.NewUngroupCommand(m.board, cur.ID).Execute(context.Background())
			m.setCommandResult(result, err)
		}

	case key.Matches(msg, BoardKeys.MoveUp):
		m.nudge(0, -NudgeStep)
	case key.Matches(msg, BoardKeys.MoveDown):
		m.nudge(0, NudgeStep)
	case key.Matches(msg, BoardKeys.MoveLeft):
		m.nudge(-NudgeStep, 0)
	case key.Matches(msg, BoardKeys.MoveRight):
		m.nudge(NudgeStep, 0)

	case key.Matches(msg, BoardKeys.Defaults):
		return m.defaultsForm()
	case key.Matches(msg, BoardKeys.Generate):
		i, _ := strconv.Atoi(msg.String())
		count := generator.Presets[i-1]
		return func() tea.Msg { return GenerateMsg{Count: count, Reset: true} }
	case key.Matches(msg, BoardKeys.Cancel):
		return func() tea.Msg { return CancelGenerationMsg{} }
	case key.Matches(msg, BoardKeys.Copy):
		m.copyJSON()
	case key.Matches(msg, BoardKeys.Reset):
		return m.confirmReset()
	case key.Matches(msg, BoardKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return nil
}

func (m *BoardModel) setCommandResult(result any, err error) {
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	switch r := result.(type) {
	case *commands.DeleteResult:
		m.SetMessage(r.Message, false)
	case *commands.GroupResult:
		m.SetMessage(r.Message, false)
	case *commands.UngroupResult:
		m.SetMessage(r.Message, false)
	case *commands.PatchResult:
		m.SetMessage(r.Message, false)
	case *commands.AddNodeResult:
		m.SetMessage(r.Message, false)
	}
}

// addNode places a node below the cursor node, or at the origin
func (m *BoardModel) addNode(kind domain.NodeKind) {
	pos := domain.Pt(0, 0)
	if cur, ok := m.Cursor(); ok {
		abs, _ := m.board.AbsolutePosition(cur.ID)
		pos = abs.Add(domain.Pt(0, cur.Size.Height+24))
	}
	result, err := commands.NewAddNodeCommand(m.board, string(kind), pos.X, pos.Y).Execute(context.Background())
	m.setCommandResult(result, err)
	if err == nil {
		m.refresh()
		m.paginator.SetCursor(len(m.snap.Nodes) - 1)
	}
}

func (m *BoardModel) nudge(dx, dy float64) {
	ids := m.board.Snapshot().Selected()
	if len(ids) == 0 {
		if cur, ok := m.Cursor(); ok {
			ids = []string{cur.ID}
		}
	}
	if len(ids) == 0 {
		return
	}
	result, err := commands.NewMoveCommand(m.board, ids, dx, dy).Execute(context.Background())
	m.setCommandResult(result, err)
}

// connect links the two selected nodes in document order, or asks for the
// endpoints when the selection is not a pair.
func (m *BoardModel) connect(cur domain.Node, hasCur bool) tea.Cmd {
	selected := m.snap.Selected()
	if len(selected) == 2 {
		result, err := commands.NewConnectCommand(m.board, selected[0], selected[1]).Execute(context.Background())
		if err != nil {
			m.SetMessage(err.Error(), true)
		} else {
			m.SetMessage(result.Message, false)
		}
		return nil
	}

	source := ""
	if hasCur {
		source = cur.ID
	}
	form := NewFormModel("Connect", "connect", func(values []string) ResultMsg {
		result, err := commands.NewConnectCommand(m.board, values[0], values[1]).Execute(context.Background())
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Message: result.Message}
	},
		NewInputField("Source", "node id", source, 12),
		NewInputField("Target", "node id", "", 12),
	)
	form.form.focus(form.form.Focused + 1)
	return func() tea.Msg { return SwitchToFormMsg{Form: form} }
}

func (m *BoardModel) editText(cur domain.Node) tea.Cmd {
	id := cur.ID
	form := NewFormModel("Edit "+RenderNodeSummary(cur), "save", func(values []string) ResultMsg {
		result, err := commands.NewEditTextCommand(m.board, id, values[0]).Execute(context.Background())
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Message: result.Message}
	}, NewInputField("Text", "label", cur.Label(), 500))
	return func() tea.Msg { return SwitchToFormMsg{Form: form} }
}

func (m *BoardModel) defaultsForm() tea.Cmd {
	shape, edge := m.board.ShapeDefaults(), m.board.EdgeDefaults()
	form := NewFormModel("Style defaults", "apply", func(values []string) ResultMsg {
		cmd, err := parseDefaults(m.board, values)
		if err != nil {
			return ResultMsg{Err: err}
		}
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Message: result.Message}
	},
		NewInputField("Shape", "rectangle", string(shape.Shape), 12).
			WithChoices(string(domain.ShapeRectangle), string(domain.ShapeCircle), string(domain.ShapeDiamond)),
		NewInputField("Fill", "#rrggbb", shape.Fill, 7),
		NewInputField("Stroke", "#rrggbb", shape.Stroke, 7),
		NewInputField("Stroke width", "1-8", strconv.FormatFloat(shape.StrokeWidth, 'g', -1, 64), 4),
		NewInputField("Routing", "straight", string(edge.Routing), 12).
			WithChoices(string(domain.RoutingStraight), string(domain.RoutingStep), string(domain.RoutingCurved)),
		NewInputField("Dashed", "no", yesNo(edge.Dashed), 3).WithChoices("yes", "no"),
		NewInputField("Arrow", "yes", yesNo(edge.Arrowed), 3).WithChoices("yes", "no"),
	)
	return func() tea.Msg { return SwitchToFormMsg{Form: form} }
}

// parseDefaults turns the defaults form into a command
func parseDefaults(board *application.Board, values []string) (*commands.SetDefaultsCommand, error) {
	cmd := commands.NewSetDefaultsCommand(board)

	kind, err := domain.ParseShapeKind(values[0])
	if err != nil {
		return nil, err
	}
	width, err := strconv.ParseFloat(values[3], 64)
	if err != nil {
		return nil, &application.ValidationError{Field: "StrokeWidth", Message: "stroke width must be a number"}
	}
	routing, err := domain.ParseRoutingType(values[4])
	if err != nil {
		return nil, err
	}
	dashed, err := parseYesNo("dashed", values[5])
	if err != nil {
		return nil, err
	}
	arrow, err := parseYesNo("arrow", values[6])
	if err != nil {
		return nil, err
	}

	cmd.Shape = application.ShapeStylePatch{
		Shape:       &kind,
		Fill:        application.Ptr(values[1]),
		Stroke:      application.Ptr(values[2]),
		StrokeWidth: &width,
	}
	cmd.Edge = application.EdgeStylePatch{Routing: &routing, Dashed: &dashed, Arrowed: &arrow}
	return cmd, nil
}

func (m *BoardModel) copyJSON() {
	data, err := persistence.EncodeSnapshot(m.board.Snapshot())
	if err == nil {
		err = m.copy(string(data))
	}
	if err != nil {
		m.SetMessage("copy failed: "+err.Error(), true)
		return
	}
	m.SetMessage(fmt.Sprintf("Copied %d node(s) as JSON (%d bytes)", m.board.NodeCount(), len(data)), false)
}

func (m *BoardModel) confirmReset() tea.Cmd {
	detail := fmt.Sprintf("%d node(s) and %d edge(s) will be removed.", m.board.NodeCount(), m.board.EdgeCount())
	confirm := NewConfirmationModel("Reset the board?", detail, func() tea.Msg {
		result, err := commands.NewResetCommand(m.board).Execute(context.Background())
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Message: result.Message}
	})
	return func() tea.Msg { return SwitchToConfirmMsg{Confirm: confirm} }
}

// View renders the board
func (m *BoardModel) View() string {
	m.refresh()

	v := NewViewBuilder().Title("Whiteboard")
	v.Subtitle(fmt.Sprintf("%s • %d nodes • %d edges • %d selected",
		m.name, len(m.snap.Nodes), len(m.snap.Edges), len(m.snap.Selected())))

	if len(m.snap.Nodes) == 0 {
		v.Muted("Empty board. Press n, s or t to add a node, 1-4 to generate one.")
	}
	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderNode(m.snap.Nodes[i], i == m.paginator.Cursor()))
	}
	if pages := m.paginator.View(); pages != "" {
		v.BlankLine().Line(pages)
	}

	v.BlankLine()
	if m.Message != "" {
		v.Line(RenderMessage(m.Message, m.MessageErr))
	}
	if status := m.status.View(); status != "" {
		v.Line(status)
	}
	v.Line(styles.MutedText.Render(RenderDefaults(m.board.ShapeDefaults(), m.board.EdgeDefaults())))
	return v.Raw(m.help.View(BoardKeys)).String()
}

func (m *BoardModel) renderNode(n domain.Node, atCursor bool) string {
	var b strings.Builder

	mark := styles.Unchecked
	if n.Selected {
		mark = styles.NodeChecked.Render(styles.Checked)
	}
	b.WriteString(mark)
	b.WriteString(strings.Repeat("  ", m.depth[n.ID]))
	if n.ParentID != "" {
		b.WriteString(styles.TreeBranch.Render(styles.TreeChild))
	}

	text := RenderNodeSummary(n)
	if atCursor {
		kind := string(n.Kind())
		text = styles.NodeCursor.Render(kind + " " + n.ID + " " + n.Label())
	}
	b.WriteString(text)
	b.WriteString(" ")
	b.WriteString(styles.NodePosition.Render(fmt.Sprintf("(%g, %g) %gx%g",
		n.Position.X, n.Position.Y, n.Size.Width, n.Size.Height)))
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func parseYesNo(field, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "on":
		return true, nil
	case "n", "no", "false", "off", "":
		return false, nil
	}
	return false, &application.ValidationError{Field: field, Message: fmt.Sprintf("%s must be yes or no", field)}
}
