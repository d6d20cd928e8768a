package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/domain"
)

type countingHooks struct {
	nodesAdded, nodesRemoved, edgesAdded, edgesRemoved int
}

func (h *countingHooks) OnNodesAdded(_ NodeKind, n int) { h.nodesAdded += n }
func (h *countingHooks) OnNodesRemoved(n int)           { h.nodesRemoved += n }
func (h *countingHooks) OnEdgesAdded(n int)             { h.edgesAdded += n }
func (h *countingHooks) OnEdgesRemoved(n int)           { h.edgesRemoved += n }

func absOf(t *testing.T, b *Board, id string) domain.Point {
	t.Helper()
	p, ok := b.AbsolutePosition(id)
	require.True(t, ok, "node %s", id)
	return p
}

func TestBoardScenario(t *testing.T) {
	b := NewBoard()

	n1 := b.AddSticky(domain.Pt(0, 0))
	assert.Equal(t, "1", n1.ID)
	assert.Equal(t, domain.KindSticky, n1.Kind())

	n2 := b.AddShape(domain.Pt(10, 10))
	assert.Equal(t, "2", n2.ID)
	shape, ok := n2.Data.(domain.ShapeData)
	require.True(t, ok)
	assert.Equal(t, domain.ShapeData(b.ShapeDefaults()), shape)

	e, err := b.Connect("1", "2")
	require.NoError(t, err)
	assert.Equal(t, "e1-2", e.ID)
	assert.Equal(t, 1, b.EdgeCount())

	_, err = b.Select([]string{"1"}, false)
	require.NoError(t, err)

	removed := b.DeleteSelected()
	assert.Equal(t, domain.NewIDSet("1"), removed)
	assert.False(t, b.HasNode("1"))
	assert.True(t, b.HasNode("2"))
	assert.Equal(t, 0, b.EdgeCount())
}

func TestBoardIDsAreMonotonic(t *testing.T) {
	b := NewBoard()
	var last uint64
	for i := range 20 {
		var n domain.Node
		switch i % 4 {
		case 0:
			n = b.AddSticky(domain.Pt(0, 0))
		case 1:
			n = b.AddShape(domain.Pt(0, 0))
		case 2:
			n = b.AddText(domain.Pt(0, 0))
		case 3:
			n = b.AddGroup(domain.Pt(0, 0))
		}
		v, ok := domain.ParseID(n.ID)
		require.True(t, ok)
		assert.Greater(t, v, last)
		last = v

		if i%5 == 4 {
			_, err := b.Select([]string{n.ID}, false)
			require.NoError(t, err)
			b.DeleteSelected()
		}
	}
	b.Reset()
	n := b.AddSticky(domain.Pt(0, 0))
	v, _ := domain.ParseID(n.ID)
	assert.Greater(t, v, last)
}

func TestBoardAddNodeDefaults(t *testing.T) {
	tests := []struct {
		kind     domain.NodeKind
		wantSize domain.Size
		wantText string
	}{
		{domain.KindSticky, domain.StickySize, "Node 1"},
		{domain.KindText, domain.TextSize, "Text 1"},
		{domain.KindShape, domain.RectangleSize, ""},
		{domain.KindGroup, domain.GroupSize, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			b := NewBoard()
			n, err := b.AddNode(tt.kind, domain.Point{X: 3.3, Y: -1})
			require.NoError(t, err)
			assert.Equal(t, tt.kind, n.Kind())
			assert.Equal(t, tt.wantSize, n.Size)
			assert.Equal(t, domain.Pt(3.3, -1), n.Position)
			text, _ := n.Text()
			assert.Equal(t, tt.wantText, text)
		})
	}

	_, err := NewBoard().AddNode("cloud", domain.Pt(0, 0))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestBoardConnect(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(0, 0))
	b.AddSticky(domain.Pt(0, 0))

	_, err := b.Connect("1", "9")
	require.ErrorIs(t, err, ErrUnknownEndpoint)
	var endpointErr *EndpointError
	require.ErrorAs(t, err, &endpointErr)
	assert.Equal(t, "9", endpointErr.Missing)
	assert.Equal(t, 0, b.EdgeCount())

	loop, err := b.Connect("1", "1")
	require.NoError(t, err)
	assert.Equal(t, "e1-1", loop.ID)

	first, err := b.Connect("1", "2")
	require.NoError(t, err)
	second, err := b.Connect("1", "2")
	require.NoError(t, err)
	assert.Equal(t, "e1-2", first.ID)
	assert.Equal(t, "e1-2-1", second.ID)

	_, err = b.SetEdgeDefaults(EdgeStylePatch{Dashed: Ptr(true), Label: Ptr("flows")})
	require.NoError(t, err)
	third, err := b.Connect("2", "1")
	require.NoError(t, err)
	assert.True(t, third.Style.Dashed)
	assert.Equal(t, "flows", third.Style.Label)

	// earlier edges keep the style they were created with
	stored, ok := b.graph.Edge(first.ID)
	require.True(t, ok)
	assert.False(t, stored.Style.Dashed)
}

func TestBoardDeleteSelectedEmptyIsNoop(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(0, 0))

	removed := b.DeleteSelected()
	assert.Empty(t, removed)
	assert.Equal(t, 1, b.NodeCount())
}

func TestBoardDeleteLeavesNoDanglingEdges(t *testing.T) {
	b := NewBoard()
	for range 6 {
		b.AddSticky(domain.Pt(0, 0))
	}
	pairs := [][2]string{{"1", "2"}, {"2", "3"}, {"3", "4"}, {"4", "5"}, {"5", "6"}, {"6", "1"}, {"3", "3"}}
	for _, p := range pairs {
		_, err := b.Connect(p[0], p[1])
		require.NoError(t, err)
	}

	_, err := b.Select([]string{"3", "5"}, false)
	require.NoError(t, err)
	b.DeleteSelected()

	snap := b.Snapshot()
	live := domain.NewIDSet()
	for _, n := range snap.Nodes {
		live.Add(n.ID)
	}
	for _, e := range snap.Edges {
		assert.True(t, live.Has(e.SourceID), e.ID)
		assert.True(t, live.Has(e.TargetID), e.ID)
	}
	assert.Len(t, snap.Edges, 2)
}

// buildNested creates frame 1 at (100,100) holding sticky 2 at (10,20) and
// frame 3 at (200,0) holding sticky 4 at (5,5).
func buildNested(t *testing.T, b *Board) {
	t.Helper()
	b.AddGroup(domain.Pt(100, 100))
	b.AddSticky(domain.Pt(0, 0))
	b.AddGroup(domain.Pt(0, 0))
	b.AddSticky(domain.Pt(0, 0))

	restore := b.State()
	restore.Nodes[1].ParentID, restore.Nodes[1].Position = "1", domain.Pt(10, 20)
	restore.Nodes[2].ParentID, restore.Nodes[2].Position = "1", domain.Pt(200, 0)
	restore.Nodes[3].ParentID, restore.Nodes[3].Position = "3", domain.Pt(5, 5)
	require.NoError(t, b.Restore(restore))
}

func TestBoardDeleteGroupOrphanPolicy(t *testing.T) {
	t.Run("promote keeps absolute positions", func(t *testing.T) {
		b := NewBoard()
		buildNested(t, b)
		before2, before4 := absOf(t, b, "2"), absOf(t, b, "4")

		_, err := b.Select([]string{"1"}, false)
		require.NoError(t, err)
		removed := b.DeleteSelected()

		assert.Equal(t, domain.NewIDSet("1"), removed)
		assert.Equal(t, 3, b.NodeCount())
		n2, _ := b.Node("2")
		n3, _ := b.Node("3")
		n4, _ := b.Node("4")
		assert.Empty(t, n2.ParentID)
		assert.Empty(t, n3.ParentID)
		assert.Equal(t, "3", n4.ParentID)
		assert.Equal(t, before2, absOf(t, b, "2"))
		assert.Equal(t, before4, absOf(t, b, "4"))
		assert.NoError(t, b.State().Validate())
	})

	t.Run("promote to surviving ancestor", func(t *testing.T) {
		b := NewBoard()
		buildNested(t, b)
		before4 := absOf(t, b, "4")

		_, err := b.Select([]string{"3"}, false)
		require.NoError(t, err)
		b.DeleteSelected()

		n4, _ := b.Node("4")
		assert.Equal(t, "1", n4.ParentID)
		assert.Equal(t, before4, absOf(t, b, "4"))
	})

	t.Run("cascade removes subtree", func(t *testing.T) {
		b := NewBoard(WithOrphanPolicy(OrphanCascade))
		buildNested(t, b)
		_, err := b.Connect("4", "2")
		require.NoError(t, err)

		_, err = b.Select([]string{"3"}, false)
		require.NoError(t, err)
		removed := b.DeleteSelected()

		assert.Equal(t, []string{"3", "4"}, removed.Sorted())
		assert.Equal(t, 2, b.NodeCount())
		assert.Equal(t, 0, b.EdgeCount())
	})
}

func TestBoardGroupSelectionIntoFrame(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(0.3, 10.7))
	b.AddShape(domain.Pt(400.1, -80.9))
	b.AddText(domain.Pt(-12.5, 300))
	b.AddSticky(domain.Pt(2000, 2000))

	_, err := b.Select([]string{"1", "2", "3"}, false)
	require.NoError(t, err)
	before := map[string]domain.Point{}
	for _, id := range []string{"1", "2", "3"} {
		before[id] = absOf(t, b, id)
	}

	frame, err := b.GroupSelectionIntoFrame()
	require.NoError(t, err)
	require.NotNil(t, frame)

	assert.Equal(t, "5", frame.ID)
	assert.True(t, frame.IsGroup())
	assert.Equal(t, domain.Pt(-12.5-GroupPadding, -80.9-GroupPadding), frame.Position)

	for id, want := range before {
		n, _ := b.Node(id)
		assert.Equal(t, frame.ID, n.ParentID)
		assert.False(t, n.Selected)
		assert.Equal(t, want, frame.Position.Add(n.Position), id)
		assert.Equal(t, want, absOf(t, b, id), id)
	}
	outsider, _ := b.Node("4")
	assert.Empty(t, outsider.ParentID)

	nodes := b.Snapshot().Nodes
	assert.Equal(t, "5", nodes[0].ID, "frame precedes its children")
	assert.Equal(t, []string{"5"}, b.graph.Selected())
	assert.NoError(t, b.State().Validate())

	r, ok := b.Snapshot().Bounds()
	require.True(t, ok)
	assert.Equal(t, domain.Pt(2180, 2120), r.Max)
}

func TestBoardGroupNestedSelection(t *testing.T) {
	b := NewBoard()
	buildNested(t, b)
	before := map[string]domain.Point{"2": absOf(t, b, "2"), "3": absOf(t, b, "3"), "4": absOf(t, b, "4")}

	_, err := b.Select([]string{"2", "3", "4"}, false)
	require.NoError(t, err)
	frame, err := b.GroupSelectionIntoFrame()
	require.NoError(t, err)
	require.NotNil(t, frame)

	assert.Equal(t, "1", frame.ParentID, "shared parent keeps the frame inside it")
	n2, _ := b.Node("2")
	n3, _ := b.Node("3")
	n4, _ := b.Node("4")
	assert.Equal(t, frame.ID, n2.ParentID)
	assert.Equal(t, frame.ID, n3.ParentID)
	assert.Equal(t, "3", n4.ParentID, "descendant of a selected node keeps its parent")
	for id, want := range before {
		assert.Equal(t, want, absOf(t, b, id), id)
	}
	assert.NoError(t, b.State().Validate())
}

func TestBoardGroupEmptySelection(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(0, 0))

	frame, err := b.GroupSelectionIntoFrame()
	assert.NoError(t, err)
	assert.Nil(t, frame)
	assert.Equal(t, 1, b.NodeCount())
}

func TestBoardGroupFailureKeepsIDs(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(-domain.MaxCoordinate, 0))
	b.AddSticky(domain.Pt(domain.MaxCoordinate-100, 0))
	_, err := b.Select([]string{"1", "2"}, false)
	require.NoError(t, err)

	// the padded frame would be wider than the canvas allows
	frame, err := b.GroupSelectionIntoFrame()
	require.ErrorIs(t, err, domain.ErrInvalidNode)
	assert.Nil(t, frame)
	assert.Equal(t, 2, b.NodeCount())
	assert.Equal(t, []string{"1", "2"}, b.Snapshot().Selected())

	assert.Equal(t, "3", b.AddSticky(domain.Pt(0, 0)).ID)
}

func TestBoardUngroup(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(10, 10))
	b.AddSticky(domain.Pt(300, 40))
	_, err := b.Select([]string{"1", "2"}, false)
	require.NoError(t, err)
	frame, err := b.GroupSelectionIntoFrame()
	require.NoError(t, err)

	children, err := b.Ungroup(frame.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, children)
	assert.False(t, b.HasNode(frame.ID))
	assert.Equal(t, domain.Pt(10, 10), absOf(t, b, "1"))
	n1, _ := b.Node("1")
	assert.Equal(t, domain.Pt(10, 10), n1.Position)

	_, err = b.Ungroup("1")
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	_, err = b.Ungroup("99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoardPatchNodes(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(0, 0))
	b.AddShape(domain.Pt(0, 0))
	b.AddText(domain.Pt(0, 0))

	n, err := b.PatchNodes(MatchAll(), NodePatch{Translate: &domain.Point{X: 5, Y: -5}})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, node := range b.Snapshot().Nodes {
		assert.Equal(t, domain.Pt(5, -5), node.Position)
	}

	_, err = b.PatchNodes(MatchAll(), NodePatch{Text: Ptr("hello")})
	require.ErrorIs(t, err, ErrNotApplicable)
	n1, _ := b.Node("1")
	text, _ := n1.Text()
	assert.Equal(t, "Node 1", text, "failed patch leaves every node unchanged")

	n, err = b.PatchNodes(MatchIDs("1", "3"), NodePatch{Text: Ptr("hello"), Size: &domain.Size{Width: 50, Height: 50}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n3, _ := b.Node("3")
	text, _ = n3.Text()
	assert.Equal(t, "hello", text)
	assert.Equal(t, domain.Size{Width: 50, Height: 50}, n3.Size)

	_, err = b.PatchNodes(MatchKind(domain.KindShape), NodePatch{Shape: &ShapeStylePatch{Fill: Ptr("red")}})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	_, err = b.PatchNodes(MatchKind(domain.KindShape), NodePatch{Shape: &ShapeStylePatch{Fill: Ptr("#ff0000")}})
	require.NoError(t, err)
	n2, _ := b.Node("2")
	assert.Equal(t, "#ff0000", n2.Data.(domain.ShapeData).Fill)

	_, err = b.PatchNodes(MatchIDs("1"), NodePatch{Size: &domain.Size{Width: 0, Height: 10}})
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestBoardPatchEdges(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(0, 0))
	b.AddSticky(domain.Pt(0, 0))
	_, err := b.Connect("1", "2")
	require.NoError(t, err)
	_, err = b.Connect("2", "1")
	require.NoError(t, err)

	n, err := b.PatchEdges(MatchEdgeIDs("e1-2"), EdgeStylePatch{Routing: Ptr(domain.RoutingStep)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = b.PatchEdges(MatchEdgesOf("1"), EdgeStylePatch{Routing: Ptr(domain.RoutingType("zigzag"))})
	assert.Error(t, err)
	e, _ := b.graph.Edge("e1-2")
	assert.Equal(t, domain.RoutingStep, e.Style.Routing)

	assert.Equal(t, 1, b.RemoveEdges("e2-1", "missing"))
	assert.Equal(t, 1, b.EdgeCount())
}

func TestBoardSelect(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(0, 0))
	b.AddSticky(domain.Pt(0, 0))
	b.AddSticky(domain.Pt(0, 0))

	_, err := b.Select([]string{"1"}, false)
	require.NoError(t, err)
	_, err = b.Select([]string{"2"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, b.graph.Selected())

	_, err = b.Select([]string{"3", "nope"}, false)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"1", "2"}, b.graph.Selected())

	assert.Equal(t, 2, b.ClearSelection())
	assert.Empty(t, b.graph.Selected())
}

func TestBoardDefaultsDoNotRestyle(t *testing.T) {
	b := NewBoard()
	first := b.AddShape(domain.Pt(0, 0))

	_, err := b.SetShapeDefaults(ShapeStylePatch{Shape: Ptr(domain.ShapeDiamond), Fill: Ptr("#000000")})
	require.NoError(t, err)
	second := b.AddShape(domain.Pt(0, 0))

	stored, _ := b.Node(first.ID)
	assert.Equal(t, domain.ShapeRectangle, stored.Data.(domain.ShapeData).Shape)
	assert.Equal(t, domain.ShapeDiamond, second.Data.(domain.ShapeData).Shape)
	assert.Equal(t, domain.RoundSize, second.Size)

	_, err = b.SetShapeDefaults(ShapeStylePatch{StrokeWidth: Ptr(0.0)})
	assert.Error(t, err)
	assert.Equal(t, 2.0, b.ShapeDefaults().StrokeWidth)

	ui := b.SetUIPreferences(UIPatch{AllowNonUniformResize: Ptr(true)})
	assert.True(t, ui.ShowResizeHandles)
	assert.True(t, ui.AllowNonUniformResize)
}

func TestBoardRestoreRejectsInvalidState(t *testing.T) {
	b := NewBoard()
	b.AddSticky(domain.Pt(0, 0))

	bad := domain.EmptyState()
	bad.Nodes = []domain.Node{{ID: "7", Size: domain.StickySize, Data: domain.StickyData{}}}
	bad.NextID = 3
	assert.ErrorIs(t, b.Restore(bad), domain.ErrCounterBehind)

	bad.NextID = 8
	bad.Edges = []domain.Edge{{ID: "e7-9", SourceID: "7", TargetID: "9"}}
	assert.ErrorIs(t, b.Restore(bad), domain.ErrDanglingEdge)

	assert.Equal(t, 1, b.NodeCount())
	assert.Equal(t, uint64(2), b.NextID())
}

func TestBoardSubscribeAndHooks(t *testing.T) {
	hooks := &countingHooks{}
	b := NewBoard(WithHooks(hooks))

	var snaps []domain.Snapshot
	unsubscribe := b.Subscribe(func(s domain.Snapshot) { snaps = append(snaps, s) })

	b.AddSticky(domain.Pt(0, 0))
	b.AddSticky(domain.Pt(0, 0))
	_, err := b.Connect("1", "2")
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Len(t, snaps[2].Edges, 1)

	unsubscribe()
	b.Reset()
	assert.Len(t, snaps, 3)

	assert.Equal(t, 2, hooks.nodesAdded)
	assert.Equal(t, 1, hooks.edgesAdded)
	assert.Equal(t, 2, hooks.nodesRemoved)
	assert.Equal(t, 1, hooks.edgesRemoved)
}
