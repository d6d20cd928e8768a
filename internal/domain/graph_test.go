package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sticky(id string, x, y float64) Node {
	return Node{ID: id, Position: Pt(x, y), Size: StickySize, Data: StickyData{Text: "Note " + id}}
}

func frame(id string, x, y float64) Node {
	return Node{ID: id, Position: Pt(x, y), Size: GroupSize, Data: GroupData{}}
}

func link(src, tgt string) Edge {
	return Edge{ID: EdgeID(src, tgt, 0), SourceID: src, TargetID: tgt}
}

func TestGraphAppend(t *testing.T) {
	child := sticky("3", 10, 10)
	child.ParentID = "2"

	tests := []struct {
		name    string
		seed    []Node
		nodes   []Node
		edges   []Edge
		wantErr error
		wantN   int
		wantE   int
	}{
		{
			name:  "nodes and edges",
			nodes: []Node{sticky("1", 0, 0), sticky("2", 10, 0)},
			edges: []Edge{link("1", "2")},
			wantN: 2,
			wantE: 1,
		},
		{
			name:  "edge to existing node",
			seed:  []Node{sticky("1", 0, 0)},
			nodes: []Node{sticky("2", 0, 0)},
			edges: []Edge{link("1", "2")},
			wantN: 2,
			wantE: 1,
		},
		{
			name:  "self loop",
			nodes: []Node{sticky("1", 0, 0)},
			edges: []Edge{link("1", "1")},
			wantN: 1,
			wantE: 1,
		},
		{
			name:  "child after parent in same batch",
			nodes: []Node{sticky("1", 0, 0), frame("2", 0, 0), child},
			wantN: 3,
		},
		{
			name:    "duplicate node id in batch",
			nodes:   []Node{sticky("1", 0, 0), sticky("1", 5, 5)},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "duplicate node id with graph",
			seed:    []Node{sticky("1", 0, 0)},
			nodes:   []Node{sticky("1", 5, 5)},
			wantErr: ErrDuplicateID,
			wantN:   1,
		},
		{
			name:    "dangling edge",
			nodes:   []Node{sticky("1", 0, 0)},
			edges:   []Edge{link("1", "9")},
			wantErr: ErrDanglingEdge,
		},
		{
			name:    "child before parent",
			nodes:   []Node{child, frame("2", 0, 0)},
			wantErr: ErrInvalidParent,
		},
		{
			name: "parent is not a group",
			nodes: []Node{sticky("2", 0, 0), func() Node {
				n := sticky("3", 0, 0)
				n.ParentID = "2"
				return n
			}()},
			wantErr: ErrInvalidParent,
		},
		{
			name:    "missing payload",
			nodes:   []Node{{ID: "1", Size: StickySize}},
			wantErr: ErrInvalidNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			require.NoError(t, g.Append(tt.seed, nil))

			err := g.Append(tt.nodes, tt.edges)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantN, g.NodeCount())
			assert.Equal(t, tt.wantE, g.EdgeCount())
			assert.NoError(t, g.Validate())
		})
	}
}

func TestGraphAppendIsAllOrNothing(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Append([]Node{sticky("1", 0, 0)}, nil))

	err := g.Append([]Node{sticky("2", 0, 0), sticky("3", 0, 0)}, []Edge{link("2", "3"), link("3", "missing")})
	require.ErrorIs(t, err, ErrDanglingEdge)

	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.False(t, g.HasNode("2"))
}

func TestGraphRemoveCascadesEdges(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Append(
		[]Node{sticky("1", 0, 0), sticky("2", 0, 0), sticky("3", 0, 0)},
		[]Edge{link("1", "2"), link("2", "3"), link("3", "1"), link("3", "3")},
	))

	removed := g.Remove(NewIDSet("3"))

	assert.Len(t, removed, 3)
	assert.Equal(t, 2, g.NodeCount())
	require.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, "e1-2", g.Edges()[0].ID)
	assert.NoError(t, g.Validate())

	_, ok := g.Edge("e2-3")
	assert.False(t, ok)
}

func TestGraphNextEdgeID(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Append([]Node{sticky("1", 0, 0), sticky("2", 0, 0)}, nil))

	assert.Equal(t, "e1-2", g.NextEdgeID("1", "2"))
	require.NoError(t, g.Append(nil, []Edge{link("1", "2")}))
	assert.Equal(t, "e1-2-1", g.NextEdgeID("1", "2"))
	assert.Equal(t, "e2-1", g.NextEdgeID("2", "1"))
}

func TestGraphAbsolutePosition(t *testing.T) {
	outer := frame("1", 100, 100)
	inner := frame("2", 20, 30)
	inner.ParentID = "1"
	leaf := sticky("3", 5, 7)
	leaf.ParentID = "2"

	g := NewGraph()
	require.NoError(t, g.Append([]Node{outer, inner, leaf}, nil))

	p, ok := g.AbsolutePosition("3")
	require.True(t, ok)
	assert.Equal(t, Pt(125, 137), p)

	assert.True(t, g.IsAncestor("1", "3"))
	assert.False(t, g.IsAncestor("3", "1"))
	assert.Equal(t, []string{"2"}, g.Children("1"))
	assert.Equal(t, []string{"2", "3"}, g.Descendants(NewIDSet("1")).Sorted())

	abs := g.Snapshot().AbsolutePositions()
	assert.Equal(t, p, abs["3"])
}

func TestGraphInsertBefore(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Append([]Node{sticky("1", 0, 0), sticky("2", 0, 0)}, nil))

	require.NoError(t, g.InsertBefore(frame("3", 0, 0), "2"))
	ids := make([]string, 0, 3)
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"1", "3", "2"}, ids)

	n, _ := g.Node("2")
	n.ParentID = "3"
	require.NoError(t, g.Replace(n))
	assert.NoError(t, g.Validate())

	err := g.InsertBefore(sticky("4", 0, 0), "missing")
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestGraphReplaceRejectsCycles(t *testing.T) {
	a := frame("1", 0, 0)
	b := frame("2", 0, 0)
	b.ParentID = "1"

	g := NewGraph()
	require.NoError(t, g.Append([]Node{a, b}, nil))

	a.ParentID = "2"
	assert.ErrorIs(t, g.Replace(a), ErrInvalidParent)

	b.ParentID = "2"
	assert.ErrorIs(t, g.Replace(b), ErrInvalidParent)
}

func TestSnapshotBounds(t *testing.T) {
	_, ok := Snapshot{}.Bounds()
	assert.False(t, ok)

	child := sticky("2", 10, 10)
	child.ParentID = "1"
	g := NewGraph()
	require.NoError(t, g.Append([]Node{frame("1", -50, 0), child}, nil))

	r, ok := g.Snapshot().Bounds()
	require.True(t, ok)
	assert.Equal(t, Pt(-50, 0), r.Min)
	assert.Equal(t, Pt(350, 300), r.Max)
}

func TestIDAllocator(t *testing.T) {
	a := NewIDAllocator(0)
	assert.Equal(t, "1", a.NextID())
	assert.Equal(t, []string{"2", "3", "4"}, a.Reserve(3))
	assert.Nil(t, a.Reserve(0))
	assert.Equal(t, "5", a.NextID())
	assert.Equal(t, uint64(6), a.Peek())
	assert.Equal(t, "6", a.PeekID())
	assert.Equal(t, "6", a.NextID())

	_, ok := ParseID("e1-2")
	assert.False(t, ok)
	v, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint64(42), v)
}

func TestIDSetSorted(t *testing.T) {
	s := NewIDSet("10", "9", "x", "100")
	assert.Equal(t, []string{"9", "10", "100", "x"}, s.Sorted())
}

func TestQuantizeKeepsReparentingExact(t *testing.T) {
	tests := []struct {
		name  string
		child Point
		group Point
	}{
		{"integers", Pt(120, 80), Pt(-24, -24)},
		{"fractions", Pt(0.1, 0.7), Pt(-23.9, 12.3)},
		{"large", Pt(19800.3, 9800.55), Pt(-24.125, 1e6+0.2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := tt.child.Sub(tt.group)
			assert.Equal(t, tt.child, tt.group.Add(rel))
		})
	}
}

func TestQuantizeStaysOnCanvas(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside", 12.5, 12.5},
		{"limit", -MaxCoordinate, -MaxCoordinate},
		{"huge", 1e306, MaxCoordinate},
		{"max float", -math.MaxFloat64, -MaxCoordinate},
		{"inf", math.Inf(1), MaxCoordinate},
		{"nan", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, InBounds(got))
		})
	}
}

func TestGraphRejectsOffCanvasNodes(t *testing.T) {
	tests := []struct {
		name string
		node Node
	}{
		{"position", Node{ID: "1", Position: Point{X: 1e306}, Size: StickySize, Data: StickyData{}}},
		{"infinite position", Node{ID: "1", Position: Point{Y: math.Inf(-1)}, Size: StickySize, Data: StickyData{}}},
		{"size", Node{ID: "1", Size: Size{Width: math.Inf(1), Height: 10}, Data: StickyData{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			require.ErrorIs(t, g.Append([]Node{tt.node}, nil), ErrInvalidNode)
			assert.Zero(t, g.NodeCount())
		})
	}
}

func TestParseKinds(t *testing.T) {
	k, err := ParseShapeKind(" Circle ")
	require.NoError(t, err)
	assert.Equal(t, ShapeCircle, k)
	_, err = ParseShapeKind("hexagon")
	assert.Error(t, err)

	r, err := ParseRoutingType("smoothstep")
	require.NoError(t, err)
	assert.Equal(t, RoutingCurved, r)

	nk, err := ParseNodeKind("textNode")
	require.NoError(t, err)
	assert.Equal(t, KindText, nk)
}
