package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrDuplicateID is returned when a node or edge identifier is already in use.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownNode is returned when an operation references a node that is
	// not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidParent is returned when a parent reference does not name a
	// live group node that precedes the child, or when reparenting would
	// create a cycle.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrDanglingEdge is returned when an edge endpoint is missing.
	ErrDanglingEdge = errors.New("edge endpoint does not exist")

	// ErrInvalidNode is returned for nodes without an id, payload or a
	// positive size.
	ErrInvalidNode = errors.New("invalid node")
)

// Graph is the node and edge collection of a board. Nodes keep insertion
// order and a parent always precedes its children.
//
// The zero value is not usable - use NewGraph. Graph is not safe for
// concurrent use.
type Graph struct {
	nodes     []Node
	index     map[string]int
	edges     []Edge
	edgeIndex map[string]int
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		index:     make(map[string]int),
		edgeIndex: make(map[string]int),
	}
}

// Clone returns an independent copy of g
func (g *Graph) Clone() *Graph {
	return &Graph{
		nodes:     slices.Clone(g.nodes),
		index:     maps.Clone(g.index),
		edges:     slices.Clone(g.edges),
		edgeIndex: maps.Clone(g.edgeIndex),
	}
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether id names a node
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns a copy of the node with the given id
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edge returns a copy of the edge with the given id
func (g *Graph) Edge(id string) (Edge, bool) {
	i, ok := g.edgeIndex[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Nodes returns a copy of all nodes in order
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Snapshot returns an immutable copy of the graph
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{Nodes: g.Nodes(), Edges: g.Edges()}
}

// AbsolutePosition resolves a node's position in canvas coordinates by
// accumulating the positions of its ancestors.
func (g *Graph) AbsolutePosition(id string) (Point, bool) {
	n, ok := g.Node(id)
	if !ok {
		return Point{}, false
	}
	p := n.Position
	for depth := 0; n.ParentID != "" && depth < len(g.nodes); depth++ {
		n, ok = g.Node(n.ParentID)
		if !ok {
			break
		}
		p = p.Add(n.Position)
	}
	return p, true
}

// IsAncestor reports whether ancestor is a (transitive) parent of id
func (g *Graph) IsAncestor(ancestor, id string) bool {
	n, ok := g.Node(id)
	for depth := 0; ok && n.ParentID != "" && depth < len(g.nodes); depth++ {
		if n.ParentID == ancestor {
			return true
		}
		n, ok = g.Node(n.ParentID)
	}
	return false
}

// Children returns the ids of the direct children of a group, in order
func (g *Graph) Children(id string) []string {
	var out []string
	for _, n := range g.nodes {
		if n.ParentID == id {
			out = append(out, n.ID)
		}
	}
	return out
}

// Descendants returns every node nested (transitively) inside the given nodes
func (g *Graph) Descendants(roots IDSet) IDSet {
	out := IDSet{}
	// parents precede children, so a single forward pass sees every ancestor first
	for _, n := range g.nodes {
		if n.ParentID == "" {
			continue
		}
		if roots.Has(n.ParentID) || out.Has(n.ParentID) {
			out.Add(n.ID)
		}
	}
	return out
}

// Selected returns the ids of selected nodes in order
func (g *Graph) Selected() []string {
	var out []string
	for _, n := range g.nodes {
		if n.Selected {
			out = append(out, n.ID)
		}
	}
	return out
}

// NextEdgeID returns the first free edge identifier for source -> target
func (g *Graph) NextEdgeID(source, target string) string {
	for n := 0; ; n++ {
		id := EdgeID(source, target, n)
		if _, taken := g.edgeIndex[id]; !taken {
			return id
		}
	}
}

// Append adds nodes and edges as one unit. Nothing is applied if any element
// is invalid.
func (g *Graph) Append(nodes []Node, edges []Edge) error {
	pending := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if err := validateNode(n); err != nil {
			return err
		}
		if g.HasNode(n.ID) {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
		}
		if _, dup := pending[n.ID]; dup {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
		}
		if n.ParentID != "" {
			parent, ok := g.Node(n.ParentID)
			if !ok {
				parent, ok = pending[n.ParentID]
			}
			if !ok || !parent.IsGroup() {
				return fmt.Errorf("node %s parent %s: %w", n.ID, n.ParentID, ErrInvalidParent)
			}
		}
		pending[n.ID] = n
	}

	pendingEdges := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		if _, dup := g.edgeIndex[e.ID]; dup {
			return fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateID)
		}
		if _, dup := pendingEdges[e.ID]; dup {
			return fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateID)
		}
		for _, end := range []string{e.SourceID, e.TargetID} {
			if _, ok := pending[end]; !ok && !g.HasNode(end) {
				return fmt.Errorf("edge %s endpoint %s: %w", e.ID, end, ErrDanglingEdge)
			}
		}
		pendingEdges[e.ID] = struct{}{}
	}

	for _, n := range nodes {
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	for _, e := range edges {
		g.edgeIndex[e.ID] = len(g.edges)
		g.edges = append(g.edges, e)
	}
	return nil
}

// InsertBefore adds n immediately before the node named before, so a new
// frame can precede the children it adopts.
func (g *Graph) InsertBefore(n Node, before string) error {
	at, ok := g.index[before]
	if !ok {
		return fmt.Errorf("insert before %s: %w", before, ErrUnknownNode)
	}
	if err := validateNode(n); err != nil {
		return err
	}
	if g.HasNode(n.ID) {
		return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
	}
	if n.ParentID != "" {
		pi, ok := g.index[n.ParentID]
		if !ok || pi >= at || !g.nodes[pi].IsGroup() {
			return fmt.Errorf("node %s parent %s: %w", n.ID, n.ParentID, ErrInvalidParent)
		}
	}
	g.nodes = slices.Insert(g.nodes, at, n)
	g.reindexNodes()
	return nil
}

// Replace overwrites the stored node carrying n.ID. Parent changes are
// validated: the new parent must be a group preceding n that is not n itself
// or one of its descendants.
func (g *Graph) Replace(n Node) error {
	i, ok := g.index[n.ID]
	if !ok {
		return fmt.Errorf("node %s: %w", n.ID, ErrUnknownNode)
	}
	if err := validateNode(n); err != nil {
		return err
	}
	if n.ParentID != "" && n.ParentID != g.nodes[i].ParentID {
		pi, ok := g.index[n.ParentID]
		if !ok || pi >= i || !g.nodes[pi].IsGroup() || n.ParentID == n.ID || g.IsAncestor(n.ID, n.ParentID) {
			return fmt.Errorf("node %s parent %s: %w", n.ID, n.ParentID, ErrInvalidParent)
		}
	}
	g.nodes[i] = n
	return nil
}

// ReplaceEdge overwrites the stored edge carrying e.ID. Endpoints cannot change.
func (g *Graph) ReplaceEdge(e Edge) error {
	i, ok := g.edgeIndex[e.ID]
	if !ok {
		return fmt.Errorf("edge %s: %w", e.ID, ErrUnknownNode)
	}
	old := g.edges[i]
	e.SourceID, e.TargetID = old.SourceID, old.TargetID
	g.edges[i] = e
	return nil
}

// Remove deletes the given nodes together with every edge touching them and
// returns the removed edges. Callers must first detach or include the
// children of removed groups.
func (g *Graph) Remove(ids IDSet) []Edge {
	if ids.Len() == 0 {
		return nil
	}
	var removed []Edge
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		if ids.Has(e.SourceID) || ids.Has(e.TargetID) {
			removed = append(removed, e)
			return true
		}
		return false
	})
	g.nodes = slices.DeleteFunc(g.nodes, func(n Node) bool { return ids.Has(n.ID) })
	g.reindexNodes()
	g.reindexEdges()
	return removed
}

// RemoveEdges deletes the given edges and returns how many existed
func (g *Graph) RemoveEdges(ids IDSet) int {
	before := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return ids.Has(e.ID) })
	g.reindexEdges()
	return before - len(g.edges)
}

// Clear removes every node and edge
func (g *Graph) Clear() {
	g.nodes = nil
	g.edges = nil
	clear(g.index)
	clear(g.edgeIndex)
}

// Validate checks the structural invariants: unique ids, live group parents
// preceding their children, and edges between existing nodes.
func (g *Graph) Validate() error {
	seen := make(map[string]Node, len(g.nodes))
	for _, n := range g.nodes {
		if err := validateNode(n); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
		}
		if n.ParentID != "" {
			parent, ok := seen[n.ParentID]
			if !ok || !parent.IsGroup() {
				return fmt.Errorf("node %s parent %s: %w", n.ID, n.ParentID, ErrInvalidParent)
			}
		}
		seen[n.ID] = n
	}
	edgeIDs := make(map[string]struct{}, len(g.edges))
	for _, e := range g.edges {
		if _, dup := edgeIDs[e.ID]; dup {
			return fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateID)
		}
		edgeIDs[e.ID] = struct{}{}
		if _, ok := seen[e.SourceID]; !ok {
			return fmt.Errorf("edge %s source %s: %w", e.ID, e.SourceID, ErrDanglingEdge)
		}
		if _, ok := seen[e.TargetID]; !ok {
			return fmt.Errorf("edge %s target %s: %w", e.ID, e.TargetID, ErrDanglingEdge)
		}
	}
	return nil
}

func (g *Graph) reindexNodes() {
	clear(g.index)
	for i, n := range g.nodes {
		g.index[n.ID] = i
	}
}

func (g *Graph) reindexEdges() {
	clear(g.edgeIndex)
	for i, e := range g.edges {
		g.edgeIndex[e.ID] = i
	}
}

func validateNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("empty node id: %w", ErrInvalidNode)
	}
	if n.Data == nil {
		return fmt.Errorf("node %s has no payload: %w", n.ID, ErrInvalidNode)
	}
	if !n.Size.Valid() {
		return fmt.Errorf("node %s size %vx%v: %w", n.ID, n.Size.Width, n.Size.Height, ErrInvalidNode)
	}
	if !n.Position.InBounds() {
		return fmt.Errorf("node %s position (%v, %v) out of bounds: %w", n.ID, n.Position.X, n.Position.Y, ErrInvalidNode)
	}
	return nil
}

// Snapshot is an immutable copy of a graph handed to readers
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}

// Node looks up a node by id
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Selected returns the ids of selected nodes in order
func (s Snapshot) Selected() []string {
	var out []string
	for _, n := range s.Nodes {
		if n.Selected {
			out = append(out, n.ID)
		}
	}
	return out
}

// AbsolutePositions resolves the canvas position of every node
func (s Snapshot) AbsolutePositions() map[string]Point {
	out := make(map[string]Point, len(s.Nodes))
	for _, n := range s.Nodes {
		p := n.Position
		if parent, ok := out[n.ParentID]; ok {
			p = p.Add(parent)
		}
		out[n.ID] = p
	}
	return out
}

// Bounds returns the canvas rectangle covering every node; ok is false for
// an empty snapshot.
func (s Snapshot) Bounds() (r Rect, ok bool) {
	abs := s.AbsolutePositions()
	for _, n := range s.Nodes {
		nr := RectAt(abs[n.ID], n.Size)
		if !ok {
			r, ok = nr, true
			continue
		}
		r = r.Union(nr)
	}
	return r, ok
}

// IDSet is a set of entity identifiers
type IDSet map[string]struct{}

// NewIDSet builds a set from ids
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id
func (s IDSet) Add(id string) { s[id] = struct{}{} }

// Len returns the number of members
func (s IDSet) Len() int { return len(s) }

// Sorted returns the members ordered numerically where possible
func (s IDSet) Sorted() []string {
	return slices.SortedFunc(maps.Keys(s), compareIDs)
}

func compareIDs(a, b string) int {
	av, aok := ParseID(a)
	bv, bok := ParseID(b)
	switch {
	case aok && bok && av != bv:
		if av < bv {
			return -1
		}
		return 1
	case aok != bok:
		if aok {
			return -1
		}
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
