package application

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"whiteboard/internal/domain"
)

// GroupPadding is the margin between a new frame and the selection it wraps
const GroupPadding = 24

// OrphanPolicy decides what happens to the children of a deleted group
// that were not selected themselves.
type OrphanPolicy int

const (
	// OrphanPromote moves children to the deleted group's nearest surviving
	// ancestor (or the canvas root) keeping their absolute position.
	OrphanPromote OrphanPolicy = iota
	// OrphanCascade deletes the whole subtree with the group.
	OrphanCascade
)

func (p OrphanPolicy) String() string {
	if p == OrphanCascade {
		return "cascade"
	}
	return "promote"
}

// ParseOrphanPolicy converts a policy name to an OrphanPolicy
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "promote":
		return OrphanPromote, nil
	case "cascade":
		return OrphanCascade, nil
	}
	return 0, &ValidationError{Field: "orphanPolicy", Message: fmt.Sprintf("unknown policy %q (expected promote or cascade)", s)}
}

// BoardOption configures a Board
type BoardOption func(*Board)

// WithLogger sets the board logger
func WithLogger(l *log.Logger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithOrphanPolicy sets how group deletion treats unselected children
func WithOrphanPolicy(p OrphanPolicy) BoardOption {
	return func(b *Board) { b.orphans = p }
}

// WithHooks registers mutation observers
func WithHooks(h BoardHooks) BoardOption {
	return func(b *Board) {
		if h != nil {
			b.hooks = h
		}
	}
}

// WithRegistry seeds the board with existing style defaults
func WithRegistry(r *Registry) BoardOption {
	return func(b *Board) {
		if r != nil {
			b.registry = r
		}
	}
}

// Board owns the diagram: the graph, the id allocator and the style
// registry. Every mutation runs to completion and either applies fully or
// leaves the board untouched.
//
// Board is not safe for concurrent use. Hosts serialize access on a single
// goroutine.
type Board struct {
	graph    *domain.Graph
	ids      *domain.IDAllocator
	registry *Registry
	orphans  OrphanPolicy
	logger   *log.Logger
	hooks    BoardHooks

	subscribers map[int]func(domain.Snapshot)
	nextSub     int
}

// NewBoard creates an empty board
func NewBoard(opts ...BoardOption) *Board {
	b := &Board{
		graph:       domain.NewGraph(),
		ids:         domain.NewIDAllocator(1),
		registry:    NewRegistry(),
		logger:      log.Default(),
		hooks:       NoopBoardHooks{},
		subscribers: make(map[int]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function removes the subscription.
func (b *Board) Subscribe(fn func(domain.Snapshot)) func() {
	id := b.nextSub
	b.nextSub++
	b.subscribers[id] = fn
	return func() { delete(b.subscribers, id) }
}

func (b *Board) changed() {
	if len(b.subscribers) == 0 {
		return
	}
	snap := b.graph.Snapshot()
	for _, fn := range b.subscribers {
		fn(snap)
	}
}

// Snapshot returns an immutable copy of the nodes and edges
func (b *Board) Snapshot() domain.Snapshot { return b.graph.Snapshot() }

// Node returns the node with the given id
func (b *Board) Node(id string) (domain.Node, bool) { return b.graph.Node(id) }

// HasNode reports whether id names a live node
func (b *Board) HasNode(id string) bool { return b.graph.HasNode(id) }

// NodeCount returns the number of nodes
func (b *Board) NodeCount() int { return b.graph.NodeCount() }

// EdgeCount returns the number of edges
func (b *Board) EdgeCount() int { return b.graph.EdgeCount() }

// AbsolutePosition returns a node's position in canvas coordinates
func (b *Board) AbsolutePosition(id string) (domain.Point, bool) {
	return b.graph.AbsolutePosition(id)
}

// NextID returns the value the next allocated id will carry
func (b *Board) NextID() uint64 { return b.ids.Peek() }

// Registry returns the style registry. Use the Set* methods on Board to
// change defaults so subscribers are notified.
func (b *Board) Registry() *Registry { return b.registry }

// ShapeDefaults returns the style new shapes receive
func (b *Board) ShapeDefaults() domain.ShapeDefaults { return b.registry.Shape() }

// EdgeDefaults returns the style new edges receive
func (b *Board) EdgeDefaults() domain.EdgeDefaults { return b.registry.Edge() }

// UIPreferences returns the presentation toggles
func (b *Board) UIPreferences() domain.UIPreferences { return b.registry.UI() }

// SetShapeDefaults merges a partial update into the shape defaults
func (b *Board) SetShapeDefaults(p ShapeStylePatch) (domain.ShapeDefaults, error) {
	d, err := b.registry.PatchShape(p)
	if err != nil {
		return d, err
	}
	b.changed()
	return d, nil
}

// SetEdgeDefaults merges a partial update into the edge defaults
func (b *Board) SetEdgeDefaults(p EdgeStylePatch) (domain.EdgeDefaults, error) {
	d, err := b.registry.PatchEdge(p)
	if err != nil {
		return d, err
	}
	b.changed()
	return d, nil
}

// SetUIPreferences merges a partial update into the presentation toggles
func (b *Board) SetUIPreferences(p UIPatch) domain.UIPreferences {
	u := b.registry.PatchUI(p)
	b.changed()
	return u
}

// Reserve hands out n consecutive ids for a bulk insertion
func (b *Board) Reserve(n int) []string { return b.ids.Reserve(n) }

// AppendBatch inserts prebuilt nodes and edges in one update
func (b *Board) AppendBatch(nodes []domain.Node, edges []domain.Edge) error {
	for i := range nodes {
		nodes[i].Position = nodes[i].Position.Quantized()
		nodes[i].Size = nodes[i].Size.Quantized()
	}
	if err := b.graph.Append(nodes, edges); err != nil {
		return fmt.Errorf("append batch: %w", err)
	}
	b.reportAdded(nodes, len(edges))
	b.changed()
	return nil
}

func (b *Board) reportAdded(nodes []domain.Node, edges int) {
	counts := make(map[domain.NodeKind]int)
	for _, n := range nodes {
		counts[n.Kind()]++
	}
	for kind, c := range counts {
		b.hooks.OnNodesAdded(kind, c)
	}
	if edges > 0 {
		b.hooks.OnEdgesAdded(edges)
	}
}

// AddNode creates a default-styled node of the given kind at position
func (b *Board) AddNode(kind domain.NodeKind, pos domain.Point) (domain.Node, error) {
	switch kind {
	case domain.KindSticky, domain.KindShape, domain.KindText, domain.KindGroup:
	default:
		return domain.Node{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	id := b.ids.NextID()
	n := domain.Node{ID: id, Position: pos.Quantized()}
	switch kind {
	case domain.KindSticky:
		n.Size = domain.StickySize
		n.Data = domain.StickyData{Text: "Node " + id}
	case domain.KindText:
		n.Size = domain.TextSize
		n.Data = domain.TextData{Text: "Text " + id}
	case domain.KindShape:
		d := b.registry.Shape()
		n.Size = domain.ShapeSize(d.Shape)
		n.Data = domain.ShapeData{Shape: d.Shape, Fill: d.Fill, Stroke: d.Stroke, StrokeWidth: d.StrokeWidth}
	case domain.KindGroup:
		n.Size = domain.GroupSize
		n.Data = domain.GroupData{}
	}

	if err := b.graph.Append([]domain.Node{n}, nil); err != nil {
		return domain.Node{}, fmt.Errorf("add %s: %w", kind, err)
	}
	b.logger.Debug("node added", "id", id, "kind", kind)
	b.hooks.OnNodesAdded(kind, 1)
	b.changed()
	return n, nil
}

// AddSticky creates a sticky note
func (b *Board) AddSticky(pos domain.Point) domain.Node {
	n, _ := b.AddNode(domain.KindSticky, pos)
	return n
}

// AddShape creates a shape using the current shape defaults
func (b *Board) AddShape(pos domain.Point) domain.Node {
	n, _ := b.AddNode(domain.KindShape, pos)
	return n
}

// AddText creates a text block
func (b *Board) AddText(pos domain.Point) domain.Node {
	n, _ := b.AddNode(domain.KindText, pos)
	return n
}

// AddGroup creates an empty frame
func (b *Board) AddGroup(pos domain.Point) domain.Node {
	n, _ := b.AddNode(domain.KindGroup, pos)
	return n
}

// Connect links source to target using the current edge defaults.
// Self-loops are allowed. The board is unchanged when an endpoint is missing.
func (b *Board) Connect(sourceID, targetID string) (domain.Edge, error) {
	for _, id := range []string{sourceID, targetID} {
		if !b.graph.HasNode(id) {
			b.logger.Debug("connect rejected", "source", sourceID, "target", targetID, "missing", id)
			return domain.Edge{}, &EndpointError{SourceID: sourceID, TargetID: targetID, Missing: id}
		}
	}

	e := domain.Edge{
		ID:       b.graph.NextEdgeID(sourceID, targetID),
		SourceID: sourceID,
		TargetID: targetID,
		Style:    domain.StyleFromDefaults(b.registry.Edge()),
	}
	if err := b.graph.Append(nil, []domain.Edge{e}); err != nil {
		return domain.Edge{}, fmt.Errorf("connect: %w", err)
	}
	b.logger.Debug("edge added", "id", e.ID)
	b.hooks.OnEdgesAdded(1)
	b.changed()
	return e, nil
}

// DeleteSelected removes every selected node and each edge touching a
// removed node, returning the removed node ids. Unselected children of a
// removed group follow the board's OrphanPolicy. With nothing selected the
// call is a no-op that returns an empty set.
func (b *Board) DeleteSelected() domain.IDSet {
	selected := b.graph.Selected()
	if len(selected) == 0 {
		return domain.IDSet{}
	}

	removed := domain.NewIDSet(selected...)
	next := b.graph.Clone()

	if b.orphans == OrphanCascade {
		for id := range next.Descendants(removed) {
			removed.Add(id)
		}
	} else if err := promoteOrphans(next, removed); err != nil {
		b.logger.Error("delete aborted", "err", err)
		return domain.IDSet{}
	}

	edges := next.Remove(removed)
	b.graph = next

	b.logger.Debug("nodes deleted", "nodes", removed.Len(), "edges", len(edges))
	b.hooks.OnNodesRemoved(removed.Len())
	if len(edges) > 0 {
		b.hooks.OnEdgesRemoved(len(edges))
	}
	b.changed()
	return removed
}

// promoteOrphans re-parents surviving children of removed nodes to their
// nearest surviving ancestor, keeping absolute positions.
func promoteOrphans(g *domain.Graph, removed domain.IDSet) error {
	abs := g.Snapshot().AbsolutePositions()
	for _, n := range g.Nodes() {
		if removed.Has(n.ID) || !removed.Has(n.ParentID) {
			continue
		}
		anchor := n.ParentID
		for anchor != "" && removed.Has(anchor) {
			p, _ := g.Node(anchor)
			anchor = p.ParentID
		}
		n.ParentID = anchor
		n.Position = abs[n.ID]
		if anchor != "" {
			n.Position = abs[n.ID].Sub(abs[anchor])
		}
		if err := g.Replace(n); err != nil {
			return err
		}
	}
	return nil
}

// GroupSelectionIntoFrame wraps the selected nodes in a new frame sized to
// their padded bounding box. Selected nodes without a selected ancestor are
// re-parented into the frame with positions rewritten relative to it. The
// frame becomes the only selected node. Returns nil with an empty selection.
func (b *Board) GroupSelectionIntoFrame() (*domain.Node, error) {
	selected := b.graph.Selected()
	if len(selected) == 0 {
		return nil, nil
	}
	inSelection := domain.NewIDSet(selected...)

	var (
		top    []domain.Node
		bounds domain.Rect
	)
	for i, id := range selected {
		n, _ := b.graph.Node(id)
		abs, _ := b.graph.AbsolutePosition(id)
		r := domain.RectAt(abs, n.Size)
		if i == 0 {
			bounds = r
		} else {
			bounds = bounds.Union(r)
		}
		if !b.hasSelectedAncestor(n, inSelection) {
			top = append(top, n)
		}
	}

	bounds = bounds.Pad(GroupPadding)
	frameAbs, frameSize := bounds.Min, bounds.Size()
	// a frame past the canvas edge is left unsnapped so validation rejects it
	if frameAbs.InBounds() && frameSize.Valid() {
		frameAbs, frameSize = frameAbs.Quantized(), frameSize.Quantized()
	}
	// the id is only consumed once the regrouped graph validates
	frame := domain.Node{
		ID:       b.ids.PeekID(),
		Position: frameAbs,
		Size:     frameSize,
		Data:     domain.GroupData{},
		Selected: true,
	}

	// the frame stays inside a shared parent, otherwise it lands on the root
	parent := top[0].ParentID
	for _, n := range top[1:] {
		if n.ParentID != parent {
			parent = ""
			break
		}
	}
	if parent != "" {
		parentAbs, _ := b.graph.AbsolutePosition(parent)
		frame.ParentID = parent
		frame.Position = frameAbs.Sub(parentAbs)
	}

	next := b.graph.Clone()
	if err := next.InsertBefore(frame, top[0].ID); err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	for _, n := range next.Nodes() {
		if !inSelection.Has(n.ID) {
			continue
		}
		n.Selected = false
		if !b.hasSelectedAncestor(n, inSelection) {
			abs, _ := b.graph.AbsolutePosition(n.ID)
			n.ParentID = frame.ID
			n.Position = abs.Sub(frameAbs)
		}
		if err := next.Replace(n); err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
	}
	b.ids.NextID()
	b.graph = next

	b.logger.Debug("selection grouped", "frame", frame.ID, "children", len(top))
	b.hooks.OnNodesAdded(domain.KindGroup, 1)
	b.changed()
	return &frame, nil
}

func (b *Board) hasSelectedAncestor(n domain.Node, selected domain.IDSet) bool {
	for id := n.ParentID; id != ""; {
		if selected.Has(id) {
			return true
		}
		p, ok := b.graph.Node(id)
		if !ok {
			return false
		}
		id = p.ParentID
	}
	return false
}

// Ungroup removes a frame and hands its children to the frame's parent
// keeping their absolute positions. Edges touching the frame are removed.
func (b *Board) Ungroup(groupID string) ([]string, error) {
	g, ok := b.graph.Node(groupID)
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	if !g.IsGroup() {
		return nil, &ValidationError{Field: "groupID", Message: fmt.Sprintf("%s is a %s, not a group", groupID, g.Kind())}
	}

	children := b.graph.Children(groupID)
	next := b.graph.Clone()
	removed := domain.NewIDSet(groupID)
	if err := promoteOrphans(next, removed); err != nil {
		return nil, fmt.Errorf("ungroup: %w", err)
	}
	edges := next.Remove(removed)
	b.graph = next

	b.logger.Debug("group dissolved", "group", groupID, "children", len(children))
	b.hooks.OnNodesRemoved(1)
	if len(edges) > 0 {
		b.hooks.OnEdgesRemoved(len(edges))
	}
	b.changed()
	return children, nil
}

// Reset clears every node and edge. Style defaults and the id counter are
// kept, so ids are never reused.
func (b *Board) Reset() {
	nodes, edges := b.graph.NodeCount(), b.graph.EdgeCount()
	b.graph.Clear()
	b.logger.Debug("board reset", "nodes", nodes, "edges", edges)
	if nodes > 0 {
		b.hooks.OnNodesRemoved(nodes)
	}
	if edges > 0 {
		b.hooks.OnEdgesRemoved(edges)
	}
	b.changed()
}

// State returns the durable subset of the board
func (b *Board) State() domain.State {
	return domain.State{
		Nodes:  b.graph.Nodes(),
		Edges:  b.graph.Edges(),
		NextID: b.ids.Peek(),
		Shape:  b.registry.Shape(),
		Edge:   b.registry.Edge(),
		UI:     b.registry.UI(),
	}
}

// Restore replaces the board content with s. The board is unchanged when s
// is structurally invalid.
func (b *Board) Restore(s domain.State) error {
	g, err := s.Graph()
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if err := b.registry.Replace(s.Shape, s.Edge, s.UI); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	b.graph = g
	b.ids = domain.NewIDAllocator(s.NextID)
	b.logger.Debug("board restored", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "next", s.NextID)
	b.changed()
	return nil
}
