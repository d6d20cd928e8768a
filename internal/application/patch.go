package application

import (
	"fmt"

	"whiteboard/internal/domain"
)

// NodeMatcher selects the nodes a patch applies to
type NodeMatcher func(domain.Node) bool

// MatchIDs matches the listed nodes
func MatchIDs(ids ...string) NodeMatcher {
	set := domain.NewIDSet(ids...)
	return func(n domain.Node) bool { return set.Has(n.ID) }
}

// MatchSelected matches selected nodes
func MatchSelected() NodeMatcher {
	return func(n domain.Node) bool { return n.Selected }
}

// MatchKind matches nodes of one kind
func MatchKind(kind domain.NodeKind) NodeMatcher {
	return func(n domain.Node) bool { return n.Kind() == kind }
}

// MatchAll matches every node
func MatchAll() NodeMatcher {
	return func(domain.Node) bool { return true }
}

// NodePatch is a partial update applied to every matched node. Position is
// in the node's own coordinate space (relative to its parent when it has
// one); Translate is added after Position.
type NodePatch struct {
	Position  *domain.Point
	Translate *domain.Point
	Size      *domain.Size
	Text      *string
	Shape     *ShapeStylePatch
	Selected  *bool
}

// Empty reports whether the patch changes nothing
func (p NodePatch) Empty() bool {
	return p.Position == nil && p.Translate == nil && p.Size == nil &&
		p.Text == nil && p.Shape == nil && p.Selected == nil
}

func (p NodePatch) apply(n domain.Node) (domain.Node, error) {
	if p.Position != nil {
		n.Position = p.Position.Quantized()
	}
	if p.Translate != nil {
		n.Position = n.Position.Add(p.Translate.Quantized())
	}
	if !n.Position.InBounds() {
		return n, &PatchError{ID: n.ID, Field: "position", Reason: fmt.Sprintf("(%v, %v) is outside the canvas", n.Position.X, n.Position.Y)}
	}
	if p.Size != nil {
		s := p.Size.Quantized()
		if !s.Valid() {
			return n, &PatchError{ID: n.ID, Field: "size", Reason: fmt.Sprintf("%vx%v is not a positive extent", p.Size.Width, p.Size.Height)}
		}
		n.Size = s
	}
	if p.Text != nil {
		var ok bool
		if n, ok = n.WithText(*p.Text); !ok {
			return n, &PatchError{ID: n.ID, Field: "text", Reason: fmt.Sprintf("%s nodes hold no text", n.Kind())}
		}
	}
	if p.Shape != nil {
		d, ok := n.Data.(domain.ShapeData)
		if !ok {
			return n, &PatchError{ID: n.ID, Field: "shape", Reason: fmt.Sprintf("%s nodes have no shape style", n.Kind())}
		}
		next := p.Shape.Apply(domain.ShapeDefaults(d))
		if err := ValidateStruct(next); err != nil {
			return n, err
		}
		n.Data = domain.ShapeData(next)
	}
	if p.Selected != nil {
		n.Selected = *p.Selected
	}
	return n, nil
}

// PatchNodes applies p to every node accepted by match and returns how many
// nodes matched. Nothing changes when the patch does not fit one of them.
func (b *Board) PatchNodes(match NodeMatcher, p NodePatch) (int, error) {
	if match == nil || p.Empty() {
		return 0, nil
	}

	var updated []domain.Node
	for _, n := range b.graph.Nodes() {
		if !match(n) {
			continue
		}
		next, err := p.apply(n)
		if err != nil {
			return 0, err
		}
		updated = append(updated, next)
	}
	if len(updated) == 0 {
		return 0, nil
	}

	for _, n := range updated {
		if err := b.graph.Replace(n); err != nil {
			return 0, fmt.Errorf("patch %s: %w", n.ID, err)
		}
	}
	b.changed()
	return len(updated), nil
}

// EdgeMatcher selects the edges a patch applies to
type EdgeMatcher func(domain.Edge) bool

// MatchEdgeIDs matches the listed edges
func MatchEdgeIDs(ids ...string) EdgeMatcher {
	set := domain.NewIDSet(ids...)
	return func(e domain.Edge) bool { return set.Has(e.ID) }
}

// MatchEdgesOf matches edges touching any of the listed nodes
func MatchEdgesOf(nodeIDs ...string) EdgeMatcher {
	set := domain.NewIDSet(nodeIDs...)
	return func(e domain.Edge) bool { return set.Has(e.SourceID) || set.Has(e.TargetID) }
}

// PatchEdges restyles every edge accepted by match
func (b *Board) PatchEdges(match EdgeMatcher, p EdgeStylePatch) (int, error) {
	if match == nil || p.Empty() {
		return 0, nil
	}

	var updated []domain.Edge
	for _, e := range b.graph.Edges() {
		if !match(e) {
			continue
		}
		style := p.Apply(domain.EdgeDefaults(e.Style))
		if err := ValidateStruct(style); err != nil {
			return 0, err
		}
		e.Style = domain.EdgeStyle(style)
		updated = append(updated, e)
	}
	if len(updated) == 0 {
		return 0, nil
	}

	for _, e := range updated {
		if err := b.graph.ReplaceEdge(e); err != nil {
			return 0, fmt.Errorf("patch %s: %w", e.ID, err)
		}
	}
	b.changed()
	return len(updated), nil
}

// RemoveEdges deletes the listed edges and returns how many existed
func (b *Board) RemoveEdges(ids ...string) int {
	n := b.graph.RemoveEdges(domain.NewIDSet(ids...))
	if n > 0 {
		b.hooks.OnEdgesRemoved(n)
		b.changed()
	}
	return n
}

// Select marks the listed nodes as selected. Unless additive, every other
// node is deselected. Unknown ids leave the selection unchanged.
func (b *Board) Select(ids []string, additive bool) (int, error) {
	for _, id := range ids {
		if !b.graph.HasNode(id) {
			return 0, fmt.Errorf("select %s: %w", id, ErrNotFound)
		}
	}
	if !additive {
		if _, err := b.PatchNodes(MatchSelected(), NodePatch{Selected: Ptr(false)}); err != nil {
			return 0, err
		}
	}
	return b.PatchNodes(MatchIDs(ids...), NodePatch{Selected: Ptr(true)})
}

// ClearSelection deselects every node
func (b *Board) ClearSelection() int {
	n, _ := b.PatchNodes(MatchSelected(), NodePatch{Selected: Ptr(false)})
	return n
}
