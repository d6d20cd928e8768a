package generator

import "whiteboard/internal/domain"

// Layout constants of generated graphs
const (
	DefaultChunkSize = 300
	DefaultCols      = 100
	GapX             = 200
	GapY             = 140
)

var (
	kindCycle = [3]domain.NodeKind{domain.KindShape, domain.KindSticky, domain.KindText}
	fillCycle = [2]string{"#fde68a", "#bfdbfe"}
)

// ChunkParams describes one batch of a generation run
type ChunkParams struct {
	// StartIndex is the run-global index of the first item
	StartIndex int
	// IDs holds one reserved id per item, in ascending order
	IDs []string
	// PrevID links the first item to the last node of the previous chunk.
	// Empty means no link.
	PrevID string
	Cols   int
	Shape  domain.ShapeDefaults
	Edge   domain.EdgeDefaults
}

// KindAt returns the node kind generated at run-global index i
func KindAt(i int) domain.NodeKind {
	return kindCycle[i%len(kindCycle)]
}

// ShapeAt returns the shape geometry generated at run-global index i
func ShapeAt(i int) domain.ShapeKind {
	return domain.ShapeKinds[(i/3)%len(domain.ShapeKinds)]
}

// BuildChunk builds the nodes and edges of one chunk as plain data.
// Everything derives from the run-global index, so chunk boundaries do not
// change the result.
func BuildChunk(p ChunkParams) ([]domain.Node, []domain.Edge) {
	cols := p.Cols
	if cols <= 0 {
		cols = DefaultCols
	}
	nodes := make([]domain.Node, 0, len(p.IDs))
	edges := make([]domain.Edge, 0, len(p.IDs))
	style := domain.StyleFromDefaults(p.Edge)

	prev := p.PrevID
	for k, id := range p.IDs {
		i := p.StartIndex + k
		col, row := i%cols, i/cols
		n := domain.Node{
			ID:       id,
			Position: domain.Pt(float64(col*GapX), float64(row*GapY)),
		}

		switch KindAt(i) {
		case domain.KindShape:
			shape := ShapeAt(i)
			n.Size = domain.ShapeSize(shape)
			n.Data = domain.ShapeData{
				Shape:       shape,
				Fill:        fillCycle[i%len(fillCycle)],
				Stroke:      p.Shape.Stroke,
				StrokeWidth: p.Shape.StrokeWidth,
			}
		case domain.KindSticky:
			n.Size = domain.StickySize
			n.Data = domain.StickyData{Text: "Note " + id}
		case domain.KindText:
			n.Size = domain.TextSize
			n.Data = domain.TextData{Text: "Title " + id}
		}
		nodes = append(nodes, n)

		if prev != "" {
			edges = append(edges, domain.Edge{
				ID:       domain.EdgeID(prev, id, 0),
				SourceID: prev,
				TargetID: id,
				Style:    style,
			})
		}
		prev = id
	}
	return nodes, edges
}
