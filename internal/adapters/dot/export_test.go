package dot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/domain"
)

func snapshot() domain.Snapshot {
	return domain.Snapshot{
		Nodes: []domain.Node{
			{ID: "1", Size: domain.GroupSize, Data: domain.GroupData{}},
			{ID: "2", Size: domain.StickySize, Data: domain.StickyData{Text: "say \"hi\""}, ParentID: "1"},
			{ID: "3", Size: domain.RoundSize, Data: domain.ShapeData{Shape: domain.ShapeDiamond, Fill: "#fde68a", Stroke: "#1e3a8a", StrokeWidth: 2}},
			{ID: "4", Size: domain.TextSize, Data: domain.TextData{Text: "Title"}},
		},
		Edges: []domain.Edge{
			{ID: "e2-3", SourceID: "2", TargetID: "3", Style: domain.EdgeStyle{Dashed: true, Label: "next"}},
			{ID: "e3-4", SourceID: "3", TargetID: "4", Style: domain.EdgeStyle{Arrowed: true, Routing: domain.RoutingStep}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(snapshot())

	assert.True(t, strings.HasPrefix(dot, "digraph whiteboard {"))
	assert.Contains(t, dot, `subgraph "cluster_1" {`)
	assert.Contains(t, dot, `    "2" [label="say \"hi\"", shape=note`)
	assert.Contains(t, dot, `"3" [label="3", shape=diamond`)
	assert.Contains(t, dot, `"4" [label="Title", shape=plaintext]`)
	assert.Contains(t, dot, `"2" -> "3" [id="e2-3", label="next", style=dashed, arrowhead=none];`)
	assert.Contains(t, dot, `"3" -> "4" [id="e3-4", class="step"];`)
}

func TestExporters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DOTExporter{}.Export(context.Background(), snapshot(), &buf))
	assert.Equal(t, ToDOT(snapshot()), buf.String())
	assert.Equal(t, "dot", DOTExporter{}.Format())
	assert.Equal(t, "svg", SVGExporter{}.Format())
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(snapshot()))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}
