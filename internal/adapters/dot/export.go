// Package dot renders board snapshots as Graphviz DOT and SVG.
//
// Frames become clusters so grouped nodes stay visually together. Node
// positions are not carried over; Graphviz lays the diagram out itself.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"

	"whiteboard/internal/domain"
	"whiteboard/internal/ports"
)

// ToDOT converts a snapshot to Graphviz DOT
func ToDOT(snap domain.Snapshot) string {
	children := make(map[string][]domain.Node)
	for _, n := range snap.Nodes {
		children[n.ParentID] = append(children[n.ParentID], n)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph whiteboard {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	writeLevel(&buf, children, "", "  ")

	if len(snap.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range snap.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.SourceID, e.TargetID, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeLevel(buf *bytes.Buffer, children map[string][]domain.Node, parent, indent string) {
	for _, n := range children[parent] {
		if n.IsGroup() {
			fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, n.ID)
			fmt.Fprintf(buf, "%s  label=%q;\n", indent, "frame "+n.ID)
			fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", indent)
			// an invisible anchor keeps empty frames and their edges renderable
			fmt.Fprintf(buf, "%s  %q [shape=point, style=invis];\n", indent, n.ID)
			writeLevel(buf, children, n.ID, indent+"  ")
			fmt.Fprintf(buf, "%s}\n", indent)
			continue
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(nodeAttrs(n), ", "))
	}
}

func nodeAttrs(n domain.Node) []string {
	switch d := n.Data.(type) {
	case domain.StickyData:
		return []string{
			fmt.Sprintf("label=%q", d.Text),
			"shape=note", "style=filled", "fillcolor=\"#fef08a\"",
		}
	case domain.TextData:
		return []string{fmt.Sprintf("label=%q", d.Text), "shape=plaintext"}
	case domain.ShapeData:
		shape := "box"
		switch d.Shape {
		case domain.ShapeCircle:
			shape = "circle"
		case domain.ShapeDiamond:
			shape = "diamond"
		}
		return []string{
			fmt.Sprintf("label=%q", n.ID),
			"shape=" + shape, "style=filled",
			fmt.Sprintf("fillcolor=%q", d.Fill),
			fmt.Sprintf("color=%q", d.Stroke),
			fmt.Sprintf("penwidth=%g", d.StrokeWidth),
		}
	}
	return []string{fmt.Sprintf("label=%q", n.ID)}
}

func edgeAttrs(e domain.Edge) []string {
	attrs := []string{fmt.Sprintf("id=%q", e.ID)}
	if e.Style.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Style.Label))
	}
	if e.Style.Dashed {
		attrs = append(attrs, "style=dashed")
	}
	if !e.Style.Arrowed {
		attrs = append(attrs, "arrowhead=none")
	}
	if e.Style.Routing != "" {
		// Graphviz routes splines per graph, so the style travels as an SVG class
		attrs = append(attrs, fmt.Sprintf("class=%q", e.Style.Routing))
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// DOTExporter writes snapshots as DOT source
type DOTExporter struct{}

var _ ports.Exporter = DOTExporter{}

func (DOTExporter) Format() string { return "dot" }

func (DOTExporter) Export(_ context.Context, snap domain.Snapshot, w io.Writer) error {
	_, err := io.WriteString(w, ToDOT(snap))
	return err
}

// SVGExporter writes snapshots as SVG drawings
type SVGExporter struct{}

var _ ports.Exporter = SVGExporter{}

func (SVGExporter) Format() string { return "svg" }

func (SVGExporter) Export(ctx context.Context, snap domain.Snapshot, w io.Writer) error {
	svg, err := RenderSVG(ctx, ToDOT(snap))
	if err != nil {
		return err
	}
	_, err = w.Write(svg)
	return err
}
