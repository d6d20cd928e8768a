package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/domain"
)

// RegisterReadTools adds all read-only board tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, sess *Session) {
	s.AddTool(listNodesTool(), listNodesHandler(sess))
	s.AddTool(getNodeTool(), getNodeHandler(sess))
	s.AddTool(exportTool(), exportHandler(sess))
	s.AddTool(defaultsTool(), defaultsHandler(sess))
	s.AddTool(generationStatusTool(), generationStatusHandler(sess))
}

// --- list_nodes ---

func listNodesTool() mcp.Tool {
	return mcp.NewTool("list_nodes",
		mcp.WithDescription("List the nodes of the board in document order, one per line: id, kind, label, canvas position, size, parent and selection mark."),
		mcp.WithString("kind",
			mcp.Description("Only list nodes of this kind (sticky, shape, text, group)"),
		),
		mcp.WithBoolean("selected",
			mcp.Description("Only list selected nodes"),
		),
	)
}

func listNodesHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kindFilter := req.GetString("kind", "")
		onlySelected := req.GetBool("selected", false)

		var kind domain.NodeKind
		if kindFilter != "" {
			k, err := domain.ParseNodeKind(kindFilter)
			if err != nil {
				return toolError(err)
			}
			kind = k
		}

		var snap domain.Snapshot
		if err := sess.Do(ctx, func(b *application.Board) error {
			snap = b.Snapshot()
			return nil
		}); err != nil {
			return toolError(err)
		}

		abs := snap.AbsolutePositions()
		var sb strings.Builder
		count := 0
		for _, n := range snap.Nodes {
			if kind != "" && n.Kind() != kind {
				continue
			}
			if onlySelected && !n.Selected {
				continue
			}
			count++
			sb.WriteString(formatNode(n, abs[n.ID]))
			sb.WriteByte('\n')
		}
		if count == 0 {
			return mcp.NewToolResultText("No nodes."), nil
		}
		fmt.Fprintf(&sb, "%d node(s), %d edge(s) on the board\n", len(snap.Nodes), len(snap.Edges))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- get_node ---

func getNodeTool() mcp.Tool {
	return mcp.NewTool("get_node",
		mcp.WithDescription("Describe one node and the edges touching it."),
		mcp.WithString("id",
			mcp.Description("Node id (e.g. 12)"),
			mcp.Required(),
		),
	)
}

func getNodeHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if err := application.ValidateNodeID("nodeID", id); err != nil {
			return toolError(err)
		}

		var (
			node  domain.Node
			abs   domain.Point
			edges []domain.Edge
		)
		err := sess.Do(ctx, func(b *application.Board) error {
			n, ok := b.Node(id)
			if !ok {
				return fmt.Errorf("node %s: %w", id, application.ErrNotFound)
			}
			node = n
			abs, _ = b.AbsolutePosition(id)
			for _, e := range b.Snapshot().Edges {
				if e.SourceID == id || e.TargetID == id {
					edges = append(edges, e)
				}
			}
			return nil
		})
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(formatNode(node, abs))
		sb.WriteByte('\n')
		if d, ok := node.Data.(domain.ShapeData); ok {
			fmt.Fprintf(&sb, "style: %s fill %s stroke %s width %g\n", d.Shape, d.Fill, d.Stroke, d.StrokeWidth)
		}
		for _, e := range edges {
			sb.WriteString(formatEdge(e))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Export the board as JSON (nodes and edges), Graphviz DOT, or rendered SVG."),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum("json", "dot", "svg"),
		),
	)
}

func exportHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := req.GetString("format", "json")
		exporter, ok := sess.exporters[format]
		if !ok {
			return toolError(fmt.Errorf("unknown export format %q", format))
		}

		var snap domain.Snapshot
		if err := sess.Do(ctx, func(b *application.Board) error {
			snap = b.Snapshot()
			return nil
		}); err != nil {
			return toolError(err)
		}

		var buf bytes.Buffer
		if err := exporter.Export(ctx, snap, &buf); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(buf.String()), nil
	}
}

// --- defaults ---

func defaultsTool() mcp.Tool {
	return mcp.NewTool("defaults",
		mcp.WithDescription("Show the styles applied to new shapes and edges, and the UI toggles."),
	)
}

func defaultsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var out struct {
			Shape domain.ShapeDefaults `json:"shapeOpts"`
			Edge  domain.EdgeDefaults  `json:"edgeOpts"`
			UI    domain.UIPreferences `json:"ui"`
		}
		if err := sess.Do(ctx, func(b *application.Board) error {
			out.Shape, out.Edge, out.UI = b.ShapeDefaults(), b.EdgeDefaults(), b.UIPreferences()
			return nil
		}); err != nil {
			return toolError(err)
		}
		return jsonResult(out)
	}
}

// --- generation_status ---

func generationStatusTool() mcp.Tool {
	return mcp.NewTool("generation_status",
		mcp.WithDescription("Report the progress of the current or last bulk generation run."),
	)
}

func generationStatusHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var (
			state    generator.State
			progress generator.Progress
			runErr   error
			nodes    int
		)
		if err := sess.Do(ctx, func(b *application.Board) error {
			state, progress, runErr = sess.generator.State(), sess.generator.Progress(), sess.generator.Err()
			nodes = b.NodeCount()
			return nil
		}); err != nil {
			return toolError(err)
		}

		text := fmt.Sprintf("state: %s\nprogress: %d/%d\nnodes on board: %d\n", state, progress.Done, progress.Total, nodes)
		if runErr != nil {
			text += "error: " + runErr.Error() + "\n"
		}
		return mcp.NewToolResultText(text), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func formatNode(n domain.Node, abs domain.Point) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %-6s", n.ID, n.Kind())
	if label := n.Label(); label != "" {
		fmt.Fprintf(&sb, "  %q", label)
	}
	fmt.Fprintf(&sb, "  at (%g, %g)  %gx%g", abs.X, abs.Y, n.Size.Width, n.Size.Height)
	if n.ParentID != "" {
		fmt.Fprintf(&sb, "  in %s", n.ParentID)
	}
	if n.Selected {
		sb.WriteString("  [selected]")
	}
	return sb.String()
}

func formatEdge(e domain.Edge) string {
	s := fmt.Sprintf("%s  %s -> %s  %s", e.ID, e.SourceID, e.TargetID, e.Style.Routing)
	if e.Style.Dashed {
		s += " dashed"
	}
	if e.Style.Label != "" {
		s += fmt.Sprintf(" %q", e.Style.Label)
	}
	return s
}
