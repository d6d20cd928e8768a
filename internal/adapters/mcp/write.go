package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"whiteboard/internal/application"
	"whiteboard/internal/application/commands"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/domain"
)

// RegisterWriteTools adds all mutating board tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, sess *Session) {
	s.AddTool(addNodeTool(), addNodeHandler(sess))
	s.AddTool(connectTool(), connectHandler(sess))
	s.AddTool(selectTool(), selectHandler(sess))
	s.AddTool(moveTool(), moveHandler(sess))
	s.AddTool(editTextTool(), editTextHandler(sess))
	s.AddTool(styleShapesTool(), styleShapesHandler(sess))
	s.AddTool(styleEdgesTool(), styleEdgesHandler(sess))
	s.AddTool(deleteSelectedTool(), deleteSelectedHandler(sess))
	s.AddTool(groupTool(), groupHandler(sess))
	s.AddTool(ungroupTool(), ungroupHandler(sess))
	s.AddTool(setDefaultsTool(), setDefaultsHandler(sess))
	s.AddTool(generateTool(), generateHandler(sess))
	s.AddTool(cancelGenerationTool(), cancelGenerationHandler(sess))
	s.AddTool(resetTool(), resetHandler(sess))
}

// run executes fn on the loop and turns its message or error into a result
func run(ctx context.Context, sess *Session, fn func(b *application.Board) (string, error)) (*mcp.CallToolResult, error) {
	var msg string
	err := sess.Do(ctx, func(b *application.Board) error {
		var err error
		msg, err = fn(b)
		return err
	})
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(msg), nil
}

// --- add_node ---

func addNodeTool() mcp.Tool {
	return mcp.NewTool("add_node",
		mcp.WithDescription("Add a node to the board. New shapes take the current shape defaults."),
		mcp.WithString("kind",
			mcp.Description("Node kind"),
			mcp.Required(),
			mcp.Enum("sticky", "shape", "text", "group"),
		),
		mcp.WithNumber("x", mcp.Description("Canvas x coordinate")),
		mcp.WithNumber("y", mcp.Description("Canvas y coordinate")),
		mcp.WithString("text", mcp.Description("Text for sticky and text nodes (default: generated label)")),
	)
}

func addNodeHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			cmd := commands.NewAddNodeCommand(b, req.GetString("kind", ""), req.GetFloat("x", 0), req.GetFloat("y", 0))
			cmd.Text = req.GetString("text", "")
			result, err := cmd.Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- connect ---

func connectTool() mcp.Tool {
	return mcp.NewTool("connect",
		mcp.WithDescription("Connect two nodes with an edge styled by the current edge defaults. Connecting a node to itself is allowed."),
		mcp.WithString("source", mcp.Description("Source node id"), mcp.Required()),
		mcp.WithString("target", mcp.Description("Target node id"), mcp.Required()),
	)
}

func connectHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			result, err := commands.NewConnectCommand(b, req.GetString("source", ""), req.GetString("target", "")).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- select ---

func selectTool() mcp.Tool {
	return mcp.NewTool("select",
		mcp.WithDescription("Replace or extend the selection, or clear it."),
		mcp.WithArray("ids", mcp.Description("Node ids to select"), mcp.WithStringItems()),
		mcp.WithBoolean("additive", mcp.Description("Keep the current selection")),
		mcp.WithBoolean("none", mcp.Description("Clear the selection")),
	)
}

func selectHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			cmd := commands.NewSelectCommand(b, req.GetStringSlice("ids", nil), req.GetBool("additive", false))
			cmd.None = req.GetBool("none", false)
			result, err := cmd.Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- move ---

func moveTool() mcp.Tool {
	return mcp.NewTool("move",
		mcp.WithDescription("Translate nodes by an offset. Children of a moved group follow it."),
		mcp.WithArray("ids", mcp.Description("Node ids"), mcp.Required(), mcp.WithStringItems()),
		mcp.WithNumber("dx", mcp.Description("Horizontal offset")),
		mcp.WithNumber("dy", mcp.Description("Vertical offset")),
	)
}

func moveHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			result, err := commands.NewMoveCommand(b, req.GetStringSlice("ids", nil), req.GetFloat("dx", 0), req.GetFloat("dy", 0)).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- edit_text ---

func editTextTool() mcp.Tool {
	return mcp.NewTool("edit_text",
		mcp.WithDescription("Replace the text of a sticky or text node."),
		mcp.WithString("id", mcp.Description("Node id"), mcp.Required()),
		mcp.WithString("text", mcp.Description("New text (may be empty)")),
	)
}

func editTextHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			result, err := commands.NewEditTextCommand(b, req.GetString("id", ""), req.GetString("text", "")).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- style_shapes ---

func styleShapesTool() mcp.Tool {
	return mcp.NewTool("style_shapes",
		mcp.WithDescription("Restyle existing shape nodes. Only the given fields change."),
		mcp.WithArray("ids", mcp.Description("Shape node ids"), mcp.Required(), mcp.WithStringItems()),
		mcp.WithString("shape", mcp.Enum("rectangle", "circle", "diamond")),
		mcp.WithString("fill", mcp.Description("Fill color as #rrggbb")),
		mcp.WithString("stroke", mcp.Description("Stroke color as #rrggbb")),
		mcp.WithNumber("stroke_width", mcp.Description("Stroke width from 1 to 8")),
	)
}

func styleShapesHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		patch, err := shapePatch(req)
		if err != nil {
			return toolError(err)
		}
		return run(ctx, sess, func(b *application.Board) (string, error) {
			result, err := commands.NewStyleShapesCommand(b, req.GetStringSlice("ids", nil), patch).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- style_edges ---

func styleEdgesTool() mcp.Tool {
	return mcp.NewTool("style_edges",
		mcp.WithDescription("Restyle existing edges, picked by edge id or by the nodes they touch."),
		mcp.WithArray("ids", mcp.Description("Edge ids"), mcp.WithStringItems()),
		mcp.WithArray("nodes", mcp.Description("Restyle every edge touching these nodes"), mcp.WithStringItems()),
		mcp.WithString("routing", mcp.Enum("straight", "step", "curved")),
		mcp.WithBoolean("dashed"),
		mcp.WithBoolean("arrow"),
		mcp.WithString("label"),
	)
}

func styleEdgesHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		patch, err := edgePatch(req)
		if err != nil {
			return toolError(err)
		}
		return run(ctx, sess, func(b *application.Board) (string, error) {
			cmd := commands.NewStyleEdgesCommand(b, req.GetStringSlice("ids", nil), patch)
			cmd.Nodes = req.GetStringSlice("nodes", nil)
			result, err := cmd.Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- delete_selected ---

func deleteSelectedTool() mcp.Tool {
	return mcp.NewTool("delete_selected",
		mcp.WithDescription("Delete the selected nodes and every edge touching them. Children of a deleted group follow the board's orphan policy."),
		mcp.WithArray("ids", mcp.Description("Select these nodes first"), mcp.WithStringItems()),
	)
}

func deleteSelectedHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			result, err := commands.NewDeleteCommand(b, req.GetStringSlice("ids", nil)...).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- group ---

func groupTool() mcp.Tool {
	return mcp.NewTool("group",
		mcp.WithDescription("Wrap the selected top-level nodes in a new frame sized to their bounds plus padding."),
		mcp.WithArray("ids", mcp.Description("Select these nodes first"), mcp.WithStringItems()),
	)
}

func groupHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			result, err := commands.NewGroupCommand(b, req.GetStringSlice("ids", nil)...).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- ungroup ---

func ungroupTool() mcp.Tool {
	return mcp.NewTool("ungroup",
		mcp.WithDescription("Remove a frame and release its children at their canvas positions."),
		mcp.WithString("id", mcp.Description("Group node id"), mcp.Required()),
	)
}

func ungroupHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			result, err := commands.NewUngroupCommand(b, req.GetString("id", "")).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- set_defaults ---

func setDefaultsTool() mcp.Tool {
	return mcp.NewTool("set_defaults",
		mcp.WithDescription("Change the styles applied to new shapes and edges, and the UI toggles. Existing nodes and edges keep their style."),
		mcp.WithString("shape", mcp.Enum("rectangle", "circle", "diamond")),
		mcp.WithString("fill", mcp.Description("Fill color as #rrggbb")),
		mcp.WithString("stroke", mcp.Description("Stroke color as #rrggbb")),
		mcp.WithNumber("stroke_width", mcp.Description("Stroke width from 1 to 8")),
		mcp.WithString("routing", mcp.Enum("straight", "step", "curved")),
		mcp.WithBoolean("dashed"),
		mcp.WithBoolean("arrow"),
		mcp.WithString("label"),
		mcp.WithBoolean("show_resizers"),
		mcp.WithBoolean("allow_stretch"),
	)
}

func setDefaultsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		shape, err := shapePatch(req)
		if err != nil {
			return toolError(err)
		}
		edge, err := edgePatch(req)
		if err != nil {
			return toolError(err)
		}
		ui := application.UIPatch{
			ShowResizeHandles:     optBool(req, "show_resizers"),
			AllowNonUniformResize: optBool(req, "allow_stretch"),
		}

		var result *commands.DefaultsResult
		if err := sess.Do(ctx, func(b *application.Board) error {
			cmd := commands.NewSetDefaultsCommand(b)
			cmd.Shape, cmd.Edge, cmd.UI = shape, edge, ui
			result, err = cmd.Execute(ctx)
			return err
		}); err != nil {
			return toolError(err)
		}
		return jsonResult(map[string]any{
			"message":   result.Message,
			"shapeOpts": result.Shape,
			"edgeOpts":  result.Edge,
			"ui":        result.UI,
		})
	}
}

// --- generate ---

func generateTool() mcp.Tool {
	return mcp.NewTool("generate",
		mcp.WithDescription("Start generating a chain of nodes in a grid. Runs in chunks in the background; poll generation_status for progress."),
		mcp.WithString("count",
			mcp.Description("Number of nodes, e.g. 500, 1k, 5k"),
			mcp.Required(),
		),
		mcp.WithBoolean("reset", mcp.Description("Clear the board first")),
	)
}

func generateHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		count, err := generator.ParseCount(req.GetString("count", ""))
		if err != nil {
			return toolError(err)
		}
		reset := req.GetBool("reset", false)

		return run(ctx, sess, func(b *application.Board) (string, error) {
			if sess.generator.State() == generator.Running {
				return "", generator.ErrAlreadyRunning
			}
			if reset {
				b.Reset()
			}
			if err := sess.generator.Start(count); err != nil {
				return "", err
			}
			return fmt.Sprintf("Generation of %s node(s) started", generator.FormatCount(count)), nil
		})
	}
}

// --- cancel_generation ---

func cancelGenerationTool() mcp.Tool {
	return mcp.NewTool("cancel_generation",
		mcp.WithDescription("Stop the running generation at the next chunk boundary. Nodes already inserted stay."),
	)
}

func cancelGenerationHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(*application.Board) (string, error) {
			if sess.generator.State() != generator.Running {
				return "No generation running", nil
			}
			sess.generator.Cancel()
			return fmt.Sprintf("Cancelling after %d node(s)", sess.generator.Progress().Done), nil
		})
	}
}

// --- reset ---

func resetTool() mcp.Tool {
	return mcp.NewTool("reset",
		mcp.WithDescription("Remove every node and edge. Ids keep increasing and defaults are kept."),
	)
}

func resetHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return run(ctx, sess, func(b *application.Board) (string, error) {
			result, err := commands.NewResetCommand(b).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- argument helpers ---

func optString(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func optBool(req mcp.CallToolRequest, key string) *bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

func optFloat(req mcp.CallToolRequest, key string) *float64 {
	if _, ok := req.GetArguments()[key]; !ok {
		return nil
	}
	v := req.GetFloat(key, 0)
	return &v
}

func shapePatch(req mcp.CallToolRequest) (application.ShapeStylePatch, error) {
	p := application.ShapeStylePatch{
		Fill:        optString(req, "fill"),
		Stroke:      optString(req, "stroke"),
		StrokeWidth: optFloat(req, "stroke_width"),
	}
	if s := optString(req, "shape"); s != nil {
		kind, err := domain.ParseShapeKind(strings.TrimSpace(*s))
		if err != nil {
			return p, err
		}
		p.Shape = &kind
	}
	return p, nil
}

func edgePatch(req mcp.CallToolRequest) (application.EdgeStylePatch, error) {
	p := application.EdgeStylePatch{
		Dashed:  optBool(req, "dashed"),
		Arrowed: optBool(req, "arrow"),
		Label:   optString(req, "label"),
	}
	if s := optString(req, "routing"); s != nil {
		routing, err := domain.ParseRoutingType(strings.TrimSpace(*s))
		if err != nil {
			return p, err
		}
		p.Routing = &routing
	}
	return p, nil
}
