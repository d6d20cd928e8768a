package commands

import (
	"context"
	"fmt"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
)

// ConnectResult contains the result of connecting two nodes
type ConnectResult struct {
	Edge    domain.Edge
	Message string
}

// ConnectCommand creates an edge styled with the current edge defaults
type ConnectCommand struct {
	board    *application.Board
	SourceID string
	TargetID string
}

// NewConnectCommand creates a new ConnectCommand
func NewConnectCommand(board *application.Board, sourceID, targetID string) *ConnectCommand {
	return &ConnectCommand{board: board, SourceID: sourceID, TargetID: targetID}
}

// Validate checks if the connect operation is valid
func (c *ConnectCommand) Validate() error {
	if err := application.ValidateNodeID("sourceID", c.SourceID); err != nil {
		return err
	}
	return application.ValidateNodeID("targetID", c.TargetID)
}

// Execute runs the connect command
func (c *ConnectCommand) Execute(ctx context.Context) (*ConnectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	edge, err := c.board.Connect(c.SourceID, c.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &ConnectResult{
		Edge:    edge,
		Message: fmt.Sprintf("Connected %s -> %s (%s)", edge.SourceID, edge.TargetID, edge.ID),
	}, nil
}

// StyleEdgesCommand restyles edges by id, or every edge touching Nodes
type StyleEdgesCommand struct {
	board *application.Board
	IDs   []string
	Nodes []string
	Patch application.EdgeStylePatch
}

// NewStyleEdgesCommand creates a StyleEdgesCommand for the listed edges
func NewStyleEdgesCommand(board *application.Board, ids []string, p application.EdgeStylePatch) *StyleEdgesCommand {
	return &StyleEdgesCommand{board: board, IDs: ids, Patch: p}
}

// Validate checks if the style operation is valid
func (c *StyleEdgesCommand) Validate() error {
	if len(c.IDs) == 0 && len(c.Nodes) == 0 {
		return &application.ValidationError{Field: "edgeID", Message: "edge IDs or node IDs are required"}
	}
	if c.Patch.Empty() {
		return &application.ValidationError{Field: "style", Message: "at least one style field is required"}
	}
	return nil
}

// Execute runs the edge style command
func (c *StyleEdgesCommand) Execute(ctx context.Context) (*PatchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	match := application.MatchEdgeIDs(c.IDs...)
	if len(c.Nodes) > 0 {
		match = application.MatchEdgesOf(c.Nodes...)
	}
	n, err := c.board.PatchEdges(match, c.Patch)
	if err != nil {
		return nil, fmt.Errorf("failed to restyle edges: %w", err)
	}
	return &PatchResult{Count: n, Message: fmt.Sprintf("Restyled %d edge(s)", n)}, nil
}

// DisconnectCommand removes edges by id
type DisconnectCommand struct {
	board *application.Board
	IDs   []string
}

// NewDisconnectCommand creates a new DisconnectCommand
func NewDisconnectCommand(board *application.Board, ids ...string) *DisconnectCommand {
	return &DisconnectCommand{board: board, IDs: ids}
}

// Validate checks if the disconnect operation is valid
func (c *DisconnectCommand) Validate() error {
	if len(c.IDs) == 0 {
		return &application.ValidationError{Field: "edgeID", Message: "at least one edge ID is required"}
	}
	return nil
}

// Execute runs the disconnect command
func (c *DisconnectCommand) Execute(ctx context.Context) (*PatchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := c.board.RemoveEdges(c.IDs...)
	if n == 0 {
		return nil, fmt.Errorf("edge %s: %w", c.IDs[0], application.ErrNotFound)
	}
	return &PatchResult{Count: n, Message: fmt.Sprintf("Removed %d edge(s)", n)}, nil
}
