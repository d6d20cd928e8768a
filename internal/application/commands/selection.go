package commands

import (
	"context"
	"fmt"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
)

// SelectCommand replaces or extends the selection
type SelectCommand struct {
	board    *application.Board
	IDs      []string
	Additive bool
	// None clears the selection instead
	None bool
}

// NewSelectCommand creates a new SelectCommand
func NewSelectCommand(board *application.Board, ids []string, additive bool) *SelectCommand {
	return &SelectCommand{board: board, IDs: ids, Additive: additive}
}

// Validate checks if the select operation is valid
func (c *SelectCommand) Validate() error {
	if c.None {
		return nil
	}
	return validateIDList(c.IDs)
}

// Execute runs the select command
func (c *SelectCommand) Execute(ctx context.Context) (*PatchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.None {
		n := c.board.ClearSelection()
		return &PatchResult{Count: n, Message: fmt.Sprintf("Deselected %d node(s)", n)}, nil
	}
	n, err := c.board.Select(c.IDs, c.Additive)
	if err != nil {
		return nil, fmt.Errorf("failed to select: %w", err)
	}
	return &PatchResult{Count: n, Message: fmt.Sprintf("Selected %d node(s)", n)}, nil
}

// DeleteResult contains the result of deleting the selection
type DeleteResult struct {
	Removed []string
	Message string
}

// DeleteCommand deletes the selected nodes. When IDs is set those nodes are
// selected first, replacing the current selection.
type DeleteCommand struct {
	board *application.Board
	IDs   []string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(board *application.Board, ids ...string) *DeleteCommand {
	return &DeleteCommand{board: board, IDs: ids}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	if len(c.IDs) == 0 {
		return nil
	}
	return validateIDList(c.IDs)
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.IDs) > 0 {
		if _, err := c.board.Select(c.IDs, false); err != nil {
			return nil, fmt.Errorf("failed to delete: %w", err)
		}
	}

	removed := c.board.DeleteSelected().Sorted()
	if len(removed) == 0 {
		return &DeleteResult{Message: "Nothing selected"}, nil
	}
	return &DeleteResult{
		Removed: removed,
		Message: fmt.Sprintf("Deleted %d node(s)", len(removed)),
	}, nil
}

// GroupResult contains the result of grouping the selection
type GroupResult struct {
	Frame   *domain.Node
	Message string
}

// GroupCommand wraps the selected nodes in a new frame. When IDs is set
// those nodes are selected first.
type GroupCommand struct {
	board *application.Board
	IDs   []string
}

// NewGroupCommand creates a new GroupCommand
func NewGroupCommand(board *application.Board, ids ...string) *GroupCommand {
	return &GroupCommand{board: board, IDs: ids}
}

// Validate checks if the group operation is valid
func (c *GroupCommand) Validate() error {
	if len(c.IDs) == 0 {
		return nil
	}
	return validateIDList(c.IDs)
}

// Execute runs the group command
func (c *GroupCommand) Execute(ctx context.Context) (*GroupResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.IDs) > 0 {
		if _, err := c.board.Select(c.IDs, false); err != nil {
			return nil, fmt.Errorf("failed to group: %w", err)
		}
	}

	frame, err := c.board.GroupSelectionIntoFrame()
	if err != nil {
		return nil, fmt.Errorf("failed to group: %w", err)
	}
	if frame == nil {
		return &GroupResult{Message: "Nothing selected"}, nil
	}
	return &GroupResult{
		Frame:   frame,
		Message: fmt.Sprintf("Grouped into frame %s (%gx%g)", frame.ID, frame.Size.Width, frame.Size.Height),
	}, nil
}

// UngroupResult contains the result of dissolving a frame
type UngroupResult struct {
	Released []string
	Message  string
}

// UngroupCommand dissolves a frame, keeping its children in place
type UngroupCommand struct {
	board   *application.Board
	GroupID string
}

// NewUngroupCommand creates a new UngroupCommand
func NewUngroupCommand(board *application.Board, groupID string) *UngroupCommand {
	return &UngroupCommand{board: board, GroupID: groupID}
}

// Validate checks if the ungroup operation is valid
func (c *UngroupCommand) Validate() error {
	return application.ValidateNodeID("groupID", c.GroupID)
}

// Execute runs the ungroup command
func (c *UngroupCommand) Execute(ctx context.Context) (*UngroupResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	released, err := c.board.Ungroup(c.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to ungroup: %w", err)
	}
	return &UngroupResult{
		Released: released,
		Message:  fmt.Sprintf("Ungrouped %s, released %d node(s)", c.GroupID, len(released)),
	}, nil
}

// ResetResult contains the result of clearing the board
type ResetResult struct {
	Nodes   int
	Edges   int
	Message string
}

// ResetCommand removes every node and edge. The id counter and style
// defaults survive.
type ResetCommand struct {
	board *application.Board
}

// NewResetCommand creates a new ResetCommand
func NewResetCommand(board *application.Board) *ResetCommand {
	return &ResetCommand{board: board}
}

// Execute runs the reset command
func (c *ResetCommand) Execute(ctx context.Context) (*ResetResult, error) {
	nodes, edges := c.board.NodeCount(), c.board.EdgeCount()
	c.board.Reset()
	return &ResetResult{
		Nodes:   nodes,
		Edges:   edges,
		Message: fmt.Sprintf("Cleared %d node(s) and %d edge(s)", nodes, edges),
	}, nil
}
