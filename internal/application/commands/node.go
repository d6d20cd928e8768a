package commands

import (
	"context"
	"fmt"
	"strings"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
)

// AddNodeResult contains the result of adding a node
type AddNodeResult struct {
	Node    domain.Node
	Message string
}

// AddNodeCommand creates one node at an absolute position
type AddNodeCommand struct {
	board *application.Board
	Kind  string
	X, Y  float64
	// Text overrides the generated label for sticky and text nodes
	Text string
}

// NewAddNodeCommand creates a new AddNodeCommand
func NewAddNodeCommand(board *application.Board, kind string, x, y float64) *AddNodeCommand {
	return &AddNodeCommand{board: board, Kind: kind, X: x, Y: y}
}

// Validate checks if the add operation is valid
func (c *AddNodeCommand) Validate() error {
	if err := application.ValidateRequired("kind", c.Kind); err != nil {
		return err
	}
	if err := validateCoordinates("position", c.X, c.Y); err != nil {
		return err
	}
	kind, err := application.ParseNodeKind(c.Kind)
	if err != nil {
		return &application.ValidationError{Field: "kind", Message: err.Error()}
	}
	if c.Text != "" && kind != application.KindSticky && kind != application.KindText {
		return &application.ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("%s nodes hold no text", kind),
		}
	}
	return nil
}

// Execute runs the add node command
func (c *AddNodeCommand) Execute(ctx context.Context) (*AddNodeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kind, _ := application.ParseNodeKind(c.Kind)

	node, err := c.board.AddNode(kind, domain.Pt(c.X, c.Y))
	if err != nil {
		return nil, fmt.Errorf("failed to add node: %w", err)
	}
	if c.Text != "" {
		if _, err := c.board.PatchNodes(application.MatchIDs(node.ID), application.NodePatch{Text: &c.Text}); err != nil {
			return nil, fmt.Errorf("failed to set text: %w", err)
		}
		node, _ = c.board.Node(node.ID)
	}

	return &AddNodeResult{
		Node:    node,
		Message: fmt.Sprintf("Added %s %s at (%g, %g)", node.Kind(), node.ID, node.Position.X, node.Position.Y),
	}, nil
}

// PatchResult contains the result of a node or edge patch
type PatchResult struct {
	Count   int
	Message string
}

// MoveCommand translates nodes by an offset, or places them at To when it is
// set. To is in each node's own coordinate space, relative to its parent
// group when it has one.
type MoveCommand struct {
	board  *application.Board
	IDs    []string
	DX, DY float64
	To     *domain.Point
}

// NewMoveCommand creates a MoveCommand translating ids by (dx, dy)
func NewMoveCommand(board *application.Board, ids []string, dx, dy float64) *MoveCommand {
	return &MoveCommand{board: board, IDs: ids, DX: dx, DY: dy}
}

// Validate checks if the move operation is valid
func (c *MoveCommand) Validate() error {
	if err := validateIDList(c.IDs); err != nil {
		return err
	}
	if c.To == nil && c.DX == 0 && c.DY == 0 {
		return &application.ValidationError{Field: "offset", Message: "offset or target position is required"}
	}
	if c.To != nil {
		return validateCoordinates("position", c.To.X, c.To.Y)
	}
	return validateCoordinates("offset", c.DX, c.DY)
}

// Execute runs the move command
func (c *MoveCommand) Execute(ctx context.Context) (*PatchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := requireNodes(c.board, c.IDs); err != nil {
		return nil, err
	}

	patch := application.NodePatch{Translate: &domain.Point{X: c.DX, Y: c.DY}}
	if c.To != nil {
		patch = application.NodePatch{Position: c.To}
	}
	n, err := c.board.PatchNodes(application.MatchIDs(c.IDs...), patch)
	if err != nil {
		return nil, fmt.Errorf("failed to move: %w", err)
	}
	return &PatchResult{Count: n, Message: fmt.Sprintf("Moved %d node(s)", n)}, nil
}

// ResizeCommand sets the extent of nodes
type ResizeCommand struct {
	board         *application.Board
	IDs           []string
	Width, Height float64
}

// NewResizeCommand creates a new ResizeCommand
func NewResizeCommand(board *application.Board, ids []string, width, height float64) *ResizeCommand {
	return &ResizeCommand{board: board, IDs: ids, Width: width, Height: height}
}

// Validate checks if the resize operation is valid
func (c *ResizeCommand) Validate() error {
	if err := validateIDList(c.IDs); err != nil {
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return &application.ValidationError{
			Field:   "size",
			Message: fmt.Sprintf("size must be positive, got %gx%g", c.Width, c.Height),
		}
	}
	return validateCoordinates("size", c.Width, c.Height)
}

// Execute runs the resize command
func (c *ResizeCommand) Execute(ctx context.Context) (*PatchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := requireNodes(c.board, c.IDs); err != nil {
		return nil, err
	}
	n, err := c.board.PatchNodes(application.MatchIDs(c.IDs...), application.NodePatch{
		Size: &domain.Size{Width: c.Width, Height: c.Height},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resize: %w", err)
	}
	return &PatchResult{Count: n, Message: fmt.Sprintf("Resized %d node(s) to %gx%g", n, c.Width, c.Height)}, nil
}

// EditTextCommand replaces the text of a sticky or text node
type EditTextCommand struct {
	board *application.Board
	ID    string
	Text  string
}

// NewEditTextCommand creates a new EditTextCommand
func NewEditTextCommand(board *application.Board, id, text string) *EditTextCommand {
	return &EditTextCommand{board: board, ID: id, Text: text}
}

// Validate checks if the edit operation is valid
func (c *EditTextCommand) Validate() error {
	return application.ValidateNodeID("nodeID", c.ID)
}

// Execute runs the edit text command
func (c *EditTextCommand) Execute(ctx context.Context) (*PatchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := requireNodes(c.board, []string{c.ID}); err != nil {
		return nil, err
	}
	n, err := c.board.PatchNodes(application.MatchIDs(c.ID), application.NodePatch{Text: &c.Text})
	if err != nil {
		return nil, fmt.Errorf("failed to edit text: %w", err)
	}
	return &PatchResult{Count: n, Message: fmt.Sprintf("Updated text of %s", c.ID)}, nil
}

// StyleShapesCommand restyles existing shape nodes
type StyleShapesCommand struct {
	board *application.Board
	IDs   []string
	Patch application.ShapeStylePatch
}

// NewStyleShapesCommand creates a new StyleShapesCommand
func NewStyleShapesCommand(board *application.Board, ids []string, p application.ShapeStylePatch) *StyleShapesCommand {
	return &StyleShapesCommand{board: board, IDs: ids, Patch: p}
}

// Validate checks if the style operation is valid
func (c *StyleShapesCommand) Validate() error {
	if err := validateIDList(c.IDs); err != nil {
		return err
	}
	if c.Patch.Empty() {
		return &application.ValidationError{Field: "style", Message: "at least one style field is required"}
	}
	return nil
}

// Execute runs the style command
func (c *StyleShapesCommand) Execute(ctx context.Context) (*PatchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := requireNodes(c.board, c.IDs); err != nil {
		return nil, err
	}
	n, err := c.board.PatchNodes(application.MatchIDs(c.IDs...), application.NodePatch{Shape: &c.Patch})
	if err != nil {
		return nil, fmt.Errorf("failed to restyle: %w", err)
	}
	return &PatchResult{Count: n, Message: fmt.Sprintf("Restyled %d shape(s)", n)}, nil
}

func validateIDList(ids []string) error {
	if len(ids) == 0 {
		return &application.ValidationError{Field: "nodeID", Message: "at least one node ID is required"}
	}
	for _, id := range ids {
		if err := application.ValidateNodeID("nodeID", id); err != nil {
			return err
		}
	}
	return nil
}

func requireNodes(board *application.Board, ids []string) error {
	var missing []string
	for _, id := range ids {
		if !board.HasNode(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("node %s: %w", strings.Join(missing, ", "), application.ErrNotFound)
	}
	return nil
}

// validateCoordinates rejects values the canvas cannot hold
func validateCoordinates(field string, values ...float64) error {
	for _, v := range values {
		if !domain.InBounds(v) {
			return &application.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%g is outside the canvas (limit ±%g)", v, domain.MaxCoordinate),
			}
		}
	}
	return nil
}
