package commands

import (
	"context"
	"fmt"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
)

// DefaultsResult reports the style defaults after an update
type DefaultsResult struct {
	Shape   domain.ShapeDefaults
	Edge    domain.EdgeDefaults
	UI      domain.UIPreferences
	Message string
}

// SetDefaultsCommand updates the styles applied to new shapes and edges and
// the presentation toggles. Existing nodes and edges keep their style.
type SetDefaultsCommand struct {
	board *application.Board
	Shape application.ShapeStylePatch
	Edge  application.EdgeStylePatch
	UI    application.UIPatch
}

// NewSetDefaultsCommand creates a new SetDefaultsCommand
func NewSetDefaultsCommand(board *application.Board) *SetDefaultsCommand {
	return &SetDefaultsCommand{board: board}
}

// Validate checks that every patch would produce valid defaults
func (c *SetDefaultsCommand) Validate() error {
	if err := application.ValidateStruct(c.Shape.Apply(c.board.ShapeDefaults())); err != nil {
		return err
	}
	return application.ValidateStruct(c.Edge.Apply(c.board.EdgeDefaults()))
}

// Execute runs the set defaults command
func (c *SetDefaultsCommand) Execute(ctx context.Context) (*DefaultsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	changed := 0
	if !c.Shape.Empty() {
		if _, err := c.board.SetShapeDefaults(c.Shape); err != nil {
			return nil, fmt.Errorf("failed to set shape defaults: %w", err)
		}
		changed++
	}
	if !c.Edge.Empty() {
		if _, err := c.board.SetEdgeDefaults(c.Edge); err != nil {
			return nil, fmt.Errorf("failed to set edge defaults: %w", err)
		}
		changed++
	}
	if !c.UI.Empty() {
		c.board.SetUIPreferences(c.UI)
		changed++
	}

	msg := "Defaults unchanged"
	if changed > 0 {
		msg = "Defaults updated"
	}
	return &DefaultsResult{
		Shape:   c.board.ShapeDefaults(),
		Edge:    c.board.EdgeDefaults(),
		UI:      c.board.UIPreferences(),
		Message: msg,
	}, nil
}
