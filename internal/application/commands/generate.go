package commands

import (
	"context"
	"fmt"

	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
)

// GenerateResult contains the outcome of a generation run
type GenerateResult struct {
	Progress generator.Progress
	State    generator.State
	Message  string
}

// GenerateCommand synthesizes Count chained nodes and drives the run to
// completion in the calling goroutine. Cancelling ctx cancels the run at
// the next chunk boundary; the chunks already inserted stay.
type GenerateCommand struct {
	board *application.Board
	Count int
	// Reset clears the board before generating
	Reset bool
	Opts  []generator.Option
}

// NewGenerateCommand creates a new GenerateCommand
func NewGenerateCommand(board *application.Board, count int, opts ...generator.Option) *GenerateCommand {
	return &GenerateCommand{board: board, Count: count, Opts: opts}
}

// Validate checks if the generate operation is valid
func (c *GenerateCommand) Validate() error {
	if c.Count <= 0 {
		return &application.ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("count must be positive, got %d", c.Count),
		}
	}
	return nil
}

// Execute runs the generate command
func (c *GenerateCommand) Execute(ctx context.Context) (*GenerateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Reset {
		c.board.Reset()
	}

	q := &generator.Queue{}
	g := generator.New(c.board, q, c.Opts...)
	if err := g.Start(c.Count); err != nil {
		return nil, fmt.Errorf("failed to start generation: %w", err)
	}

	done := 0
	for q.RunNext() {
		if g.State() == generator.Running {
			done = g.Progress().Done
		}
		if ctx.Err() != nil {
			g.Cancel()
		}
	}

	if err := g.Err(); err != nil {
		return nil, fmt.Errorf("generation failed after %d node(s): %w", done, err)
	}
	if g.State() == generator.Cancelled {
		return &GenerateResult{
			Progress: generator.Progress{Total: c.Count, Done: done},
			State:    g.State(),
			Message:  fmt.Sprintf("Generation cancelled after %d of %d node(s)", done, c.Count),
		}, ctx.Err()
	}
	return &GenerateResult{
		Progress: g.Progress(),
		State:    g.State(),
		Message:  fmt.Sprintf("Generated %d node(s)", g.Progress().Done),
	}, nil
}
