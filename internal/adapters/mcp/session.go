package mcp

import (
	"context"

	"whiteboard/internal/adapters/dot"
	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/loop"
	"whiteboard/internal/persistence"
	"whiteboard/internal/ports"
)

// Session gives tool handlers access to a board owned by a loop. Every
// handler runs its board work through Do, so concurrent tool calls never
// touch the board at the same time.
type Session struct {
	loop      *loop.Loop
	board     *application.Board
	generator *generator.Generator
	exporters map[string]ports.Exporter
}

// NewSession creates a session. gen must schedule on l.
func NewSession(l *loop.Loop, board *application.Board, gen *generator.Generator) *Session {
	s := &Session{
		loop:      l,
		board:     board,
		generator: gen,
		exporters: make(map[string]ports.Exporter),
	}
	for _, e := range []ports.Exporter{persistence.JSONExporter{}, dot.DOTExporter{}, dot.SVGExporter{}} {
		s.exporters[e.Format()] = e
	}
	return s
}

// Do runs fn on the loop goroutine
func (s *Session) Do(ctx context.Context, fn func(b *application.Board) error) error {
	return s.loop.Do(ctx, func() error { return fn(s.board) })
}
