package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFrameTime is the pause between two deferred tasks
const DefaultFrameTime = 16 * time.Millisecond

type frameMsg struct{}

// FrameScheduler runs deferred work on bubbletea frames. Tasks queued during
// one Update run on the next frame, so the program keeps handling input and
// redrawing between generation chunks. It must only be used from Update.
type FrameScheduler struct {
	interval time.Duration
	pending  []func()
	armed    bool
}

// NewFrameScheduler creates a scheduler ticking every interval
func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	if interval <= 0 {
		interval = DefaultFrameTime
	}
	return &FrameScheduler{interval: interval}
}

// Defer queues fn for the next frame
func (s *FrameScheduler) Defer(fn func()) {
	s.pending = append(s.pending, fn)
}

// Pending returns the number of queued tasks
func (s *FrameScheduler) Pending() int { return len(s.pending) }

// Arm returns a tick command when work is queued and no tick is in flight
func (s *FrameScheduler) Arm() tea.Cmd {
	if s.armed || len(s.pending) == 0 {
		return nil
	}
	s.armed = true
	return tea.Tick(s.interval, func(time.Time) tea.Msg { return frameMsg{} })
}

// RunFrame runs the tasks queued before this frame. Tasks they defer wait
// for the following frame.
func (s *FrameScheduler) RunFrame() int {
	s.armed = false
	tasks := s.pending
	s.pending = nil
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}
