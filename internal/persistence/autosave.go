package persistence

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
)

// Autosaver writes the board after every change without blocking the
// mutating goroutine. Writes coalesce: only the latest pending state is
// kept, so a crash between two rapid mutations may persist only the first.
type Autosaver struct {
	persister *Persister
	logger    *log.Logger
	pending   chan domain.State
	delay     time.Duration
}

// NewAutosaver creates an autosaver writing through p
func NewAutosaver(p *Persister, logger *log.Logger) *Autosaver {
	if logger == nil {
		logger = log.Default()
	}
	return &Autosaver{
		persister: p,
		logger:    logger,
		pending:   make(chan domain.State, 1),
	}
}

// WithDelay makes Run wait d after a change before writing, folding any
// changes that arrive meanwhile into the same write.
func (a *Autosaver) WithDelay(d time.Duration) *Autosaver {
	a.delay = d
	return a
}

// Watch queues a save after every change of b. It must be called from the
// goroutine that owns b; the returned function stops watching.
func (a *Autosaver) Watch(b *application.Board) func() {
	return b.Subscribe(func(domain.Snapshot) {
		a.Notify(b.State())
	})
}

// Notify queues s for saving, replacing any state not yet written
func (a *Autosaver) Notify(s domain.State) {
	for {
		select {
		case a.pending <- s:
			return
		default:
			select {
			case <-a.pending:
			default:
			}
		}
	}
}

// Run writes queued states until ctx is done, then flushes what is left
func (a *Autosaver) Run(ctx context.Context) error {
	for {
		select {
		case s := <-a.pending:
			s = a.settle(ctx, s)
			a.save(context.WithoutCancel(ctx), s)
			if ctx.Err() != nil {
				a.flush(ctx)
				return nil
			}
		case <-ctx.Done():
			a.flush(ctx)
			return nil
		}
	}
}

// flush writes a state queued while the last write was in flight
func (a *Autosaver) flush(ctx context.Context) {
	select {
	case s := <-a.pending:
		a.save(context.WithoutCancel(ctx), s)
	default:
	}
}

// settle waits out the delay, keeping the newest state seen
func (a *Autosaver) settle(ctx context.Context, s domain.State) domain.State {
	if a.delay <= 0 {
		return s
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	for {
		select {
		case next := <-a.pending:
			s = next
		case <-timer.C:
			return s
		case <-ctx.Done():
			select {
			case next := <-a.pending:
				return next
			default:
				return s
			}
		}
	}
}

func (a *Autosaver) save(ctx context.Context, s domain.State) {
	if err := a.persister.Save(ctx, s); err != nil {
		a.logger.Error("autosave failed", "err", err)
	}
}
