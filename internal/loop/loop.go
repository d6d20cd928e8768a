// Package loop serializes work onto a single goroutine. Hosts that accept
// requests concurrently (MCP, HTTP) funnel every board access through one
// Loop so the board itself needs no locking.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Do once the loop has stopped
var ErrStopped = errors.New("loop stopped")

// Loop is a FIFO task queue drained by Run. It satisfies the generator's
// Scheduler: deferred work runs on a later turn, after tasks already queued.
type Loop struct {
	mu      sync.Mutex
	tasks   []func()
	wake    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// New creates a loop. Nothing runs until Run is called.
func New() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Defer is Post under the generator's Scheduler name
func (l *Loop) Defer(fn func()) { l.Post(fn) }

// Do runs fn on the loop goroutine and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	l.Post(func() { done <- fn() })
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		// fn may have run on the loop's last turn
		select {
		case err := <-done:
			return err
		default:
			return ErrStopped
		}
	}
}

// Run drains tasks until ctx is done. One task runs per turn so work posted
// while a task runs queues behind everything already waiting.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.stopped) })
	for {
		if fn, ok := l.next(); ok {
			fn()
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return nil
		}
	}
}

// Pending returns the number of queued tasks
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	fn := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return fn, true
}
