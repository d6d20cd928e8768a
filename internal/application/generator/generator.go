// Package generator synthesizes large diagrams in bounded chunks, yielding to
// the host between chunks so interactive work keeps flowing.
package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
)

var (
	// ErrAlreadyRunning is returned by Start while a run is in progress
	ErrAlreadyRunning = errors.New("generation already running")

	// ErrInvalidTotal is returned by Start for a node count that is not
	// positive or is above the run limit
	ErrInvalidTotal = errors.New("invalid node count")
)

// Target is the board a generator appends to
type Target interface {
	Reserve(n int) []string
	AppendBatch(nodes []domain.Node, edges []domain.Edge) error
	HasNode(id string) bool
	ShapeDefaults() domain.ShapeDefaults
	EdgeDefaults() domain.EdgeDefaults
}

// State is the lifecycle of a generation run
type State int

const (
	Idle State = iota
	Running
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "idle"
}

// Progress is the read-only view hosts render
type Progress struct {
	Total   int  `json:"total"`
	Done    int  `json:"done"`
	Running bool `json:"running"`
}

// Fraction returns Done/Total in [0,1]
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

// Option configures a Generator
type Option func(*Generator)

// WithChunkSize sets how many nodes one tick inserts
func WithChunkSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.chunkSize = n
		}
	}
}

// WithCols sets the grid width of generated layouts
func WithCols(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.cols = n
		}
	}
}

// WithMaxCount caps the size of a single run
func WithMaxCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxCount = n
		}
	}
}

// WithLogger sets the generator logger
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithHooks registers run observers
func WithHooks(h application.GeneratorHooks) Option {
	return func(g *Generator) {
		if h != nil {
			g.hooks = h
		}
	}
}

// OnProgress registers fn to receive every progress report
func OnProgress(fn func(Progress)) Option {
	return func(g *Generator) { g.onProgress = fn }
}

// OnDone registers fn to run when a run completes naturally
func OnDone(fn func(Progress)) Option {
	return func(g *Generator) { g.onDone = fn }
}

type run struct {
	total int
	done  int
	prev  string
}

// Generator drives chunked generation runs against a Target. Each tick
// appends one chunk and defers the next through the Scheduler.
//
// Generator must be used from the goroutine that runs the scheduler's tasks.
type Generator struct {
	target    Target
	scheduler Scheduler
	chunkSize int
	cols      int
	maxCount  int
	logger    *log.Logger
	hooks     application.GeneratorHooks

	onProgress func(Progress)
	onDone     func(Progress)

	state     State
	progress  Progress
	cancelled bool
	current   *run
	err       error
}

// New creates an idle generator
func New(target Target, scheduler Scheduler, opts ...Option) *Generator {
	g := &Generator{
		target:    target,
		scheduler: scheduler,
		chunkSize: DefaultChunkSize,
		cols:      DefaultCols,
		maxCount:  MaxCount,
		logger:    log.Default(),
		hooks:     application.NoopGeneratorHooks{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the lifecycle state of the latest run
func (g *Generator) State() State { return g.state }

// Progress returns the latest progress report
func (g *Generator) Progress() Progress { return g.progress }

// Err returns the error that stopped the latest run, if any
func (g *Generator) Err() error { return g.err }

// Start schedules a run of total nodes. The first chunk runs on the next
// scheduler turn, not synchronously.
func (g *Generator) Start(total int) error {
	if g.state == Running {
		return ErrAlreadyRunning
	}
	if total <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTotal, total)
	}
	if total > g.maxCount {
		return fmt.Errorf("%w: %d exceeds the limit of %d", ErrInvalidTotal, total, g.maxCount)
	}

	r := &run{total: total}
	g.current = r
	g.cancelled = false
	g.err = nil
	g.state = Running
	g.report(Progress{Total: total, Running: true})
	g.logger.Info("generation started", "total", total, "chunk", g.chunkSize, "cols", g.cols)

	g.scheduler.Defer(func() { g.tick(r) })
	return nil
}

// Cancel asks the running generation to stop. The flag is observed at the
// top of the next tick; nodes already inserted stay.
func (g *Generator) Cancel() {
	if g.state == Running {
		g.cancelled = true
	}
}

func (g *Generator) tick(r *run) {
	if r != g.current {
		return
	}
	if g.cancelled {
		g.finish(Cancelled, "cancelled", r)
		g.report(Progress{})
		return
	}

	started := time.Now()
	size := min(g.chunkSize, r.total-r.done)
	prev := r.prev
	if prev != "" && !g.target.HasNode(prev) {
		// deleted while the run yielded
		prev = ""
	}
	nodes, edges := BuildChunk(ChunkParams{
		StartIndex: r.done,
		IDs:        g.target.Reserve(size),
		PrevID:     prev,
		Cols:       g.cols,
		Shape:      g.target.ShapeDefaults(),
		Edge:       g.target.EdgeDefaults(),
	})
	if err := g.target.AppendBatch(nodes, edges); err != nil {
		g.err = err
		g.logger.Error("generation chunk rejected", "done", r.done, "err", err)
		g.finish(Cancelled, "failed", r)
		g.report(Progress{})
		return
	}

	r.done += size
	r.prev = nodes[len(nodes)-1].ID
	g.hooks.OnChunk(size, time.Since(started))

	if r.done < r.total {
		g.report(Progress{Total: r.total, Done: r.done, Running: true})
		g.scheduler.Defer(func() { g.tick(r) })
		return
	}

	g.finish(Completed, "completed", r)
	final := Progress{Total: r.total, Done: r.done}
	g.report(final)
	if g.onDone != nil {
		g.onDone(final)
	}
}

func (g *Generator) finish(state State, outcome string, r *run) {
	g.state = state
	g.current = nil
	g.hooks.OnRunFinished(outcome, r.done)
	g.logger.Info("generation "+outcome, "done", r.done, "total", r.total)
}

func (g *Generator) report(p Progress) {
	g.progress = p
	if g.onProgress != nil {
		g.onProgress(p)
	}
}
