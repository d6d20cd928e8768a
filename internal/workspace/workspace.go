// Package workspace assembles a board and its supporting infrastructure from
// configuration. Every binary opens exactly one Workspace.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"whiteboard/internal/adapters/filesystem"
	"whiteboard/internal/adapters/memory"
	"whiteboard/internal/adapters/mongo"
	"whiteboard/internal/adapters/redis"
	"whiteboard/internal/adapters/sqlite"
	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/config"
	"whiteboard/internal/metrics"
	"whiteboard/internal/persistence"
	"whiteboard/internal/ports"
)

// Workspace is an opened board with its store, persister and metrics
type Workspace struct {
	Config    config.Config
	Logger    *log.Logger
	Metrics   *metrics.Collector
	Store     ports.KeyValueStore
	Board     *application.Board
	Persister *persistence.Persister
	Autosaver *persistence.Autosaver

	// Restored reports whether a saved board was loaded
	Restored bool
}

// Open opens the configured store and restores the saved board from it, if
// any. A record that fails to decode is logged and an empty board is used.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*Workspace, error) {
	if logger == nil {
		logger = log.Default()
	}

	policy, err := application.ParseOrphanPolicy(cfg.Board.OrphanPolicy)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector()
	registry := application.NewRegistry()
	if err := registry.Replace(cfg.Shape, cfg.Edge, cfg.UI); err != nil {
		store.Close()
		return nil, fmt.Errorf("configured defaults: %w", err)
	}

	board := application.NewBoard(
		application.WithLogger(logger.WithPrefix("board")),
		application.WithOrphanPolicy(policy),
		application.WithHooks(collector),
		application.WithRegistry(registry),
	)
	persister := persistence.NewPersister(store,
		persistence.WithLogger(logger.WithPrefix("store")),
		persistence.WithHooks(collector),
	)

	w := &Workspace{
		Config:    cfg,
		Logger:    logger,
		Metrics:   collector,
		Store:     store,
		Board:     board,
		Persister: persister,
		Autosaver: persistence.NewAutosaver(persister, logger.WithPrefix("autosave")).
			WithDelay(cfg.Store.AutosaveDelay.Duration),
	}
	w.Restored = persister.LoadInto(ctx, board)
	logger.Debug("workspace opened",
		"board", cfg.Board.Name,
		"backend", cfg.Store.Backend,
		"restored", w.Restored,
		"nodes", board.NodeCount(),
	)
	return w, nil
}

// OpenStore opens the key/value store selected by cfg
func OpenStore(ctx context.Context, cfg config.Config) (ports.KeyValueStore, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendFile:
		dir := cfg.Store.Path
		if dir == "" {
			dir = filepath.Join(config.DataDir(), "boards", cfg.Board.Name)
		}
		return filesystem.NewStore(config.ExpandHome(dir))
	case config.BackendSQLite, "":
		path := cfg.Store.Path
		if path == "" {
			path = sqlite.DatabasePath(cfg.Board.Name)
		}
		return sqlite.Open(path)
	case config.BackendRedis:
		return redis.Open(ctx, cfg.Store.URL, cfg.Board.Name)
	case config.BackendMongo:
		return mongo.Open(ctx, cfg.Store.URL, cfg.Board.Name)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// NewGenerator creates a generator on the workspace board using the
// configured chunking.
func (w *Workspace) NewGenerator(s generator.Scheduler, opts ...generator.Option) *generator.Generator {
	base := []generator.Option{
		generator.WithChunkSize(w.Config.Generator.ChunkSize),
		generator.WithCols(w.Config.Generator.Cols),
		generator.WithMaxCount(w.Config.Generator.MaxCount),
		generator.WithLogger(w.Logger.WithPrefix("generator")),
		generator.WithHooks(w.Metrics),
	}
	return generator.New(w.Board, s, append(base, opts...)...)
}

// Save writes the board synchronously
func (w *Workspace) Save(ctx context.Context) error {
	return w.Persister.Save(ctx, w.Board.State())
}

// Close releases the store
func (w *Workspace) Close() error {
	return w.Store.Close()
}
