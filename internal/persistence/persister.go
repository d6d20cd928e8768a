package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
	"whiteboard/internal/ports"
)

// Option configures a Persister
type Option func(*Persister)

// WithKey overrides the storage key
func WithKey(key string) Option {
	return func(p *Persister) {
		if key != "" {
			p.key = key
		}
	}
}

// WithLogger sets the persister logger
func WithLogger(l *log.Logger) Option {
	return func(p *Persister) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithHooks registers write observers
func WithHooks(h application.PersistHooks) Option {
	return func(p *Persister) {
		if h != nil {
			p.hooks = h
		}
	}
}

// Persister saves and loads a board record in a key/value store
type Persister struct {
	store  ports.KeyValueStore
	key    string
	logger *log.Logger
	hooks  application.PersistHooks
}

// NewPersister creates a persister over store
func NewPersister(store ports.KeyValueStore, opts ...Option) *Persister {
	p := &Persister{
		store:  store,
		key:    StorageKey,
		logger: log.Default(),
		hooks:  application.NoopPersistHooks{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Save writes the durable subset of s
func (p *Persister) Save(ctx context.Context, s domain.State) error {
	started := time.Now()
	data, err := Encode(s)
	if err == nil {
		err = p.store.Put(ctx, p.key, data)
	}
	p.hooks.OnPersist(len(data), time.Since(started), err)
	if err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	p.logger.Debug("board saved", "key", p.key, "bytes", len(data), "nodes", len(s.Nodes))
	return nil
}

// Load reads the stored board. ok is false when nothing usable is stored;
// corrupt or foreign records are logged and ignored, never fatal.
func (p *Persister) Load(ctx context.Context) (s domain.State, ok bool) {
	data, err := p.store.Get(ctx, p.key)
	if err != nil {
		p.logger.Warn("board record unreadable, starting empty", "key", p.key, "err", err)
		return domain.State{}, false
	}
	if data == nil {
		return domain.State{}, false
	}

	s, err = Decode(data)
	if err != nil {
		level := log.ErrorLevel
		if errors.Is(err, ErrInvalidPersistedSchema) {
			level = log.WarnLevel
		}
		p.logger.Log(level, "discarding stored board", "key", p.key, "err", err)
		return domain.State{}, false
	}
	p.logger.Debug("board loaded", "key", p.key, "nodes", len(s.Nodes), "edges", len(s.Edges))
	return s, true
}

// LoadInto restores the stored board into b, leaving b untouched when
// nothing usable is stored.
func (p *Persister) LoadInto(ctx context.Context, b *application.Board) bool {
	s, ok := p.Load(ctx)
	if !ok {
		return false
	}
	if err := b.Restore(s); err != nil {
		p.logger.Warn("stored board rejected", "key", p.key, "err", err)
		return false
	}
	return true
}

// Clear removes the stored board
func (p *Persister) Clear(ctx context.Context) error {
	return p.store.Delete(ctx, p.key)
}
