package workspace

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/adapters/filesystem"
	"whiteboard/internal/adapters/memory"
	"whiteboard/internal/adapters/sqlite"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/config"
	"whiteboard/internal/domain"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func TestOpenStoreBackends(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		path    string
		check   func(t *testing.T, s any)
	}{
		{config.BackendMemory, "", func(t *testing.T, s any) { assert.IsType(t, &memory.Store{}, s) }},
		{config.BackendFile, filepath.Join(dir, "files"), func(t *testing.T, s any) { assert.IsType(t, &filesystem.Store{}, s) }},
		{config.BackendSQLite, filepath.Join(dir, "board.db"), func(t *testing.T, s any) { assert.IsType(t, &sqlite.Store{}, s) }},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Backend = tt.backend
			cfg.Store.Path = tt.path
			s, err := OpenStore(context.Background(), cfg)
			require.NoError(t, err)
			defer s.Close()
			tt.check(t, s)
		})
	}

	cfg := config.Default()
	cfg.Store.Backend = "etcd"
	_, err := OpenStore(context.Background(), cfg)
	assert.Error(t, err)

	cfg.Store.Backend = config.BackendRedis
	cfg.Store.URL = "http://not-redis"
	_, err = OpenStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenAppliesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Board.OrphanPolicy = "cascade"
	cfg.Shape.Shape = domain.ShapeCircle
	cfg.Generator.ChunkSize = 4

	w, err := Open(context.Background(), cfg, quiet())
	require.NoError(t, err)
	defer w.Close()
	assert.False(t, w.Restored)

	n := w.Board.AddShape(domain.Pt(0, 0))
	assert.Equal(t, domain.ShapeCircle, n.Data.(domain.ShapeData).Shape)

	q := &generator.Queue{}
	g := w.NewGenerator(q)
	require.NoError(t, g.Start(10))
	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, 11, w.Board.NodeCount())
}

func TestOpenRestoresSavedBoard(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "board.db")

	w, err := Open(ctx, cfg, quiet())
	require.NoError(t, err)
	w.Board.AddSticky(domain.Pt(0, 0))
	w.Board.AddSticky(domain.Pt(200, 0))
	_, err = w.Board.Connect("1", "2")
	require.NoError(t, err)
	require.NoError(t, w.Save(ctx))
	require.NoError(t, w.Close())

	again, err := Open(ctx, cfg, quiet())
	require.NoError(t, err)
	defer again.Close()
	assert.True(t, again.Restored)
	assert.Equal(t, 2, again.Board.NodeCount())
	assert.Equal(t, 1, again.Board.EdgeCount())
	assert.Equal(t, "3", again.Board.AddText(domain.Pt(0, 0)).ID)
}
