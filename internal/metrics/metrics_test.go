package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/domain"
)

func TestCollectorCountsBoardActivity(t *testing.T) {
	c := NewCollector()
	b := application.NewBoard(application.WithHooks(c))

	b.AddSticky(domain.Pt(0, 0))
	b.AddShape(domain.Pt(10, 0))
	b.AddShape(domain.Pt(20, 0))
	_, err := b.Connect("1", "2")
	require.NoError(t, err)
	_, err = b.Select([]string{"1"}, false)
	require.NoError(t, err)
	b.DeleteSelected()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.NodesCreated.WithLabelValues(string(domain.KindSticky))))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.NodesCreated.WithLabelValues(string(domain.KindShape))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.NodesDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EdgesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EdgesDeleted))
}

func TestCollectorCountsGeneration(t *testing.T) {
	c := NewCollector()
	q := &generator.Queue{}
	g := generator.New(application.NewBoard(), q, generator.WithChunkSize(10), generator.WithHooks(c))

	require.NoError(t, g.Start(25))
	q.Drain()

	assert.Equal(t, 3.0, testutil.ToFloat64(c.GenerationChunks))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GenerationRuns.WithLabelValues("completed")))
}

func TestCollectorPersistAndHandler(t *testing.T) {
	c := NewCollector()
	c.OnPersist(512, time.Millisecond, nil)
	c.OnPersist(0, time.Millisecond, errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.PersistWrites.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PersistWrites.WithLabelValues("error")))
	assert.Equal(t, 512.0, testutil.ToFloat64(c.PersistBytes))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "whiteboard_persist_writes_total")
}
