package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set WHITEBOARD_TEST_MONGO_URI (e.g. mongodb://localhost:27017) to run
// against a live server.
func openLive(t *testing.T, board string) *Store {
	t.Helper()
	uri := os.Getenv("WHITEBOARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("WHITEBOARD_TEST_MONGO_URI not set")
	}
	s, err := Open(context.Background(), uri, board)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "default/whiteboard:canvas:v1", DocumentID("default", "whiteboard:canvas:v1"))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openLive(t, "test-roundtrip")
	t.Cleanup(func() { _ = s.Delete(ctx, "k") })

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Put(ctx, "k", []byte("one")))
	require.NoError(t, s.Put(ctx, "k", []byte("two")))
	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(v))

	other := openLive(t, "test-other")
	v, err = other.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v, "boards are isolated")

	require.NoError(t, s.Delete(ctx, "k"))
	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}
