package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/loop"
	"whiteboard/internal/metrics"
)

type fixture struct {
	srv   *httptest.Server
	board *application.Board
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	l := loop.New()
	stopped := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(stopped)
	}()

	quiet := log.New(io.Discard)
	collector := metrics.NewCollector()
	board := application.NewBoard(application.WithLogger(quiet), application.WithHooks(collector))
	gen := generator.New(board, l, generator.WithChunkSize(100), generator.WithLogger(quiet), generator.WithHooks(collector))
	s := NewServer(l, board, gen, WithLogger(quiet), WithMetrics(collector.Handler()))

	srv := httptest.NewServer(s.Routes())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-stopped
	})
	return &fixture{srv: srv, board: board}
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func TestCreateNodesAndEdges(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/nodes", `{"kind":"sticky","x":10,"y":20,"text":"hello"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "1", body["id"])
	assert.Equal(t, "sticky", body["type"])
	assert.Equal(t, "hello", body["text"])

	status, body = f.do(t, http.MethodPost, "/api/nodes", `{"kind":"shape","x":300}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "rectangle", body["style"].(map[string]any)["kind"])

	status, body = f.do(t, http.MethodPost, "/api/edges", `{"source":"1","target":"2"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "e1-2", body["id"])

	status, body = f.do(t, http.MethodGet, "/api/nodes/2", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"e1-2"}, body["edges"])

	status, body = f.do(t, http.MethodGet, "/api/board", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["nodes"], 2)
	assert.Len(t, body["edges"], 1)
}

func TestErrorStatuses(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/nodes", `{"kind":"text"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown kind", http.MethodPost, "/api/nodes", `{"kind":"cloud"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/nodes", `{"kind":"text","color":"red"}`, http.StatusBadRequest},
		{"missing node", http.MethodGet, "/api/nodes/9", "", http.StatusNotFound},
		{"bad node id", http.MethodGet, "/api/nodes/abc", "", http.StatusBadRequest},
		{"dangling edge", http.MethodPost, "/api/edges", `{"source":"1","target":"7"}`, http.StatusNotFound},
		{"resize to zero", http.MethodPatch, "/api/nodes/1", `{"width":0}`, http.StatusBadRequest},
		{"bad export", http.MethodGet, "/api/board/export?format=png", "", http.StatusBadRequest},
		{"bad count", http.MethodPost, "/api/generation", `{"count":"zero"}`, http.StatusBadRequest},
		{"wrapping count", http.MethodPost, "/api/generation", `{"count":"18446744073709552k"}`, http.StatusBadRequest},
		{"off canvas node", http.MethodPost, "/api/nodes", `{"kind":"sticky","x":1e306}`, http.StatusBadRequest},
		{"off canvas move", http.MethodPatch, "/api/nodes/1", `{"dx":1e306}`, http.StatusBadRequest},
		{"bad defaults", http.MethodPatch, "/api/defaults", `{"shapeOpts":{"strokeWidth":20}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status, body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSelectionGroupDelete(t *testing.T) {
	f := newFixture(t)
	for _, x := range []string{"0", "200", "400"} {
		status, _ := f.do(t, http.MethodPost, "/api/nodes", `{"kind":"sticky","x":`+x+`}`)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := f.do(t, http.MethodPut, "/api/selection", `{"ids":["1","2"]}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 2.0, body["count"])

	status, body = f.do(t, http.MethodPost, "/api/selection/group", "")
	require.Equal(t, http.StatusOK, status, body)
	frame := body["frame"].(map[string]any)
	assert.Equal(t, "4", frame["id"])
	assert.Equal(t, "group", frame["type"])

	status, body = f.do(t, http.MethodPost, "/api/groups/4/ungroup", "")
	require.Equal(t, http.StatusOK, status, body)
	assert.ElementsMatch(t, []any{"1", "2"}, body["released"])

	f.do(t, http.MethodPut, "/api/selection", `{"ids":["3"]}`)
	status, body = f.do(t, http.MethodPost, "/api/selection/delete", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"3"}, body["removed"])

	status, body = f.do(t, http.MethodPost, "/api/selection/delete", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Nothing selected", body["message"])
}

func TestGroupInsideFrameReportsAbsolutePosition(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/nodes", `{"kind":"sticky","x":0}`)
	f.do(t, http.MethodPost, "/api/nodes", `{"kind":"sticky","x":200}`)
	f.do(t, http.MethodPut, "/api/selection", `{"ids":["1","2"]}`)
	status, body := f.do(t, http.MethodPost, "/api/selection/group", "")
	require.Equal(t, http.StatusOK, status, body)

	f.do(t, http.MethodPut, "/api/selection", `{"ids":["2"]}`)
	status, body = f.do(t, http.MethodPost, "/api/selection/group", "")
	require.Equal(t, http.StatusOK, status, body)

	frame := body["frame"].(map[string]any)
	assert.Equal(t, "4", frame["id"])
	assert.Equal(t, "3", frame["parentId"])
	assert.Equal(t, map[string]any{"x": 200.0, "y": 0.0}, frame["position"])
	assert.Equal(t, map[string]any{"x": 176.0, "y": -24.0}, frame["absolute"])
}

func TestPatchNodeAndDefaults(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/nodes", `{"kind":"shape"}`)

	status, body := f.do(t, http.MethodPatch, "/api/nodes/1", `{"dx":5,"dy":-5,"width":90,"style":{"fill":"#000000"}}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, map[string]any{"x": 5.0, "y": -5.0}, body["position"])
	assert.Equal(t, 90.0, body["width"])
	assert.Equal(t, "#000000", body["style"].(map[string]any)["fill"])

	status, body = f.do(t, http.MethodPatch, "/api/defaults", `{"edgeOpts":{"type":"step","dashed":true},"ui":{"allowStretch":true}}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "step", body["edgeOpts"].(map[string]any)["type"])
	assert.Equal(t, true, body["ui"].(map[string]any)["allowStretch"])

	status, body = f.do(t, http.MethodGet, "/api/defaults", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["edgeOpts"].(map[string]any)["dashed"])
}

func TestGenerationLifecycle(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/generation", `{"count":"1k"}`)
	require.Equal(t, http.StatusAccepted, status, body)

	require.Eventually(t, func() bool {
		_, body := f.do(t, http.MethodGet, "/api/generation", "")
		return body["state"] == "completed"
	}, 5*time.Second, 5*time.Millisecond)

	_, body = f.do(t, http.MethodGet, "/api/generation", "")
	progress := body["progress"].(map[string]any)
	assert.Equal(t, 1000.0, progress["done"])

	status, _ = f.do(t, http.MethodPost, "/api/board/reset", "")
	require.Equal(t, http.StatusOK, status)
	_, body = f.do(t, http.MethodGet, "/api/board", "")
	assert.Empty(t, body["nodes"])
}

func TestExportAndMetrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/nodes", `{"kind":"sticky"}`)

	resp, err := http.Get(f.srv.URL + "/api/board/export?format=dot")
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(data), "digraph whiteboard")
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	resp, err = http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	data, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(data), `whiteboard_nodes_created_total{kind="sticky"} 1`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t)
	req, _ := http.NewRequest(http.MethodGet, f.srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}
