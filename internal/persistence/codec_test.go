package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/adapters/memory"
	"whiteboard/internal/application"
	"whiteboard/internal/domain"
)

func sampleState() domain.State {
	s := domain.EmptyState()
	s.Nodes = []domain.Node{
		{ID: "1", Position: domain.Pt(-40, 12.5), Size: domain.GroupSize, Data: domain.GroupData{}},
		{ID: "2", Position: domain.Pt(24, 24), Size: domain.StickySize, Data: domain.StickyData{Text: "Node 2"}, ParentID: "1"},
		{ID: "4", Position: domain.Pt(300, 0), Size: domain.RoundSize, Data: domain.ShapeData{
			Shape: domain.ShapeDiamond, Fill: "#fde68a", Stroke: "#1e3a8a", StrokeWidth: 3,
		}},
		{ID: "5", Position: domain.Pt(0.1, 0.2), Size: domain.TextSize, Data: domain.TextData{Text: ""}},
	}
	s.Edges = []domain.Edge{
		{ID: "e2-4", SourceID: "2", TargetID: "4", Style: domain.EdgeStyle{Routing: domain.RoutingCurved, Dashed: true, Label: "to"}},
		{ID: "e4-4", SourceID: "4", TargetID: "4", Style: domain.EdgeStyle{Routing: domain.RoutingStep, Arrowed: true}},
	}
	s.NextID = 9
	s.Shape.Shape = domain.ShapeCircle
	s.Edge = domain.EdgeDefaults{Routing: domain.RoutingStep, Dashed: true, Label: "x"}
	s.UI = domain.UIPreferences{ShowResizeHandles: false, AllowNonUniformResize: true}
	return s
}

func TestCodecRoundTrip(t *testing.T) {
	want := sampleState()

	data, err := Encode(want)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestCodecDropsSelection(t *testing.T) {
	s := sampleState()
	s.Nodes[2].Selected = true

	data, err := Encode(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "selected")

	got, err := Decode(data)
	require.NoError(t, err)
	assert.False(t, got.Nodes[2].Selected)
}

func TestDecodeRejects(t *testing.T) {
	valid, err := Encode(sampleState())
	require.NoError(t, err)

	mutate := func(fn func(st map[string]any)) []byte {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(valid, &rec))
		fn(rec["state"].(map[string]any))
		out, err := json.Marshal(rec)
		require.NoError(t, err)
		return out
	}
	node := func(st map[string]any, i int) map[string]any {
		return st["nodes"].([]any)[i].(map[string]any)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("{nope")},
		{"unknown version", []byte(`{"version":2,"state":{}}`)},
		{"missing version", []byte(`{"state":{"nodes":[],"edges":[],"nextId":1}}`)},
		{"missing state", []byte(`{"version":1}`)},
		{"unknown field", mutate(func(st map[string]any) { st["viewport"] = map[string]any{"zoom": 2} })},
		{"unknown node type", mutate(func(st map[string]any) { node(st, 1)["type"] = "cloud" })},
		{"sticky without text", mutate(func(st map[string]any) { delete(node(st, 1)["data"].(map[string]any), "text") })},
		{"bad shape fill", mutate(func(st map[string]any) { node(st, 2)["data"].(map[string]any)["fill"] = "yellow" })},
		{"zero size", mutate(func(st map[string]any) { node(st, 3)["width"] = 0 })},
		{"dangling parent", mutate(func(st map[string]any) { node(st, 1)["parentId"] = "77" })},
		{"dangling edge", mutate(func(st map[string]any) {
			st["edges"].([]any)[0].(map[string]any)["target"] = "77"
		})},
		{"duplicate id", mutate(func(st map[string]any) { node(st, 3)["id"] = "4" })},
		{"counter behind", mutate(func(st map[string]any) { st["nextId"] = 5 })},
		{"non numeric id", mutate(func(st map[string]any) { node(st, 3)["id"] = "abc" })},
		{"bad routing", mutate(func(st map[string]any) {
			st["edges"].([]any)[1].(map[string]any)["type"] = "zigzag"
		})},
		{"bad defaults", mutate(func(st map[string]any) {
			st["shapeOpts"].(map[string]any)["strokeWidth"] = 40
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPersistedSchema), "got %v", err)
		})
	}
}

func TestDecodeAcceptsAliases(t *testing.T) {
	data := []byte(`{"version":1,"state":{
		"nodes":[
			{"id":"1","type":"textNode","position":{"x":0,"y":0},"width":220,"height":56,"data":{"text":"Title 1"}},
			{"id":"2","type":"sticky","position":{"x":0,"y":0},"width":180,"height":120,"data":{"text":"Note 2"}}
		],
		"edges":[{"id":"e1-2","source":"1","target":"2","type":"smoothstep"}],
		"nextId":3,
		"shapeOpts":{"kind":"rectangle","fill":"#bfdbfe","stroke":"#1e3a8a","strokeWidth":2},
		"edgeOpts":{"type":"smoothstep","dashed":false,"arrow":true,"label":""},
		"ui":{"showResizers":true,"allowStretch":false}
	}}`)

	s, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, domain.KindText, s.Nodes[0].Kind())
	assert.Equal(t, domain.RoutingCurved, s.Edges[0].Style.Routing)
	assert.Equal(t, domain.RoutingCurved, s.Edge.Routing)
}

func TestEncodeSnapshot(t *testing.T) {
	s := sampleState()
	data, err := EncodeSnapshot(domain.Snapshot{Nodes: s.Nodes, Edges: s.Edges})
	require.NoError(t, err)

	var doc struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Nodes, 4)
	assert.Len(t, doc.Edges, 2)
	assert.Equal(t, "group", doc.Nodes[0]["type"])
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestPersisterSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := NewPersister(store, WithLogger(quietLogger()))

	_, ok := p.Load(ctx)
	assert.False(t, ok, "empty store")

	want := sampleState()
	require.NoError(t, p.Save(ctx, want))
	got, ok := p.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, want, got)

	raw, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version":1`)

	require.NoError(t, p.Clear(ctx))
	_, ok = p.Load(ctx)
	assert.False(t, ok)
}

func TestPersisterLoadIgnoresForeignRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Put(ctx, StorageKey, []byte(`{"version":99,"state":{"anything":true}}`)))

	p := NewPersister(store, WithLogger(quietLogger()))
	s, ok := p.Load(ctx)
	assert.False(t, ok)
	assert.Equal(t, domain.State{}, s)

	b := application.NewBoard()
	b.AddSticky(domain.Pt(0, 0))
	assert.False(t, p.LoadInto(ctx, b))
	assert.Equal(t, 1, b.NodeCount(), "board untouched")
}

func TestPersisterLoadIntoBoard(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(memory.NewStore(), WithLogger(quietLogger()))
	require.NoError(t, p.Save(ctx, sampleState()))

	b := application.NewBoard()
	require.True(t, p.LoadInto(ctx, b))
	assert.Equal(t, 4, b.NodeCount())
	assert.Equal(t, domain.ShapeCircle, b.ShapeDefaults().Shape)

	n := b.AddSticky(domain.Pt(0, 0))
	assert.Equal(t, "9", n.ID, "counter restored")
}

type recordingHooks struct{ writes, failures int }

func (h *recordingHooks) OnPersist(_ int, _ time.Duration, err error) {
	h.writes++
	if err != nil {
		h.failures++
	}
}

func TestAutosaverPersistsLatestState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := memory.NewStore()
	hooks := &recordingHooks{}
	p := NewPersister(store, WithLogger(quietLogger()), WithHooks(hooks))
	a := NewAutosaver(p, quietLogger())

	b := application.NewBoard()
	stop := a.Watch(b)
	b.AddSticky(domain.Pt(0, 0))
	b.AddShape(domain.Pt(10, 10))
	_, err := b.Connect("1", "2")
	require.NoError(t, err)
	stop()
	b.AddText(domain.Pt(0, 0))

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()
	require.NoError(t, <-done)

	got, ok := p.Load(context.Background())
	require.True(t, ok)
	assert.Len(t, got.Nodes, 2, "changes after stop are not saved")
	assert.Len(t, got.Edges, 1)
	assert.GreaterOrEqual(t, hooks.writes, 1)
	assert.Zero(t, hooks.failures)
}

func TestAutosaverDelayCoalesces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hooks := &recordingHooks{}
	p := NewPersister(memory.NewStore(), WithLogger(quietLogger()), WithHooks(hooks))
	a := NewAutosaver(p, quietLogger()).WithDelay(time.Hour)

	b := application.NewBoard()
	a.Watch(b)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	for range 5 {
		b.AddSticky(domain.Pt(0, 0))
	}
	cancel()
	require.NoError(t, <-done)

	got, ok := p.Load(context.Background())
	require.True(t, ok)
	assert.Len(t, got.Nodes, 5)
	assert.LessOrEqual(t, hooks.writes, 2)
}

func TestPersisterSavesAfterOffCanvasInput(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(memory.NewStore(), WithLogger(quietLogger()))
	b := application.NewBoard()

	n := b.AddSticky(domain.Point{X: 1e306, Y: -1e306})
	assert.Equal(t, domain.Pt(domain.MaxCoordinate, -domain.MaxCoordinate), n.Position)

	_, err := b.PatchNodes(application.MatchIDs(n.ID), application.NodePatch{Translate: &domain.Point{X: 1}})
	require.ErrorIs(t, err, application.ErrNotApplicable)

	require.NoError(t, p.Save(ctx, b.State()))
	got, ok := p.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, n.Position, got.Nodes[0].Position)
}

// slowStore holds the first Put until released
type slowStore struct {
	*memory.Store
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowStore) Put(ctx context.Context, key string, value []byte) error {
	s.once.Do(func() {
		close(s.started)
		<-s.release
	})
	return s.Store.Put(ctx, key, value)
}

func TestAutosaverFlushesStateQueuedDuringLastWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := &slowStore{Store: memory.NewStore(), started: make(chan struct{}), release: make(chan struct{})}
	p := NewPersister(store, WithLogger(quietLogger()))
	a := NewAutosaver(p, quietLogger())

	b := application.NewBoard()
	b.AddSticky(domain.Pt(0, 0))
	a.Notify(b.State())

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	<-store.started

	b.AddSticky(domain.Pt(200, 0))
	a.Notify(b.State())
	cancel()
	close(store.release)
	require.NoError(t, <-done)

	got, ok := p.Load(context.Background())
	require.True(t, ok)
	assert.Len(t, got.Nodes, 2)
}
