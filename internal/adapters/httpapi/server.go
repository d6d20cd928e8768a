// Package httpapi exposes a board over a JSON HTTP API. Every handler runs
// its board work on the loop that owns the board.
package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"whiteboard/internal/adapters/dot"
	"whiteboard/internal/application"
	"whiteboard/internal/application/commands"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/domain"
	"whiteboard/internal/loop"
	"whiteboard/internal/persistence"
	"whiteboard/internal/ports"
)

// RequestTimeout bounds a single request, including time queued on the loop
const RequestTimeout = 30 * time.Second

// Server serves the board API
type Server struct {
	loop      *loop.Loop
	board     *application.Board
	generator *generator.Generator
	metrics   http.Handler
	logger    *log.Logger
	exporters map[string]ports.Exporter
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics mounts h at /metrics
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewServer creates a server. gen must schedule on l.
func NewServer(l *loop.Loop, board *application.Board, gen *generator.Generator, opts ...Option) *Server {
	s := &Server{
		loop:      l,
		board:     board,
		generator: gen,
		logger:    log.Default(),
		exporters: make(map[string]ports.Exporter),
	}
	for _, e := range []ports.Exporter{persistence.JSONExporter{}, dot.DOTExporter{}, dot.SVGExporter{}} {
		s.exporters[e.Format()] = e
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", s.getBoard)
		r.Get("/board/export", s.exportBoard)
		r.Post("/board/reset", s.resetBoard)

		r.Post("/nodes", s.createNode)
		r.Get("/nodes/{nodeId}", s.getNode)
		r.Patch("/nodes/{nodeId}", s.patchNode)

		r.Post("/edges", s.createEdge)
		r.Patch("/edges", s.styleEdges)

		r.Put("/selection", s.selectNodes)
		r.Delete("/selection", s.clearSelection)
		r.Post("/selection/delete", s.deleteSelected)
		r.Post("/selection/group", s.groupSelected)
		r.Post("/groups/{nodeId}/ungroup", s.ungroup)

		r.Get("/defaults", s.getDefaults)
		r.Patch("/defaults", s.patchDefaults)

		r.Get("/generation", s.generationStatus)
		r.Post("/generation", s.startGeneration)
		r.Delete("/generation", s.cancelGeneration)
	})
	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("http api listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) do(ctx context.Context, fn func(b *application.Board) error) error {
	return s.loop.Do(ctx, func() error { return fn(s.board) })
}

// --- board ---

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	var snap domain.Snapshot
	if err := s.do(r.Context(), func(b *application.Board) error {
		snap = b.Snapshot()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := persistence.EncodeSnapshot(snap)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

var contentTypes = map[string]string{
	"json": "application/json",
	"dot":  "text/vnd.graphviz",
	"svg":  "image/svg+xml",
}

func (s *Server) exportBoard(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	exporter, ok := s.exporters[format]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown export format "+format)
		return
	}

	var snap domain.Snapshot
	if err := s.do(r.Context(), func(b *application.Board) error {
		snap = b.Snapshot()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(r.Context(), snap, &buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) resetBoard(w http.ResponseWriter, r *http.Request) {
	var result *commands.ResetResult
	if err := s.do(r.Context(), func(b *application.Board) (err error) {
		result, err = commands.NewResetCommand(b).Execute(r.Context())
		return err
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

// --- nodes ---

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var resp nodeResponse
	if err := s.do(r.Context(), func(b *application.Board) error {
		cmd := commands.NewAddNodeCommand(b, req.Kind, req.X, req.Y)
		cmd.Text = req.Text
		result, err := cmd.Execute(r.Context())
		if err != nil {
			return err
		}
		abs, _ := b.AbsolutePosition(result.Node.ID)
		resp = toNodeResponse(result.Node, abs)
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeId")
	if err := application.ValidateNodeID("nodeId", id); err != nil {
		s.fail(w, r, err)
		return
	}

	var resp nodeResponse
	if err := s.do(r.Context(), func(b *application.Board) error {
		n, ok := b.Node(id)
		if !ok {
			return errNodeNotFound(id)
		}
		abs, _ := b.AbsolutePosition(id)
		resp = toNodeResponse(n, abs)
		for _, e := range b.Snapshot().Edges {
			if e.SourceID == id || e.TargetID == id {
				resp.Edges = append(resp.Edges, e.ID)
			}
		}
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) patchNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeId")
	var req patchNodeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var resp nodeResponse
	if err := s.do(r.Context(), func(b *application.Board) error {
		if err := applyNodePatch(r.Context(), b, id, req); err != nil {
			return err
		}
		n, ok := b.Node(id)
		if !ok {
			return errNodeNotFound(id)
		}
		abs, _ := b.AbsolutePosition(id)
		resp = toNodeResponse(n, abs)
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func applyNodePatch(ctx context.Context, b *application.Board, id string, req patchNodeRequest) error {
	ids := []string{id}
	if req.DX != 0 || req.DY != 0 || req.Position != nil {
		cmd := commands.NewMoveCommand(b, ids, req.DX, req.DY)
		cmd.To = req.Position
		if _, err := cmd.Execute(ctx); err != nil {
			return err
		}
	}
	if req.Width != nil || req.Height != nil {
		n, ok := b.Node(id)
		if !ok {
			return errNodeNotFound(id)
		}
		width, height := n.Size.Width, n.Size.Height
		if req.Width != nil {
			width = *req.Width
		}
		if req.Height != nil {
			height = *req.Height
		}
		if _, err := commands.NewResizeCommand(b, ids, width, height).Execute(ctx); err != nil {
			return err
		}
	}
	if req.Text != nil {
		if _, err := commands.NewEditTextCommand(b, id, *req.Text).Execute(ctx); err != nil {
			return err
		}
	}
	if req.Style != nil {
		patch, err := req.Style.patch()
		if err != nil {
			return err
		}
		if _, err := commands.NewStyleShapesCommand(b, ids, patch).Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// --- edges ---

func (s *Server) createEdge(w http.ResponseWriter, r *http.Request) {
	var req createEdgeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var edge domain.Edge
	if err := s.do(r.Context(), func(b *application.Board) error {
		result, err := commands.NewConnectCommand(b, req.Source, req.Target).Execute(r.Context())
		if err != nil {
			return err
		}
		edge = result.Edge
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEdgeResponse(edge))
}

func (s *Server) styleEdges(w http.ResponseWriter, r *http.Request) {
	var req styleEdgesRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	patch, err := req.Style.patch()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var result *commands.PatchResult
	if err := s.do(r.Context(), func(b *application.Board) (err error) {
		cmd := commands.NewStyleEdgesCommand(b, req.IDs, patch)
		cmd.Nodes = req.Nodes
		result, err = cmd.Execute(r.Context())
		return err
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: result.Count, Message: result.Message})
}

// --- selection ---

func (s *Server) selectNodes(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var result *commands.PatchResult
	if err := s.do(r.Context(), func(b *application.Board) (err error) {
		result, err = commands.NewSelectCommand(b, req.IDs, req.Additive).Execute(r.Context())
		return err
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: result.Count, Message: result.Message})
}

func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	var result *commands.PatchResult
	if err := s.do(r.Context(), func(b *application.Board) (err error) {
		cmd := commands.NewSelectCommand(b, nil, false)
		cmd.None = true
		result, err = cmd.Execute(r.Context())
		return err
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: result.Count, Message: result.Message})
}

func (s *Server) deleteSelected(w http.ResponseWriter, r *http.Request) {
	var result *commands.DeleteResult
	if err := s.do(r.Context(), func(b *application.Board) (err error) {
		result, err = commands.NewDeleteCommand(b).Execute(r.Context())
		return err
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Removed: nonNil(result.Removed), Message: result.Message})
}

func (s *Server) groupSelected(w http.ResponseWriter, r *http.Request) {
	var (
		result *commands.GroupResult
		resp   groupResponse
	)
	if err := s.do(r.Context(), func(b *application.Board) (err error) {
		result, err = commands.NewGroupCommand(b).Execute(r.Context())
		if err != nil || result.Frame == nil {
			return err
		}
		abs, _ := b.AbsolutePosition(result.Frame.ID)
		frame := toNodeResponse(*result.Frame, abs)
		resp.Frame = &frame
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	resp.Message = result.Message
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) ungroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeId")
	var result *commands.UngroupResult
	if err := s.do(r.Context(), func(b *application.Board) (err error) {
		result, err = commands.NewUngroupCommand(b, id).Execute(r.Context())
		return err
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ungroupResponse{Released: nonNil(result.Released), Message: result.Message})
}

// --- defaults ---

func (s *Server) getDefaults(w http.ResponseWriter, r *http.Request) {
	var resp defaultsResponse
	if err := s.do(r.Context(), func(b *application.Board) error {
		resp = defaultsResponse{Shape: b.ShapeDefaults(), Edge: b.EdgeDefaults(), UI: b.UIPreferences()}
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) patchDefaults(w http.ResponseWriter, r *http.Request) {
	var req defaultsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	shape, err := req.Shape.patch()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	edge, err := req.Edge.patch()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var result *commands.DefaultsResult
	if err := s.do(r.Context(), func(b *application.Board) (err error) {
		cmd := commands.NewSetDefaultsCommand(b)
		cmd.Shape, cmd.Edge = shape, edge
		cmd.UI = application.UIPatch{
			ShowResizeHandles:     req.UI.ShowResizers,
			AllowNonUniformResize: req.UI.AllowStretch,
		}
		result, err = cmd.Execute(r.Context())
		return err
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, defaultsResponse{
		Shape:   result.Shape,
		Edge:    result.Edge,
		UI:      result.UI,
		Message: result.Message,
	})
}

// --- generation ---

func (s *Server) generationStatus(w http.ResponseWriter, r *http.Request) {
	var resp generationResponse
	if err := s.do(r.Context(), func(*application.Board) error {
		resp = s.generationResponse()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) startGeneration(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	count, err := generator.ParseCount(req.Count)
	if err != nil {
		s.fail(w, r, &application.ValidationError{Field: "count", Message: err.Error()})
		return
	}

	var resp generationResponse
	if err := s.do(r.Context(), func(b *application.Board) error {
		if s.generator.State() == generator.Running {
			return generator.ErrAlreadyRunning
		}
		if req.Reset {
			b.Reset()
		}
		if err := s.generator.Start(count); err != nil {
			return err
		}
		resp = s.generationResponse()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) cancelGeneration(w http.ResponseWriter, r *http.Request) {
	var resp generationResponse
	if err := s.do(r.Context(), func(*application.Board) error {
		s.generator.Cancel()
		resp = s.generationResponse()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) generationResponse() generationResponse {
	resp := generationResponse{
		State:    s.generator.State().String(),
		Progress: s.generator.Progress(),
	}
	if err := s.generator.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}
