// Package http exposes a running simulated navigator over HTTP: container
// stacks can be inspected and driven, navigation events streamed over SSE and
// metrics scraped.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// containerOps are the step operations accepted on /containers/{id}/{op}.
var containerOps = map[string]bool{
	scenario.OpPush:      true,
	scenario.OpPop:       true,
	scenario.OpPopTo:     true,
	scenario.OpReplace:   true,
	scenario.OpSet:       true,
	scenario.OpMoveToTop: true,
	scenario.OpRemove:    true,
	scenario.OpClear:     true,
	scenario.OpPersist:   true,
	scenario.OpRestore:   true,
}

// Server serialises HTTP access to a scenario.World.
type Server struct {
	mu       sync.Mutex
	world    *scenario.World
	streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStreams serves GET /events from sm. sm.Hooks must be installed on the
// world's navigator for events to flow.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.streams = sm
	}
}

// WithGatherer serves GET /metrics from g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server over world.
func NewServer(world *scenario.World, opts ...Option) *Server {
	s := &Server{world: world, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/containers", s.listContainers)
	r.Get("/containers/{id}/stack", s.getStack)
	r.Post("/containers/{id}/{op}", s.postContainerOp)
	r.Get("/graph", s.getGraph)
	r.Post("/geometry", s.postGeometry)
	r.Post("/app-state", s.postAppState)
	r.Post("/advance", s.postAdvance)
	r.Post("/drain", s.postDrain)
	if s.streams != nil {
		r.Get("/events", s.subscribeEvents)
	}
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Tick advances the world's virtual clock by the real time elapsed on every
// interval until ctx is done, so animations settle without explicit advances.
func (s *Server) Tick(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.mu.Lock()
			s.world.Loop.Advance(now.Sub(last))
			s.mu.Unlock()
			last = now
		}
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "wayfinder-inspector",
		"version": strings.TrimSpace(wayfinder.Version),
		"root":    s.world.Root(),
	})
}

func (s *Server) listContainers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	views := graph.DescribeAll(s.world.Nav)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) getStack(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.world.Nav.Container(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, graph.Describe(c))
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := graph.GenerateMermaid(graph.DescribeAll(s.world.Nav))
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

func (s *Server) postContainerOp(w http.ResponseWriter, r *http.Request) {
	op := strings.ReplaceAll(chi.URLParam(r, "op"), "-", "_")
	if !containerOps[op] {
		http.Error(w, fmt.Sprintf("unknown operation %q", op), http.StatusNotFound)
		return
	}
	raw, ok := s.readBody(w, r)
	if !ok {
		return
	}
	raw["op"] = op
	raw["container"] = chi.URLParam(r, "id")
	s.apply(w, r, raw)
}

func (s *Server) postGeometry(w http.ResponseWriter, r *http.Request) {
	s.applyOp(w, r, scenario.OpResize)
}

func (s *Server) postAppState(w http.ResponseWriter, r *http.Request) {
	s.applyOp(w, r, scenario.OpAppState)
}

func (s *Server) postAdvance(w http.ResponseWriter, r *http.Request) {
	s.applyOp(w, r, scenario.OpAdvance)
}

func (s *Server) postDrain(w http.ResponseWriter, r *http.Request) {
	s.applyOp(w, r, scenario.OpDrain)
}

func (s *Server) applyOp(w http.ResponseWriter, r *http.Request, op string) {
	raw, ok := s.readBody(w, r)
	if !ok {
		return
	}
	raw["op"] = op
	s.apply(w, r, raw)
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, raw map[string]any) {
	st, err := scenario.DecodeStep(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn("inspector: invalid step", "err", err)
		return
	}

	s.mu.Lock()
	res, err := s.world.Apply(r.Context(), st)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("inspector: step applied", "op", res.Op, "container", res.Container, "detail", res.Detail)
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	topic := r.URL.Query().Get("container")
	if topic == "" {
		topic = AllContainers
	}
	ch, cancel := s.streams.Subscribe(topic)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	raw := map[string]any{}
	if r.Body == nil {
		return raw, true
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("inspector: invalid request body", "err", err)
		return nil, false
	}
	return raw, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrContainerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, wayfinder.ErrNoStore):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("inspector: request failed", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("inspector: encode response failed", "err", err)
	}
}
