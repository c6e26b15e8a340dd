// Package http exposes a workflow graph over HTTP: replay runs streamed as
// Server-Sent Events, graph introspection for tooling, and Prometheus
// metrics.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/pkg/domain"
)

// maxLogBytes caps the accepted event-log body size.
const maxLogBytes = 8 << 20

// Server serves one workflow graph. Replays share a single coordinator, so
// they are serialized; clients needing parallel replays run one server (or
// one Replayer) per stream.
type Server struct {
	graph    *domain.Graph
	replayer *sluice.Replayer
	registry *prometheus.Registry
	logger   *slog.Logger

	mu sync.Mutex // guards the replayer's run state
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a Server for the graph. The coordinator's counters are
// registered on a private registry exposed at /metrics.
func NewServer(graph *domain.Graph, opts ...Option) (*Server, error) {
	s := &Server{
		graph:    graph,
		registry: prometheus.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	replayer, err := sluice.NewReplayer(graph,
		sluice.WithLogger(s.logger),
		sluice.WithMetrics(s.registry),
	)
	if err != nil {
		return nil, err
	}
	s.replayer = replayer
	return s, nil
}

// NewHandler creates the HTTP handler for the graph.
func NewHandler(graph *domain.Graph, opts ...Option) (http.Handler, error) {
	server, err := NewServer(graph, opts...)
	if err != nil {
		return nil, err
	}
	return server.Handler(), nil
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/runs", s.PostRun)
	r.Get("/graph", s.GetGraph)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// eventEnvelope is the SSE payload: the concrete event under its kind.
type eventEnvelope struct {
	Kind  domain.EventKind `json:"kind"`
	Event domain.Event     `json:"event"`
}

// PostRun handles POST /runs: the body is a recorded event log (YAML or
// JSON); the response streams the transformed sequence as SSE, one frame per
// emitted event.
func (s *Server) PostRun(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("PostRun: streaming not supported")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxLogBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		s.logger.Warn("PostRun: body read failed", "err", err)
		return
	}

	events, err := sluice.ParseEventLog(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid event log: %v", err), http.StatusBadRequest)
		s.logger.Warn("PostRun: invalid event log", "err", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	err = s.replayer.ReplayStream(r.Context(), events, func(ev domain.Event) error {
		payload, err := json.Marshal(eventEnvelope{Kind: ev.Kind(), Event: ev})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind(), payload)
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are gone; report in-band and close the stream.
		s.logger.Warn("PostRun: replay aborted", "err", err)
		fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
		flusher.Flush()
		return
	}

	done, _ := json.Marshal(map[string]string{
		"run_id": s.replayer.Coordinator().RunID(),
	})
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", done)
	flusher.Flush()
}

// graphResponse is the GET /graph shape.
type graphResponse struct {
	Nodes        []string                 `json:"nodes"`
	Edges        map[string][]domain.Edge `json:"edges"`
	Routes       []routeResponse          `json:"routes"`
	Dependencies map[string][]string      `json:"dependencies"`
}

type routeResponse struct {
	Terminal string           `json:"terminal"`
	Template []map[string]any `json:"template"`
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	resp := graphResponse{
		Nodes:        s.graph.NodeIDs(),
		Edges:        make(map[string][]domain.Edge),
		Dependencies: make(map[string][]string),
	}
	for _, id := range resp.Nodes {
		if edges := s.graph.Edges(id); len(edges) > 0 {
			resp.Edges[id] = edges
		}
	}
	for _, route := range s.graph.Routes() {
		rr := routeResponse{Terminal: route.TerminalID}
		for _, seg := range route.Segments {
			switch v := seg.(type) {
			case domain.TextSegment:
				rr.Template = append(rr.Template, map[string]any{"text": v.Text})
			case domain.VarSegment:
				rr.Template = append(rr.Template, map[string]any{"var": v.Selector.String()})
			}
		}
		resp.Routes = append(resp.Routes, rr)
		if deps := s.graph.Dependencies(route.TerminalID); len(deps) > 0 {
			resp.Dependencies[route.TerminalID] = deps
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("GetGraph: response encode failed", "err", err)
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"app":     "sluice-http",
		"version": strings.TrimSpace(sluice.Version),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
