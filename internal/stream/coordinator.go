package stream

import (
	"context"
	"log/slog"
	"sort"

	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/internal/metrics"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
	"github.com/google/uuid"
)

// Coordinator is the stream-route coordinator core. One instance exclusively
// owns the run-scoped state (remaining-nodes set, per-terminal cursors,
// live-match cache) and must be driven from a single consuming context; the
// graph and routes it reads are shared and immutable.
type Coordinator struct {
	graph   *domain.Graph
	pool    ports.VariablePool
	logger  *slog.Logger
	metrics *metrics.Set

	// Run-scoped state, owned exclusively, rebuilt by Reset.
	runID       string
	remaining   map[string]struct{}
	cursors     map[string]int
	liveMatches map[string][]string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(set *metrics.Set) Option {
	return func(c *Coordinator) {
		c.metrics = set
	}
}

// New creates a Coordinator for one graph and variable pool. The run state
// is fully initialized here; Reset is only needed to reuse the instance for
// another run.
func New(graph *domain.Graph, pool ports.VariablePool, opts ...Option) *Coordinator {
	c := &Coordinator{
		graph:  graph,
		pool:   pool,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset reinitializes the run-scoped state so the same coordinator and graph
// can serve independent runs. It must not be called while a prior run's
// event sequence is still being consumed.
func (c *Coordinator) Reset() {
	c.runID = uuid.NewString()

	nodeIDs := c.graph.NodeIDs()
	c.remaining = make(map[string]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		c.remaining[id] = struct{}{}
	}

	routes := c.graph.Routes()
	c.cursors = make(map[string]int, len(routes))
	for _, r := range routes {
		c.cursors[r.TerminalID] = 0
	}

	c.liveMatches = make(map[string][]string)

	c.metrics.AddRun()
	c.logger.Debug("run state initialized", "run_id", c.runID, "nodes", len(nodeIDs), "terminals", len(routes))
}

// RunID identifies the current run, refreshed by Reset.
func (c *Coordinator) RunID() string { return c.runID }

// RemainingNodes returns the node ids not yet proven finished or
// unreachable, sorted for determinism.
func (c *Coordinator) RemainingNodes() []string {
	ids := make([]string, 0, len(c.remaining))
	for id := range c.remaining {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Feed processes one engine event and returns the events to emit in its
// place, in order. Stream chunks are forwarded once per live-matched
// terminal; finished events are re-emitted followed by any template segments
// they made ready; every other kind passes through unchanged.
func (c *Coordinator) Feed(ctx context.Context, ev domain.Event) []domain.Event {
	switch e := ev.(type) {
	case domain.StreamChunkEvent:
		return c.onStreamChunk(e)
	case domain.NodeFinishedEvent:
		return c.onNodeFinished(ctx, e)
	default:
		// Pass through unchanged, in original position.
		return []domain.Event{ev}
	}
}

// Process lazily transforms the event sequence: one upstream event is pulled
// and fully processed before the next. The returned channel closes when the
// input closes or the context is canceled.
func (c *Coordinator) Process(ctx context.Context, events <-chan domain.Event) <-chan domain.Event {
	out := make(chan domain.Event)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				for _, emitted := range c.Feed(ctx, ev) {
					select {
					case out <- emitted:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}

func (c *Coordinator) onStreamChunk(e domain.StreamChunkEvent) []domain.Event {
	terminals := c.matchLive(e)
	if len(terminals) == 0 {
		return nil
	}

	// One physical chunk may feed several terminals whose templates
	// reference the same variable; each gets its own attributed copy.
	out := make([]domain.Event, 0, len(terminals))
	for _, t := range terminals {
		forwarded := e
		forwarded.TerminalID = t
		out = append(out, forwarded)
		c.metrics.AddChunk(t)
	}
	return out
}

func (c *Coordinator) onNodeFinished(ctx context.Context, e domain.NodeFinishedEvent) []domain.Event {
	out := []domain.Event{e}

	if !c.graph.HasNode(e.NodeID) {
		// Contract violation by the caller: pass through untouched.
		c.logger.Warn("finished event for node outside the graph", "run_id", c.runID, "node_id", e.NodeID)
		return out
	}

	// Terminals that consumed this node's stream live already hold its text;
	// move their cursors past the reference segment instead of re-emitting.
	for _, t := range c.liveMatches[e.NodeID] {
		c.cursors[t]++
	}
	delete(c.liveMatches, e.NodeID)

	c.markFinished(e.NodeID, e.TakenBranch)

	return append(out, c.flushRoutes(ctx, e.NodeID)...)
}
