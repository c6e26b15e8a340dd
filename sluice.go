package sluice

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/sluice/internal/metrics"
	"github.com/aretw0/sluice/internal/stream"
	"github.com/aretw0/sluice/pkg/adapters/memory"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
)

// Version of the sluice library.
const Version = "0.1.0"

// Coordinator is the high-level entry point for the sluice library.
// It wraps the internal stream coordinator and provides a simplified API for
// consumers: construct it once per workflow definition, then Feed (or
// Process) one run's event sequence at a time.
type Coordinator struct {
	inner   *stream.Coordinator
	graph   *domain.Graph
	pool    ports.VariablePool
	logger  *slog.Logger
	metrics *metrics.Set
}

// Option defines a functional option for configuring the Coordinator.
type Option func(*Coordinator)

// WithVariablePool injects a custom variable pool, bypassing the default
// in-memory one. Use this when the engine writes node outputs to shared
// storage (e.g. the Redis adapter).
func WithVariablePool(pool ports.VariablePool) Option {
	return func(c *Coordinator) {
		c.pool = pool
	}
}

// WithLogger sets a custom structured logger for the coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithMetrics registers the coordinator's Prometheus counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Coordinator) {
		c.metrics = metrics.New(reg)
	}
}

// New initializes a Coordinator for one workflow graph.
// By default it resolves variables from a fresh in-memory pool and logs
// nowhere; use the options to inject a shared pool, a logger, or metrics.
func New(graph *domain.Graph, opts ...Option) (*Coordinator, error) {
	if graph == nil {
		return nil, fmt.Errorf("graph is required")
	}

	c := &Coordinator{graph: graph}
	for _, opt := range opts {
		opt(c)
	}

	if c.pool == nil {
		c.pool = memory.NewPool()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	c.inner = stream.New(graph, c.pool,
		stream.WithLogger(c.logger),
		stream.WithMetrics(c.metrics),
	)
	return c, nil
}

// Feed processes one engine event and returns the events to emit in its
// place, in order.
func (c *Coordinator) Feed(ctx context.Context, ev domain.Event) []domain.Event {
	return c.inner.Feed(ctx, ev)
}

// Process lazily transforms an event sequence. The returned channel closes
// when the input closes or the context is canceled.
func (c *Coordinator) Process(ctx context.Context, events <-chan domain.Event) <-chan domain.Event {
	return c.inner.Process(ctx, events)
}

// Reset reinitializes the run-scoped state so the coordinator can serve a
// new run of the same graph.
func (c *Coordinator) Reset() {
	c.inner.Reset()
}

// RunID identifies the current run, refreshed by Reset.
func (c *Coordinator) RunID() string {
	return c.inner.RunID()
}

// RemainingNodes returns the node ids not yet proven finished or
// unreachable, sorted.
func (c *Coordinator) RemainingNodes() []string {
	return c.inner.RemainingNodes()
}

// Graph returns the workflow graph this coordinator serves.
func (c *Coordinator) Graph() *domain.Graph {
	return c.graph
}

// Pool returns the variable pool the coordinator resolves references from.
func (c *Coordinator) Pool() ports.VariablePool {
	return c.pool
}
