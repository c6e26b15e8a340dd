// Package metrics holds the Prometheus instrumentation for the coordinator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Set groups the coordinator's counters. A nil *Set is valid and records
// nothing, so instrumentation stays optional for library embedders.
type Set struct {
	SegmentsEmitted *prometheus.CounterVec
	ChunksForwarded *prometheus.CounterVec
	NodesPruned     prometheus.Counter
	Runs            prometheus.Counter
}

// New creates the counter set and registers it with reg.
func New(reg prometheus.Registerer) *Set {
	s := &Set{
		SegmentsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sluice",
			Name:      "segments_emitted_total",
			Help:      "Template segments emitted, by owning terminal node.",
		}, []string{"terminal"}),
		ChunksForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sluice",
			Name:      "chunks_forwarded_total",
			Help:      "Live stream chunks forwarded, by owning terminal node.",
		}, []string{"terminal"}),
		NodesPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sluice",
			Name:      "nodes_pruned_total",
			Help:      "Nodes removed as unreachable after a branch decision.",
		}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sluice",
			Name:      "runs_total",
			Help:      "Coordinator run initializations (construction and resets).",
		}),
	}

	reg.MustRegister(s.SegmentsEmitted, s.ChunksForwarded, s.NodesPruned, s.Runs)
	return s
}

// AddSegment records one emitted template segment.
func (s *Set) AddSegment(terminal string) {
	if s == nil {
		return
	}
	s.SegmentsEmitted.WithLabelValues(terminal).Inc()
}

// AddChunk records one live chunk forwarded to a terminal.
func (s *Set) AddChunk(terminal string) {
	if s == nil {
		return
	}
	s.ChunksForwarded.WithLabelValues(terminal).Inc()
}

// AddPruned records nodes removed by reachability pruning.
func (s *Set) AddPruned(n int) {
	if s == nil || n == 0 {
		return
	}
	s.NodesPruned.Add(float64(n))
}

// AddRun records a run initialization.
func (s *Set) AddRun() {
	if s == nil {
		return
	}
	s.Runs.Inc()
}
