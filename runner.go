package sluice

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/sluice/pkg/adapters/memory"
	"github.com/aretw0/sluice/pkg/domain"
)

// Replayer re-runs a recorded engine event log through a Coordinator.
// It owns a private in-memory pool and seeds it from the outputs carried on
// finished events, so the replay resolves references exactly like the live
// run did. This allows testing definitions and debugging transcripts without
// the engine (CLI, CI, etc).
type Replayer struct {
	coordinator *Coordinator
	pool        *memory.Pool
}

// NewReplayer creates a Replayer for one workflow graph. Options are passed
// through to the Coordinator; a WithVariablePool option is ignored because
// the replayer must own the pool it seeds.
func NewReplayer(graph *domain.Graph, opts ...Option) (*Replayer, error) {
	pool := memory.NewPool()
	coord, err := New(graph, append(opts, WithVariablePool(pool))...)
	if err != nil {
		return nil, err
	}
	return &Replayer{coordinator: coord, pool: pool}, nil
}

// Coordinator exposes the underlying coordinator (run id, remaining nodes).
func (r *Replayer) Coordinator() *Coordinator {
	return r.coordinator
}

// Replay feeds the recorded events through the coordinator in order and
// returns the transformed sequence. Outputs on finished events are written
// to the pool just before the event is fed, matching the moment the live
// engine publishes them. Each call is an independent run.
func (r *Replayer) Replay(ctx context.Context, events []domain.Event) ([]domain.Event, error) {
	var out []domain.Event
	err := r.ReplayStream(ctx, events, func(ev domain.Event) error {
		out = append(out, ev)
		return nil
	})
	return out, err
}

// ReplayStream is Replay's incremental form: emit is invoked for every
// transformed event, in order, as it is produced. Returning an error from
// emit aborts the replay.
func (r *Replayer) ReplayStream(ctx context.Context, events []domain.Event, emit func(domain.Event) error) error {
	r.coordinator.Reset()

	for i, ev := range events {
		if fin, ok := ev.(domain.NodeFinishedEvent); ok {
			for path, text := range fin.Outputs {
				r.pool.SetText(domain.Selector{NodeID: fin.NodeID, Path: path}, text)
			}
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("replay aborted at event %d: %w", i, err)
		}
		for _, emitted := range r.coordinator.Feed(ctx, ev) {
			if err := emit(emitted); err != nil {
				return err
			}
		}
	}
	return nil
}

// Aggregate concatenates the forwarded chunk contents per terminal node,
// preserving emission order. Chunks without a terminal attribution (events
// that merely passed through) are skipped.
func Aggregate(events []domain.Event) map[string]string {
	var builders map[string]*strings.Builder

	for _, ev := range events {
		chunk, ok := ev.(domain.StreamChunkEvent)
		if !ok || chunk.TerminalID == "" {
			continue
		}
		if builders == nil {
			builders = make(map[string]*strings.Builder)
		}
		b, ok := builders[chunk.TerminalID]
		if !ok {
			b = &strings.Builder{}
			builders[chunk.TerminalID] = b
		}
		b.WriteString(chunk.Content)
	}

	if builders == nil {
		return nil
	}
	texts := make(map[string]string, len(builders))
	for terminal, b := range builders {
		texts[terminal] = b.String()
	}
	return texts
}
