package sluice_test

import (
	"context"
	"testing"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/pkg/domain"
)

const facadeDefinition = `
nodes: [router, poet, fallback, end]
edges:
  router:
    - target: poet
      branch: verse
    - target: fallback
      branch: plain
  poet:
    - target: end
  fallback:
    - target: end
routes:
  - terminal: end
    template:
      - text: "Poem: "
      - var: poet.text
dependencies:
  end: [router]
`

func TestNew_RequiresGraph(t *testing.T) {
	if _, err := sluice.New(nil); err == nil {
		t.Fatal("expected error for nil graph")
	}
}

func TestFacade_Integration(t *testing.T) {
	graph, err := sluice.ParseDefinition([]byte(facadeDefinition))
	if err != nil {
		t.Fatalf("ParseDefinition failed: %v", err)
	}

	coord, err := sluice.New(graph)
	if err != nil {
		t.Fatalf("Failed to initialize coordinator: %v", err)
	}
	if coord.RunID() == "" {
		t.Error("expected a run id after construction")
	}

	ctx := context.Background()

	// The branch decision prunes the fallback and releases the leading
	// literal of end's template.
	out := coord.Feed(ctx, domain.NodeFinishedEvent{NodeID: "router", TakenBranch: "verse"})
	if len(out) != 2 {
		t.Fatalf("expected finished event + literal, got %d events", len(out))
	}
	chunk, ok := out[1].(domain.StreamChunkEvent)
	if !ok || chunk.Content != "Poem: " || chunk.TerminalID != "end" {
		t.Errorf("unexpected literal emission: %+v", out[1])
	}

	remaining := coord.RemainingNodes()
	if len(remaining) != 2 || remaining[0] != "end" || remaining[1] != "poet" {
		t.Errorf("expected [end poet] remaining, got %v", remaining)
	}

	// Live chunks flow straight through to the waiting terminal.
	out = coord.Feed(ctx, domain.StreamChunkEvent{
		NodeID:   "poet",
		Selector: domain.Selector{NodeID: "poet", Path: "text"},
		Content:  "Roses are red",
	})
	if len(out) != 1 {
		t.Fatalf("expected one forwarded chunk, got %d events", len(out))
	}
	if got := out[0].(domain.StreamChunkEvent).TerminalID; got != "end" {
		t.Errorf("chunk attributed to %q, want end", got)
	}
}

func TestFacade_ResetStartsNewRun(t *testing.T) {
	graph, err := sluice.ParseDefinition([]byte(facadeDefinition))
	if err != nil {
		t.Fatalf("ParseDefinition failed: %v", err)
	}
	coord, err := sluice.New(graph)
	if err != nil {
		t.Fatalf("Failed to initialize coordinator: %v", err)
	}

	first := coord.RunID()
	coord.Feed(context.Background(), domain.NodeFinishedEvent{NodeID: "router", TakenBranch: "verse"})

	coord.Reset()
	if coord.RunID() == first {
		t.Error("expected a fresh run id after Reset")
	}
	if got := len(coord.RemainingNodes()); got != 4 {
		t.Errorf("expected all 4 nodes remaining after Reset, got %d", got)
	}
}

func TestReplayer_SeedsPoolFromRecordedOutputs(t *testing.T) {
	graph, err := sluice.ParseDefinition([]byte(facadeDefinition))
	if err != nil {
		t.Fatalf("ParseDefinition failed: %v", err)
	}
	replayer, err := sluice.NewReplayer(graph)
	if err != nil {
		t.Fatalf("Failed to initialize replayer: %v", err)
	}

	// No live chunks recorded: the reference must be resolved from the
	// outputs carried on poet's finished event.
	log := []domain.Event{
		domain.NodeFinishedEvent{NodeID: "router", TakenBranch: "verse"},
		domain.NodeFinishedEvent{NodeID: "poet", Outputs: map[string]string{"text": "Roses are red"}},
		domain.NodeFinishedEvent{NodeID: "end"},
		domain.RunFinishedEvent{Status: "succeeded"},
	}

	out, err := replayer.Replay(context.Background(), log)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	texts := sluice.Aggregate(out)
	if texts["end"] != "Poem: Roses are red" {
		t.Errorf("aggregated %q, want %q", texts["end"], "Poem: Roses are red")
	}

	// A second replay is an independent run with identical results.
	again, err := replayer.Replay(context.Background(), log)
	if err != nil {
		t.Fatalf("second Replay failed: %v", err)
	}
	if sluice.Aggregate(again)["end"] != texts["end"] {
		t.Error("replays of the same log diverged")
	}
}

func TestAggregate_SkipsUnattributedChunks(t *testing.T) {
	texts := sluice.Aggregate([]domain.Event{
		domain.StreamChunkEvent{NodeID: "n", Content: "raw"},
		domain.StreamChunkEvent{NodeID: "n", Content: "a", TerminalID: "t"},
		domain.NodeFinishedEvent{NodeID: "n"},
		domain.StreamChunkEvent{NodeID: "n", Content: "b", TerminalID: "t"},
	})
	if texts["t"] != "ab" {
		t.Errorf("aggregated %q, want %q", texts["t"], "ab")
	}
	if _, ok := texts[""]; ok {
		t.Error("unattributed chunk must not aggregate")
	}

	if sluice.Aggregate(nil) != nil {
		t.Error("expected nil map for empty input")
	}
}
