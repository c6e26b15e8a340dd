package graph

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/aretw0/sluice/pkg/domain"
)

func testGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g, err := domain.NewGraph(domain.GraphConfig{
		Nodes: []string{"router", "poet", "fallback", "answer"},
		Edges: map[string][]domain.Edge{
			"router": {
				{Target: "poet", Branch: "verse"},
				{Target: "fallback", Branch: "plain"},
			},
			"poet":     {{Target: "answer"}},
			"fallback": {{Target: "answer"}},
		},
		Routes: []domain.Route{
			{TerminalID: "answer", Segments: []domain.Segment{domain.TextSegment{Text: "x"}}},
		},
	})
	if err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}
	return g
}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(testGraph(t), nil)
	newGoldie(t).Assert(t, "mermaid_base", []byte(out))
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := GenerateMermaid(testGraph(t), &Overlay{
		FinishedNodes: []string{"router", "poet", "poet"},
		PrunedNodes:   []string{"fallback"},
	})
	newGoldie(t).Assert(t, "mermaid_overlay", []byte(out))
}

func TestSanitizeMermaidID(t *testing.T) {
	got := sanitizeMermaidID("flows/step.one-a")
	if got != "flows_step_one_a" {
		t.Errorf("sanitizeMermaidID = %q", got)
	}
}
