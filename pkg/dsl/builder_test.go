package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/dsl"
)

func TestBuilder_BuildsValidatedGraph(t *testing.T) {
	b := dsl.New()
	b.Node("router").
		BranchTo("verse", "poet").
		BranchTo("plain", "fallback")
	b.Node("poet").To("answer")
	b.Node("fallback").To("answer")
	b.Terminal("answer").
		Text("Poem: ").
		Var("poet.text").
		DependsOn("router")

	graph, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"router", "poet", "fallback", "answer"}, graph.NodeIDs())
	assert.Equal(t, []domain.Edge{
		{Target: "poet", Branch: "verse"},
		{Target: "fallback", Branch: "plain"},
	}, graph.Edges("router"))

	routes := graph.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, []domain.Segment{
		domain.TextSegment{Text: "Poem: "},
		domain.VarSegment{Selector: domain.Selector{NodeID: "poet", Path: "text"}},
	}, routes[0].Segments)
	assert.Equal(t, []string{"router"}, graph.Dependencies("answer"))
}

func TestBuilder_NodeIsIdempotent(t *testing.T) {
	b := dsl.New()
	first := b.Node("a")
	second := b.Node("a")
	assert.Same(t, first, second)
}

func TestBuilder_InvalidSelectorSurfacesOnBuild(t *testing.T) {
	b := dsl.New()
	b.Terminal("answer").Var("no-path")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `terminal "answer"`)
}

func TestBuilder_GraphValidationSurfacesOnBuild(t *testing.T) {
	b := dsl.New()
	b.Node("a").To("b")
	b.Node("b").To("a")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuilder_GraphDrivesCoordinator(t *testing.T) {
	b := dsl.New()
	b.Node("source").To("answer")
	b.Terminal("answer").Text("hi").DependsOn("source")

	graph, err := b.Build()
	require.NoError(t, err)

	coord, err := sluice.New(graph)
	require.NoError(t, err)

	out := coord.Feed(context.Background(), domain.NodeFinishedEvent{NodeID: "source"})
	require.Len(t, out, 2)
	assert.Equal(t, "hi", out[1].(domain.StreamChunkEvent).Content)
}
