package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/pkg/domain"
)

const sampleDefinition = `
nodes: [start, cond, llm, fallback, end]
edges:
  start:
    - target: cond
  cond:
    - target: llm
      branch: "yes"
    - target: fallback
      branch: "no"
  llm:
    - target: end
  fallback:
    - target: end
routes:
  - terminal: end
    template:
      - text: "Answer: "
      - var: llm.text
dependencies:
  end: [cond, llm]
`

func TestParseDefinition(t *testing.T) {
	graph, err := NewParser().ParseDefinition([]byte(sampleDefinition))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"start", "cond", "llm", "fallback", "end"}, graph.NodeIDs())
	assert.Equal(t, []domain.Edge{
		{Target: "llm", Branch: "yes"},
		{Target: "fallback", Branch: "no"},
	}, graph.Edges("cond"))

	routes := graph.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "end", routes[0].TerminalID)
	assert.Equal(t, []domain.Segment{
		domain.TextSegment{Text: "Answer: "},
		domain.VarSegment{Selector: domain.Selector{NodeID: "llm", Path: "text"}},
	}, routes[0].Segments)

	assert.ElementsMatch(t, []string{"cond", "llm"}, graph.Dependencies("end"))
}

func TestParseDefinition_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "mixed tagged and untagged edges",
			yaml: `
nodes: [a, b, c]
edges:
  a:
    - target: b
      branch: x
    - target: c
`,
			wantErr: "mixes branch-tagged and untagged edges",
		},
		{
			name: "edge without target",
			yaml: `
nodes: [a, b]
edges:
  a:
    - branch: x
`,
			wantErr: "missing target",
		},
		{
			name: "segment with unknown key",
			yaml: `
nodes: [end]
routes:
  - terminal: end
    template:
      - literal: "hi"
`,
			wantErr: "template entry 0",
		},
		{
			name: "segment with both text and var",
			yaml: `
nodes: [a, end]
routes:
  - terminal: end
    template:
      - text: "hi"
        var: a.out
`,
			wantErr: "both text and var",
		},
		{
			name: "selector without path",
			yaml: `
nodes: [a, end]
routes:
  - terminal: end
    template:
      - var: a
`,
			wantErr: "invalid selector",
		},
		{
			name: "route without terminal",
			yaml: `
nodes: [end]
routes:
  - template:
      - text: "hi"
`,
			wantErr: "route missing terminal",
		},
		{
			name: "graph validation failure surfaces",
			yaml: `
nodes: [a]
edges:
  a:
    - target: ghost
`,
			wantErr: "failed to compile definition",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParser().ParseDefinition([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

const sampleEventLog = `
- kind: node_started
  node: llm
- kind: stream_chunk
  node: llm
  selector: llm.text
  content: "Hel"
- kind: stream_chunk
  node: llm
  selector: llm.text
  content: "lo"
- kind: node_finished
  node: llm
  outputs:
    text: "Hello"
- kind: node_finished
  node: cond
  branch: "yes"
- kind: run_finished
  status: succeeded
`

func TestParseEventLog(t *testing.T) {
	events, err := NewParser().ParseEventLog([]byte(sampleEventLog))
	require.NoError(t, err)
	require.Len(t, events, 6)

	assert.Equal(t, domain.NodeStartedEvent{NodeID: "llm"}, events[0])
	assert.Equal(t, domain.StreamChunkEvent{
		NodeID:   "llm",
		Selector: domain.Selector{NodeID: "llm", Path: "text"},
		Content:  "Hel",
	}, events[1])
	assert.Equal(t, domain.NodeFinishedEvent{
		NodeID:  "llm",
		Outputs: map[string]string{"text": "Hello"},
	}, events[3])
	assert.Equal(t, domain.NodeFinishedEvent{NodeID: "cond", TakenBranch: "yes"}, events[4])
	assert.Equal(t, domain.RunFinishedEvent{Status: "succeeded"}, events[5])
}

func TestParseEventLog_ChunkWithoutSelectorIsAllowed(t *testing.T) {
	events, err := NewParser().ParseEventLog([]byte(`
- kind: stream_chunk
  node: llm
  content: "anon"
`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].(domain.StreamChunkEvent).Selector.IsZero())
}

func TestParseEventLog_UnknownKind(t *testing.T) {
	_, err := NewParser().ParseEventLog([]byte(`
- kind: node_paused
  node: llm
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "node_paused"`)
}
