package domain

// EventKind defines the category of an engine event.
type EventKind string

const (
	EventNodeStarted  EventKind = "node_started"
	EventNodeFinished EventKind = "node_finished"
	EventStreamChunk  EventKind = "stream_chunk"
	EventRunFinished  EventKind = "run_finished"
)

// Event is the closed union of events the coordinator consumes and re-emits.
// Kinds without dedicated handling pass through the coordinator unmodified,
// in their original position.
type Event interface {
	Kind() EventKind
	isEvent()
}

// NodeStartedEvent announces that the engine began executing a node.
// The coordinator passes it through untouched.
type NodeStartedEvent struct {
	NodeID string `json:"node_id" yaml:"node"`
}

func (NodeStartedEvent) Kind() EventKind { return EventNodeStarted }
func (NodeStartedEvent) isEvent()        {}

// NodeFinishedEvent announces that a node completed. TakenBranch is set only
// if the node was conditional and selected one of its outgoing edges.
// Outputs optionally records the values the node produced (path -> rendered
// text); the coordinator ignores it, but replay tooling uses it to seed the
// variable pool the way the live engine would.
type NodeFinishedEvent struct {
	NodeID      string            `json:"node_id" yaml:"node"`
	TakenBranch string            `json:"taken_branch,omitempty" yaml:"branch,omitempty"`
	Outputs     map[string]string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

func (NodeFinishedEvent) Kind() EventKind { return EventNodeFinished }
func (NodeFinishedEvent) isEvent()        {}

// StreamChunkEvent carries a fragment of streamed output.
//
// On events consumed from the engine, NodeID is the producing node and
// Selector attributes the text to a variable (zero when unattributable).
// On events emitted by the coordinator, TerminalID additionally names the
// terminal whose route the content belongs to.
type StreamChunkEvent struct {
	NodeID     string   `json:"node_id" yaml:"node"`
	Selector   Selector `json:"selector,omitzero" yaml:"selector,omitempty"`
	Content    string   `json:"content" yaml:"content"`
	TerminalID string   `json:"terminal_id,omitempty" yaml:"terminal,omitempty"`
}

func (StreamChunkEvent) Kind() EventKind { return EventStreamChunk }
func (StreamChunkEvent) isEvent()        {}

// RunFinishedEvent marks the end of the engine's event sequence.
// The coordinator passes it through untouched.
type RunFinishedEvent struct {
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

func (RunFinishedEvent) Kind() EventKind { return EventRunFinished }
func (RunFinishedEvent) isEvent()        {}
