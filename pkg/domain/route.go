package domain

import (
	"fmt"
	"strings"
)

// Selector identifies a value in the variable pool by the node that produced
// it and the path of the output within that node's result.
// The zero Selector means "not attributable to a known variable".
type Selector struct {
	NodeID string `json:"node_id" yaml:"node"`
	Path   string `json:"path" yaml:"path"`
}

// IsZero reports whether the selector carries no attribution.
func (s Selector) IsZero() bool {
	return s.NodeID == "" && s.Path == ""
}

// String renders the selector in its canonical "node.path" form.
func (s Selector) String() string {
	if s.Path == "" {
		return s.NodeID
	}
	return s.NodeID + "." + s.Path
}

// ParseSelector parses the canonical "node.path" form. The path may itself
// contain dots; only the first dot separates the node id.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}
	node, path, found := strings.Cut(raw, ".")
	if !found || node == "" || path == "" {
		return Selector{}, fmt.Errorf("invalid selector %q: want \"node.path\"", raw)
	}
	return Selector{NodeID: node, Path: path}, nil
}

// Segment is one entry of a terminal's output route. It is a closed union:
// TextSegment (literal) or VarSegment (reference resolved at emission time).
type Segment interface {
	isSegment()
}

// TextSegment is a fixed piece of output text.
type TextSegment struct {
	Text string
}

func (TextSegment) isSegment() {}

// VarSegment references a value produced elsewhere in the graph.
type VarSegment struct {
	Selector Selector
}

func (VarSegment) isSegment() {}

// Route is the pre-computed output template owned by one terminal node.
// Routes are built by the template provider before a run starts and are
// immutable for the run.
type Route struct {
	// TerminalID is the node that owns this template.
	TerminalID string

	// Segments in declared output order.
	Segments []Segment
}
