package dsl

import (
	"fmt"

	"github.com/aretw0/sluice/pkg/domain"
)

// Builder manages the graph construction. Errors surface on Build so the
// fluent chain stays uninterrupted.
type Builder struct {
	order     []string
	nodes     map[string]*NodeBuilder
	terminals []*TerminalBuilder
	errs      []error
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Node declares a node in the graph. Calling it again with the same id
// returns the existing builder.
func (b *Builder) Node(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{id: id, builder: b}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Terminal declares a node that owns an output template. The returned
// builder configures the template and the terminal's dependency set.
func (b *Builder) Terminal(id string) *TerminalBuilder {
	b.Node(id)
	tb := &TerminalBuilder{id: id, builder: b}
	b.terminals = append(b.terminals, tb)
	return tb
}

// Build compiles the declared nodes into a validated Graph.
func (b *Builder) Build() (*domain.Graph, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	cfg := domain.GraphConfig{
		Nodes:        b.order,
		Edges:        make(map[string][]domain.Edge),
		Dependencies: make(map[string][]string),
	}
	for _, id := range b.order {
		if edges := b.nodes[id].edges; len(edges) > 0 {
			cfg.Edges[id] = edges
		}
	}
	for _, tb := range b.terminals {
		cfg.Routes = append(cfg.Routes, domain.Route{
			TerminalID: tb.id,
			Segments:   tb.segments,
		})
		if len(tb.deps) > 0 {
			cfg.Dependencies[tb.id] = tb.deps
		}
	}

	graph, err := domain.NewGraph(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return graph, nil
}

// NodeBuilder provides a fluent API for configuring a node's edges.
type NodeBuilder struct {
	id      string
	edges   []domain.Edge
	builder *Builder
}

// To adds unconditional edges to the given targets, declaring each target as
// a node.
func (n *NodeBuilder) To(targets ...string) *NodeBuilder {
	for _, target := range targets {
		n.builder.Node(target)
		n.edges = append(n.edges, domain.Edge{Target: target})
	}
	return n
}

// BranchTo adds a branch-tagged edge. The edge activates only when the node
// finishes reporting that branch.
func (n *NodeBuilder) BranchTo(branch, target string) *NodeBuilder {
	n.builder.Node(target)
	n.edges = append(n.edges, domain.Edge{Target: target, Branch: branch})
	return n
}

// TerminalBuilder provides a fluent API for a terminal's template.
type TerminalBuilder struct {
	id       string
	segments []domain.Segment
	deps     []string
	builder  *Builder
}

// Text appends a literal segment to the template.
func (t *TerminalBuilder) Text(text string) *TerminalBuilder {
	t.segments = append(t.segments, domain.TextSegment{Text: text})
	return t
}

// Var appends a reference segment in "node.path" form.
func (t *TerminalBuilder) Var(selector string) *TerminalBuilder {
	sel, err := domain.ParseSelector(selector)
	if err != nil {
		t.builder.errs = append(t.builder.errs, fmt.Errorf("terminal %q: %w", t.id, err))
		return t
	}
	t.segments = append(t.segments, domain.VarSegment{Selector: sel})
	return t
}

// DependsOn declares the nodes whose completion gates this terminal's
// template emission.
func (t *TerminalBuilder) DependsOn(ids ...string) *TerminalBuilder {
	t.deps = append(t.deps, ids...)
	return t
}
