package domain

import "fmt"

// Edge is a directed connection between two nodes. Branch is present only on
// edges leaving a conditional node; it names the runtime decision that
// activates the edge. An empty Branch means the edge is unconditional.
type Edge struct {
	Target string `json:"target" yaml:"to"`
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// GraphConfig is the build-time input for a Graph, produced by the workflow
// definition provider.
type GraphConfig struct {
	// Nodes lists every node id in the workflow.
	Nodes []string

	// Edges maps a source node id to its outgoing edges.
	Edges map[string][]Edge

	// Routes holds one output template per terminal node, in declaration
	// order. Declaration order is preserved so emission scans are
	// deterministic.
	Routes []Route

	// Dependencies maps a terminal node id to the node ids whose completion
	// (in any branch) gates that terminal's template. The set must cover
	// every node a route's reference segments point at; the coordinator
	// cannot detect a template that references outside its dependency set.
	Dependencies map[string][]string
}

// Graph is the immutable workflow structure shared read-only across runs.
type Graph struct {
	nodes   []string
	nodeSet map[string]struct{}
	edges   map[string][]Edge
	routes  []Route
	deps    map[string][]string
}

// NewGraph validates the configuration and builds a Graph. It rejects
// duplicate or empty node ids, edges and dependencies pointing at unknown
// nodes, routes owned by unknown or duplicated terminals, and cycles.
func NewGraph(cfg GraphConfig) (*Graph, error) {
	if len(cfg.Nodes) == 0 {
		return nil, fmt.Errorf("graph has no nodes")
	}

	g := &Graph{
		nodes:   make([]string, 0, len(cfg.Nodes)),
		nodeSet: make(map[string]struct{}, len(cfg.Nodes)),
		edges:   make(map[string][]Edge, len(cfg.Edges)),
		deps:    make(map[string][]string, len(cfg.Dependencies)),
	}

	for _, id := range cfg.Nodes {
		if id == "" {
			return nil, fmt.Errorf("empty node id")
		}
		if _, ok := g.nodeSet[id]; ok {
			return nil, fmt.Errorf("duplicate node id %q", id)
		}
		g.nodeSet[id] = struct{}{}
		g.nodes = append(g.nodes, id)
	}

	for source, edges := range cfg.Edges {
		if _, ok := g.nodeSet[source]; !ok {
			return nil, fmt.Errorf("edge source %q: %w", source, ErrUnknownNode)
		}
		for _, e := range edges {
			if _, ok := g.nodeSet[e.Target]; !ok {
				return nil, fmt.Errorf("edge %s -> %s: %w", source, e.Target, ErrUnknownNode)
			}
			if e.Target == source {
				return nil, fmt.Errorf("self-referential edge not allowed: %s -> %s", source, source)
			}
		}
		g.edges[source] = append([]Edge(nil), edges...)
	}

	seenTerminals := make(map[string]struct{}, len(cfg.Routes))
	for _, r := range cfg.Routes {
		if _, ok := g.nodeSet[r.TerminalID]; !ok {
			return nil, fmt.Errorf("route terminal %q: %w", r.TerminalID, ErrUnknownNode)
		}
		if _, dup := seenTerminals[r.TerminalID]; dup {
			return nil, fmt.Errorf("duplicate route for terminal %q", r.TerminalID)
		}
		seenTerminals[r.TerminalID] = struct{}{}
		g.routes = append(g.routes, Route{
			TerminalID: r.TerminalID,
			Segments:   append([]Segment(nil), r.Segments...),
		})
	}

	for terminal, depIDs := range cfg.Dependencies {
		if _, ok := seenTerminals[terminal]; !ok {
			return nil, fmt.Errorf("dependencies declared for %q, which owns no route", terminal)
		}
		for _, dep := range depIDs {
			if _, ok := g.nodeSet[dep]; !ok {
				return nil, fmt.Errorf("dependency %q of terminal %q: %w", dep, terminal, ErrUnknownNode)
			}
		}
		g.deps[terminal] = append([]string(nil), depIDs...)
	}

	if err := g.detectCycles(); err != nil {
		return nil, err
	}

	return g, nil
}

// detectCycles runs a classic depth-first search with permanent and
// temporary marks. A node found in the temporary set while still on the
// recursion stack closes a cycle.
func (g *Graph) detectCycles() error {
	permanent := make(map[string]bool, len(g.nodes))
	temporary := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("cycle detected involving node %q", id)
		}

		temporary[id] = true
		for _, e := range g.edges[id] {
			if err := visit(e.Target); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true

		return nil
	}

	for _, id := range g.nodes {
		if !permanent[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}

	return nil
}

// NodeIDs returns every node id in declaration order. The caller must not
// mutate the returned slice.
func (g *Graph) NodeIDs() []string { return g.nodes }

// HasNode reports whether the node id exists in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeSet[id]
	return ok
}

// Edges returns the outgoing edges of a node. A node with no outgoing edges
// yields nil.
func (g *Graph) Edges(source string) []Edge { return g.edges[source] }

// Routes returns the terminal output templates in declaration order.
func (g *Graph) Routes() []Route { return g.routes }

// Dependencies returns the dependency set of a terminal node.
func (g *Graph) Dependencies(terminal string) []string { return g.deps[terminal] }
