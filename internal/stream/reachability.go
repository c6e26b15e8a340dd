package stream

// markFinished removes a finished node from the remaining set and, when a
// branch decision was reported, prunes the subtrees hanging off the edges
// not taken. Idempotent per node: a duplicate finished event (engine replay,
// or a finish racing an earlier prune) is a no-op.
func (c *Coordinator) markFinished(nodeID, takenBranch string) {
	if _, ok := c.remaining[nodeID]; !ok {
		return
	}
	delete(c.remaining, nodeID)

	if takenBranch == "" {
		return
	}

	edges := c.graph.Edges(nodeID)
	if len(edges) == 0 {
		return
	}

	reachable := make(map[string]struct{})
	var pruneRoots []string
	for _, e := range edges {
		if e.Branch == takenBranch {
			c.collectReachable(e.Target, reachable)
			continue
		}
		// Untaken branches and unconditional siblings alike count as not
		// reachable from the taken edge.
		pruneRoots = append(pruneRoots, e.Target)
	}

	if len(reachable) == 0 {
		c.logger.Warn("taken branch matches no outgoing edge", "run_id", c.runID, "node_id", nodeID, "taken_branch", takenBranch)
	}

	pruned := 0
	for _, root := range pruneRoots {
		pruned += c.pruneUnreachable(root, reachable)
	}
	if pruned > 0 {
		c.metrics.AddPruned(pruned)
		c.logger.Debug("pruned unreachable nodes", "run_id", c.runID, "node_id", nodeID, "taken_branch", takenBranch, "pruned", pruned)
	}
}

// collectReachable adds the taken edge's target and its transitive
// successors to reachable. Traversal uses an explicit work stack so deep
// graphs cannot exhaust the call stack.
func (c *Coordinator) collectReachable(target string, reachable map[string]struct{}) {
	stack := []string{target}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := reachable[id]; seen {
			continue
		}
		reachable[id] = struct{}{}

		for _, e := range c.graph.Edges(id) {
			stack = append(stack, e.Target)
		}
	}
}

// pruneUnreachable removes root and its successors from the remaining set,
// stopping at any node in reachable (a merge point where the untaken branch
// rejoins the taken one). Pruned nodes are proven unreachable, not finished:
// removal never triggers emission by itself, it only lets later dependency
// checks succeed. Returns the number of nodes removed.
func (c *Coordinator) pruneUnreachable(root string, reachable map[string]struct{}) int {
	pruned := 0
	visited := make(map[string]struct{})
	stack := []string{root}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}

		if _, ok := reachable[id]; ok {
			// The taken branch still needs this node and everything below it.
			continue
		}

		if _, ok := c.remaining[id]; ok {
			delete(c.remaining, id)
			pruned++
		}

		for _, e := range c.graph.Edges(id) {
			stack = append(stack, e.Target)
		}
	}

	return pruned
}
