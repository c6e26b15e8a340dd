package stream

import "github.com/aretw0/sluice/pkg/domain"

// matchLive decides which terminals should receive this chunk live. The
// decision is memoized per source node and reused for every subsequent chunk
// of that node's run; the entry is consumed and deleted when the node's
// finished event arrives.
func (c *Coordinator) matchLive(e domain.StreamChunkEvent) []string {
	if e.Selector.IsZero() {
		// Not attributable to a known variable: matches nothing, and there
		// is nothing useful to cache.
		return nil
	}

	if terminals, ok := c.liveMatches[e.NodeID]; ok {
		return terminals
	}

	var terminals []string
	for _, route := range c.graph.Routes() {
		t := route.TerminalID

		if _, ok := c.remaining[t]; !ok {
			continue
		}
		if !c.depsResolved(t) {
			continue
		}

		pos := c.cursors[t]
		if pos >= len(route.Segments) {
			continue
		}

		// Literals are never streamed live.
		ref, ok := route.Segments[pos].(domain.VarSegment)
		if !ok {
			continue
		}
		if ref.Selector != e.Selector {
			continue
		}

		terminals = append(terminals, t)
	}

	c.liveMatches[e.NodeID] = terminals
	return terminals
}
