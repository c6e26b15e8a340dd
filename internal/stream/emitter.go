package stream

import (
	"context"
	"errors"

	"github.com/aretw0/sluice/pkg/domain"
)

// flushRoutes scans every terminal in template-declaration order and emits
// any segments that became ready. finishedID is the node whose completion
// triggered the scan; its own terminal (if any) is always walked.
func (c *Coordinator) flushRoutes(ctx context.Context, finishedID string) []domain.Event {
	var out []domain.Event
	for _, route := range c.graph.Routes() {
		if route.TerminalID != finishedID && !c.routeReady(route.TerminalID) {
			continue
		}
		out = append(out, c.walkRoute(ctx, route)...)
	}
	return out
}

// routeReady reports whether a terminal may resume emission: either the
// terminal itself already left the remaining set, or all of its declared
// dependencies did.
func (c *Coordinator) routeReady(terminal string) bool {
	if _, ok := c.remaining[terminal]; !ok {
		return true
	}
	return c.depsResolved(terminal)
}

// depsResolved reports whether every declared dependency of the terminal has
// left the remaining set (finished or pruned).
func (c *Coordinator) depsResolved(terminal string) bool {
	for _, dep := range c.graph.Dependencies(terminal) {
		if _, ok := c.remaining[dep]; ok {
			return false
		}
	}
	return true
}

// walkRoute advances the terminal's cursor through its template, emitting
// segments until it reaches the end or a reference whose value cannot be
// resolved yet. The monotonic cursor guarantees each segment index is
// emitted at most once per run.
func (c *Coordinator) walkRoute(ctx context.Context, route domain.Route) []domain.Event {
	terminal := route.TerminalID
	pos := c.cursors[terminal]
	var out []domain.Event

walk:
	for pos < len(route.Segments) {
		switch seg := route.Segments[pos].(type) {
		case domain.TextSegment:
			out = append(out, domain.StreamChunkEvent{
				NodeID:     terminal,
				TerminalID: terminal,
				Content:    seg.Text,
			})
			c.metrics.AddSegment(terminal)

		case domain.VarSegment:
			if seg.Selector.IsZero() {
				// Nothing to resolve against; the cursor must not advance.
				break walk
			}

			val, err := c.pool.Get(ctx, seg.Selector)
			if err != nil {
				if !errors.Is(err, domain.ErrValueAbsent) {
					c.logger.Warn("variable pool read failed", "run_id", c.runID, "selector", seg.Selector.String(), "error", err)
				}
				// Not ready; retry on a future finished event.
				break walk
			}

			if text := val.Render(); text != "" {
				out = append(out, domain.StreamChunkEvent{
					NodeID:     terminal,
					TerminalID: terminal,
					Selector:   seg.Selector,
					Content:    text,
				})
				c.metrics.AddSegment(terminal)
			}
			// An empty rendering still consumes the segment: satisfied, just silent.
		}
		pos++
	}

	c.cursors[terminal] = pos
	return out
}
