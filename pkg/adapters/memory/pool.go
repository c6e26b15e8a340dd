package memory

import (
	"context"
	"sync"

	"github.com/aretw0/sluice/pkg/domain"
)

// Pool implements ports.VariablePool in memory.
// Safe for concurrent use: the engine may write outputs from worker
// goroutines while the coordinator reads from its own context.
type Pool struct {
	data map[domain.Selector]domain.Value
	mu   sync.RWMutex
}

// NewPool creates a new in-memory variable pool.
func NewPool() *Pool {
	return &Pool{
		data: make(map[domain.Selector]domain.Value),
	}
}

// Get resolves a selector, returning domain.ErrValueAbsent when the value
// has not been produced yet.
func (p *Pool) Get(ctx context.Context, sel domain.Selector) (domain.Value, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	val, ok := p.data[sel]
	if !ok {
		return nil, domain.ErrValueAbsent
	}
	return val, nil
}

// Set stores a value under the selector. Nil values are ignored.
func (p *Pool) Set(sel domain.Selector, val domain.Value) {
	if val == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[sel] = val
}

// SetText is a convenience for the common plain-text case.
func (p *Pool) SetText(sel domain.Selector, text string) {
	p.Set(sel, domain.Text(text))
}

// Delete removes the value under the selector, if any.
func (p *Pool) Delete(sel domain.Selector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, sel)
}
