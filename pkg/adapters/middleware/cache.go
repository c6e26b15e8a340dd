package middleware

import (
	"context"
	"sync"

	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
)

type cacheMiddleware struct {
	next ports.VariablePool

	mu     sync.RWMutex
	values map[domain.Selector]domain.Value
}

// NewCacheMiddleware memoizes successful lookups. Pool values are immutable
// once produced (absent until a node finishes, final afterwards), so a hit
// never goes stale; this spares a template walk repeated round-trips to a
// remote pool like Redis.
func NewCacheMiddleware() Middleware {
	return func(next ports.VariablePool) ports.VariablePool {
		return &cacheMiddleware{
			next:   next,
			values: make(map[domain.Selector]domain.Value),
		}
	}
}

func (m *cacheMiddleware) Get(ctx context.Context, sel domain.Selector) (domain.Value, error) {
	m.mu.RLock()
	val, ok := m.values[sel]
	m.mu.RUnlock()
	if ok {
		return val, nil
	}

	val, err := m.next.Get(ctx, sel)
	if err != nil {
		// Absence is transient; never cache it.
		return nil, err
	}

	m.mu.Lock()
	m.values[sel] = val
	m.mu.Unlock()
	return val, nil
}
