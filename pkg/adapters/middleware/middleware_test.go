package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/pkg/adapters/memory"
	"github.com/aretw0/sluice/pkg/adapters/middleware"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
)

// countingPool counts backend lookups.
type countingPool struct {
	next ports.VariablePool
	gets int
}

func (p *countingPool) Get(ctx context.Context, sel domain.Selector) (domain.Value, error) {
	p.gets++
	return p.next.Get(ctx, sel)
}

func TestCache_SecondGetSkipsBackend(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewPool()
	backend.SetText(domain.Selector{NodeID: "n", Path: "out"}, "42")

	counter := &countingPool{next: backend}
	pool := middleware.NewCacheMiddleware()(counter)

	for i := 0; i < 3; i++ {
		val, err := pool.Get(ctx, domain.Selector{NodeID: "n", Path: "out"})
		require.NoError(t, err)
		assert.Equal(t, "42", val.Render())
	}
	assert.Equal(t, 1, counter.gets)
}

func TestCache_AbsenceIsNotCached(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewPool()
	sel := domain.Selector{NodeID: "n", Path: "out"}

	pool := middleware.NewCacheMiddleware()(backend)

	_, err := pool.Get(ctx, sel)
	require.ErrorIs(t, err, domain.ErrValueAbsent)

	// The value lands later; the cache must not pin the earlier miss.
	backend.SetText(sel, "late")
	val, err := pool.Get(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, "late", val.Render())
}

func TestRedact_MasksMatchingPaths(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewPool()
	backend.SetText(domain.Selector{NodeID: "n", Path: "api_key"}, "sk-secret")
	backend.SetText(domain.Selector{NodeID: "n", Path: "text"}, "hello")

	pool := middleware.NewRedactMiddleware([]string{`(?i)key|token|password`})(backend)

	masked, err := pool.Get(ctx, domain.Selector{NodeID: "n", Path: "api_key"})
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", masked.Render())

	plain, err := pool.Get(ctx, domain.Selector{NodeID: "n", Path: "text"})
	require.NoError(t, err)
	assert.Equal(t, "hello", plain.Render())

	_, err = pool.Get(ctx, domain.Selector{NodeID: "n", Path: "missing"})
	assert.ErrorIs(t, err, domain.ErrValueAbsent)
}

func TestChain_SatisfiesPoolContract(t *testing.T) {
	backend := memory.NewPool()
	pool := middleware.Chain(backend,
		middleware.NewRedactMiddleware([]string{`^secret$`}),
		middleware.NewCacheMiddleware(),
	)

	ports.RunVariablePoolContract(t, pool, func(sel domain.Selector, val domain.Value) {
		backend.Set(sel, val)
	})
}
