package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sluice/pkg/adapters/redis"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, opts ...redis.Option) (*redis.Pool, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	return redis.NewFromClient(client, opts...), mr
}

func TestRedisPool_Contract(t *testing.T) {
	pool, _ := newTestPool(t)
	ports.RunVariablePoolContract(t, pool, func(sel domain.Selector, val domain.Value) {
		require.NoError(t, pool.Set(context.Background(), sel, val))
	})
}

func TestRedisPool_TTL_Expiration(t *testing.T) {
	pool, mr := newTestPool(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sel := domain.Selector{NodeID: "llm", Path: "text"}

	require.NoError(t, pool.Set(ctx, sel, domain.Text("42")))

	val, err := pool.Get(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, "42", val.Render())

	// miniredis only expires on explicit clock advancement
	mr.FastForward(2 * time.Second)

	_, err = pool.Get(ctx, sel)
	assert.True(t, errors.Is(err, domain.ErrValueAbsent))
}

func TestRedisPool_Prefix(t *testing.T) {
	pool, mr := newTestPool(t, redis.WithPrefix("myapp:values:"))
	ctx := context.Background()

	require.NoError(t, pool.Set(ctx, domain.Selector{NodeID: "n", Path: "out"}, domain.Text("v")))

	got, err := mr.Get("myapp:values:n.out")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestRedisPool_Delete(t *testing.T) {
	pool, _ := newTestPool(t)
	ctx := context.Background()
	sel := domain.Selector{NodeID: "n", Path: "out"}

	require.NoError(t, pool.Set(ctx, sel, domain.Text("v")))
	require.NoError(t, pool.Delete(ctx, sel))

	_, err := pool.Get(ctx, sel)
	assert.True(t, errors.Is(err, domain.ErrValueAbsent))
}
