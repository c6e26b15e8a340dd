package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/sluice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunVariablePoolContract runs a suite of tests to verify that a VariablePool
// implementation adheres to the defined interface contract. The set function
// writes a value into the backing store, playing the engine's role.
func RunVariablePoolContract(t *testing.T, pool VariablePool, set func(domain.Selector, domain.Value)) {
	ctx := context.Background()

	t.Run("Absent before produced", func(t *testing.T) {
		_, err := pool.Get(ctx, domain.Selector{NodeID: "llm", Path: "text"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValueAbsent), "expected ErrValueAbsent, got %v", err)
	})

	t.Run("Set and Get", func(t *testing.T) {
		sel := domain.Selector{NodeID: "llm", Path: "text"}
		set(sel, domain.Text("hello"))

		val, err := pool.Get(ctx, sel)
		require.NoError(t, err)
		assert.Equal(t, "hello", val.Render())
	})

	t.Run("Empty rendering is distinct from absent", func(t *testing.T) {
		sel := domain.Selector{NodeID: "llm", Path: "empty"}
		set(sel, domain.Text(""))

		val, err := pool.Get(ctx, sel)
		require.NoError(t, err)
		assert.Equal(t, "", val.Render())
	})

	t.Run("Paths do not collide across nodes", func(t *testing.T) {
		set(domain.Selector{NodeID: "a", Path: "out"}, domain.Text("from a"))
		set(domain.Selector{NodeID: "b", Path: "out"}, domain.Text("from b"))

		val, err := pool.Get(ctx, domain.Selector{NodeID: "a", Path: "out"})
		require.NoError(t, err)
		assert.Equal(t, "from a", val.Render())

		val, err = pool.Get(ctx, domain.Selector{NodeID: "b", Path: "out"})
		require.NoError(t, err)
		assert.Equal(t, "from b", val.Render())
	})
}
