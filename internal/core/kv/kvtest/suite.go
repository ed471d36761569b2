// Package kvtest holds a behavioral suite shared by every kv.KV backend.
package kvtest

import (
	"context"
	"testing"
	"time"

	"github.com/hay-kot/cyclepanes/internal/core/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store against the kv.KV contract. newStore must return an
// empty store each time it is called.
func Run(t *testing.T, newStore func(t *testing.T) kv.KV) {
	t.Helper()

	t.Run("set and get", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		type payload struct {
			Name  string `json:"name"`
			Value int    `json:"value"`
		}

		require.NoError(t, store.Set(ctx, "test-key", payload{Name: "hello", Value: 42}))

		var got payload
		require.NoError(t, store.Get(ctx, "test-key", &got))
		assert.Equal(t, payload{Name: "hello", Value: 42}, got)
	})

	t.Run("get missing", func(t *testing.T) {
		var v string
		err := newStore(t).Get(context.Background(), "nonexistent", &v)
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("overwrite", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.Set(ctx, "key", "first"))
		require.NoError(t, store.Set(ctx, "key", "second"))

		var got string
		require.NoError(t, store.Get(ctx, "key", &got))
		assert.Equal(t, "second", got)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.Set(ctx, "key", "value"))
		require.NoError(t, store.Delete(ctx, "key"))
		require.NoError(t, store.Delete(ctx, "never-set"))

		has, err := store.Has(ctx, "key")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("has", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		has, err := store.Has(ctx, "key")
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, store.Set(ctx, "key", 1))
		has, err = store.Has(ctx, "key")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("list keys sorted", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		keys, err := store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)

		for _, k := range []string{"charlie", "alpha", "bravo"} {
			require.NoError(t, store.Set(ctx, k, k))
		}

		keys, err = store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "bravo", "charlie"}, keys)
	})

	t.Run("get raw", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		before := time.Now().Add(-time.Second)

		require.NoError(t, store.Set(ctx, "raw", map[string]int{"a": 1}))

		entry, err := store.GetRaw(ctx, "raw")
		require.NoError(t, err)
		assert.Equal(t, "raw", entry.Key)
		assert.JSONEq(t, `{"a":1}`, string(entry.Value))
		assert.True(t, entry.UpdatedAt.After(before))

		_, err = store.GetRaw(ctx, "missing")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("scoped", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		alpha := kv.Scoped[int](store, "alpha")
		beta := kv.Scoped[int](store, "beta")

		require.NoError(t, alpha.Set(ctx, "count", 10))
		require.NoError(t, beta.Set(ctx, "count", 20))

		a, err := alpha.Get(ctx, "count")
		require.NoError(t, err)
		assert.Equal(t, 10, a)

		b, err := beta.Get(ctx, "count")
		require.NoError(t, err)
		assert.Equal(t, 20, b)

		keys, err := store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha:count", "beta:count"}, keys)

		require.NoError(t, alpha.Delete(ctx, "count"))
		has, err := alpha.Has(ctx, "count")
		require.NoError(t, err)
		assert.False(t, has)
	})
}
