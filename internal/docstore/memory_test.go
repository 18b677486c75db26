package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"  bson:"name"`
	Count int    `json:"count" bson:"count"`
}

// exerciseStore runs the behaviour every Store implementation must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Success_Ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("Success_PutThenGet", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "wallets", "0xaaa", testDoc{Name: "first", Count: 1}))

		var got testDoc
		require.NoError(t, store.Get(ctx, "wallets", "0xaaa", &got))
		assert.Equal(t, testDoc{Name: "first", Count: 1}, got)
	})

	t.Run("Success_PutReplacesExisting", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "wallets", "0xbbb", testDoc{Name: "old"}))
		require.NoError(t, store.Put(ctx, "wallets", "0xbbb", testDoc{Name: "new", Count: 2}))

		var got testDoc
		require.NoError(t, store.Get(ctx, "wallets", "0xbbb", &got))
		assert.Equal(t, "new", got.Name)
		assert.Equal(t, 2, got.Count)
	})

	t.Run("Error_GetMissing", func(t *testing.T) {
		var got testDoc
		err := store.Get(ctx, "wallets", "0xmissing", &got)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Error_GetOtherCollection", func(t *testing.T) {
		var got testDoc
		err := store.Get(ctx, "users/0xaaa/media", "0xaaa", &got)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Success_ListSortedAndScoped", func(t *testing.T) {
		coll := "users/0xccc/media"
		require.NoError(t, store.Put(ctx, coll, "blob-b", testDoc{Name: "b"}))
		require.NoError(t, store.Put(ctx, coll, "blob-a", testDoc{Name: "a"}))
		require.NoError(t, store.Put(ctx, "users/0xddd/media", "blob-c", testDoc{Name: "c"}))

		keys, err := store.List(ctx, coll)
		require.NoError(t, err)
		assert.Equal(t, []string{"blob-a", "blob-b"}, keys)
	})

	t.Run("Success_Delete", func(t *testing.T) {
		coll := "reconciliation/pending"
		require.NoError(t, store.Put(ctx, coll, "entry-1", testDoc{Name: "one"}))
		require.NoError(t, store.Put(ctx, coll, "entry-2", testDoc{Name: "two"}))

		require.NoError(t, store.Delete(ctx, coll, "entry-1"))

		var got testDoc
		assert.ErrorIs(t, store.Get(ctx, coll, "entry-1", &got), ErrNotFound)
		keys, err := store.List(ctx, coll)
		require.NoError(t, err)
		assert.Equal(t, []string{"entry-2"}, keys)
	})

	t.Run("Success_DeleteMissing", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "reconciliation/pending", "never-written"))
	})

	t.Run("Success_ListEmpty", func(t *testing.T) {
		keys, err := store.List(ctx, "users/0xnobody/media")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	doc := &testDoc{Name: "original"}
	require.NoError(t, store.Put(ctx, "wallets", "0x1", doc))
	doc.Name = "mutated"

	var got testDoc
	require.NoError(t, store.Get(ctx, "wallets", "0x1", &got))
	assert.Equal(t, "original", got.Name)
}

func TestMemoryStore_PutUnencodable(t *testing.T) {
	store := NewMemoryStore()
	err := store.Put(context.Background(), "wallets", "0x1", make(chan int))
	assert.Error(t, err)
}
