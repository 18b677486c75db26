package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

// blockingStore waits for the context to end on every call.
type blockingStore struct{}

func (blockingStore) Put(ctx context.Context, collection, key string, doc any) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingStore) Get(ctx context.Context, collection, key string, out any) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingStore) Delete(ctx context.Context, collection, key string) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingStore) List(ctx context.Context, collection string) ([]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingStore) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ZeroTimeoutReturnsNext", func(t *testing.T) {
		next := NewMemoryStore()
		assert.Same(t, next, WithTimeout(next, 0))
	})

	t.Run("Success_PassesThrough", func(t *testing.T) {
		store := WithTimeout(NewMemoryStore(), time.Second)
		require.NoError(t, store.Put(ctx, "wallets", "0x1", testDoc{Name: "a"}))

		var got testDoc
		require.NoError(t, store.Get(ctx, "wallets", "0x1", &got))
		assert.Equal(t, "a", got.Name)

		var missing testDoc
		assert.ErrorIs(t, store.Get(ctx, "wallets", "0x2", &missing), ErrNotFound)
	})

	t.Run("Error_DeadlineBecomesUnavailable", func(t *testing.T) {
		store := WithTimeout(blockingStore{}, 10*time.Millisecond)

		err := store.Put(ctx, "wallets", "0x1", testDoc{})
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)

		var got testDoc
		err = store.Get(ctx, "wallets", "0x1", &got)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)

		assert.ErrorIs(t, store.Delete(ctx, "wallets", "0x1"), apperrors.ErrUnavailable)

		keys, err := store.List(ctx, "wallets")
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		assert.Nil(t, keys)

		assert.ErrorIs(t, store.Ping(ctx), apperrors.ErrUnavailable)
	})

	t.Run("Error_CallerCancelIsNotUnavailable", func(t *testing.T) {
		store := WithTimeout(blockingStore{}, time.Second)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := store.Put(cancelled, "wallets", "0x1", testDoc{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, apperrors.ErrUnavailable)
	})
}
