package blobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

type blockingStore struct{}

func (blockingStore) Put(ctx context.Context, data []byte) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingStore) Get(ctx context.Context, blobID string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PassesThrough", func(t *testing.T) {
		store := WithTimeout(NewBucketStore(memblob.OpenBucket(nil)), time.Second)

		id, err := store.Put(ctx, []byte("abc"))
		require.NoError(t, err)

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("Error_DeadlineBecomesUnavailable", func(t *testing.T) {
		store := WithTimeout(blockingStore{}, 10*time.Millisecond)

		_, err := store.Put(ctx, []byte("abc"))
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)

		_, err = store.Get(ctx, "id")
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})

	t.Run("Success_ZeroTimeoutReturnsNext", func(t *testing.T) {
		next := blockingStore{}
		assert.Equal(t, Store(next), WithTimeout(next, 0))
	})
}
