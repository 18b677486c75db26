package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("Success_Put", func(mt *mtest.T) {
		store := NewMongoStoreWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		err := store.Put(ctx, "wallets", "0x1", testDoc{Name: "a", Count: 1})
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("Success_Get", func(mt *mtest.T) {
		store := NewMongoStoreWithCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "wallets/0x1"},
			{Key: "collection", Value: "wallets"},
			{Key: "key", Value: "0x1"},
			{Key: "body", Value: bson.D{{Key: "name", Value: "a"}, {Key: "count", Value: 7}}},
		}))

		var got testDoc
		require.NoError(mt, store.Get(ctx, "wallets", "0x1", &got))
		assert.Equal(mt, testDoc{Name: "a", Count: 7}, got)
	})

	mt.Run("Error_GetMissing", func(mt *mtest.T) {
		store := NewMongoStoreWithCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		var got testDoc
		err := store.Get(ctx, "wallets", "0x1", &got)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("Error_GetServerFailure", func(mt *mtest.T) {
		store := NewMongoStoreWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Name:    "InterruptedAtShutdown",
			Message: "interrupted at shutdown",
		}))

		var got testDoc
		err := store.Get(ctx, "wallets", "0x1", &got)
		assert.ErrorIs(mt, err, apperrors.ErrUnavailable)
	})

	mt.Run("Success_List", func(mt *mtest.T) {
		store := NewMongoStoreWithCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "users/0x1/media/a"}, {Key: "key", Value: "a"}},
			bson.D{{Key: "_id", Value: "users/0x1/media/b"}, {Key: "key", Value: "b"}},
		))

		keys, err := store.List(ctx, "users/0x1/media")
		require.NoError(mt, err)
		assert.Equal(mt, []string{"a", "b"}, keys)
	})

	mt.Run("Success_Delete", func(mt *mtest.T) {
		store := NewMongoStoreWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, store.Delete(ctx, "reconciliation/pending", "e1"))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "delete", started.CommandName)
	})

	mt.Run("Error_DeleteServerFailure", func(mt *mtest.T) {
		store := NewMongoStoreWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Name:    "InterruptedAtShutdown",
			Message: "interrupted at shutdown",
		}))

		err := store.Delete(ctx, "reconciliation/pending", "e1")
		assert.ErrorIs(mt, err, apperrors.ErrUnavailable)
	})

	mt.Run("Success_ListEmpty", func(mt *mtest.T) {
		store := NewMongoStoreWithCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		keys, err := store.List(ctx, "users/0x1/media")
		require.NoError(mt, err)
		assert.Empty(mt, keys)
	})
}

func TestNewMongoStore_EmptyURI(t *testing.T) {
	store, err := NewMongoStore(context.Background(), "", "custodia", "documents")
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "users/0xabc/media/blob1", documentID("users/0xabc/media", "blob1"))
}
