package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

// MongoStore implements Store on a single MongoDB collection.
//
// Each document is stored as
//
//	{_id: "<collection>/<key>", collection, key, body: <bson document>, createdAt, updatedAt}
//
// with an index on (collection, key) for listing.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and returns a store backed by dbName.collName.
func NewMongoStore(ctx context.Context, uri, dbName, collName string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	coll := client.Database(dbName).Collection(collName)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "collection", Value: 1}, {Key: "key", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create mongo index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// NewMongoStoreWithCollection wraps an existing collection. The caller keeps
// ownership of the client.
func NewMongoStoreWithCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Put upserts doc under (collection, key).
func (m *MongoStore) Put(ctx context.Context, collection, key string, doc any) error {
	body, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	now := time.Now().UTC()
	_, err = m.coll.UpdateByID(
		ctx,
		documentID(collection, key),
		bson.M{
			"$set": bson.M{
				"collection": collection,
				"key":        key,
				"body":       bson.Raw(body),
				"updatedAt":  now,
			},
			"$setOnInsert": bson.M{
				"createdAt": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperrors.Unavailable(err, "docstore put")
	}
	return nil
}

// Get decodes the document under (collection, key) into out.
func (m *MongoStore) Get(ctx context.Context, collection, key string, out any) error {
	var doc struct {
		Body bson.Raw `bson:"body"`
	}

	err := m.coll.FindOne(ctx, bson.M{"_id": documentID(collection, key)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return apperrors.Unavailable(err, "docstore get")
	}

	if err := bson.Unmarshal(doc.Body, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Delete removes the document under (collection, key).
func (m *MongoStore) Delete(ctx context.Context, collection, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": documentID(collection, key)}); err != nil {
		return apperrors.Unavailable(err, "docstore delete")
	}
	return nil
}

// List returns the keys of collection in ascending order.
func (m *MongoStore) List(ctx context.Context, collection string) ([]string, error) {
	cur, err := m.coll.Find(
		ctx,
		bson.M{"collection": collection},
		options.Find().
			SetProjection(bson.M{"key": 1}).
			SetSort(bson.D{{Key: "key", Value: 1}}),
	)
	if err != nil {
		return nil, apperrors.Unavailable(err, "docstore list")
	}
	defer func() { _ = cur.Close(ctx) }()

	keys := make([]string, 0)
	for cur.Next(ctx) {
		var doc struct {
			Key string `bson:"key"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document key: %w", err)
		}
		keys = append(keys, doc.Key)
	}
	if err := cur.Err(); err != nil {
		return nil, apperrors.Unavailable(err, "docstore list")
	}
	return keys, nil
}

// Ping checks the connection to the server holding the collection.
func (m *MongoStore) Ping(ctx context.Context) error {
	if err := m.coll.Database().Client().Ping(ctx, nil); err != nil {
		return apperrors.Unavailable(err, "docstore ping")
	}
	return nil
}

// Close disconnects the client if the store owns one.
func (m *MongoStore) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

func documentID(collection, key string) string {
	return collection + "/" + key
}
