// Package docstore provides the keyed document store that holds wallet records,
// media records and reconciliation entries.
//
// Documents are addressed by (collection, key). Collections are slash-separated
// paths such as "wallets" or "users/0xabc.../media"; keys are unique within a
// collection. Put is an idempotent upsert.
package docstore

import (
	"context"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = apperrors.Wrap(apperrors.ErrNotFound, "document not found")

// Store is a keyed document store.
type Store interface {
	// Put creates or replaces the document under (collection, key).
	Put(ctx context.Context, collection, key string, doc any) error

	// Get decodes the document under (collection, key) into out, or returns ErrNotFound.
	Get(ctx context.Context, collection, key string, out any) error

	// Delete removes the document under (collection, key). Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, collection, key string) error

	// List returns the keys of every document in collection, in ascending order.
	List(ctx context.Context, collection string) ([]string, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
