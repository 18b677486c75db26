// Package blobstore stores encrypted media ciphertext in a content-addressed blob
// service. The store only ever sees ciphertext.
package blobstore

import (
	"context"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

// ErrBlobNotFound is returned by Get when the blob id is unknown to the store.
var ErrBlobNotFound = apperrors.Wrap(apperrors.ErrNotFound, "blob not found")

// Store is a content-addressed blob store. Put is idempotent: storing the same bytes
// twice returns the same id.
type Store interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, blobID string) ([]byte, error)
}
