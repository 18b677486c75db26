// Package repository persists media records in the document store.
package repository

import (
	"context"
	"errors"

	"github.com/custodia-labs/custodia/internal/docstore"
	mediaDomain "github.com/custodia-labs/custodia/internal/media/domain"
)

// MediaRepository stores media records under users/{address}/media keyed by blob id.
type MediaRepository struct {
	store docstore.Store
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(store docstore.Store) *MediaRepository {
	return &MediaRepository{store: store}
}

// Create writes record for owner. Writing the same record twice is harmless.
func (r *MediaRepository) Create(ctx context.Context, owner string, record *mediaDomain.MediaRecord) error {
	return r.store.Put(ctx, mediaDomain.Collection(owner), record.BlobID, record)
}

// Get returns owner's record for blobID, or ErrMediaNotFound.
func (r *MediaRepository) Get(ctx context.Context, owner, blobID string) (*mediaDomain.MediaRecord, error) {
	var record mediaDomain.MediaRecord
	if err := r.store.Get(ctx, mediaDomain.Collection(owner), blobID, &record); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, mediaDomain.ErrMediaNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List returns the blob ids owner holds records for.
func (r *MediaRepository) List(ctx context.Context, owner string) ([]string, error) {
	return r.store.List(ctx, mediaDomain.Collection(owner))
}
