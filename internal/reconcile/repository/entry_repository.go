// Package repository persists reconciliation entries in the document store.
package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/custodia-labs/custodia/internal/docstore"
	"github.com/custodia-labs/custodia/internal/reconcile/domain"
)

// EntryRepository stores entries in one collection per status, keyed by id. Ids are
// UUIDv7, so key order is creation order.
type EntryRepository struct {
	store docstore.Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store docstore.Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create persists a new entry under its status.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	return r.store.Put(ctx, domain.Collection(entry.Status), entry.ID.String(), entry)
}

// Update writes entry under its current status and removes any copy left under the
// other statuses. A failure between the two steps leaves a stale pending copy, which
// the worker replays harmlessly.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	key := entry.ID.String()
	if err := r.store.Put(ctx, domain.Collection(entry.Status), key, entry); err != nil {
		return err
	}

	for _, status := range domain.Statuses {
		if status == entry.Status {
			continue
		}
		if err := r.store.Delete(ctx, domain.Collection(status), key); err != nil {
			return err
		}
	}
	return nil
}

// ListByStatus returns up to limit entries in creation order. An empty status
// matches every entry; a limit of zero or less means no limit.
func (r *EntryRepository) ListByStatus(
	ctx context.Context,
	status domain.Status,
	limit int,
) ([]*domain.Entry, error) {
	statuses := []domain.Status{status}
	if status == "" {
		statuses = domain.Statuses
	}

	type ref struct {
		status domain.Status
		key    string
	}
	refs := make([]ref, 0)
	for _, s := range statuses {
		keys, err := r.store.List(ctx, domain.Collection(s))
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			refs = append(refs, ref{status: s, key: key})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].key < refs[j].key })

	entries := make([]*domain.Entry, 0)
	for i, ref := range refs {
		if limit > 0 && len(entries) >= limit {
			break
		}
		// A stale pending copy sorts before the copy that replaced it.
		if i+1 < len(refs) && refs[i+1].key == ref.key {
			continue
		}

		var entry domain.Entry
		if err := r.store.Get(ctx, domain.Collection(ref.status), ref.key, &entry); err != nil {
			// Moved to another status between List and Get.
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
