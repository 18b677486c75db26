package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store. Documents are kept JSON encoded so that callers
// observe the same copy semantics as with a remote store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string][]byte)}
}

// Put stores doc under (collection, key).
func (m *MemoryStore) Put(ctx context.Context, collection, key string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		m.collections[collection] = docs
	}
	docs[key] = body
	return nil
}

// Get decodes the document under (collection, key) into out.
func (m *MemoryStore) Get(ctx context.Context, collection, key string, out any) error {
	m.mu.RLock()
	body, ok := m.collections[collection][key]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Delete removes the document under (collection, key).
func (m *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], key)
	return nil
}

// List returns the sorted keys of collection.
func (m *MemoryStore) List(ctx context.Context, collection string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.collections[collection]))
	for key := range m.collections[collection] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
