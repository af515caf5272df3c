// Package memory provides an in-process blob store for local development and tests.
package memory

import (
	"context"
	"sync"
)

// BlobStore keeps blobs in a map guarded by a RWMutex.
type BlobStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewBlobStore constructs an empty store.
func NewBlobStore() *BlobStore {
	return &BlobStore{items: make(map[string][]byte)}
}

// SetItem overwrites the blob at key.
func (s *BlobStore) SetItem(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), blob...)
	return nil
}

// GetItem returns a copy of the blob at key.
func (s *BlobStore) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (s *BlobStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
