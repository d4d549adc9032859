package blobstore

import (
	"context"
	"net/http"
	"sync"

	"github.com/hupe1980/fragsync/model"
)

// MemoryStore is an in-memory Fetcher for testing.
// Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*Object
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]*Object),
	}
}

// Put stores compressed data under id with the given metadata fields.
func (m *MemoryStore) Put(id string, data []byte, metadata map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external mutation
	copied := make([]byte, len(data))
	copy(copied, data)
	m.objects[id] = &Object{Name: id, Data: copied, Header: MetadataHeader(metadata)}
}

// Delete removes an asset.
func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, id)
}

// Fetch implements Fetcher.
func (m *MemoryStore) Fetch(ctx context.Context, ref model.AssetReference) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[ref.ID]
	if !ok {
		return nil, &TransportError{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			URL:        "memory://" + ref.ID,
		}
	}

	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	return &Object{Name: obj.Name, Data: data, Header: obj.Header.Clone()}, nil
}
