package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/fragsync/internal/cache"
	"github.com/hupe1980/fragsync/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	m.Put("proj1/file1", []byte("data"), map[string]string{"filename": "a.ifc", "Timestamp": "t"})

	obj, err := m.Fetch(context.Background(), model.AssetReference{ID: "proj1/file1"})
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), obj.Data)
	assert.Equal(t, "a.ifc", obj.Header.Get("x-metadata-filename"))
	assert.Equal(t, "t", obj.Header.Get("x-metadata-timestamp"))

	// Returned bytes are a copy.
	obj.Data[0] = 'X'
	obj, err = m.Fetch(context.Background(), model.AssetReference{ID: "proj1/file1"})
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), obj.Data)

	m.Delete("proj1/file1")
	_, err = m.Fetch(context.Background(), model.AssetReference{ID: "proj1/file1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proj1", "file1frag.gz"), []byte("gz"), 0o644))

	s := NewLocalStore(root)

	obj, err := s.Fetch(context.Background(), model.AssetReference{ID: "proj1/file1"})
	require.NoError(t, err)
	assert.Equal(t, []byte("gz"), obj.Data)
	assert.Equal(t, "file1", obj.Header.Get("x-metadata-filename"))
	assert.Equal(t, "proj1", obj.Header.Get("x-metadata-projectname"))
	assert.NotEmpty(t, obj.Header.Get("x-metadata-timestamp"))

	_, err = s.Fetch(context.Background(), model.AssetReference{ID: "proj1/missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Fetch(context.Background(), model.AssetReference{ID: "../etc/passwd"})
	assert.Error(t, err)
}

func TestCachingStore(t *testing.T) {
	var calls atomic.Int32
	inner := FetcherFunc(func(ctx context.Context, ref model.AssetReference) (*Object, error) {
		calls.Add(1)
		if ref.ID == "bad" {
			return nil, &TransportError{StatusCode: 503, Status: "503 Service Unavailable"}
		}
		return &Object{Name: ref.ID, Data: []byte(ref.ID), Header: MetadataHeader(map[string]string{"filename": ref.ID})}, nil
	})

	s := NewCachingStore(inner, cache.NewLRUCache(1<<20, nil))
	ctx := context.Background()

	for range 3 {
		obj, err := s.Fetch(ctx, model.AssetReference{ID: "a"})
		require.NoError(t, err)
		assert.Equal(t, "a", obj.Header.Get("x-metadata-filename"))
	}
	assert.Equal(t, int32(1), calls.Load())

	// Failures are not cached.
	_, err := s.Fetch(ctx, model.AssetReference{ID: "bad"})
	require.Error(t, err)
	_, err = s.Fetch(ctx, model.AssetReference{ID: "bad"})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	s.Invalidate(model.AssetReference{ID: "a"})
	_, err = s.Fetch(ctx, model.AssetReference{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, int32(4), calls.Load())
}

func TestCachingStore_ScopedByAPIKey(t *testing.T) {
	var calls atomic.Int32
	inner := FetcherFunc(func(ctx context.Context, ref model.AssetReference) (*Object, error) {
		calls.Add(1)
		return &Object{Name: ref.ID, Data: []byte(ref.APIKey)}, nil
	})

	s := NewLRUCachingStore(inner, 1<<20, nil)
	ctx := context.Background()

	alice := model.AssetReference{Endpoint: "https://assets.example", ID: "a", APIKey: "key-1"}
	bob := model.AssetReference{Endpoint: "https://assets.example", ID: "a", APIKey: "key-2"}

	obj, err := s.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []byte("key-1"), obj.Data)

	obj, err = s.Fetch(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []byte("key-2"), obj.Data)
	assert.Equal(t, int32(2), calls.Load())

	_, err = s.Fetch(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	assert.NotContains(t, cacheKey(alice).Path, "key-1")
}

func TestCachingStore_Prefetch(t *testing.T) {
	var calls atomic.Int32
	inner := FetcherFunc(func(ctx context.Context, ref model.AssetReference) (*Object, error) {
		calls.Add(1)
		return &Object{Name: ref.ID, Data: []byte(ref.ID)}, nil
	})

	s := NewLRUCachingStore(inner, 1<<20, nil)
	refs := []model.AssetReference{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	require.NoError(t, s.Prefetch(context.Background(), refs...))
	assert.Equal(t, int32(3), calls.Load())

	for _, ref := range refs {
		_, err := s.Fetch(context.Background(), ref)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
}
