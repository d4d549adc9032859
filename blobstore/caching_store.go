package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/hupe1980/fragsync/internal/cache"
	"github.com/hupe1980/fragsync/model"
	"github.com/hupe1980/fragsync/resource"
	"golang.org/x/sync/errgroup"
)

// defaultPrefetchConcurrency bounds parallel fetches in Prefetch.
const defaultPrefetchConcurrency = 4

// CachingStore wraps a Fetcher and caches successful responses.
//
// Failed fetches are never cached. A 2xx body is cached before anyone has
// decompressed it, so callers that find the body corrupt must call
// Invalidate; the loader does this through the Invalidator interface.
type CachingStore struct {
	inner Fetcher
	cache cache.ObjectCache
}

// NewCachingStore creates a new CachingStore.
func NewCachingStore(inner Fetcher, c cache.ObjectCache) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: c,
	}
}

// NewLRUCachingStore wraps inner with a byte-budgeted LRU of the given
// capacity. Cached bytes are charged to rc when it is non-nil.
func NewLRUCachingStore(inner Fetcher, capacity int64, rc *resource.Controller) *CachingStore {
	return NewCachingStore(inner, cache.NewLRUCache(capacity, rc))
}

// cacheKey scopes entries by endpoint, asset and credential, so a body
// fetched with one API key is never served to a reference with another.
// Only a digest of the key is retained.
func cacheKey(ref model.AssetReference) cache.CacheKey {
	path := ref.Endpoint + "|" + ref.ID
	if ref.APIKey != "" {
		sum := sha256.Sum256([]byte(ref.APIKey))
		path += "|" + hex.EncodeToString(sum[:8])
	}
	return cache.CacheKey{Kind: cache.CacheKindAsset, Path: path}
}

// Fetch implements Fetcher.
func (s *CachingStore) Fetch(ctx context.Context, ref model.AssetReference) (*Object, error) {
	key := cacheKey(ref)
	if v, ok := s.cache.Get(ctx, key); ok {
		return &Object{Name: ref.ID, Data: v.Data, Header: http.Header(v.Header).Clone()}, nil
	}

	obj, err := s.inner.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, cache.Value{Data: obj.Data, Header: obj.Header.Clone()})
	return obj, nil
}

// Invalidate drops the cached response for ref.
func (s *CachingStore) Invalidate(ref model.AssetReference) {
	s.cache.Delete(cacheKey(ref))
}

// Prefetch warms the cache for refs in parallel.
// It returns the first error; successfully fetched assets stay cached.
func (s *CachingStore) Prefetch(ctx context.Context, refs ...model.AssetReference) error {
	g, ctx := errgroup.WithContext(ctx)
	// Limit concurrency to avoid hammering the remote.
	g.SetLimit(defaultPrefetchConcurrency)

	for _, ref := range refs {
		g.Go(func() error {
			_, err := s.Fetch(ctx, ref)
			return err
		})
	}
	return g.Wait()
}
