package cache

import "context"

// CacheKind is used to separate key spaces.
type CacheKind uint8

const (
	CacheKindUnknown CacheKind = iota
	CacheKindAsset             // compressed asset responses
)

// CacheKey identifies a cached value.
type CacheKey struct {
	Kind CacheKind
	// Path identifies the source, e.g. "<endpoint>|<asset id>".
	Path string
}

// Value is a cached response. Callers must treat it as read-only.
type Value struct {
	Data   []byte
	Header map[string][]string
}

// ObjectCache caches fetched responses.
type ObjectCache interface {
	// Get returns a cached value. ok=false if missing.
	Get(ctx context.Context, key CacheKey) (v Value, ok bool)
	// Set caches a value. Implementations retain v; callers must not mutate it.
	Set(ctx context.Context, key CacheKey, v Value)
	// Delete removes the entry stored under key, if any.
	Delete(key CacheKey)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key CacheKey) bool)
	// Close releases any resources.
	Close() error
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}
