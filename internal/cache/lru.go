package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/fragsync/resource"
)

// node is one cached response, linked into the recency ring.
type node struct {
	key        CacheKey
	val        Value
	size       int64
	prev, next *node
}

// LRUCache is a byte-budgeted ObjectCache that evicts the least recently
// used response first.
type LRUCache struct {
	mu       sync.Mutex
	capacity int64
	used     int64
	index    map[CacheKey]*node
	// ring is the sentinel of a circular list; ring.next is the most
	// recently used entry, ring.prev the eviction candidate.
	ring node
	rc   *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

// NewLRUCache returns a cache holding at most capacity bytes of response
// bodies. When rc is non-nil every stored byte is also charged to it, and a
// response rc refuses is simply not cached.
func NewLRUCache(capacity int64, rc *resource.Controller) *LRUCache {
	c := &LRUCache{
		capacity: capacity,
		index:    make(map[CacheKey]*node),
		rc:       rc,
	}
	c.ring.next = &c.ring
	c.ring.prev = &c.ring
	return c
}

// Get returns the response stored under key and marks it most recently used.
func (c *LRUCache) Get(_ context.Context, key CacheKey) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.index[key]
	if !ok {
		c.misses.Add(1)
		return Value{}, false
	}
	c.hits.Add(1)
	c.unlink(n)
	c.pushFront(n)
	return n.val, true
}

// Set stores v under key. Bodies larger than the whole capacity are skipped.
// Replacing an entry keeps the old response if rc refuses the extra bytes.
func (c *LRUCache) Set(_ context.Context, key CacheKey, v Value) {
	size := int64(len(v.Data))
	if size > c.capacity {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.index[key]; ok {
		if grow := size - n.size; grow > 0 && !c.charge(grow) {
			return
		} else if grow < 0 {
			c.release(-grow)
		}
		c.used += size - n.size
		n.val, n.size = v, size
		c.unlink(n)
		c.pushFront(n)
		c.trim(0)
		return
	}

	// Make room first so the bytes we free are returned to rc before we
	// ask it for new ones.
	c.trim(size)
	if !c.charge(size) {
		return
	}
	n := &node{key: key, val: v, size: size}
	c.index[key] = n
	c.pushFront(n)
	c.used += size
}

// Delete drops the entry stored under key, if any.
func (c *LRUCache) Delete(key CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.index[key]; ok {
		c.drop(n)
	}
}

// Invalidate drops every entry whose key matches predicate.
func (c *LRUCache) Invalidate(predicate func(key CacheKey) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for n := c.ring.next; n != &c.ring; {
		next := n.next
		if predicate(n.key) {
			c.drop(n)
		}
		n = next
	}
}

// Close drops all entries and returns their bytes to rc.
func (c *LRUCache) Close() error {
	c.Invalidate(func(CacheKey) bool { return true })
	return nil
}

// Stats returns hit and miss counters.
func (c *LRUCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the number of cached body bytes.
func (c *LRUCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// trim evicts from the cold end until extra more bytes fit.
func (c *LRUCache) trim(extra int64) {
	for c.used+extra > c.capacity && c.ring.prev != &c.ring {
		c.drop(c.ring.prev)
	}
}

func (c *LRUCache) drop(n *node) {
	c.unlink(n)
	delete(c.index, n.key)
	c.used -= n.size
	c.release(n.size)
}

func (c *LRUCache) charge(bytes int64) bool {
	return c.rc == nil || c.rc.TryAcquireMemory(bytes)
}

func (c *LRUCache) release(bytes int64) {
	if c.rc != nil && bytes > 0 {
		c.rc.ReleaseMemory(bytes)
	}
}

func (c *LRUCache) unlink(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (c *LRUCache) pushFront(n *node) {
	n.prev = &c.ring
	n.next = c.ring.next
	c.ring.next.prev = n
	c.ring.next = n
}
