// file: internal/cache/cache.go
// version: 3.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

// Package cache holds search responses for a short time.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type item[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

type pending[T any] struct {
	done  chan struct{}
	value T
}

// Cache is a TTL cache with least-recently-used eviction, safe for
// concurrent use. A non-positive TTL stores nothing. Concurrent GetOrLoad
// misses on one key share a single load.
type Cache[T any] struct {
	mu         sync.Mutex
	order      *list.List // front is most recently used
	index      map[string]*list.Element
	loading    map[string]*pending[T]
	defaultTTL time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a cache with the given default TTL and no size bound.
func New[T any](defaultTTL time.Duration) *Cache[T] {
	return NewBounded[T](defaultTTL, 0)
}

// NewBounded creates a cache that holds at most maxEntries items
// (0 means unbounded).
func NewBounded[T any](defaultTTL time.Duration, maxEntries int) *Cache[T] {
	return &Cache[T]{
		order:      list.New(),
		index:      make(map[string]*list.Element),
		loading:    make(map[string]*pending[T]),
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the live value for key and marks it recently used.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache[T]) getLocked(key string) (T, bool) {
	var zero T
	el, ok := c.index[key]
	if !ok {
		return zero, false
	}
	it := el.Value.(*item[T])
	if c.now().After(it.expiresAt) {
		c.removeLocked(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return it.value, true
}

// Set stores a value with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a specific TTL. When the cache is full the
// least recently used entry is evicted.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, ttl)
}

func (c *Cache[T]) setLocked(key string, value T, ttl time.Duration) {
	expiresAt := c.now().Add(ttl)
	if el, ok := c.index[key]; ok {
		it := el.Value.(*item[T])
		it.value, it.expiresAt = value, expiresAt
		c.order.MoveToFront(el)
		return
	}
	c.index[key] = c.order.PushFront(&item[T]{key: key, value: value, expiresAt: expiresAt})
	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.removeLocked(c.order.Back())
	}
}

func (c *Cache[T]) removeLocked(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*item[T]).key)
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss. hit reports whether the value came from the cache;
// callers that waited on another caller's load see hit as false.
func (c *Cache[T]) GetOrLoad(key string, load func() T) (value T, hit bool) {
	c.mu.Lock()
	if v, ok := c.getLocked(key); ok {
		c.mu.Unlock()
		return v, true
	}
	if p, ok := c.loading[key]; ok {
		c.mu.Unlock()
		<-p.done
		return p.value, false
	}
	p := &pending[T]{done: make(chan struct{})}
	c.loading[key] = p
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.loading, key)
		c.mu.Unlock()
		close(p.done)
	}()

	p.value = load()
	if c.defaultTTL > 0 {
		c.mu.Lock()
		c.setLocked(key, p.value, c.defaultTTL)
		c.mu.Unlock()
	}
	return p.value, false
}

// Invalidate removes a single key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		c.removeLocked(el)
	}
}

// InvalidateAll removes all entries. Loads already running still store
// their result.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.index)
}

// Prune drops expired entries and returns how many were removed.
func (c *Cache[T]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if now.After(el.Value.(*item[T]).expiresAt) {
			c.removeLocked(el)
			removed++
		}
		el = next
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
