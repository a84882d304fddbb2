package cache

import "sync"

// Cache is a generic thread-safe LRU cache. Once it holds more than limit
// entries the least recently used one is evicted.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	order   list[K, V]
	limit   int
}

// New creates a cache holding at most limit entries. A limit of 0 means
// unlimited.
func New[K comparable, V any](limit int) *Cache[K, V] {
	c := &Cache[K, V]{
		entries: make(map[K]*node[K, V]),
		limit:   limit,
	}
	c.order.init()
	return c
}

// Get retrieves a value and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(n)
	return n.value, true
}

// Set stores a value, evicting the oldest entry if the limit is exceeded.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrCreate returns the cached value for key or stores the result of
// create. create runs under the lock, so it is called at most once per
// missing key.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		c.order.moveToFront(n)
		return n.value
	}
	v := create()
	c.set(key, v)
	return v
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order.init()
}

// set stores key; the caller holds c.mu.
func (c *Cache[K, V]) set(key K, value V) {
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.order.moveToFront(n)
		return
	}
	n := &node[K, V]{key: key, value: value}
	c.entries[key] = n
	c.order.pushFront(n)

	for c.limit > 0 && len(c.entries) > c.limit {
		old := c.order.back()
		c.order.remove(old)
		delete(c.entries, old.key)
	}
}
