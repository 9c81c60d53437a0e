package utils

import (
	"sync"
)

// Cache provides a generic read-mostly cache
type Cache[K comparable, V any] struct {
	items map[K]V
	mutex sync.RWMutex
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

// Get retrieves an item from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	value, exists := c.items[key]
	return value, exists
}

// Set stores an item in the cache
func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = value
}

// GetOrCompute returns the cached value for key, computing and storing it on a
// miss. compute runs outside the lock; when two callers race on the same key
// the first stored value wins and is returned to both.
func (c *Cache[K, V]) GetOrCompute(key K, compute func(K) V) V {
	if value, ok := c.Get(key); ok {
		return value
	}

	value := compute(key)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if existing, ok := c.items[key]; ok {
		return existing
	}
	c.items[key] = value
	return value
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}
