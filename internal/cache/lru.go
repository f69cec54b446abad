package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/hclust/internal/resource"
)

// LRU is a least-recently-used store bounded by total entry size.
// It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[K]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[K comparable, V any] struct {
	key   K
	value V
	size  int64
}

// NewLRU creates an LRU with the given capacity in bytes.
// If rc is not nil, entry sizes are reserved against it.
func NewLRU[K comparable, V any](capacity int64, rc *resource.Controller) *LRU[K, V] {
	return &LRU[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns a cached value.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(el)
		return el.Value.(*entry[K, V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set caches value under key and reports whether it was admitted. Values
// larger than the capacity, or whose size the controller refuses, are not
// cached and leave the cache untouched. An existing entry for key is
// replaced.
func (c *LRU[K, V]) Set(key K, value V, size int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size > c.capacity {
		return false
	}

	// Pick the entries to drop without dropping them yet.
	var (
		victims []*list.Element
		freed   int64
	)
	old, replacing := c.items[key]
	if replacing {
		victims = append(victims, old)
		freed += old.Value.(*entry[K, V]).size
	}
	for el := c.evictList.Back(); el != nil && c.size-freed+size > c.capacity; el = el.Prev() {
		if el == old {
			continue
		}
		victims = append(victims, el)
		freed += el.Value.(*entry[K, V]).size
	}

	// The victims' reservations carry over to the new entry.
	if delta := size - freed; delta > 0 {
		if err := c.rc.AcquireMemory(delta); err != nil {
			return false
		}
	}
	for _, el := range victims {
		c.detach(el)
	}
	if delta := freed - size; delta > 0 {
		c.rc.ReleaseMemory(delta)
	}

	el := c.evictList.PushFront(&entry[K, V]{key: key, value: value, size: size})
	c.items[key] = el
	c.size += size
	return true
}

// Invalidate removes entries matching the predicate and returns how many
// were removed.
func (c *LRU[K, V]) Invalidate(predicate func(key K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, el := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, el)
		}
	}
	for _, el := range toRemove {
		c.removeElement(el)
	}
	return len(toRemove)
}

// Purge removes every entry.
func (c *LRU[K, V]) Purge() {
	c.Invalidate(func(K) bool { return true })
}

// Keys returns the cached keys, most recently used first.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for el := c.evictList.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}
	return keys
}

// Stats returns the hit and miss counts.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the total size of the cached entries in bytes.
func (c *LRU[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRU[K, V]) removeElement(el *list.Element) {
	c.rc.ReleaseMemory(c.detach(el))
}

// detach unlinks el and returns its size without touching the controller.
func (c *LRU[K, V]) detach(el *list.Element) int64 {
	c.evictList.Remove(el)
	e := el.Value.(*entry[K, V])
	delete(c.items, e.key)
	c.size -= e.size
	return e.size
}
