// Package cache provides a small thread-safe LRU cache with per-entry TTL.
// The orchestrator owns one instance for the process lifetime; separate
// instances never coordinate, so the same key may be computed redundantly in
// different contexts. That staleness window is bounded by the TTL.
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultCapacity bounds live entries; the least recently used entry is
	// evicted to admit a new one past this limit.
	DefaultCapacity = 1000
	// DefaultTTL is how long an entry stays visible after insertion.
	DefaultTTL = 300 * time.Second
)

type entry struct {
	key       string
	value     any
	prev      *entry
	next      *entry
	expiresAt time.Time
}

// Cache is a doubly-linked-list LRU with lazy TTL expiration. All operations
// are O(1) and safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry

	// head.next is most recently used, tail.prev least recently used.
	head *entry
	tail *entry

	hits   int64
	misses int64

	now func() time.Time
}

// New creates a cache with the given capacity and TTL. Non-positive values
// fall back to the defaults.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		head:     &entry{},
		tail:     &entry{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value stored under key, or false when the key is absent or
// its entry has outlived the TTL. Hits move the entry to the front.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.remove(e)
		c.misses++
		return nil, false
	}
	c.moveToFront(e)
	c.hits++
	return e.value, true
}

// Set stores value under key, refreshing the TTL. When the cache is full the
// least recently used entry is evicted.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = c.now().Add(c.ttl)
		c.moveToFront(e)
		return
	}

	if len(c.items) >= c.capacity {
		if lru := c.tail.prev; lru != c.head {
			c.remove(lru)
		}
	}

	e := &entry{key: key, value: value, expiresAt: c.now().Add(c.ttl)}
	c.items[key] = e
	c.pushFront(e)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) remove(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

func (c *Cache) pushFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *Cache) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.pushFront(e)
}
