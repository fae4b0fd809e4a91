package pipeline

import (
	"sync"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
)

// CachedNormalizer wraps a Normalizer with an in-memory LRU cache keyed by
// the raw label. The nearest-match search is referentially transparent and
// label cardinality is orders of magnitude below row count, so memoization
// changes cost, never output.
type CachedNormalizer struct {
	inner   domain.Normalizer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedNormalizer creates a cache decorator around a normalizer.
func NewCachedNormalizer(inner domain.Normalizer, maxEntries int, metrics *observability.Metrics) *CachedNormalizer {
	return &CachedNormalizer{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedNormalizer) Normalize(label string) string {
	if canonical, ok := c.cache.get(label); ok {
		c.metrics.NormalizeCache.WithLabelValues("hit").Inc()
		return canonical
	}
	c.metrics.NormalizeCache.WithLabelValues("miss").Inc()

	canonical := c.inner.Normalize(label)
	c.cache.put(label, canonical)
	return canonical
}

// lruCache is a simple thread-safe LRU cache for canonical labels.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value string
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
