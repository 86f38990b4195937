package index

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// BuildFunc produces a bundle for one collection. A (nil, nil) return means
// the collection has no usable corpus.
type BuildFunc func(ctx context.Context) (*Bundle, error)

// Cache holds built bundles keyed by collection name for the process
// lifetime. There is no invalidation: stale indexes persist until restart,
// a documented limitation of the wholesale-rebuild design.
//
// Builds for the same collection are serialized by a per-key mutex so
// concurrent first searches do not duplicate the fit work. A redundant
// build would still be correct (last write wins), so the lock is purely a
// work-avoidance measure.
type Cache struct {
	mu      sync.RWMutex
	bundles map[string]*Bundle

	buildMu sync.Mutex
	builds  map[string]*sync.Mutex

	// cacheTotal counts lookups by result ("hit"/"miss"); nil disables.
	cacheTotal *prometheus.CounterVec
}

// NewCache creates an empty bundle cache. cacheTotal may be nil.
func NewCache(cacheTotal *prometheus.CounterVec) *Cache {
	return &Cache{
		bundles:    make(map[string]*Bundle),
		builds:     make(map[string]*sync.Mutex),
		cacheTotal: cacheTotal,
	}
}

// Get returns the cached bundle for a collection, if any.
func (c *Cache) Get(collection string) (*Bundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bundles[collection]
	return b, ok
}

// Put stores a bundle, replacing any previous one wholesale.
func (c *Cache) Put(collection string, b *Bundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bundles[collection] = b
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bundles)
}

// GetOrBuild returns the cached bundle or builds and caches it. Empty
// results ((nil, nil) from build) are never cached, so a later call can
// retry once the collection has documents.
func (c *Cache) GetOrBuild(ctx context.Context, collection string, build BuildFunc) (*Bundle, error) {
	if b, ok := c.Get(collection); ok {
		c.count("hit")
		return b, nil
	}
	c.count("miss")

	lock := c.keyLock(collection)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have finished the build while we waited.
	if b, ok := c.Get(collection); ok {
		return b, nil
	}

	b, err := build(ctx)
	if err != nil {
		return nil, err
	}
	if b != nil {
		c.Put(collection, b)
	}
	return b, nil
}

func (c *Cache) keyLock(collection string) *sync.Mutex {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()
	lock, ok := c.builds[collection]
	if !ok {
		lock = &sync.Mutex{}
		c.builds[collection] = lock
	}
	return lock
}

func (c *Cache) count(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
