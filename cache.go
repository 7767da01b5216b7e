package showcase

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/showcase/cms"
)

// Source lists the records of one collection.
type Source interface {
	List(ctx context.Context, kind cms.Kind) ([]cms.Record, error)
}

// ContentCache is an in-memory cache of normalized records per collection
// with TTL. Failed fetches are never cached.
//
// mu guards entries only and is never held across a fetch. Reloads of one
// kind are serialized by that kind's entry in loads.
type ContentCache struct {
	mu      sync.RWMutex
	src     Source
	ttl     time.Duration
	entries map[cms.Kind]cacheEntry
	loads   map[cms.Kind]*sync.Mutex
	now     func() time.Time
}

type cacheEntry struct {
	records []cms.Record
	fetched time.Time
}

// NewContentCache creates a ContentCache backed by src. A non-positive ttl
// disables caching.
func NewContentCache(src Source, ttl time.Duration) *ContentCache {
	return &ContentCache{
		src:     src,
		ttl:     ttl,
		entries: make(map[cms.Kind]cacheEntry),
		loads: map[cms.Kind]*sync.Mutex{
			cms.News:    {},
			cms.Project: {},
		},
		now: time.Now,
	}
}

func (c *ContentCache) valid(kind cms.Kind) (cacheEntry, bool) {
	e, ok := c.entries[kind]
	return e, ok && c.ttl > 0 && c.now().Sub(e.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[cms.Kind]cacheEntry)
	c.mu.Unlock()
}

// List returns the records of kind, in CMS order. Readers of a fresh entry
// only take the read lock; a reload blocks other readers of the same kind
// only.
func (c *ContentCache) List(ctx context.Context, kind cms.Kind) ([]cms.Record, error) {
	if records, ok := c.cached(kind); ok {
		return records, nil
	}

	load := c.loader(kind)
	load.Lock()
	defer load.Unlock()
	if records, ok := c.cached(kind); ok {
		return records, nil
	}

	records, err := c.src.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[kind] = cacheEntry{records: records, fetched: c.now()}
	c.mu.Unlock()
	return copyRecords(records), nil
}

func (c *ContentCache) cached(kind cms.Kind) ([]cms.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.valid(kind); ok {
		return copyRecords(e.records), true
	}
	return nil, false
}

func (c *ContentCache) loader(kind cms.Kind) *sync.Mutex {
	c.mu.RLock()
	m, ok := c.loads[kind]
	c.mu.RUnlock()
	if ok {
		return m
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok = c.loads[kind]; !ok {
		m = &sync.Mutex{}
		c.loads[kind] = m
	}
	return m
}

func copyRecords(in []cms.Record) []cms.Record {
	out := make([]cms.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
