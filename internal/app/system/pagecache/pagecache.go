// Package pagecache holds rendered page snapshots keyed by request path.
// Entries expire after a TTL and are dropped early when a save revalidates
// their path.
//
// A render that started before a revalidation must not repopulate the cache
// with what it read. Callers take a generation with Begin before reading the
// document and store with PutIf, which drops the snapshot if the path was
// revalidated in between.
package pagecache

import (
	"context"
	"html/template"
	"sync"
	"time"
)

// DefaultTTL is used when the configured TTL is unset.
const DefaultTTL = 5 * time.Minute

type entry struct {
	html    template.HTML
	expires time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64
	ttl     time.Duration
	now     func() time.Time
}

// New returns a cache whose entries live for ttl. A ttl <= 0 disables
// caching: Put becomes a no-op.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the snapshot for path if present and not expired.
func (c *Cache) Get(path string) (template.HTML, bool) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expires) {
		return "", false
	}
	return e.html, true
}

// Put stores the snapshot for path unconditionally.
func (c *Cache) Put(path string, html template.HTML) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[path] = entry{html: html, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Begin returns the current generation of path. Pass it to PutIf once the
// snapshot is rendered.
func (c *Cache) Begin(path string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[path]
}

// PutIf stores the snapshot only if path has not been revalidated since gen
// was taken. It reports whether the snapshot was stored.
func (c *Cache) PutIf(path string, gen uint64, html template.HTML) bool {
	if c.ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[path] != gen {
		return false
	}
	c.entries[path] = entry{html: html, expires: c.now().Add(c.ttl)}
	return true
}

// Revalidate drops the snapshot for path and advances its generation so
// in-flight renders of the old content are not stored.
func (c *Cache) Revalidate(_ context.Context, path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.gens[path]++
	c.mu.Unlock()
}

// Sweep evicts expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for path, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, path)
			n++
		}
	}
	return n
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
