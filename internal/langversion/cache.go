package langversion

import (
	"sync"
)

// Cache maps a document to its resolved version. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Version
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Version)}
}

// Get returns the cached version for uri, resolving it on a miss.
func (c *Cache) Get(uri string, resolve func() Version) Version {
	c.mu.Lock()
	if v, ok := c.entries[uri]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	v := resolve()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[uri] = v
	return v
}

// Invalidate drops every entry, e.g. after a settings change.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Forget drops the entry for a closed document.
func (c *Cache) Forget(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, uri)
}

// Len reports the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
