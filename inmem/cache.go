// Package inmem provides process-local implementations of webextract
// services.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/webextract"
)

// Ensure Cache implements webextract.Cache at compile time.
var _ webextract.Cache = (*Cache)(nil)

// Cache is an unbounded map from fingerprint to extraction result.
// Cache is safe for concurrent use; concurrent writes to the same
// fingerprint are last-write-wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[webextract.Fingerprint]webextract.CacheEntry

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[webextract.Fingerprint]webextract.CacheEntry),
		Now:     time.Now,
	}
}

// FindEntry returns a copy of the entry for fp.
func (c *Cache) FindEntry(_ context.Context, fp webextract.Fingerprint) (*webextract.CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[fp]
	c.mu.RUnlock()

	if !ok {
		return nil, webextract.Errorf(webextract.ENOTFOUND, "cache entry %s not found", fp.Short())
	}
	entry.Result.Fields = append([]string(nil), entry.Result.Fields...)
	return &entry, nil
}

// PutEntry stores entry, replacing any previous entry for its fingerprint.
func (c *Cache) PutEntry(_ context.Context, entry *webextract.CacheEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	entry.CreatedAt = c.Now().UTC()

	stored := *entry
	stored.Result.Fields = append([]string(nil), entry.Result.Fields...)

	c.mu.Lock()
	c.entries[entry.Fingerprint] = stored
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries.
func (c *Cache) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}
