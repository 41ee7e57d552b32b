package mock

import (
	"context"

	"github.com/fwojciec/webextract"
)

var _ webextract.Cache = (*Cache)(nil)

// Cache is a mock implementation of webextract.Cache.
type Cache struct {
	FindEntryFn func(ctx context.Context, fp webextract.Fingerprint) (*webextract.CacheEntry, error)
	PutEntryFn  func(ctx context.Context, entry *webextract.CacheEntry) error
	LenFn       func(ctx context.Context) (int, error)
}

func (c *Cache) FindEntry(ctx context.Context, fp webextract.Fingerprint) (*webextract.CacheEntry, error) {
	return c.FindEntryFn(ctx, fp)
}

func (c *Cache) PutEntry(ctx context.Context, entry *webextract.CacheEntry) error {
	return c.PutEntryFn(ctx, entry)
}

func (c *Cache) Len(ctx context.Context) (int, error) {
	return c.LenFn(ctx)
}
