package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/webextract"
)

// Ensure LoggingCache implements webextract.Cache.
var _ webextract.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with debug logging of hits, misses and
// writes.
type LoggingCache struct {
	next   webextract.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next webextract.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// FindEntry logs whether fp was found.
func (c *LoggingCache) FindEntry(ctx context.Context, fp webextract.Fingerprint) (*webextract.CacheEntry, error) {
	entry, err := c.next.FindEntry(ctx, fp)
	switch {
	case err == nil:
		c.logger.Debug("cache hit", "fingerprint", fp.Short())
	case webextract.ErrorCode(err) == webextract.ENOTFOUND:
		c.logger.Debug("cache miss", "fingerprint", fp.Short())
	default:
		c.logger.Warn("cache lookup", "fingerprint", fp.Short(), "err", err)
	}
	return entry, err
}

// PutEntry logs the stored fingerprint.
func (c *LoggingCache) PutEntry(ctx context.Context, entry *webextract.CacheEntry) error {
	err := c.next.PutEntry(ctx, entry)
	c.logger.Debug("cache put", "fingerprint", entry.Fingerprint.Short(), "err", err)
	return err
}

// Len delegates to the wrapped cache.
func (c *LoggingCache) Len(ctx context.Context) (int, error) {
	return c.next.Len(ctx)
}
