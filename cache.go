package webextract

import (
	"context"
	"time"
)

// CacheEntry is a previously obtained extraction result.
// Entries are immutable; storing the same fingerprint again replaces the
// entry instead of modifying it.
type CacheEntry struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	Result      Extraction  `json:"result"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *CacheEntry) Validate() error {
	if e.Fingerprint == "" {
		return Errorf(EINVALID, "cache entry fingerprint required")
	}
	return nil
}

// Cache maps fingerprints to extraction results for the lifetime of the
// process. There is no eviction.
type Cache interface {
	// FindEntry retrieves the entry for a fingerprint.
	// Returns ENOTFOUND if there is none. FindEntry has no side effects.
	FindEntry(ctx context.Context, fp Fingerprint) (*CacheEntry, error)

	// PutEntry inserts or replaces the entry for entry.Fingerprint and sets
	// its CreatedAt.
	PutEntry(ctx context.Context, entry *CacheEntry) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)
}
