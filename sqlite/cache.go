package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/bloom"
)

// Ensure Cache implements webextract.Cache at compile time.
var _ webextract.Cache = (*Cache)(nil)

// Bloom filter sizing for the lookup prefilter.
const (
	DefaultExpectedEntries = 10000
	DefaultFalsePositive   = 0.01
)

// Cache stores extraction results in the extractions table. A Bloom filter
// of stored fingerprints answers most misses without a query.
type Cache struct {
	db     *DB
	filter *bloom.Filter

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCache creates a Cache on an open DB and primes its filter with the
// fingerprints already stored.
func NewCache(ctx context.Context, db *DB) (*Cache, error) {
	c := &Cache{
		db:     db,
		filter: bloom.NewFilter(DefaultExpectedEntries, DefaultFalsePositive),
		Now:    time.Now,
	}

	rows, err := db.QueryContext(ctx, `SELECT fingerprint FROM extractions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, err
		}
		c.filter.Add(fp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return c, nil
}

// FindEntry retrieves the entry for fp.
func (c *Cache) FindEntry(ctx context.Context, fp webextract.Fingerprint) (*webextract.CacheEntry, error) {
	if !c.filter.Test(string(fp)) {
		return nil, webextract.Errorf(webextract.ENOTFOUND, "cache entry not found")
	}

	var (
		text      string
		createdAt string
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT text, created_at
		FROM extractions
		WHERE fingerprint = ?
	`, string(fp)).Scan(&text, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, webextract.Errorf(webextract.ENOTFOUND, "cache entry not found")
	} else if err != nil {
		return nil, err
	}

	created, err := parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &webextract.CacheEntry{
		Fingerprint: fp,
		Result:      webextract.NewExtraction(text),
		CreatedAt:   created,
	}, nil
}

// PutEntry inserts or replaces the entry for entry.Fingerprint.
func (c *Cache) PutEntry(ctx context.Context, entry *webextract.CacheEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	entry.CreatedAt = c.Now().UTC()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO extractions (fingerprint, text, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			text = excluded.text,
			created_at = excluded.created_at
	`,
		string(entry.Fingerprint),
		entry.Result.Text,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return err
	}

	c.filter.Add(string(entry.Fingerprint))
	return nil
}

// Len returns the number of stored entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM extractions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// FilterEstimate returns the Bloom filter's estimate of stored entries.
func (c *Cache) FilterEstimate() uint {
	return c.filter.EstimatedCount()
}
