package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) *sqlite.Cache {
	t.Helper()

	c, err := sqlite.NewCache(context.Background(), setupTestDB(t))
	require.NoError(t, err)
	return c
}

func TestCache_FindEntry(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for unknown fingerprint", func(t *testing.T) {
		t.Parallel()

		c := setupTestCache(t)

		_, err := c.FindEntry(context.Background(), webextract.NewFingerprint("a", "b"))

		require.Error(t, err)
		assert.Equal(t, webextract.ENOTFOUND, webextract.ErrorCode(err))
	})

	t.Run("returns stored entry with fields and creation time", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)
		c := setupTestCache(t)
		c.Now = func() time.Time { return now }
		ctx := context.Background()
		fp := webextract.NewFingerprint("Widget $10\nGadget $5", "list prices")

		require.NoError(t, c.PutEntry(ctx, &webextract.CacheEntry{
			Fingerprint: fp,
			Result:      webextract.NewExtraction("$10\n$5"),
		}))

		entry, err := c.FindEntry(ctx, fp)

		require.NoError(t, err)
		assert.Equal(t, fp, entry.Fingerprint)
		assert.Equal(t, "$10\n$5", entry.Result.Text)
		assert.Equal(t, []string{"$10", "$5"}, entry.Result.Fields)
		assert.True(t, now.Equal(entry.CreatedAt))
	})

	t.Run("answers unseen fingerprints without querying", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		c, err := sqlite.NewCache(context.Background(), db)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = c.FindEntry(context.Background(), webextract.NewFingerprint("never", "stored"))

		require.Error(t, err)
		assert.Equal(t, webextract.ENOTFOUND, webextract.ErrorCode(err))
	})

	t.Run("primes the filter from existing rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		fp := webextract.NewFingerprint("content", "instruction")

		first, err := sqlite.NewCache(ctx, db)
		require.NoError(t, err)
		require.NoError(t, first.PutEntry(ctx, &webextract.CacheEntry{
			Fingerprint: fp,
			Result:      webextract.NewExtraction("answer"),
		}))

		second, err := sqlite.NewCache(ctx, db)
		require.NoError(t, err)

		entry, err := second.FindEntry(ctx, fp)
		require.NoError(t, err)
		assert.Equal(t, "answer", entry.Result.Text)
	})
}

func TestCache_PutEntry(t *testing.T) {
	t.Parallel()

	t.Run("overwrites an existing entry", func(t *testing.T) {
		t.Parallel()

		c := setupTestCache(t)
		ctx := context.Background()
		fp := webextract.NewFingerprint("content", "instruction")

		require.NoError(t, c.PutEntry(ctx, &webextract.CacheEntry{Fingerprint: fp, Result: webextract.NewExtraction("old")}))
		require.NoError(t, c.PutEntry(ctx, &webextract.CacheEntry{Fingerprint: fp, Result: webextract.NewExtraction("new")}))

		entry, err := c.FindEntry(ctx, fp)
		require.NoError(t, err)
		assert.Equal(t, "new", entry.Result.Text)

		n, err := c.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("stores empty answers", func(t *testing.T) {
		t.Parallel()

		c := setupTestCache(t)
		ctx := context.Background()
		fp := webextract.NewFingerprint("content", "find nothing")

		require.NoError(t, c.PutEntry(ctx, &webextract.CacheEntry{Fingerprint: fp, Result: webextract.NewExtraction("")}))

		entry, err := c.FindEntry(ctx, fp)
		require.NoError(t, err)
		assert.True(t, entry.Result.IsEmpty())
		assert.Empty(t, entry.Result.Fields)
	})

	t.Run("rejects entries without a fingerprint", func(t *testing.T) {
		t.Parallel()

		c := setupTestCache(t)

		err := c.PutEntry(context.Background(), &webextract.CacheEntry{Result: webextract.NewExtraction("x")})

		require.Error(t, err)
		assert.Equal(t, webextract.EINVALID, webextract.ErrorCode(err))
	})
}

func TestCache_Len(t *testing.T) {
	t.Parallel()

	c := setupTestCache(t)
	ctx := context.Background()

	for _, instruction := range []string{"price", "title", "stock"} {
		require.NoError(t, c.PutEntry(ctx, &webextract.CacheEntry{
			Fingerprint: webextract.NewFingerprint("content", instruction),
			Result:      webextract.NewExtraction(instruction),
		}))
	}

	n, err := c.Len(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.InDelta(t, 3, c.FilterEstimate(), 1)
}
