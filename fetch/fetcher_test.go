package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/webextract/fetch"
	"github.com/fwojciec/webextract/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noDelays is used for fast unit tests.
var noDelays = []time.Duration{0, 0, 0}

// flakyFetcher fails the first failures calls.
func flakyFetcher(failures int, attempts *int) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			*attempts++
			if *attempts <= failures {
				return "", errors.New("net::ERR_CONNECTION_RESET")
			}
			return "<html>content</html>", nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("passes through without options", func(t *testing.T) {
		t.Parallel()

		var attempts int
		f := fetch.NewFetcher(flakyFetcher(1, &attempts))

		_, err := f.Fetch(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries on failure and succeeds", func(t *testing.T) {
		t.Parallel()

		var attempts int
		f := fetch.NewFetcher(flakyFetcher(3, &attempts), fetch.WithRetryDelays(noDelays))

		html, err := f.Fetch(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		assert.Equal(t, 4, attempts)
	})

	t.Run("returns last error after max retries", func(t *testing.T) {
		t.Parallel()

		var attempts int
		f := fetch.NewFetcher(flakyFetcher(10, &attempts), fetch.WithRetryDelays(noDelays))

		_, err := f.Fetch(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERR_CONNECTION_RESET")
		assert.Equal(t, 4, attempts)
	})

	t.Run("stops retrying when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var attempts int
		next := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				attempts++
				cancel()
				return "", errors.New("transient error")
			},
		}
		f := fetch.NewFetcher(next, fetch.WithRetryDelays([]time.Duration{time.Hour}))

		_, err := f.Fetch(ctx, "https://example.com")

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("logs each retry", func(t *testing.T) {
		t.Parallel()

		var attempts int
		buf := &bytes.Buffer{}
		f := fetch.NewFetcher(flakyFetcher(2, &attempts),
			fetch.WithRetryDelays(noDelays),
			fetch.WithLogger(slog.New(slog.NewTextHandler(buf, nil))),
		)

		_, err := f.Fetch(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), `msg="fetch retry"`)
		assert.Contains(t, buf.String(), "attempt=3")
	})

	t.Run("rate limits requests to the same host", func(t *testing.T) {
		t.Parallel()

		var attempts int
		f := fetch.NewFetcher(flakyFetcher(0, &attempts), fetch.WithRate(10))

		_, err := f.Fetch(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		start := time.Now()
		_, err = f.Fetch(context.Background(), "https://example.com/b")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	closed := false
	next := &mock.Fetcher{CloseFn: func() error { closed = true; return nil }}

	require.NoError(t, fetch.NewFetcher(next).Close())
	assert.True(t, closed)
}

func TestRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, fetch.RetryDelays(3))
	assert.Empty(t, fetch.RetryDelays(0))
}
