// Package fetch wraps a webextract.Fetcher with per-host rate limiting and
// retries for transient load failures.
package fetch

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/webextract"
)

// Ensure Fetcher implements webextract.Fetcher at compile time.
var _ webextract.Fetcher = (*Fetcher)(nil)

// Fetcher decorates another Fetcher. With no options it passes calls
// through unchanged.
type Fetcher struct {
	next    webextract.Fetcher
	limiter *HostLimiter
	delays  []time.Duration
	logger  *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRate limits requests to rps per second for each host.
// Non-positive values disable limiting.
func WithRate(rps float64) Option {
	return func(f *Fetcher) {
		if rps > 0 {
			f.limiter = NewHostLimiter(rps)
		}
	}
}

// WithRetries retries a failed load up to n times with exponential backoff.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.delays = RetryDelays(n)
	}
}

// WithRetryDelays sets the wait before each retry explicitly.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.delays = delays
	}
}

// WithLogger logs each retry.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher wraps next.
func NewFetcher(next webextract.Fetcher, opts ...Option) *Fetcher {
	f := &Fetcher{
		next:   next,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch waits for the host's rate limit, then loads rawURL, retrying
// failures. The last error is returned when every attempt fails.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.limiter != nil {
		host := rawURL
		if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
			host = u.Host
		}
		if err := f.limiter.Wait(ctx, host); err != nil {
			return "", err
		}
	}

	return retry(ctx, f.delays,
		func() (string, error) { return f.next.Fetch(ctx, rawURL) },
		func(attempt int, err error) {
			f.logger.Warn("fetch retry", "url", rawURL, "attempt", attempt, "err", err)
		},
	)
}

// Close closes the wrapped Fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
