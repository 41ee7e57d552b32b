// Package quota bounds model calls with a sliding-window limit.
package quota

import (
	"sync"
	"time"

	"github.com/fwojciec/webextract"
)

// Defaults match the Gemini free tier of 15 requests per minute.
const (
	DefaultMaxCalls = 15
	DefaultWindow   = time.Minute
)

// Ensure Guard implements webextract.QuotaGuard at compile time.
var _ webextract.QuotaGuard = (*Guard)(nil)

// Guard allows at most maxCalls acquisitions within any window-long
// interval, endpoints included. Guard is safe for concurrent use.
type Guard struct {
	mu       sync.Mutex
	calls    []time.Time // oldest first, never longer than maxCalls
	maxCalls int
	window   time.Duration
	now      func() time.Time
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// NewGuard creates a Guard. Non-positive arguments fall back to
// DefaultMaxCalls and DefaultWindow.
func NewGuard(maxCalls int, window time.Duration, opts ...Option) *Guard {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}
	if window <= 0 {
		window = DefaultWindow
	}
	g := &Guard{
		calls:    make([]time.Time, 0, maxCalls),
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryAcquire records a call and returns ok if the window has room.
// Otherwise it returns the time until the oldest recorded call leaves the
// window.
func (g *Guard) TryAcquire() (time.Duration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.evict(now)

	if len(g.calls) >= g.maxCalls {
		return g.retryAfter(now), false
	}

	g.calls = append(g.calls, now)
	return 0, true
}

// Usage reports the current window without evicting or recording.
func (g *Guard) Usage() webextract.QuotaUsage {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	cutoff := now.Add(-g.window)
	live := g.calls
	for len(live) > 0 && live[0].Before(cutoff) {
		live = live[1:]
	}

	usage := webextract.QuotaUsage{
		Used:   len(live),
		Max:    g.maxCalls,
		Window: g.window,
	}
	if len(live) >= g.maxCalls {
		usage.RetryAfter = live[0].Add(g.window).Sub(now) + time.Nanosecond
	}
	return usage
}

// evict drops calls older than the window. Must be called with mu held.
func (g *Guard) evict(now time.Time) {
	cutoff := now.Add(-g.window)
	i := 0
	for i < len(g.calls) && g.calls[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		n := copy(g.calls, g.calls[i:])
		g.calls = g.calls[:n]
	}
}

// retryAfter returns how long until the oldest call is strictly outside
// the window. Must be called with mu held and calls non-empty.
func (g *Guard) retryAfter(now time.Time) time.Duration {
	return g.calls[0].Add(g.window).Sub(now) + time.Nanosecond
}
