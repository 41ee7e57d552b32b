package quota_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset)
}

func TestGuard(t *testing.T) {
	t.Parallel()

	t.Run("implements webextract.QuotaGuard interface", func(t *testing.T) {
		t.Parallel()
		var _ webextract.QuotaGuard = quota.NewGuard(1, time.Second)
	})

	t.Run("two calls per minute scenario", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := quota.NewGuard(2, 60*time.Second, quota.WithClock(clock.Now))

		clock.Set(0)
		_, ok := g.TryAcquire()
		assert.True(t, ok, "t=0 should be allowed")

		clock.Set(10 * time.Second)
		_, ok = g.TryAcquire()
		assert.True(t, ok, "t=10 should be allowed")

		clock.Set(20 * time.Second)
		retryAfter, ok := g.TryAcquire()
		assert.False(t, ok, "t=20 should be denied")
		assert.InDelta(t, float64(40*time.Second), float64(retryAfter), float64(time.Millisecond))

		clock.Set(61 * time.Second)
		_, ok = g.TryAcquire()
		assert.True(t, ok, "t=61 should be allowed")
	})

	t.Run("denies at the exact window boundary", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := quota.NewGuard(1, 60*time.Second, quota.WithClock(clock.Now))

		_, ok := g.TryAcquire()
		require.True(t, ok)

		clock.Set(60 * time.Second)
		retryAfter, ok := g.TryAcquire()
		assert.False(t, ok)
		assert.Positive(t, retryAfter)
	})

	t.Run("denied calls are not recorded", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := quota.NewGuard(1, 10*time.Second, quota.WithClock(clock.Now))

		_, ok := g.TryAcquire()
		require.True(t, ok)

		for i := 1; i <= 9; i++ {
			clock.Set(time.Duration(i) * time.Second)
			_, ok = g.TryAcquire()
			require.False(t, ok)
		}

		clock.Set(11 * time.Second)
		_, ok = g.TryAcquire()
		assert.True(t, ok)
	})

	t.Run("never allows more than max calls in any window", func(t *testing.T) {
		t.Parallel()

		const (
			maxCalls = 3
			window   = 10 * time.Second
		)
		clock := newFakeClock()
		g := quota.NewGuard(maxCalls, window, quota.WithClock(clock.Now))

		var allowed []time.Duration
		for step := 0; step < 200; step++ {
			offset := time.Duration(step) * 700 * time.Millisecond
			clock.Set(offset)
			if _, ok := g.TryAcquire(); ok {
				allowed = append(allowed, offset)
			}
		}

		require.NotEmpty(t, allowed)
		for i, start := range allowed {
			count := 0
			for _, at := range allowed[i:] {
				if at-start <= window {
					count++
				}
			}
			assert.LessOrEqual(t, count, maxCalls, "window starting at %s", start)
		}
	})

	t.Run("concurrent acquisitions respect the limit", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := quota.NewGuard(5, time.Minute, quota.WithClock(clock.Now))

		var wg sync.WaitGroup
		var granted atomic.Int32
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, ok := g.TryAcquire(); ok {
					granted.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), granted.Load())
	})

	t.Run("falls back to defaults for non-positive arguments", func(t *testing.T) {
		t.Parallel()

		g := quota.NewGuard(0, 0)
		usage := g.Usage()

		assert.Equal(t, quota.DefaultMaxCalls, usage.Max)
		assert.Equal(t, quota.DefaultWindow, usage.Window)
	})
}

func TestGuard_Usage(t *testing.T) {
	t.Parallel()

	t.Run("reports used calls without recording", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := quota.NewGuard(2, time.Minute, quota.WithClock(clock.Now))

		_, _ = g.TryAcquire()
		_ = g.Usage()
		usage := g.Usage()

		assert.Equal(t, 1, usage.Used)
		assert.Equal(t, 2, usage.Max)
		assert.Zero(t, usage.RetryAfter)
	})

	t.Run("reports retry-after when exhausted", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := quota.NewGuard(1, time.Minute, quota.WithClock(clock.Now))

		_, _ = g.TryAcquire()
		clock.Set(15 * time.Second)
		usage := g.Usage()

		assert.Equal(t, 1, usage.Used)
		assert.InDelta(t, float64(45*time.Second), float64(usage.RetryAfter), float64(time.Millisecond))
	})

	t.Run("ignores calls that left the window", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := quota.NewGuard(2, time.Minute, quota.WithClock(clock.Now))

		_, _ = g.TryAcquire()
		clock.Set(2 * time.Minute)

		assert.Zero(t, g.Usage().Used)
	})
}
