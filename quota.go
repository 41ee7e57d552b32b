package webextract

import "time"

// QuotaUsage is a read-only snapshot of a QuotaGuard window.
type QuotaUsage struct {
	// Used is the number of calls recorded within the current window.
	Used int `json:"used"`

	// Max is the number of calls allowed per window.
	Max int `json:"max"`

	// Window is the length of the sliding window.
	Window time.Duration `json:"window"`

	// RetryAfter is how long until a call would be allowed again.
	// Zero when calls are currently allowed.
	RetryAfter time.Duration `json:"retryAfter"`
}

// QuotaGuard bounds the rate of model calls with a sliding window.
type QuotaGuard interface {
	// TryAcquire permits exactly one model call when ok is true and records
	// it. When ok is false, retryAfter is the time until the oldest call in
	// the window expires. Exceeding the quota is not an error.
	TryAcquire() (retryAfter time.Duration, ok bool)

	// Usage reports the current window without recording anything.
	Usage() QuotaUsage
}
