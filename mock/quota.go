package mock

import (
	"time"

	"github.com/fwojciec/webextract"
)

var _ webextract.QuotaGuard = (*QuotaGuard)(nil)

// QuotaGuard is a mock implementation of webextract.QuotaGuard.
type QuotaGuard struct {
	TryAcquireFn func() (time.Duration, bool)
	UsageFn      func() webextract.QuotaUsage
}

func (q *QuotaGuard) TryAcquire() (time.Duration, bool) {
	return q.TryAcquireFn()
}

func (q *QuotaGuard) Usage() webextract.QuotaUsage {
	return q.UsageFn()
}
