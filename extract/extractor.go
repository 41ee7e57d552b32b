// Package extract turns page content and an instruction into a normalized
// model answer. It consults the response cache first and spends quota only
// on cache misses.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/webextract"
	"golang.org/x/sync/singleflight"
)

// DefaultCallTimeout bounds a shared model call when CallTimeout is unset.
const DefaultCallTimeout = 2 * time.Minute

// Extractor orchestrates cache lookups, quota checks and model calls.
// Extractor must not be copied after first use.
type Extractor struct {
	Cache webextract.Cache
	Quota webextract.QuotaGuard
	Asker webextract.Asker

	// Logger receives cache write failures. Optional.
	Logger *slog.Logger

	// CallTimeout bounds one shared miss. Zero means DefaultCallTimeout.
	CallTimeout time.Duration

	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
	calls  atomic.Int64
}

// Counters is a snapshot of Extractor activity.
type Counters struct {
	// Hits counts results served without a model call.
	Hits int64

	// Misses counts requests that needed the model, including the ones
	// denied by the quota.
	Misses int64

	// ModelCalls counts calls made to the model, failed ones included.
	ModelCalls int64
}

// outcome is the value shared between callers of one in-flight request.
type outcome struct {
	extraction webextract.Extraction
	cached     bool
}

// Extract returns what instruction asks for in content.
//
// A cached answer is returned tagged SourceCached without consuming quota.
// Otherwise one quota slot is acquired, the model is asked once, and the
// normalized answer is cached and returned tagged SourceFresh.
//
// Errors: EEMPTY for blank content, EINVALID for a blank instruction,
// EQUOTA with a retry-after when the quota is exhausted, EMODEL when the
// model call fails. Nothing is retried.
//
// Identical concurrent misses share one model call. That call is detached
// from every caller's ctx and bounded by CallTimeout, so a caller that gives
// up returns ctx.Err() without failing the others.
func (e *Extractor) Extract(ctx context.Context, content, instruction string) (*webextract.ExtractionResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, webextract.Errorf(webextract.EEMPTY, "no content to extract from")
	}
	if strings.TrimSpace(instruction) == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "extraction instruction required")
	}

	fp := webextract.NewFingerprint(content, instruction)

	entry, err := e.lookup(ctx, fp)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		e.hits.Add(1)
		return newResult(fp, entry.Result, webextract.SourceCached), nil
	}

	// Identical concurrent misses share one quota slot and one model call.
	var leader bool
	ch := e.group.DoChan(string(fp), func() (any, error) {
		leader = true
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.callTimeout())
		defer cancel()
		return e.ask(callCtx, fp, content, instruction)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	out := res.Val.(outcome)
	if !leader || out.cached {
		e.hits.Add(1)
		return newResult(fp, out.extraction, webextract.SourceCached), nil
	}
	return newResult(fp, out.extraction, webextract.SourceFresh), nil
}

// Counters returns a snapshot of the hit, miss and call counts.
func (e *Extractor) Counters() Counters {
	return Counters{
		Hits:       e.hits.Load(),
		Misses:     e.misses.Load(),
		ModelCalls: e.calls.Load(),
	}
}

func (e *Extractor) callTimeout() time.Duration {
	if e.CallTimeout > 0 {
		return e.CallTimeout
	}
	return DefaultCallTimeout
}

// lookup returns the cached entry for fp, or nil when there is none.
func (e *Extractor) lookup(ctx context.Context, fp webextract.Fingerprint) (*webextract.CacheEntry, error) {
	entry, err := e.Cache.FindEntry(ctx, fp)
	if webextract.ErrorCode(err) == webextract.ENOTFOUND {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ask performs the miss path for fp. It runs once per in-flight fingerprint.
func (e *Extractor) ask(ctx context.Context, fp webextract.Fingerprint, content, instruction string) (outcome, error) {
	// A flight that finished just before this one started may have filled
	// the cache already.
	entry, err := e.lookup(ctx, fp)
	if err != nil {
		return outcome{}, err
	}
	if entry != nil {
		return outcome{extraction: entry.Result, cached: true}, nil
	}

	e.misses.Add(1)

	if retryAfter, ok := e.Quota.TryAcquire(); !ok {
		return outcome{}, webextract.QuotaExceeded(retryAfter)
	}

	e.calls.Add(1)
	answer, err := e.Asker.Ask(ctx, content, instruction)
	if err != nil {
		if webextract.ErrorCode(err) == webextract.EQUOTA {
			return outcome{}, err
		}
		return outcome{}, webextract.WrapError(webextract.EMODEL, err)
	}

	extraction := webextract.NewExtraction(Normalize(answer))

	if err := e.Cache.PutEntry(ctx, &webextract.CacheEntry{
		Fingerprint: fp,
		Result:      extraction,
	}); err != nil && e.Logger != nil {
		e.Logger.Warn("cache write failed", "fingerprint", fp.Short(), "err", err)
	}

	return outcome{extraction: extraction}, nil
}

func newResult(fp webextract.Fingerprint, ext webextract.Extraction, source webextract.Source) *webextract.ExtractionResult {
	ext.Fields = append([]string(nil), ext.Fields...)
	return &webextract.ExtractionResult{
		Extraction:  ext,
		Source:      source,
		Fingerprint: fp,
	}
}
