// Package pipeline drives a Run through the scrape, clean, describe and
// extract steps and keeps session statistics.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/extract"
	"github.com/google/uuid"
)

// Pipeline is the workflow driver. Each step method checks the run's stage
// and moves it forward or into StageFailed. A step called on a run in the
// wrong stage returns EINVALID and leaves the run untouched.
type Pipeline struct {
	Fetcher   webextract.Fetcher
	Cleaner   webextract.Cleaner
	Extractor *extract.Extractor

	// ChunkSize splits long content into pieces extracted one by one.
	// Zero extracts the whole content in one request.
	ChunkSize int

	// Logger receives stage transitions. Optional.
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	runs   atomic.Int64
	failed atomic.Int64
}

// NewRun creates a run for url in StageIdle.
func (p *Pipeline) NewRun(rawURL string) *webextract.Run {
	p.runs.Add(1)
	now := p.now()
	return &webextract.Run{
		ID:        uuid.New().String(),
		Stage:     webextract.StageIdle,
		URL:       strings.TrimSpace(rawURL),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Scrape renders the run's URL. Idle → Scraped, or Failed with ENAVIGATION.
func (p *Pipeline) Scrape(ctx context.Context, run *webextract.Run) error {
	if err := expectStage(run, webextract.StageIdle); err != nil {
		return err
	}

	if err := validateURL(run.URL); err != nil {
		return p.fail(run, err)
	}

	html, err := p.Fetcher.Fetch(ctx, run.URL)
	if err != nil {
		return p.fail(run, &webextract.Error{
			Code:    webextract.ENAVIGATION,
			Message: fmt.Sprintf("failed to load %s: %v", run.URL, err),
			Err:     err,
		})
	}

	run.RawContent = html
	p.advance(run, webextract.StageScraped, "bytes", len(html))
	return nil
}

// Clean reduces the raw HTML to text. Scraped → Cleaned, or Failed with
// ENOCONTENT when no text is left.
func (p *Pipeline) Clean(run *webextract.Run) error {
	if err := expectStage(run, webextract.StageScraped); err != nil {
		return err
	}

	cleaned := p.Cleaner.Clean(run.RawContent, run.URL)
	if strings.TrimSpace(cleaned) == "" {
		return p.fail(run, webextract.Errorf(webextract.ENOCONTENT, "nothing to extract: %s has no text content", run.URL))
	}

	run.CleanedContent = cleaned
	run.ContentHash = hashContent(cleaned)
	run.Chunks = len(p.chunks(cleaned))
	p.advance(run, webextract.StageCleaned, "chars", len(cleaned), "chunks", run.Chunks)
	return nil
}

// Describe sets what to extract from a cleaned run.
func (p *Pipeline) Describe(run *webextract.Run, instruction string) error {
	if err := expectStage(run, webextract.StageCleaned); err != nil {
		return err
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return webextract.Errorf(webextract.EINVALID, "describe what you want to extract")
	}
	run.Instruction = instruction
	run.UpdatedAt = p.now()
	return nil
}

// Extract asks for the run's instruction in its cleaned content.
// Cleaned → Extracting → Done, or Failed carrying the extraction error.
// When the content is split into chunks, any failing chunk fails the run.
func (p *Pipeline) Extract(ctx context.Context, run *webextract.Run) error {
	if err := expectStage(run, webextract.StageCleaned); err != nil {
		return err
	}
	if run.Instruction == "" {
		return webextract.Errorf(webextract.EINVALID, "run %s has no instruction", run.ID)
	}

	p.advance(run, webextract.StageExtracting)

	chunks := p.chunks(run.CleanedContent)
	var (
		result *webextract.ExtractionResult
		err    error
	)
	if len(chunks) == 1 {
		result, err = p.Extractor.Extract(ctx, chunks[0], run.Instruction)
	} else {
		result, err = p.extractChunks(ctx, run, chunks)
	}
	if err != nil {
		return p.fail(run, err)
	}

	run.Result = result
	p.advance(run, webextract.StageDone,
		"fingerprint", result.Fingerprint.Short(),
		"source", string(result.Source),
		"fields", len(result.Fields),
	)
	return nil
}

// extractChunks extracts every chunk in order and joins the non-empty
// answers into numbered sections. The result's Fingerprint identifies the
// whole content and instruction; it is not a cache key, since each chunk
// is cached under its own fingerprint.
func (p *Pipeline) extractChunks(ctx context.Context, run *webextract.Run, chunks []string) (*webextract.ExtractionResult, error) {
	var sections []string
	source := webextract.SourceCached
	for i, chunk := range chunks {
		res, err := p.Extractor.Extract(ctx, chunk, run.Instruction)
		if err != nil {
			return nil, err
		}
		if res.Source == webextract.SourceFresh {
			source = webextract.SourceFresh
		}
		p.logger().Debug("chunk extracted",
			"run", run.ID,
			"chunk", i+1,
			"of", len(chunks),
			"source", string(res.Source),
		)
		if res.IsEmpty() {
			continue
		}
		sections = append(sections, fmt.Sprintf("--- From Section %d ---\n%s", i+1, res.Text))
	}

	return &webextract.ExtractionResult{
		Extraction:  webextract.NewExtraction(strings.Join(sections, "\n\n")),
		Source:      source,
		Fingerprint: webextract.NewFingerprint(run.CleanedContent, run.Instruction),
	}, nil
}

// Execute drives a new run for url and instruction to a terminal stage.
// The run is returned whenever one was created, together with the error
// that failed it.
func (p *Pipeline) Execute(ctx context.Context, rawURL, instruction string) (*webextract.Run, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "describe what you want to extract")
	}

	run := p.NewRun(rawURL)
	if err := p.Scrape(ctx, run); err != nil {
		return run, err
	}
	if err := p.Clean(run); err != nil {
		return run, err
	}
	if err := p.Describe(run, instruction); err != nil {
		return run, err
	}
	if err := p.Extract(ctx, run); err != nil {
		return run, err
	}
	return run, nil
}

// Derive starts a new run for a follow-up instruction on content that
// prev has already scraped and cleaned. prev is not modified.
func (p *Pipeline) Derive(prev *webextract.Run, instruction string) (*webextract.Run, error) {
	if prev == nil || prev.CleanedContent == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "no scraped content; scrape a page first")
	}

	run := p.NewRun(prev.URL)
	run.RawContent = prev.RawContent
	run.CleanedContent = prev.CleanedContent
	run.ContentHash = prev.ContentHash
	run.Chunks = prev.Chunks
	run.Stage = webextract.StageCleaned

	if err := p.Describe(run, instruction); err != nil {
		return nil, err
	}
	return run, nil
}

// Export returns the downloadable result of a finished run.
func (p *Pipeline) Export(run *webextract.Run) (*webextract.Export, error) {
	if err := expectStage(run, webextract.StageDone); err != nil {
		return nil, err
	}
	return &webextract.Export{
		URL:         run.URL,
		Instruction: run.Instruction,
		Result:      run.Result.Extraction,
		CreatedAt:   p.now(),
	}, nil
}

// Stats reports session statistics. It reads the cache and quota without
// changing them.
func (p *Pipeline) Stats(ctx context.Context) (webextract.Stats, error) {
	counters := p.Extractor.Counters()
	entries, err := p.Extractor.Cache.Len(ctx)
	if err != nil {
		return webextract.Stats{}, err
	}
	return webextract.Stats{
		Runs:         p.runs.Load(),
		Failed:       p.failed.Load(),
		ModelCalls:   counters.ModelCalls,
		CacheHits:    counters.Hits,
		CacheMisses:  counters.Misses,
		CacheEntries: entries,
		Quota:        p.Extractor.Quota.Usage(),
	}, nil
}

func (p *Pipeline) advance(run *webextract.Run, stage webextract.Stage, attrs ...any) {
	run.Stage = stage
	run.UpdatedAt = p.now()
	p.logger().Info("stage", append([]any{"run", run.ID, "stage", string(stage)}, attrs...)...)
}

func (p *Pipeline) fail(run *webextract.Run, err error) error {
	run.Stage = webextract.StageFailed
	run.Err = err
	run.UpdatedAt = p.now()
	p.failed.Add(1)
	p.logger().Warn("stage",
		"run", run.ID,
		"stage", string(webextract.StageFailed),
		"code", webextract.ErrorCode(err),
		"err", webextract.ErrorMessage(err),
	)
	return err
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now()
}

func expectStage(run *webextract.Run, want webextract.Stage) error {
	if run == nil {
		return webextract.Errorf(webextract.EINVALID, "run required")
	}
	if run.Stage != want {
		return webextract.Errorf(webextract.EINVALID, "run %s is %s, expected %s", run.ID, run.Stage, want)
	}
	return nil
}

// validateURL accepts absolute http and https URLs only.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return webextract.Errorf(webextract.ENAVIGATION, "invalid URL %q: use an absolute http(s) address", rawURL)
	}
	return nil
}

// chunks splits content into ChunkSize pieces, dropping pieces that are
// only whitespace. Cleaned content is never blank, so at least one remains.
func (p *Pipeline) chunks(content string) []string {
	var chunks []string
	for _, chunk := range extract.Split(content, p.ChunkSize) {
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// hashContent computes a hash of the content using xxhash.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
