package webextract

import "time"

// Stage is the position of a Run in the extraction workflow.
type Stage string

// Stage values. Runs move forward through Idle, Scraped, Cleaned and
// Extracting and end in Done or Failed.
const (
	StageIdle       Stage = "idle"
	StageScraped    Stage = "scraped"
	StageCleaned    Stage = "cleaned"
	StageExtracting Stage = "extracting"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageFailed
}

// Run is a single extraction request: one URL, one instruction.
// A Run is created per user request and is never reset; a new request
// gets a new Run.
type Run struct {
	ID          string `json:"id"`
	Stage       Stage  `json:"stage"`
	URL         string `json:"url"`
	Instruction string `json:"instruction"`

	RawContent     string `json:"-"`
	CleanedContent string `json:"-"`
	ContentHash    string `json:"contentHash"`

	// Chunks is the number of pieces the cleaned content was split into
	// for extraction.
	Chunks int `json:"chunks"`

	Result *ExtractionResult `json:"result,omitempty"`
	Err    error             `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats summarizes pipeline activity for display.
type Stats struct {
	Runs         int64      `json:"runs"`
	Failed       int64      `json:"failed"`
	ModelCalls   int64      `json:"modelCalls"`
	CacheHits    int64      `json:"cacheHits"`
	CacheMisses  int64      `json:"cacheMisses"`
	CacheEntries int        `json:"cacheEntries"`
	Quota        QuotaUsage `json:"quota"`
}

// HitRate returns the share of lookups answered from the cache.
func (s Stats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}
