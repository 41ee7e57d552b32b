package webextract

import "strings"

// Source tells whether a result came from the cache or from a model call.
type Source string

// Source values.
const (
	SourceCached Source = "cached"
	SourceFresh  Source = "fresh"
)

// Extraction is a normalized model answer.
type Extraction struct {
	// Text is the answer as a single text block.
	Text string `json:"text"`

	// Fields is the ordered sequence of extracted values, one per
	// non-empty line of Text.
	Fields []string `json:"fields,omitempty"`
}

// NewExtraction builds an Extraction from normalized text.
func NewExtraction(text string) Extraction {
	return Extraction{Text: text, Fields: SplitFields(text)}
}

// IsEmpty reports whether nothing was extracted.
func (e Extraction) IsEmpty() bool {
	return strings.TrimSpace(e.Text) == ""
}

// SplitFields returns the trimmed non-empty lines of text.
func SplitFields(text string) []string {
	var fields []string
	for line := range strings.SplitSeq(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fields = append(fields, line)
		}
	}
	return fields
}

// ExtractionResult is what an extraction request returns.
type ExtractionResult struct {
	Extraction
	Source Source `json:"source"`

	// Fingerprint identifies the content and instruction the result answers.
	// For a chunked run it covers the whole content and is not a cache key;
	// each chunk is cached under its own fingerprint.
	Fingerprint Fingerprint `json:"fingerprint"`
}
