package trafilatura

import (
	"strings"

	"github.com/fwojciec/webextract"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Cleaner implements webextract.Cleaner at compile time.
var _ webextract.Cleaner = (*Cleaner)(nil)

// Cleaner wraps go-trafilatura to keep only the main article text of a
// page, dropping navigation, footers and other boilerplate.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean returns the article title and text. Pages trafilatura cannot
// make sense of yield an empty string.
func (c *Cleaner) Clean(rawHTML, _ string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil || result == nil {
		return ""
	}

	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return ""
	}
	if title := strings.TrimSpace(result.Metadata.Title); title != "" {
		return title + "\n\n" + text
	}
	return text
}
