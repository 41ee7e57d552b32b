package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/webextract"
	"github.com/go-shiori/go-readability"
)

// Ensure Cleaner implements webextract.Cleaner at compile time.
var _ webextract.Cleaner = (*Cleaner)(nil)

// Cleaner wraps go-readability to reduce a page to its readable article.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean returns the article title followed by its text, one trimmed
// line per paragraph. Pages without a readable article yield an empty
// string.
func (c *Cleaner) Clean(rawHTML, pageURL string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return ""
	}

	text := compactLines(article.TextContent)
	if text == "" {
		return ""
	}
	if title := strings.TrimSpace(article.Title); title != "" {
		return title + "\n\n" + text
	}
	return text
}

func compactLines(s string) string {
	var lines []string
	for line := range strings.SplitSeq(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
