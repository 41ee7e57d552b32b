package mock

import "github.com/fwojciec/webextract"

var _ webextract.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of webextract.Cleaner.
type Cleaner struct {
	CleanFn func(rawHTML, pageURL string) string
}

func (c *Cleaner) Clean(rawHTML, pageURL string) string {
	return c.CleanFn(rawHTML, pageURL)
}
