package webextract

import "context"

// Fetcher renders a page and returns its HTML. It is the scrape step's
// browser collaborator.
type Fetcher interface {
	// Fetch loads url and returns the HTML after scripts have run.
	// Unreachable pages, non-success responses and timeouts are errors;
	// the pipeline reports them as ENAVIGATION.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases the browser. Fetch must not be called afterwards.
	Close() error
}
