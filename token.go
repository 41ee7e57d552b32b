package webextract

import "context"

// TokenCounter estimates how many model tokens a text costs. Scrape
// statistics use it to show how large a cleaned page is for the model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
