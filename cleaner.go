package webextract

// Cleaner reduces raw HTML to normalized plain text suitable for a model
// prompt. Scripts, styles and comments are removed.
type Cleaner interface {
	// Clean returns the text content of rawHTML. pageURL is used to resolve
	// relative link and image targets. Clean never fails: unparseable input
	// yields an empty string.
	Clean(rawHTML, pageURL string) string
}
