package webextract

import "context"

// Asker is the language model collaborator.
type Asker interface {
	// Ask extracts what instruction describes from content and returns the
	// model's free-form answer.
	Ask(ctx context.Context, content, instruction string) (string, error)
}
