package mock

import (
	"context"

	"github.com/fwojciec/webextract"
)

var _ webextract.Asker = (*Asker)(nil)

// Asker is a mock implementation of webextract.Asker.
type Asker struct {
	AskFn func(ctx context.Context, content, instruction string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, content, instruction string) (string, error) {
	return a.AskFn(ctx, content, instruction)
}
