package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webextract"
)

// Ensure LoggingAsker implements webextract.Asker.
var _ webextract.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with logging. Content is logged by size
// only.
type LoggingAsker struct {
	next   webextract.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next webextract.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask logs the instruction, content and answer sizes and duration of the
// wrapped call.
func (a *LoggingAsker) Ask(ctx context.Context, content, instruction string) (answer string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"instruction", instruction,
			"chars", len(content),
			"answer_chars", len(answer),
			"duration", time.Since(begin),
		}
		if err != nil {
			attrs = append(attrs, "code", webextract.ErrorCode(err), "err", err)
			a.logger.Warn("ask", attrs...)
			return
		}
		a.logger.Info("ask", attrs...)
	}(time.Now())
	return a.next.Ask(ctx, content, instruction)
}
