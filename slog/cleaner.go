package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/webextract"
)

// Ensure LoggingCleaner implements webextract.Cleaner.
var _ webextract.Cleaner = (*LoggingCleaner)(nil)

// LoggingCleaner wraps a Cleaner with debug logging.
type LoggingCleaner struct {
	next   webextract.Cleaner
	logger *slog.Logger
}

// NewLoggingCleaner creates a new LoggingCleaner.
func NewLoggingCleaner(next webextract.Cleaner, logger *slog.Logger) *LoggingCleaner {
	return &LoggingCleaner{next: next, logger: logger}
}

// Clean logs input and output sizes of the wrapped call.
func (c *LoggingCleaner) Clean(rawHTML, pageURL string) string {
	begin := time.Now()
	text := c.next.Clean(rawHTML, pageURL)
	c.logger.Debug("clean",
		"url", pageURL,
		"bytes", len(rawHTML),
		"chars", len(text),
		"duration", time.Since(begin),
	)
	return text
}
