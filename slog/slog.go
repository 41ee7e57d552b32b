// Package slog decorates webextract collaborators with structured logging.
// Each decorator logs one line per call, after the call returns.
package slog
