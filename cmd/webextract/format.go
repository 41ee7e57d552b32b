package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/webextract"
)

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatWait formats a retry delay rounded up to whole seconds.
func FormatWait(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return (d + time.Second - 1).Truncate(time.Second).String()
}

const noMatchMessage = "No relevant information found for your query. Try a different description."

// reportError prints a user-facing message for err to w, with a hint for
// the codes a user can act on.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %s\n", webextract.ErrorMessage(err))

	switch webextract.ErrorCode(err) {
	case webextract.ENAVIGATION:
		fmt.Fprintln(w, "Hint: Check the URL is correct and reachable, or raise --timeout")
	case webextract.ENOCONTENT:
		fmt.Fprintln(w, "Hint: Try another --cleaner, or drop --static for pages built with JavaScript")
	case webextract.EQUOTA:
		fmt.Fprintf(w, "Hint: Quota exceeded, try again in %s\n", FormatWait(webextract.ErrorRetryAfter(err)))
	case webextract.EMODEL:
		fmt.Fprintln(w, "Hint: Check your GEMINI_API_KEY is valid")
	}
}

// printResult writes the extracted text of run, or a no-match message.
func printResult(w io.Writer, run *webextract.Run) {
	if run.Result == nil || run.Result.IsEmpty() {
		fmt.Fprintln(w, noMatchMessage)
		return
	}
	fmt.Fprintln(w, run.Result.Text)
}

// printScrapeStats writes content statistics for a cleaned run.
func printScrapeStats(deps *Dependencies, run *webextract.Run) {
	fmt.Fprintf(deps.Stdout, "URL:      %s\n", run.URL)
	fmt.Fprintf(deps.Stdout, "Raw:      %s\n", FormatBytes(len(run.RawContent)))
	fmt.Fprintf(deps.Stdout, "Cleaned:  %s\n", FormatBytes(len(run.CleanedContent)))
	fmt.Fprintf(deps.Stdout, "Chunks:   %d\n", run.Chunks)
	if deps.Tokens != nil {
		if n, err := deps.Tokens.CountTokens(deps.Ctx, run.CleanedContent); err == nil {
			fmt.Fprintf(deps.Stdout, "Tokens:   %s\n", FormatTokens(n))
		}
	}
	fmt.Fprintf(deps.Stdout, "Hash:     %s\n", run.ContentHash)
}

// printStats writes session statistics.
func printStats(w io.Writer, s webextract.Stats) {
	fmt.Fprintf(w, "Runs:         %d (%d failed)\n", s.Runs, s.Failed)
	fmt.Fprintf(w, "Model calls:  %d\n", s.ModelCalls)
	fmt.Fprintf(w, "Cache:        %d hits, %d misses (%.1f%% hit rate), %d entries\n",
		s.CacheHits, s.CacheMisses, s.HitRate()*100, s.CacheEntries)
	fmt.Fprintf(w, "Quota:        %d/%d calls per %s", s.Quota.Used, s.Quota.Max, s.Quota.Window)
	if s.Quota.RetryAfter > 0 {
		fmt.Fprintf(w, ", next slot in %s", FormatWait(s.Quota.RetryAfter))
	}
	fmt.Fprintln(w)
}
