package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fwojciec/webextract"
)

const sessionHelp = `Commands:
  scrape <url>            Scrape and clean a page
  extract <description>   Extract information from the last scraped page
  stats                   Show cache and quota statistics
  export <dir> [txt|xml]  Save the last result to a file in dir
  help                    Show this help
  quit                    Exit the session`

// session is the state of one interactive session: the page the user last
// scraped and the last finished extraction.
type session struct {
	deps    *Dependencies
	scraped *webextract.Run
	done    *webextract.Run
}

// Run executes the session command. Each stdin line is one command; a
// failing command is reported and the session continues.
func (c *SessionCmd) Run(deps *Dependencies) error {
	s := &session{deps: deps}

	scanner := bufio.NewScanner(deps.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	fmt.Fprintln(deps.Stdout, "Type 'help' for commands.")
	for {
		fmt.Fprint(deps.Stdout, "> ")
		if !scanner.Scan() {
			break
		}
		if deps.Ctx.Err() != nil {
			return deps.Ctx.Err()
		}

		name, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(name) {
		case "":
		case "scrape":
			s.scrape(arg)
		case "extract":
			s.extract(arg)
		case "stats":
			s.stats()
		case "export":
			s.export(arg)
		case "help", "?":
			fmt.Fprintln(deps.Stdout, sessionHelp)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(deps.Stderr, "error: unknown command %q. Type 'help' for commands.\n", name)
		}
	}
	fmt.Fprintln(deps.Stdout)
	return scanner.Err()
}

func (s *session) scrape(rawURL string) {
	if rawURL == "" {
		fmt.Fprintln(s.deps.Stderr, "error: usage: scrape <url>")
		return
	}

	p := s.deps.Pipeline
	run := p.NewRun(rawURL)
	if err := p.Scrape(s.deps.Ctx, run); err != nil {
		reportError(s.deps.Stderr, err)
		return
	}
	if err := p.Clean(run); err != nil {
		reportError(s.deps.Stderr, err)
		return
	}

	s.scraped = run
	printScrapeStats(s.deps, run)
}

func (s *session) extract(instruction string) {
	p := s.deps.Pipeline
	run, err := p.Derive(s.scraped, instruction)
	if err != nil {
		reportError(s.deps.Stderr, err)
		return
	}
	if err := p.Extract(s.deps.Ctx, run); err != nil {
		reportError(s.deps.Stderr, err)
		return
	}

	s.done = run
	printResult(s.deps.Stdout, run)
	fmt.Fprintf(s.deps.Stderr, "Source: %s (%s)\n", run.Result.Source, run.Result.Fingerprint.Short())
}

func (s *session) stats() {
	stats, err := s.deps.Pipeline.Stats(s.deps.Ctx)
	if err != nil {
		reportError(s.deps.Stderr, err)
		return
	}
	printStats(s.deps.Stdout, stats)
}

func (s *session) export(arg string) {
	fields := strings.Fields(arg)
	if len(fields) == 0 || len(fields) > 2 {
		fmt.Fprintln(s.deps.Stderr, "error: usage: export <dir> [txt|xml]")
		return
	}
	if s.done == nil {
		fmt.Fprintln(s.deps.Stderr, "error: nothing to export; run extract first")
		return
	}
	if s.done.Result.IsEmpty() {
		fmt.Fprintln(s.deps.Stderr, "error: the last extraction found nothing to export")
		return
	}

	format := "txt"
	if len(fields) == 2 {
		format = strings.ToLower(fields[1])
	}

	path, err := saveRun(s.deps, s.done, fields[0], format)
	if err != nil {
		reportError(s.deps.Stderr, err)
		return
	}
	fmt.Fprintf(s.deps.Stdout, "Saved %s\n", path)
}
