package main

import (
	"fmt"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	p := deps.Pipeline

	run := p.NewRun(c.URL)
	if err := p.Scrape(deps.Ctx, run); err != nil {
		reportError(deps.Stderr, err)
		return err
	}
	if err := p.Clean(run); err != nil {
		reportError(deps.Stderr, err)
		return err
	}

	printScrapeStats(deps, run)

	if c.Show {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, run.CleanedContent)
	}
	return nil
}
