package main

import (
	"fmt"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	p := deps.Pipeline

	run, err := p.Execute(deps.Ctx, c.URL, c.Instruction)
	if err != nil {
		reportError(deps.Stderr, err)
		return err
	}

	printResult(deps.Stdout, run)
	fmt.Fprintf(deps.Stderr, "Source: %s (%s)\n", run.Result.Source, run.Result.Fingerprint.Short())

	if c.Output == "" || run.Result.IsEmpty() {
		return nil
	}

	path, err := saveRun(deps, run, c.Output, c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webextract.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stderr, "Saved %s\n", path)
	return nil
}

// saveRun exports a finished run into dir in the named format.
func saveRun(deps *Dependencies, run *webextract.Run, dir, format string) (string, error) {
	x, ok := deps.Exporters[format]
	if !ok {
		return "", webextract.Errorf(webextract.EINVALID, "unknown format %q: use txt or xml", format)
	}
	e, err := deps.Pipeline.Export(run)
	if err != nil {
		return "", err
	}
	return fs.NewFileWriter(dir).Write(e, x)
}
