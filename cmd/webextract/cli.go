package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Pipeline  *pipeline.Pipeline
	Tokens    webextract.TokenCounter
	Exporters map[string]webextract.Exporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config

	Scrape  ScrapeCmd  `cmd:"" help:"Scrape and clean a page, then show content statistics"`
	Extract ExtractCmd `cmd:"" help:"Extract information from a page using a plain-language description"`
	Session SessionCmd `cmd:"" help:"Start an interactive session reading commands from stdin"`
}

// Config holds settings shared by all commands. Each can also be set in
// the environment or in a .env file.
type Config struct {
	APIKey        string        `name:"api-key" env:"GEMINI_API_KEY,GOOGLE_API_KEY" help:"Gemini API key"`
	Model         string        `env:"WEBEXTRACT_MODEL" default:"gemini-2.5-flash" help:"Gemini model used for extraction"`
	QuotaMaxCalls int           `name:"quota-max-calls" hidden:"" env:"WEBEXTRACT_QUOTA_MAX_CALLS" default:"15" help:"Model calls allowed per quota window"`
	QuotaWindow   time.Duration `name:"quota-window" hidden:"" env:"WEBEXTRACT_QUOTA_WINDOW" default:"1m" help:"Length of the quota window"`
	MinInterval   time.Duration `name:"min-interval" env:"WEBEXTRACT_MIN_INTERVAL" default:"0s" help:"Minimum delay between model calls"`
	Cache         string        `env:"WEBEXTRACT_CACHE" enum:"memory,sqlite" default:"memory" help:"Answer cache backend (memory, sqlite)"`
	ChromeBin     string        `name:"chrome-bin" env:"CHROME_BIN" help:"Chrome or Chromium binary"`
	NoSandbox     bool          `name:"no-sandbox" env:"WEBEXTRACT_NO_SANDBOX" help:"Run Chrome without its sandbox"`
	Timeout       time.Duration `short:"t" default:"30s" help:"Page load timeout"`
	Retries       int           `env:"WEBEXTRACT_FETCH_RETRIES" default:"0" help:"Retry a failed page load this many times with backoff"`
	Rate          float64       `env:"WEBEXTRACT_FETCH_RATE" default:"0" help:"Page loads per second allowed to one host (0 disables)"`
	Static        bool          `help:"Fetch pages over plain HTTP without rendering JavaScript"`
	Cleaner       string        `short:"c" enum:"text,markdown,article,readability" default:"text" help:"HTML cleaning strategy (text, markdown, article, readability)"`
	ChunkSize     int           `name:"chunk-size" default:"0" help:"Split content into chunks of this many characters (0 disables)"`
	Verbose       bool          `short:"v" help:"Log every step to stderr"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL  string `arg:"" help:"Page URL"`
	Show bool   `short:"s" help:"Print the cleaned content"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL         string `arg:"" help:"Page URL"`
	Instruction string `arg:"" help:"What to extract, e.g. \"product names and prices\""`
	Output      string `short:"o" type:"path" help:"Save the result to a file in this directory"`
	Format      string `short:"f" enum:"txt,xml" default:"txt" help:"Saved file format (txt, xml)"`
}

// SessionCmd is the "session" subcommand.
type SessionCmd struct{}
