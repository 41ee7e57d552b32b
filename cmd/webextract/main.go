package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webextract"
	wetree "github.com/fwojciec/webextract/etree"
	"github.com/fwojciec/webextract/extract"
	"github.com/fwojciec/webextract/fetch"
	"github.com/fwojciec/webextract/fs"
	"github.com/fwojciec/webextract/gemini"
	"github.com/fwojciec/webextract/goquery"
	"github.com/fwojciec/webextract/htmltomarkdown"
	webhttp "github.com/fwojciec/webextract/http"
	"github.com/fwojciec/webextract/inmem"
	"github.com/fwojciec/webextract/pipeline"
	"github.com/fwojciec/webextract/quota"
	"github.com/fwojciec/webextract/readability"
	"github.com/fwojciec/webextract/rod"
	wslog "github.com/fwojciec/webextract/slog"
	"github.com/fwojciec/webextract/sqlite"
	"github.com/fwojciec/webextract/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin feeds the session command.
	Stdin io.Reader

	// Services for end-to-end testing. When nil, Run builds them from
	// the parsed configuration.
	Fetcher webextract.Fetcher
	Asker   webextract.Asker
	Tokens  webextract.TokenCounter

	// Now is the pipeline clock. Defaults to time.Now.
	Now func() time.Time

	// In-memory SQLite database backing the cache when WEBEXTRACT_CACHE=sqlite.
	DB *sqlite.DB

	fetcher webextract.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.fetcher != nil {
		errs = append(errs, m.fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
		Exporters: map[string]webextract.Exporter{
			"txt": fs.NewTextExporter(),
			"xml": wetree.NewExporter(),
		},
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webextract"),
		kong.Description("Extract information from web pages with plain-language descriptions"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webextract --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]
	cfg := cli.Config

	logger := newLogger(cfg.Verbose, stderr)

	cleaner, err := newCleaner(cfg.Cleaner)
	if err != nil {
		return err
	}

	fetcher, err := m.openFetcher(cfg, stderr)
	if err != nil {
		return err
	}
	defer m.Close()

	deps.Pipeline = &pipeline.Pipeline{
		Fetcher: fetch.NewFetcher(wslog.NewLoggingFetcher(fetcher, logger),
			fetch.WithRate(cfg.Rate),
			fetch.WithRetries(cfg.Retries),
			fetch.WithLogger(logger),
		),
		Cleaner:   wslog.NewLoggingCleaner(cleaner, logger),
		ChunkSize: cfg.ChunkSize,
		Logger:    logger,
		Now:       m.Now,
	}

	if cmd == "scrape" || cmd == "session" {
		deps.Tokens = m.tokenCounter(cfg, logger)
	}

	if cmd == "extract" || cmd == "session" {
		asker, err := m.openAsker(ctx, cfg, stderr)
		if err != nil {
			return err
		}

		cache, err := m.openCache(ctx, cfg)
		if err != nil {
			return err
		}

		deps.Pipeline.Extractor = &extract.Extractor{
			Cache:  wslog.NewLoggingCache(cache, logger),
			Quota:  quota.NewGuard(cfg.QuotaMaxCalls, cfg.QuotaWindow),
			Asker:  wslog.NewLoggingAsker(asker, logger),
			Logger: logger,
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) openFetcher(cfg Config, stderr io.Writer) (webextract.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	if cfg.Static {
		m.fetcher = webhttp.NewFetcher(webhttp.WithTimeout(cfg.Timeout))
		return m.fetcher, nil
	}

	fetcher, err := rod.NewFetcher(
		rod.WithFetchTimeout(cfg.Timeout),
		rod.WithManagerOptions(
			rod.WithBrowserBin(cfg.ChromeBin),
			rod.WithNoSandbox(cfg.NoSandbox),
		),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed (set CHROME_BIN to its path), or use --static")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	m.fetcher = fetcher
	return fetcher, nil
}

func (m *Main) openAsker(ctx context.Context, cfg Config, stderr io.Writer) (webextract.Asker, error) {
	if m.Asker != nil {
		return m.Asker, nil
	}

	if cfg.APIKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	return gemini.NewAsker(client,
		gemini.WithModel(cfg.Model),
		gemini.WithMinInterval(cfg.MinInterval),
	), nil
}

func (m *Main) openCache(ctx context.Context, cfg Config) (webextract.Cache, error) {
	if cfg.Cache != "sqlite" {
		return inmem.NewCache(), nil
	}

	m.DB = sqlite.NewDB(":memory:")
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	cache, err := sqlite.NewCache(ctx, m.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return cache, nil
}

// tokenCounter returns nil when the local tokenizer does not know the
// configured model. Token estimates are then left out of scrape output.
func (m *Main) tokenCounter(cfg Config, logger *slog.Logger) webextract.TokenCounter {
	if m.Tokens != nil {
		return m.Tokens
	}
	tc, err := gemini.NewTokenCounter(cfg.Model)
	if err != nil {
		logger.Debug("token counter unavailable", "model", cfg.Model, "err", err)
		return nil
	}
	return tc
}

func newCleaner(name string) (webextract.Cleaner, error) {
	switch name {
	case "", "text":
		return goquery.NewCleaner(), nil
	case "markdown":
		return htmltomarkdown.NewCleaner(), nil
	case "article":
		return trafilatura.NewCleaner(), nil
	case "readability":
		return readability.NewCleaner(), nil
	default:
		return nil, webextract.Errorf(webextract.EINVALID, "unknown cleaner %q", name)
	}
}

func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
