package main_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/webextract"
	main "github.com/fwojciec/webextract/cmd/webextract"
	wetree "github.com/fwojciec/webextract/etree"
	"github.com/fwojciec/webextract/extract"
	"github.com/fwojciec/webextract/fs"
	"github.com/fwojciec/webextract/inmem"
	"github.com/fwojciec/webextract/mock"
	"github.com/fwojciec/webextract/pipeline"
	"github.com/fwojciec/webextract/quota"
)

// testEnv is a command environment wired with mocks. Fetched pages are
// used as cleaned content unchanged.
type testEnv struct {
	deps   *main.Dependencies
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	asked  *atomic.Int64
}

// newTestEnv serves pages by URL; unknown URLs fail to load.
func newTestEnv(t *testing.T, pages map[string]string, answer func(content, instruction string) (string, error)) *testEnv {
	t.Helper()

	asked := &atomic.Int64{}
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			page, ok := pages[url]
			if !ok {
				return "", errors.New("net::ERR_NAME_NOT_RESOLVED")
			}
			return page, nil
		},
		CloseFn: func() error { return nil },
	}
	asker := &mock.Asker{
		AskFn: func(_ context.Context, content, instruction string) (string, error) {
			asked.Add(1)
			return answer(content, instruction)
		},
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Pipeline: &pipeline.Pipeline{
			Fetcher: fetcher,
			Cleaner: &mock.Cleaner{
				CleanFn: func(rawHTML, _ string) string { return rawHTML },
			},
			Extractor: &extract.Extractor{
				Cache: inmem.NewCache(),
				Quota: quota.NewGuard(2, time.Minute),
				Asker: asker,
			},
		},
		Exporters: map[string]webextract.Exporter{
			"txt": fs.NewTextExporter(),
			"xml": wetree.NewExporter(),
		},
	}

	return &testEnv{deps: deps, stdout: stdout, stderr: stderr, asked: asked}
}
