package main_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/webextract/cmd/webextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCmd_Run(t *testing.T) {
	t.Parallel()

	pages := map[string]string{"https://example.com/team": "Ada, CEO\nGrace, CTO"}
	answer := func(content, instruction string) (string, error) {
		if instruction == "job titles" {
			return "CEO\nCTO", nil
		}
		return "Ada\nGrace", nil
	}

	t.Run("runs scrape extract stats and export", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, pages, answer)
		dir := t.TempDir()
		env.deps.Stdin = strings.NewReader(strings.Join([]string{
			"scrape https://example.com/team",
			"extract names",
			"extract job titles",
			"extract names",
			"stats",
			"export " + dir + " txt",
			"quit",
			"extract ignored after quit",
		}, "\n"))

		err := (&main.SessionCmd{}).Run(env.deps)

		require.NoError(t, err)
		out := env.stdout.String()
		assert.Contains(t, out, "Chunks:   1")
		assert.Contains(t, out, "Ada\nGrace")
		assert.Contains(t, out, "CEO\nCTO")
		assert.Contains(t, out, "Runs:         4 (0 failed)")
		assert.Contains(t, out, "Model calls:  2")
		assert.Contains(t, out, "1 hits, 2 misses")
		assert.Contains(t, out, "2/2 calls per 1m0s")
		assert.Equal(t, int64(2), env.asked.Load())

		data, err := os.ReadFile(filepath.Join(dir, "scraped_data_example.com_team.txt"))
		require.NoError(t, err)
		assert.Equal(t, "Ada\nGrace", string(data))
	})

	t.Run("requires a scraped page before extract", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, pages, answer)
		env.deps.Stdin = strings.NewReader("extract names\n")

		err := (&main.SessionCmd{}).Run(env.deps)

		require.NoError(t, err)
		assert.Contains(t, env.stderr.String(), "scrape a page first")
		assert.Equal(t, int64(0), env.asked.Load())
	})

	t.Run("continues after a failing command", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, pages, answer)
		env.deps.Stdin = strings.NewReader(strings.Join([]string{
			"scrape https://unreachable.invalid",
			"frobnicate",
			"export",
			"export " + t.TempDir(),
			"scrape https://example.com/team",
			"extract names",
		}, "\n"))

		err := (&main.SessionCmd{}).Run(env.deps)

		require.NoError(t, err)
		errOut := env.stderr.String()
		assert.Contains(t, errOut, "Hint: Check the URL")
		assert.Contains(t, errOut, `unknown command "frobnicate"`)
		assert.Contains(t, errOut, "usage: export")
		assert.Contains(t, errOut, "nothing to export")
		assert.Contains(t, env.stdout.String(), "Ada\nGrace")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, pages, answer)
		env.deps.Stdin = strings.NewReader("help\n")

		err := (&main.SessionCmd{}).Run(env.deps)

		require.NoError(t, err)
		for _, cmd := range []string{"scrape", "extract", "stats", "export", "quit"} {
			assert.Contains(t, env.stdout.String(), cmd)
		}
	})

	t.Run("rejects unknown export format", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, pages, answer)
		env.deps.Stdin = strings.NewReader(strings.Join([]string{
			"scrape https://example.com/team",
			"extract names",
			"export " + t.TempDir() + " pdf",
		}, "\n"))

		err := (&main.SessionCmd{}).Run(env.deps)

		require.NoError(t, err)
		assert.Contains(t, env.stderr.String(), `unknown format "pdf"`)
	})
}
