package main_test

import (
	"testing"
	"time"

	main "github.com/fwojciec/webextract/cmd/webextract"
	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bytes int
		want  string
	}{
		{"bytes", 512, "512 B"},
		{"kilobytes", 1536, "1.5 KB"},
		{"megabytes", 3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, main.FormatBytes(tt.bytes))
		})
	}
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "~999 tokens", main.FormatTokens(999))
	assert.Equal(t, "~2k tokens", main.FormatTokens(1500))
	assert.Equal(t, "~12k tokens", main.FormatTokens(12345))
}

func TestFormatWait(t *testing.T) {
	t.Parallel()

	t.Run("rounds up to whole seconds", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "13s", main.FormatWait(12*time.Second+time.Nanosecond))
		assert.Equal(t, "12s", main.FormatWait(12*time.Second))
		assert.Equal(t, "1m0s", main.FormatWait(time.Minute))
	})

	t.Run("reports zero for no wait", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "0s", main.FormatWait(0))
	})
}
