package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scrapeview.log")
	logger, closer, err := New(Options{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("Querying", "search", "golang")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Querying")
	assert.Contains(t, string(data), "search=golang")
}

func TestNewLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
	}
	for _, tt := range tests {
		logger, closer, err := New(Options{File: "-", Level: tt.in})
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, logger.GetLevel(), tt.in)
		assert.NoError(t, closer.Close())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestInfoFilteredBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrapeview.log")
	logger, closer, err := New(Options{File: path, Level: "error"})
	require.NoError(t, err)

	logger.Info("Scraping", "url", "https://example.com")
	logger.Error("Scrape failed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Scraping")
	assert.Contains(t, string(data), "Scrape failed")
}
