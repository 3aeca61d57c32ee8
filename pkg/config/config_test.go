package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/scrapeview/pkg/common"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrapeview.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.ToastTTL)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
server = "http://scraper.internal:8080"
locale = "sv"
export_mode = "browser"
toast_ttl = "3s"
truncate_at = 40
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://scraper.internal:8080", cfg.Server)
	assert.Equal(t, "sv", cfg.Locale)
	assert.Equal(t, common.ExportBrowser, cfg.ExportMode)
	assert.Equal(t, 3*time.Second, cfg.ToastTTL)
	assert.Equal(t, 40, cfg.TruncateAt)
	assert.Equal(t, 100, cfg.NarrowWidth)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", `servr = "http://x"`},
		{"bad mode", `export_mode = "email"`},
		{"zero ttl", `toast_ttl = "0s"`},
		{"negative width", `narrow_width = -1`},
		{"empty server", `server = ""`},
		{"syntax", `server = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Server = "https://scraper.example.com"
	cfg.ToastTTL = 2 * time.Second
	path := filepath.Join(t.TempDir(), "out.toml")

	require.NoError(t, Save(path, &cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}
