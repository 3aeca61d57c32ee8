// Package config loads the client configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/go-scripts/scrapeview/pkg/common"
)

// DefaultPath is read when no --config flag is given
const DefaultPath = "scrapeview.toml"

// Defaults returns the configuration used when nothing else is set
func Defaults() common.Configuration {
	return common.Configuration{
		Server:      "http://localhost:5000",
		Locale:      "en",
		ExportDir:   ".",
		ExportMode:  common.ExportDownload,
		LogFile:     "scrapeview.log",
		LogLevel:    "info",
		ToastTTL:    5 * time.Second,
		NarrowWidth: 100,
		TruncateAt:  50,
	}
}

// Load reads path over the defaults. A missing file is not an error; keys
// the file does not set keep their default values.
func Load(path string) (*common.Configuration, error) {
	cfg := Defaults()
	if path == "" {
		return &cfg, nil
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the values a file or flag override may have broken
func Validate(cfg *common.Configuration) error {
	if cfg.Server == "" {
		return errors.New("server is required")
	}
	switch cfg.ExportMode {
	case common.ExportDownload, common.ExportBrowser:
	default:
		return fmt.Errorf("export_mode must be %q or %q, got %q",
			common.ExportDownload, common.ExportBrowser, cfg.ExportMode)
	}
	if cfg.ToastTTL <= 0 {
		return fmt.Errorf("toast_ttl must be positive, got %s", cfg.ToastTTL)
	}
	if cfg.NarrowWidth < 0 || cfg.TruncateAt < 0 {
		return errors.New("narrow_width and truncate_at must not be negative")
	}
	return nil
}

// Save writes cfg to path as TOML
func Save(path string, cfg *common.Configuration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return f.Close()
}
