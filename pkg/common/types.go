package common

import (
	"fmt"
	"strings"
	"time"
)

// Item is one scraped record as served by the backend
type Item struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date"`
}

// SortMode selects how the table orders items
type SortMode string

const (
	SortDefault SortMode = "default"
	SortTitle   SortMode = "title"
	SortDate    SortMode = "date"
)

// SortModes lists the modes in selector order
var SortModes = []SortMode{SortDefault, SortTitle, SortDate}

// ParseSortMode parses a selector value. Empty means default.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortDefault:
		return SortDefault, nil
	case SortTitle:
		return SortTitle, nil
	case SortDate:
		return SortDate, nil
	}
	return SortDefault, fmt.Errorf("unknown sort mode %q", s)
}

// Next returns the mode after m, wrapping around
func (m SortMode) Next() SortMode {
	for i, mode := range SortModes {
		if mode == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortDefault
}

// Export modes
const (
	ExportDownload = "download"
	ExportBrowser  = "browser"
)

// ExportFormats are the formats the backend can produce
var ExportFormats = []string{"csv", "json"}

// Configuration holds the client configuration
type Configuration struct {
	Server      string        `toml:"server"`
	Locale      string        `toml:"locale"`
	ExportDir   string        `toml:"export_dir"`
	ExportMode  string        `toml:"export_mode"`
	LogFile     string        `toml:"log_file"`
	LogLevel    string        `toml:"log_level"`
	ToastTTL    time.Duration `toml:"toast_ttl"`
	NarrowWidth int           `toml:"narrow_width"`
	TruncateAt  int           `toml:"truncate_at"`
}
