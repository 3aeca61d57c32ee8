// Package navigate performs the full-page navigation an export needs: the
// backend answers with a file download rather than data for the table.
package navigate

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/go-scripts/scrapeview/internal/writer"
)

// Navigator opens a backend address that produces a download. It returns
// where the download ended up.
type Navigator interface {
	Navigate(ctx context.Context, target string) (string, error)
}

// Downloader saves the response body of target into a directory
type Downloader struct {
	client *http.Client
	files  *writer.FileWriter
}

// NewDownloader creates a Downloader storing files in dir
func NewDownloader(dir string, hc *http.Client) (*Downloader, error) {
	fw, err := writer.New(dir)
	if err != nil {
		return nil, err
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Downloader{client: hc, files: fw}, nil
}

// Navigate fetches target and writes it under the server-suggested name
func (d *Downloader) Navigate(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("export: server returned status %d", resp.StatusCode)
	}
	return d.files.WriteExport(filename(resp.Header.Get("Content-Disposition"), target), resp.Body)
}

// filename picks the attachment name from a Content-Disposition header,
// falling back to scraped_data_<timestamp>.<format>
func filename(disposition, target string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			return params["filename"]
		}
	}
	return fmt.Sprintf("scraped_data_%s.%s", time.Now().Format("20060102_150405"), path.Base(target))
}
