package navigate

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"

	"github.com/go-scripts/scrapeview/internal/writer"
)

// Browser drives a headless Chrome to the export address and lets the
// browser perform the download, as a user clicking the link would
type Browser struct {
	files *writer.FileWriter
	opts  []chromedp.ExecAllocatorOption
}

// NewBrowser creates a Browser that saves downloads in dir
func NewBrowser(dir string) (*Browser, error) {
	fw, err := writer.New(dir)
	if err != nil {
		return nil, err
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)
	return &Browser{files: fw, opts: opts}, nil
}

// Navigate opens target in a fresh browser and waits for its download
func (b *Browser) Navigate(ctx context.Context, target string) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.opts...)
	defer allocCancel()
	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	names := make(map[string]string)
	done := make(chan string, 1)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *browser.EventDownloadWillBegin:
			names[ev.GUID] = ev.SuggestedFilename
		case *browser.EventDownloadProgress:
			if ev.State == browser.DownloadProgressStateCompleted {
				select {
				case done <- ev.GUID:
				default:
				}
			}
		}
	})

	err := chromedp.Run(tabCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(b.files.Dir()).
			WithEventsEnabled(true),
		chromedp.Navigate(target),
	)
	// a navigation that turns into a download is reported as aborted
	if err != nil && !strings.Contains(err.Error(), "net::ERR_ABORTED") {
		return "", fmt.Errorf("navigate to export: %w", err)
	}

	select {
	case guid := <-done:
		name := names[guid]
		if name == "" {
			name = filename("", target)
		}
		return b.files.Rename(guid, name)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
