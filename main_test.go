package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/scrapeview/pkg/backend/backendtest"
	"github.com/go-scripts/scrapeview/pkg/common"
	"github.com/go-scripts/scrapeview/pkg/config"
	"github.com/go-scripts/scrapeview/ui"
)

func sampleItems(n int) []common.Item {
	items := make([]common.Item, n)
	for i := range items {
		items[i] = common.Item{
			Title: fmt.Sprintf("Story %02d", i),
			URL:   fmt.Sprintf("https://news.example.com/%d", i),
			Date:  fmt.Sprintf("2024-02-%02d", i%28+1),
		}
	}
	return items
}

type testApp struct {
	*App
	srv *backendtest.Server
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestApp(t *testing.T, items []common.Item, pages map[string][]common.Item) *testApp {
	t.Helper()
	srv := backendtest.NewServer(t, items, pages)
	cfg := config.Defaults()
	cfg.Server = srv.URL
	cfg.ExportDir = t.TempDir()
	cfg.ToastTTL = time.Millisecond

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app, err := newApp(&cfg, log.New(io.Discard), out, errOut)
	require.NoError(t, err)
	return &testApp{App: app, srv: srv, out: out, err: errOut}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrapeview.toml")
	require.NoError(t, os.WriteFile(path, []byte(`server = "http://file:5000"
locale = "de"
`), 0o644))

	cfg, err := loadConfig(CLIFlags{Config: path, Server: "http://flag:8080", ExportMode: "browser"})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8080", cfg.Server)
	assert.Equal(t, "de", cfg.Locale)
	assert.Equal(t, common.ExportBrowser, cfg.ExportMode)

	_, err = loadConfig(CLIFlags{Config: path, ExportMode: "fax"})
	assert.Error(t, err)
}

func TestNewAppRejectsBadServer(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server = "ftp://example.com"
	_, err := newApp(&cfg, log.New(io.Discard), io.Discard, io.Discard)
	assert.Error(t, err)
}

func TestScrapeCmd(t *testing.T) {
	app := newTestApp(t, nil, map[string][]common.Item{"https://news.example.com": sampleItems(12)})

	require.NoError(t, (&ScrapeCmd{URL: "https://news.example.com"}).Run(app.App))
	out := ansi.Strip(app.out.String())
	assert.Contains(t, out, "Story 09")
	assert.NotContains(t, out, "Story 10")
	assert.Contains(t, out, "Page 1 of 2, 12 items")
	assert.Contains(t, app.err.String(), "Data scraped successfully!")
}

func TestScrapeCmdFailures(t *testing.T) {
	app := newTestApp(t, nil, map[string][]common.Item{"https://empty.example.com": {}})

	err := (&ScrapeCmd{URL: "news.example.com"}).Run(app.App)
	assert.Error(t, err)
	assert.Empty(t, app.srv.Requests())

	err = (&ScrapeCmd{URL: "https://empty.example.com"}).Run(app.App)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No articles found on this page.")
}

func TestListCmd(t *testing.T) {
	app := newTestApp(t, sampleItems(30), nil)

	require.NoError(t, (&ListCmd{Search: "story 1", Sort: "title", Page: 1}).Run(app.App))
	out := ansi.Strip(app.out.String())
	assert.Contains(t, out, "Story 10")
	assert.Contains(t, out, "Story 19")
	assert.Contains(t, out, "(30 before filtering)")

	app.out.Reset()
	require.NoError(t, (&ListCmd{Sort: "default", Page: 3}).Run(app.App))
	assert.Contains(t, ansi.Strip(app.out.String()), "Story 29")

	err := (&ListCmd{Sort: "default", Page: 4}).Run(app.App)
	assert.Error(t, err)
}

func TestDeleteCmdUsesListedOrder(t *testing.T) {
	items := sampleItems(5)
	app := newTestApp(t, items, nil)

	// date order is newest first, so index 0 is Story 04
	require.NoError(t, (&DeleteCmd{Index: 0, Sort: "date"}).Run(app.App))
	assert.NotContains(t, app.srv.Items(), items[4])
	assert.Len(t, app.srv.Items(), 4)

	assert.Error(t, (&DeleteCmd{Index: 9, Sort: "default"}).Run(app.App))
}

func TestClearCmd(t *testing.T) {
	app := newTestApp(t, sampleItems(3), nil)
	require.NoError(t, (&ClearCmd{}).Run(app.App))
	assert.Empty(t, app.srv.Items())

	app.srv.FailRefresh = true
	assert.Error(t, (&ClearCmd{}).Run(app.App))
}

func TestExportCmd(t *testing.T) {
	app := newTestApp(t, sampleItems(3), nil)

	require.NoError(t, (&ExportCmd{Format: "csv"}).Run(app.App))
	path := filepath.Join(app.Config.ExportDir, "scraped_data_test.csv")
	assert.Contains(t, app.out.String(), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Story 02")
}

func TestExportCmdRefusesEmptyDataset(t *testing.T) {
	app := newTestApp(t, nil, nil)
	err := (&ExportCmd{Format: "json"}).Run(app.App)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data to export")
	assert.NotContains(t, app.srv.Requests(), "GET /export/json")
}

// drain runs cmd and feeds every resulting message back into m
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := settle(next).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case nil:
		default:
			// blink, tick and toast expiry messages never settle
			if isTimer(msg) {
				continue
			}
			var more tea.Cmd
			m, more = m.Update(msg)
			queue = append(queue, more)
		}
	}
	return m
}

// settle runs cmd but gives up on commands that wait on a timer, such as
// the cursor blink
func settle(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(400 * time.Millisecond):
		return nil
	}
}

func isTimer(msg tea.Msg) bool {
	switch msg.(type) {
	case ui.ExpireToastsMsg:
		return true
	}
	name := fmt.Sprintf("%T", msg)
	return name == "cursor.initialBlinkMsg" || name == "cursor.BlinkMsg" || name == "spinner.TickMsg"
}

func press(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		m = drain(t, m, cmd)
	}
	return m
}

func TestModelFlow(t *testing.T) {
	app := newTestApp(t, nil, map[string][]common.Item{"https://news.example.com": sampleItems(15)})
	model := newModel(context.Background(), app.App)
	var m tea.Model = model
	m, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = drain(t, m, m.Init())

	// scrape through the URL input
	m = press(t, m, "u", "https://news.example.com", "enter")
	assert.Equal(t, 15, model.ctrl.Store().Len())
	assert.Contains(t, ansi.Strip(m.View()), "Data scraped successfully!")

	// page forward
	m = press(t, m, "right")
	assert.Equal(t, 2, model.ctrl.Store().Page())
	assert.Contains(t, ansi.Strip(m.View()), "Story 14")

	// live search
	m = press(t, m, "/", "1", "4", "esc")
	assert.Equal(t, 1, model.ctrl.Store().Len())
	search, _, _ := model.ctrl.Inputs()
	assert.Equal(t, "14", search)

	// delete the only match
	m = press(t, m, "d")
	assert.Equal(t, 0, model.ctrl.Store().Len())
	assert.Len(t, app.srv.Items(), 14)

	// clear search restores the dataset
	m = press(t, m, "c")
	assert.Equal(t, 14, model.ctrl.Store().Len())

	// cycle sort
	m = press(t, m, "s")
	_, mode, _ := model.ctrl.Inputs()
	assert.Equal(t, common.SortTitle, mode)

	// export through the picker
	m = press(t, m, "e", "down", "enter")
	assert.FileExists(t, filepath.Join(app.Config.ExportDir, "scraped_data_test.json"))

	// clear everything
	m = press(t, m, "x")
	assert.Equal(t, 0, model.ctrl.Store().Len())
	search, mode, url := model.ctrl.Inputs()
	assert.Empty(t, search)
	assert.Equal(t, common.SortDefault, mode)
	assert.Empty(t, url)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelJumpsToAnyPage(t *testing.T) {
	app := newTestApp(t, sampleItems(95), nil)
	model := newModel(context.Background(), app.App)
	var m tea.Model = model
	m, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = drain(t, m, m.Init())
	require.Equal(t, 95, model.ctrl.Store().Len())

	m = press(t, m, "]")
	assert.Equal(t, 10, model.ctrl.Store().Page())
	assert.Contains(t, ansi.Strip(m.View()), "Story 94")

	m = press(t, m, "5")
	assert.Equal(t, 5, model.ctrl.Store().Page())
	assert.Contains(t, ansi.Strip(m.View()), "Story 40")

	m = press(t, m, "[")
	assert.Equal(t, 1, model.ctrl.Store().Page())

	m = press(t, m, "9")
	assert.Equal(t, 9, model.ctrl.Store().Page())
	assert.Contains(t, ansi.Strip(m.View()), "page 9/10")
}

func TestModelIgnoresPagesOutOfRange(t *testing.T) {
	app := newTestApp(t, sampleItems(25), nil)
	model := newModel(context.Background(), app.App)
	var m tea.Model = model
	m, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = drain(t, m, m.Init())

	m = press(t, m, "7")
	assert.Equal(t, 1, model.ctrl.Store().Page())

	m = press(t, m, "]", "right", "4")
	assert.Equal(t, 3, model.ctrl.Store().Page())
	assert.Contains(t, ansi.Strip(m.View()), "Story 24")
}

func TestInitWritesConfig(t *testing.T) {
	app := newTestApp(t, nil, nil)
	app.ConfigPath = filepath.Join(t.TempDir(), "scrapeview.toml")
	app.Config.Locale = "fr"

	require.NoError(t, (&InitCmd{}).Run(app.App))
	assert.Contains(t, app.out.String(), "Wrote")

	cfg, err := config.Load(app.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, app.Config.Server, cfg.Server)
	assert.Equal(t, "fr", cfg.Locale)

	assert.Error(t, (&InitCmd{}).Run(app.App))
	assert.NoError(t, (&InitCmd{Force: true}).Run(app.App))
}
