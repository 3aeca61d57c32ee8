// Package controller keeps the table's DataStore in step with the backend.
//
// Every user action is a method returning a tea.Cmd that performs the
// request off the UI goroutine. The command's result message is handed back
// to Apply, which reconciles the store, re-renders and notifies. Only Apply
// and the synchronous methods touch the store, so a driver that calls them
// from a single goroutine (the bubbletea loop, or a plain CLI) needs no
// locking.
package controller

import (
	"context"
	"errors"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/scrapeview/pkg/backend"
	"github.com/go-scripts/scrapeview/pkg/common"
	"github.com/go-scripts/scrapeview/pkg/navigate"
	"github.com/go-scripts/scrapeview/pkg/paginate"
	"github.com/go-scripts/scrapeview/pkg/store"
	"github.com/go-scripts/scrapeview/pkg/view"
)

var (
	// ErrInvalidURL is reported when a submitted URL lacks an http(s) scheme
	ErrInvalidURL = errors.New("url must start with http:// or https://")
	// ErrNoData is reported when exporting an empty dataset
	ErrNoData = errors.New("no data to export")
	// ErrDeletePending is reported when a delete is requested while another
	// one is still in flight
	ErrDeletePending = errors.New("delete already in progress")
)

// user-facing notification texts
const (
	msgInvalidURL    = "Please enter a valid URL starting with http:// or https://"
	msgNoData        = "No data to export"
	msgDeletePending = "Another delete is still in progress"
	msgScraped       = "Data scraped successfully!"
	msgScrapeFailed  = "Failed to scrape data"
	msgLoadFailed    = "Failed to load data"
	msgDeleted       = "Item deleted successfully"
	msgDeleteFailed  = "Failed to delete item"
	msgCleared       = "Data cleared successfully"
	msgClearFailed   = "Failed to clear data"
)

// Backend is the server contract the controller depends on
type Backend interface {
	Scrape(ctx context.Context, target string) ([]common.Item, error)
	Fetch(ctx context.Context) ([]common.Item, error)
	Delete(ctx context.Context, pos int) error
	Refresh(ctx context.Context) error
	ExportURL(format string) string
}

// Options wires a Controller to its collaborators. Nil sinks are ignored.
type Options struct {
	Backend   Backend
	Navigator navigate.Navigator
	Notifier  Notifier
	Loader    Loader
	Renderer  Renderer
	Logger    *log.Logger
	Locale    string
}

// action classes for request sequencing
type class int

const (
	classScrape class = iota
	classQuery
	classDelete
	classRefresh
	numClasses
)

func (cl class) String() string {
	switch cl {
	case classScrape:
		return "scrape"
	case classQuery:
		return "query"
	case classDelete:
		return "delete"
	case classRefresh:
		return "refresh"
	}
	return "unknown"
}

// Controller orchestrates backend calls and owns the DataStore
type Controller struct {
	ctx     context.Context
	backend Backend
	nav     navigate.Navigator
	notify  Notifier
	loader  Loader
	render  Renderer
	log     *log.Logger
	engine  view.Engine
	store   *store.Store

	seq       [numClasses]uint64
	queryDone uint64
	gen       uint64
	scraping  int
	deleting bool

	search string
	sort   common.SortMode
	url    string
}

// New creates a Controller with an empty store. ctx bounds every request.
func New(ctx context.Context, opts Options) *Controller {
	c := &Controller{
		ctx:     ctx,
		backend: opts.Backend,
		nav:     opts.Navigator,
		notify:  opts.Notifier,
		loader:  opts.Loader,
		render:  opts.Renderer,
		log:     opts.Logger,
		engine:  view.Engine{Locale: opts.Locale},
		store:   store.New(),
		sort:    common.SortDefault,
	}
	if c.notify == nil {
		c.notify = NotifierFunc(func(Notification) {})
	}
	if c.loader == nil {
		c.loader = LoaderFunc(func(bool) {})
	}
	if c.render == nil {
		c.render = RendererFunc(func(Snapshot) {})
	}
	if c.log == nil {
		c.log = log.Default()
	}
	return c
}

// Store exposes the DataStore for read-only inspection
func (c *Controller) Store() *store.Store { return c.store }

// Inputs returns the current search text, sort mode and submitted URL
func (c *Controller) Inputs() (string, common.SortMode, string) {
	return c.search, c.sort, c.url
}

func (c *Controller) next(cl class) uint64 {
	c.seq[cl]++
	return c.seq[cl]
}

func (c *Controller) stale(cl class, seq uint64) bool {
	if seq != c.seq[cl] {
		c.log.Debug("Dropping stale response", "class", cl, "seq", seq, "latest", c.seq[cl])
		return true
	}
	return false
}

// ValidURL reports whether target carries an explicit http or https scheme
func ValidURL(target string) bool {
	lower := strings.ToLower(target)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	u, err := url.Parse(target)
	return err == nil && u.Host != ""
}

// Submit asks the backend to scrape target. Invalid URLs are rejected
// before any request is made and a nil command is returned.
func (c *Controller) Submit(target string) tea.Cmd {
	target = strings.TrimSpace(target)
	if !ValidURL(target) {
		c.notifyErr(msgInvalidURL, ErrInvalidURL)
		return nil
	}
	c.url = target
	seq := c.next(classScrape)
	c.scraping++
	if c.scraping == 1 {
		c.loader.SetLoading(true)
	}
	c.log.Info("Scraping", "url", target, "seq", seq)

	ctx, be := c.ctx, c.backend
	return func() tea.Msg {
		items, err := be.Scrape(ctx, target)
		return ScrapedMsg{seq: seq, Target: target, Items: items, Err: err}
	}
}

// Query re-fetches the authoritative dataset and shows the items matching
// term in mode order. Search, sort and clear-search all land here.
func (c *Controller) Query(term string, mode common.SortMode) tea.Cmd {
	c.search, c.sort = term, mode
	seq := c.next(classQuery)
	gen := c.gen
	c.log.Debug("Querying", "search", term, "sort", mode, "seq", seq)

	ctx, be := c.ctx, c.backend
	return func() tea.Msg {
		items, err := be.Fetch(ctx)
		return FetchedMsg{seq: seq, gen: gen, Term: term, Mode: mode, Items: items, Err: err}
	}
}

// ClearSearch resets the search text and sort mode, then re-queries
func (c *Controller) ClearSearch() tea.Cmd {
	return c.Query("", common.SortDefault)
}

// Delete removes the row at absolute index abs once the backend confirms.
// The request names the row's backend position, not its position in a
// filtered or sorted view.
func (c *Controller) Delete(abs int) tea.Cmd {
	if c.deleting {
		c.notify.Notify(Notification{Level: LevelInfo, Message: msgDeletePending, Err: ErrDeletePending})
		return nil
	}
	e, err := c.store.At(abs)
	if err != nil {
		c.notifyErr(msgDeleteFailed, err)
		return nil
	}
	c.deleting = true
	seq := c.next(classDelete)
	gen := c.gen
	c.log.Info("Deleting", "index", abs, "pos", e.Pos, "title", e.Title)

	ctx, be := c.ctx, c.backend
	return func() tea.Msg {
		err := be.Delete(ctx, e.Pos)
		return DeletedMsg{seq: seq, gen: gen, Index: abs, Pos: e.Pos, Err: err}
	}
}

// Refresh clears the backend dataset and, once confirmed, the local view
// and all input controls
func (c *Controller) Refresh() tea.Cmd {
	seq := c.next(classRefresh)
	c.log.Info("Clearing data", "seq", seq)

	ctx, be := c.ctx, c.backend
	return func() tea.Msg {
		return RefreshedMsg{seq: seq, Err: be.Refresh(ctx)}
	}
}

// Export navigates to the backend's export address for format. It refuses
// when there is nothing to export.
func (c *Controller) Export(format string) tea.Cmd {
	if c.store.SourceLen() == 0 {
		c.notifyErr(msgNoData, ErrNoData)
		return nil
	}
	target := c.backend.ExportURL(format)
	c.log.Info("Exporting", "format", format, "url", target)

	ctx, nav := c.ctx, c.nav
	return func() tea.Msg {
		if nav == nil {
			return ExportedMsg{Format: format, Err: errors.New("no navigator configured")}
		}
		path, err := nav.Navigate(ctx, target)
		return ExportedMsg{Format: format, Path: path, Err: err}
	}
}

// ChangePage moves to target and re-renders. Targets outside
// [1, TotalPages] change nothing and render nothing.
func (c *Controller) ChangePage(target int) bool {
	if !c.store.SetPage(target) {
		return false
	}
	c.Render()
	return true
}

// Apply reconciles the store with a command result. It may return a
// follow-up command.
func (c *Controller) Apply(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ScrapedMsg:
		c.applyScraped(msg)
	case FetchedMsg:
		c.applyFetched(msg)
	case DeletedMsg:
		return c.applyDeleted(msg)
	case RefreshedMsg:
		c.applyRefreshed(msg)
	case ExportedMsg:
		if msg.Err != nil {
			c.log.Error("Export failed", "format", msg.Format, "err", msg.Err)
		} else {
			c.log.Info("Export saved", "format", msg.Format, "path", msg.Path)
		}
	}
	return nil
}

func (c *Controller) applyScraped(msg ScrapedMsg) {
	c.scraping--
	if c.scraping <= 0 {
		c.scraping = 0
		c.loader.SetLoading(false)
	}
	if c.stale(classScrape, msg.seq) {
		return
	}
	if msg.Err != nil {
		c.log.Error("Scrape failed", "url", msg.Target, "err", msg.Err)
		c.notifyErr(serverMessage(msg.Err, msgScrapeFailed), msg.Err)
		return
	}
	c.store.Replace(msg.Items)
	c.gen++
	c.Render()
	c.notify.Notify(Notification{Level: LevelSuccess, Message: msgScraped})
}

func (c *Controller) applyFetched(msg FetchedMsg) {
	if c.stale(classQuery, msg.seq) {
		return
	}
	c.queryDone = msg.seq
	if msg.gen != c.gen {
		c.log.Debug("Dropping query issued before the dataset changed", "seq", msg.seq)
		return
	}
	if msg.Err != nil {
		c.log.Error("Fetch failed", "err", msg.Err)
		c.notifyErr(serverMessage(msg.Err, msgLoadFailed), msg.Err)
		return
	}
	if msg.Term == "" && msg.Mode == common.SortDefault {
		c.store.Replace(msg.Items)
	} else if err := c.store.Derive(msg.Items, c.engine.Select(msg.Items, msg.Term, msg.Mode)); err != nil {
		c.notifyErr(msgLoadFailed, err)
		return
	}
	c.gen++
	c.Render()
}

func (c *Controller) applyDeleted(msg DeletedMsg) tea.Cmd {
	c.deleting = false
	if c.stale(classDelete, msg.seq) {
		return nil
	}
	if msg.Err != nil {
		c.log.Error("Delete failed", "index", msg.Index, "pos", msg.Pos, "err", msg.Err)
		c.notifyErr(serverMessage(msg.Err, msgDeleteFailed), msg.Err)
		return nil
	}
	if msg.gen != c.gen {
		// the dataset was replaced while the delete was in flight, so
		// msg.Index no longer names the deleted row
		c.log.Warn("Dataset changed during delete, re-fetching", "pos", msg.Pos)
		c.notify.Notify(Notification{Level: LevelSuccess, Message: msgDeleted})
		return c.Query(c.search, c.sort)
	}
	if _, err := c.store.Remove(msg.Index); err != nil {
		c.notifyErr(msgDeleteFailed, err)
		return nil
	}
	// positions shifted, so fetches issued before the delete are void
	c.gen++
	c.Render()
	c.notify.Notify(Notification{Level: LevelSuccess, Message: msgDeleted})
	if c.queryDone != c.seq[classQuery] {
		c.log.Debug("Re-issuing query outstanding across delete", "seq", c.seq[classQuery])
		return c.Query(c.search, c.sort)
	}
	return nil
}

func (c *Controller) applyRefreshed(msg RefreshedMsg) {
	if c.stale(classRefresh, msg.seq) {
		return
	}
	if msg.Err != nil {
		c.log.Error("Clear failed", "err", msg.Err)
		c.notifyErr(msgClearFailed, msg.Err)
		return
	}
	c.store.Clear()
	c.gen++
	c.search, c.sort, c.url = "", common.SortDefault, ""
	c.Render()
	c.notify.Notify(Notification{Level: LevelSuccess, Message: msgCleared})
}

// Render pushes the current window to the renderer
func (c *Controller) Render() {
	c.render.Render(c.Snapshot())
}

// Snapshot describes what the table should currently show
func (c *Controller) Snapshot() Snapshot {
	entries, start := c.store.Window()
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Index: start + i, Item: e.Item}
	}
	return Snapshot{
		Rows:        rows,
		Buttons:     paginate.ButtonsFor(c.store.Len(), paginate.PageSize, c.store.Page()),
		Page:        c.store.Page(),
		TotalPages:  c.store.TotalPages(),
		Total:       c.store.Len(),
		SourceTotal: c.store.SourceLen(),
		Origin:      c.store.Origin(),
		Search:      c.search,
		Sort:        c.sort,
		URL:         c.url,
	}
}

func (c *Controller) notifyErr(message string, err error) {
	c.notify.Notify(Notification{Level: LevelError, Message: message, Err: err})
}

// serverMessage prefers the backend's own error text over fallback
func serverMessage(err error, fallback string) string {
	var berr *backend.Error
	if errors.As(err, &berr) && berr.Message != "" {
		return berr.Message
	}
	return fallback
}
