package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/go-scripts/scrapeview/internal/progress"
	"github.com/go-scripts/scrapeview/pkg/common"
	"github.com/go-scripts/scrapeview/pkg/config"
	"github.com/go-scripts/scrapeview/pkg/controller"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// session drives a controller synchronously for one CLI command. It prints
// notifications as they arrive and keeps the last snapshot for printing.
type session struct {
	app     *App
	ctrl    *controller.Controller
	spinner *progress.Spinner
	snap    controller.Snapshot
	failure error
}

func newSession(app *App) *session {
	s := &session{
		app:     app,
		spinner: progress.New(app.Err, "Scraping"),
	}
	s.ctrl = app.controller(context.Background(), s, s.spinner, s)
	return s
}

// Notify implements controller.Notifier
func (s *session) Notify(n controller.Notification) {
	switch n.Level {
	case controller.LevelError:
		fmt.Fprintln(s.app.Err, failStyle.Render("✗ "+n.Message))
		s.failure = errors.New(n.Message)
		if n.Err != nil {
			s.failure = fmt.Errorf("%s: %w", n.Message, n.Err)
		}
	case controller.LevelSuccess:
		fmt.Fprintln(s.app.Err, okStyle.Render("✓ "+n.Message))
	default:
		fmt.Fprintln(s.app.Err, n.Message)
	}
}

// Render implements controller.Renderer
func (s *session) Render(snap controller.Snapshot) {
	s.snap = snap
}

// run executes cmd and every follow-up it produces on this goroutine
// and returns the last error notified since the previous run
func (s *session) run(cmd tea.Cmd) error {
	for cmd != nil {
		cmd = s.ctrl.Apply(cmd())
	}
	err := s.failure
	s.failure = nil
	return err
}

// query loads the dataset in the given view
func (s *session) query(search, sort string) error {
	mode, err := common.ParseSortMode(sort)
	if err != nil {
		return err
	}
	return s.run(s.ctrl.Query(search, mode))
}

// printTable writes the current page as a table
func printTable(w io.Writer, snap controller.Snapshot) {
	if snap.Total == 0 {
		fmt.Fprintln(w, "No data.")
		return
	}
	rows := make([][]string, len(snap.Rows))
	for i, r := range snap.Rows {
		rows[i] = []string{strconv.Itoa(r.Index), r.Item.Title, r.Item.URL, r.Item.Date}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("63"))).
		Headers("#", "Title", "URL", "Date").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Page %d of %d, %d items", snap.Page, snap.TotalPages, snap.Total)
	if snap.SourceTotal != snap.Total {
		fmt.Fprintf(w, " (%d before filtering)", snap.SourceTotal)
	}
	fmt.Fprintln(w)
}

// ScrapeCmd scrapes a URL
type ScrapeCmd struct {
	URL string `arg:"" help:"Page to scrape (http or https)."`
}

func (c *ScrapeCmd) Run(app *App) error {
	s := newSession(app)
	s.spinner.SetTarget(c.URL)
	if err := s.run(s.ctrl.Submit(c.URL)); err != nil {
		return err
	}
	printTable(app.Out, s.snap)
	return nil
}

// ListCmd prints one page of the filtered and sorted dataset
type ListCmd struct {
	Search string `help:"Only rows whose title or url contains this text." short:"q"`
	Sort   string `help:"Row order." enum:"default,title,date" default:"default"`
	Page   int    `help:"Page to print." default:"1" short:"p"`
}

func (c *ListCmd) Run(app *App) error {
	s := newSession(app)
	if err := s.query(c.Search, c.Sort); err != nil {
		return err
	}
	if c.Page != s.snap.Page && !s.ctrl.ChangePage(c.Page) {
		return fmt.Errorf("page %d out of range [1, %d]", c.Page, s.snap.TotalPages)
	}
	printTable(app.Out, s.snap)
	return nil
}

// DeleteCmd deletes one row. Index is the row's position in the order
// list prints with the same search and sort.
type DeleteCmd struct {
	Index  int    `arg:"" help:"Row index as shown by list."`
	Search string `help:"Search the index refers to." short:"q"`
	Sort   string `help:"Sort the index refers to." enum:"default,title,date" default:"default"`
}

func (c *DeleteCmd) Run(app *App) error {
	s := newSession(app)
	if err := s.query(c.Search, c.Sort); err != nil {
		return err
	}
	if err := s.run(s.ctrl.Delete(c.Index)); err != nil {
		return err
	}
	printTable(app.Out, s.snap)
	return nil
}

// ClearCmd clears the dataset
type ClearCmd struct{}

func (c *ClearCmd) Run(app *App) error {
	s := newSession(app)
	return s.run(s.ctrl.Refresh())
}

// ExportCmd saves the dataset through the configured navigator
type ExportCmd struct {
	Format string `arg:"" help:"Export format." enum:"csv,json"`
}

func (c *ExportCmd) Run(app *App) error {
	s := newSession(app)
	if err := s.query("", string(common.SortDefault)); err != nil {
		return err
	}
	cmd := s.ctrl.Export(c.Format)
	if cmd == nil {
		return s.failure
	}
	msg, ok := cmd().(controller.ExportedMsg)
	if !ok {
		return errors.New("unexpected export result")
	}
	s.ctrl.Apply(msg)
	if msg.Err != nil {
		return fmt.Errorf("export %s: %w", c.Format, msg.Err)
	}
	fmt.Fprintln(app.Out, msg.Path)
	return nil
}

// InitCmd writes the configuration in effect, flag overrides included
type InitCmd struct {
	Force bool `help:"Overwrite an existing file" short:"f"`
}

func (c *InitCmd) Run(app *App) error {
	if app.ConfigPath == "" {
		return errors.New("no config path given")
	}
	if _, err := os.Stat(app.ConfigPath); err == nil && !c.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", app.ConfigPath)
	}
	if err := config.Save(app.ConfigPath, app.Config); err != nil {
		return err
	}
	fmt.Fprintln(app.Out, okStyle.Render("✓ Wrote "+app.ConfigPath))
	return nil
}
