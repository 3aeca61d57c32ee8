package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/scrapeview/pkg/controller"
	"github.com/go-scripts/scrapeview/pkg/paginate"
	"github.com/go-scripts/scrapeview/pkg/store"
)

// StatusBar summarizes the dataset and shows the loading indicator
type StatusBar struct {
	snap       controller.Snapshot
	spinner    spinner.Model
	loading    bool
	width      int
	labelStyle lipgloss.Style
	valueStyle lipgloss.Style
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	return &StatusBar{
		spinner: s,
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true),
		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
	}
}

func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetSnapshot records what the table currently shows
func (s *StatusBar) SetSnapshot(snap controller.Snapshot) {
	s.snap = snap
}

// SetLoading toggles the spinner. Turning it on returns the first tick.
func (s *StatusBar) SetLoading(on bool) tea.Cmd {
	wasLoading := s.loading
	s.loading = on
	if on && !wasLoading {
		return s.spinner.Tick
	}
	return nil
}

// Loading reports whether the spinner is showing
func (s *StatusBar) Loading() bool {
	return s.loading
}

// Update advances the spinner while loading
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok || !s.loading {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

type stat struct {
	label string
	value string
}

// rangeText describes which rows of how many are visible
func rangeText(snap controller.Snapshot) string {
	if snap.Total == 0 {
		return "0 items"
	}
	w := paginate.WindowOf(snap.Total, paginate.PageSize, snap.Page)
	text := fmt.Sprintf("%d-%d of %d", w.Start+1, w.End, snap.Total)
	if snap.Origin == store.Derived && snap.SourceTotal != snap.Total {
		text += fmt.Sprintf(" (of %d)", snap.SourceTotal)
	}
	return text
}

func (s *StatusBar) View() string {
	stats := []stat{
		{"Rows", rangeText(s.snap)},
		{"Sort", string(s.snap.Sort)},
	}
	if s.snap.Search != "" {
		stats = append(stats, stat{"Search", fmt.Sprintf("%q", s.snap.Search)})
	}
	if s.snap.URL != "" {
		stats = append(stats, stat{"URL", s.snap.URL})
	}

	parts := make([]string, 0, len(stats)+1)
	if s.loading {
		parts = append(parts, s.spinner.View()+s.valueStyle.Render("Scraping..."))
	}
	for _, stat := range stats {
		parts = append(parts, s.labelStyle.Render(stat.label+":")+" "+s.valueStyle.Render(stat.value))
	}
	return lipgloss.NewStyle().Width(s.width).Render(strings.Join(parts, "  "))
}
