package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/scrapeview/pkg/common"
	"github.com/go-scripts/scrapeview/pkg/controller"
)

// Define common styles
var (
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			PaddingLeft(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Mode is what currently receives key presses
type Mode int

const (
	ModeTable Mode = iota
	ModeURL
	ModeSearch
	ModeExport
)

const helpText = "u url • / search • s sort • c clear search • d delete • x clear all • e export • ←/→ 1-9 [ ] page • esc dismiss • q quit"

// chrome is the number of lines drawn around the table
const chrome = 11

// Options sizes and tunes the layout
type Options struct {
	NarrowWidth int
	TruncateAt  int
	ToastTTL    time.Duration
	Formats     []string
}

// Layout manager. It is the controller's renderer, notifier and loader.
type Layout struct {
	table       *ResultsTable
	pager       *PagerBar
	toasts      *ToastPanel
	status      *StatusBar
	picker      *ExportPicker
	urlInput    textinput.Model
	searchInput textinput.Model
	mode        Mode
	snap        controller.Snapshot
	pending     []tea.Cmd
	width       int
	height      int
}

// NewLayout creates and initializes a new layout with all panels
func NewLayout(opts Options) *Layout {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = common.ExportFormats
	}

	url := textinput.New()
	url.Prompt = "URL: "
	url.Placeholder = "https://example.com/blog"
	url.CharLimit = 2048

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title or url"
	search.CharLimit = 256

	return &Layout{
		table:       NewResultsTable(opts.NarrowWidth, opts.TruncateAt),
		pager:       NewPagerBar(),
		toasts:      NewToastPanel(opts.ToastTTL),
		status:      NewStatusBar(),
		picker:      NewExportPicker(formats),
		urlInput:    url,
		searchInput: search,
		snap:        controller.Snapshot{Page: 1, TotalPages: 1, Sort: common.SortDefault},
	}
}

// Render implements controller.Renderer
func (l *Layout) Render(snap controller.Snapshot) {
	l.snap = snap
	l.table.SetRows(snap.Rows)
	l.pager.SetButtons(snap.Buttons, snap.Page, snap.TotalPages)
	l.status.SetSnapshot(snap)
	if l.mode != ModeSearch {
		l.searchInput.SetValue(snap.Search)
	}
	if l.mode != ModeURL {
		l.urlInput.SetValue(snap.URL)
	}
}

// Notify implements controller.Notifier
func (l *Layout) Notify(n controller.Notification) {
	l.pending = append(l.pending, l.toasts.Push(n))
}

// SetLoading implements controller.Loader
func (l *Layout) SetLoading(on bool) {
	if cmd := l.status.SetLoading(on); cmd != nil {
		l.pending = append(l.pending, cmd)
	}
}

// Flush returns the commands queued by Notify and SetLoading
func (l *Layout) Flush() tea.Cmd {
	cmds := l.pending
	l.pending = nil
	return tea.Batch(cmds...)
}

// Mode returns what has keyboard focus
func (l *Layout) Mode() Mode {
	return l.mode
}

// Focus hands the keyboard to mode
func (l *Layout) Focus(mode Mode) tea.Cmd {
	l.urlInput.Blur()
	l.searchInput.Blur()
	l.mode = mode
	switch mode {
	case ModeURL:
		l.urlInput.CursorEnd()
		return l.urlInput.Focus()
	case ModeSearch:
		l.searchInput.CursorEnd()
		return l.searchInput.Focus()
	}
	return nil
}

// Blur returns the keyboard to the table
func (l *Layout) Blur() {
	l.Focus(ModeTable)
}

// URLValue returns the URL input text
func (l *Layout) URLValue() string {
	return l.urlInput.Value()
}

// SearchValue returns the search input text
func (l *Layout) SearchValue() string {
	return l.searchInput.Value()
}

// Selected returns the table row under the cursor
func (l *Layout) Selected() (controller.Row, bool) {
	return l.table.Selected()
}

// SelectedFormat returns the highlighted export format
func (l *Layout) SelectedFormat() string {
	return l.picker.Selected()
}

// DismissToast drops the newest toast
func (l *Layout) DismissToast() bool {
	return l.toasts.Dismiss()
}

// Snapshot returns the last rendered snapshot
func (l *Layout) Snapshot() controller.Snapshot {
	return l.snap
}

// Toasts returns the toast panel
func (l *Layout) Toasts() *ToastPanel {
	return l.toasts
}

// Loading reports whether the loading indicator is showing
func (l *Layout) Loading() bool {
	return l.status.Loading()
}

// SetSize adjusts the layout and all components to the given dimensions
func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height

	inner := max(20, width-4)
	body := max(3, height-chrome)
	l.table.SetSize(inner, body)
	l.picker.SetSize(inner, body)
	l.pager.SetSize(width)
	l.status.SetSize(width)
	l.toasts.SetSize(width)
	l.urlInput.Width = max(10, width-len(l.urlInput.Prompt)-2)
	l.searchInput.Width = max(10, width/2-len(l.searchInput.Prompt))
}

// Init starts the cursor blink
func (l *Layout) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes messages and updates components
func (l *Layout) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.SetSize(msg.Width, msg.Height)
		return l, nil
	case ExpireToastsMsg:
		return l, l.toasts.Update(msg)
	case spinner.TickMsg:
		return l, l.status.Update(msg)
	}

	switch l.mode {
	case ModeURL:
		l.urlInput, cmd = l.urlInput.Update(msg)
	case ModeSearch:
		l.searchInput, cmd = l.searchInput.Update(msg)
	case ModeExport:
		cmd = l.picker.Update(msg)
	default:
		cmd = l.table.Update(msg)
	}
	return l, cmd
}

// View renders the complete layout
func (l *Layout) View() string {
	body := l.table.View()
	if l.mode == ModeExport {
		body = l.picker.View()
	}
	box := borderStyle.Width(max(20, l.width-2)).Render(body)

	sections := []string{
		titleStyle.Render("scrapeview"),
		l.urlInput.View(),
		l.searchInput.View(),
		box,
	}
	if pager := l.pager.View(); pager != "" {
		sections = append(sections, pager)
	}
	sections = append(sections, l.status.View())
	if toasts := l.toasts.View(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, helpStyle.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
