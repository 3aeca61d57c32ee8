package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/go-scripts/scrapeview/pkg/controller"
)

const (
	dateWidth   = 12
	actionWidth = 5
	ellipsis    = "…"
)

// ResultsTable shows the rows of the current page. URL cells are terminal
// hyperlinks and the action column deletes the selected row.
type ResultsTable struct {
	viewport      viewport.Model
	rows          []controller.Row
	cursor        int
	width         int
	height        int
	narrowWidth   int
	truncateAt    int
	headerStyle   lipgloss.Style
	cellStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	linkStyle     lipgloss.Style
	actionStyle   lipgloss.Style
	tooltipStyle  lipgloss.Style
}

// NewResultsTable creates a table that shortens long cells once the
// terminal is narrower than narrowWidth
func NewResultsTable(narrowWidth, truncateAt int) *ResultsTable {
	t := &ResultsTable{
		narrowWidth: narrowWidth,
		truncateAt:  truncateAt,
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		cellStyle: lipgloss.NewStyle(),
		selectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Bold(true),
		linkStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true),
		actionStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		tooltipStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Italic(true),
	}
	t.viewport = viewport.New(0, 0)
	return t
}

// SetSize updates the table dimensions
func (t *ResultsTable) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = max(1, height-2)
}

// SetRows replaces the visible rows, keeping the cursor in range
func (t *ResultsTable) SetRows(rows []controller.Row) {
	t.rows = rows
	if t.cursor >= len(rows) {
		t.cursor = len(rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// Rows returns the visible rows
func (t *ResultsTable) Rows() []controller.Row {
	return t.rows
}

// Selected returns the row under the cursor
func (t *ResultsTable) Selected() (controller.Row, bool) {
	if len(t.rows) == 0 {
		return controller.Row{}, false
	}
	return t.rows[t.cursor], true
}

// Narrow reports whether long cells are being shortened
func (t *ResultsTable) Narrow() bool {
	return t.narrowWidth > 0 && t.width > 0 && t.width < t.narrowWidth
}

// Update moves the cursor
func (t *ResultsTable) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if t.cursor > 0 {
				t.cursor--
			}
		case "down", "j":
			if t.cursor < len(t.rows)-1 {
				t.cursor++
			}
		case "home", "g":
			t.cursor = 0
		case "end", "G":
			t.cursor = max(0, len(t.rows)-1)
		}
	}
	return nil
}

// shorten applies the narrow-screen truncation pass to one cell
func (t *ResultsTable) shorten(s string) (string, bool) {
	if !t.Narrow() || t.truncateAt <= 0 || ansi.StringWidth(s) <= t.truncateAt {
		return s, false
	}
	return ansi.Truncate(s, t.truncateAt, ellipsis), true
}

// Tooltip returns the full text of the selected row's shortened cells,
// or "" when nothing on it was shortened
func (t *ResultsTable) Tooltip() string {
	row, ok := t.Selected()
	if !ok {
		return ""
	}
	var parts []string
	for _, s := range []string{row.Item.Title, row.Item.URL, row.Item.Date} {
		if _, cut := t.shorten(s); cut {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}

func (t *ResultsTable) columns() (title, url int) {
	avail := t.width - dateWidth - actionWidth - 3
	if avail < 20 {
		avail = 20
	}
	title = avail * 45 / 100
	return title, avail - title
}

// fit truncates s to w cells and pads it to exactly w
func fit(s string, w int) string {
	s = ansi.Truncate(s, w, ellipsis)
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// link wraps text in an OSC 8 hyperlink to target
func link(target, text string) string {
	return ansi.SetHyperlink(target) + text + ansi.ResetHyperlink()
}

func (t *ResultsTable) renderRow(row controller.Row, selected bool, titleW, urlW int) string {
	title, _ := t.shorten(row.Item.Title)
	target, _ := t.shorten(row.Item.URL)
	date, _ := t.shorten(row.Item.Date)

	style := t.cellStyle
	if selected {
		style = t.selectedStyle
	}
	urlText := fit(target, urlW)
	cells := []string{
		style.Render(fit(title, titleW)),
		link(row.Item.URL, t.linkStyle.Render(urlText)),
		style.Render(fit(date, dateWidth)),
		t.actionStyle.Render(fit("[del]", actionWidth)),
	}
	return strings.Join(cells, " ")
}

// View renders the table
func (t *ResultsTable) View() string {
	if len(t.rows) == 0 {
		return infoStyle.Render("No data. Press u to scrape a URL.")
	}

	titleW, urlW := t.columns()
	header := t.headerStyle.Render(strings.Join([]string{
		fit("Title", titleW),
		fit("URL", urlW),
		fit("Date", dateWidth),
		fit("", actionWidth),
	}, " "))

	lines := make([]string, len(t.rows))
	for i, row := range t.rows {
		lines[i] = t.renderRow(row, i == t.cursor, titleW, urlW)
	}
	t.viewport.SetContent(strings.Join(lines, "\n"))
	if t.cursor < t.viewport.YOffset {
		t.viewport.SetYOffset(t.cursor)
	} else if t.viewport.Height > 0 && t.cursor >= t.viewport.YOffset+t.viewport.Height {
		t.viewport.SetYOffset(t.cursor - t.viewport.Height + 1)
	}

	view := header + "\n" + t.viewport.View()
	if tip := t.Tooltip(); tip != "" {
		view += "\n" + t.tooltipStyle.Render(tip)
	}
	return view
}
