package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/scrapeview/pkg/paginate"
)

// PagerBar draws the pagination controls under the table
type PagerBar struct {
	buttons       []paginate.Button
	page          int
	totalPages    int
	width         int
	buttonStyle   lipgloss.Style
	activeStyle   lipgloss.Style
	disabledStyle lipgloss.Style
}

// NewPagerBar creates an empty pager
func NewPagerBar() *PagerBar {
	return &PagerBar{
		page:       1,
		totalPages: 1,
		buttonStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		activeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("63")).
			Bold(true).
			Padding(0, 1),
		disabledStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// SetButtons replaces the controls
func (p *PagerBar) SetButtons(buttons []paginate.Button, page, totalPages int) {
	p.buttons = buttons
	p.page = page
	p.totalPages = totalPages
}

// SetSize updates the bar width
func (p *PagerBar) SetSize(width int) {
	p.width = width
}

func (p *PagerBar) label(b paginate.Button) string {
	switch b.Kind {
	case paginate.KindPrev:
		return "‹"
	case paginate.KindNext:
		return "›"
	case paginate.KindEllipsis:
		return "…"
	}
	return strconv.Itoa(b.Page)
}

// View renders the controls, or nothing when there is a single page
func (p *PagerBar) View() string {
	if len(p.buttons) == 0 {
		return ""
	}
	cells := make([]string, len(p.buttons))
	for i, b := range p.buttons {
		style := p.buttonStyle
		switch {
		case b.Disabled || b.Kind == paginate.KindEllipsis:
			style = p.disabledStyle
		case b.Active:
			style = p.activeStyle
		}
		cells[i] = style.Render(p.label(b))
	}
	bar := strings.Join(cells, "")
	hint := infoStyle.Render(fmt.Sprintf("  page %d/%d  (←/→, 1-9, [ ])", p.page, p.totalPages))
	return lipgloss.NewStyle().Width(p.width).Align(lipgloss.Center).Render(bar + hint)
}
