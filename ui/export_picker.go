package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FormatItem is one export format in the picker
type FormatItem struct {
	format string
}

// FilterValue implements list.Item interface
func (i FormatItem) FilterValue() string { return i.format }

// Title returns the item's title
func (i FormatItem) Title() string { return strings.ToUpper(i.format) }

// Description returns the item's description
func (i FormatItem) Description() string {
	switch i.format {
	case "csv":
		return "Comma separated values, one row per item"
	case "json":
		return "JSON array of {title, url, date}"
	}
	return "Export as " + i.format
}

// ExportPicker lets the user choose an export format
type ExportPicker struct {
	list   list.Model
	width  int
	height int
}

// NewExportPicker creates a picker offering formats
func NewExportPicker(formats []string) *ExportPicker {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("170"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("244"))

	items := make([]list.Item, len(formats))
	for i, f := range formats {
		items[i] = FormatItem{format: f}
	}
	l := list.New(items, delegate, 0, 0)
	l.Title = "Export format (enter to export, esc to cancel)"
	l.Styles.Title = l.Styles.Title.Foreground(lipgloss.Color("240"))
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	return &ExportPicker{list: l}
}

// SetSize updates the list dimensions
func (p *ExportPicker) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.list.SetSize(width, height)
}

// Update handles navigation keys
func (p *ExportPicker) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

// Selected returns the highlighted format
func (p *ExportPicker) Selected() string {
	if item, ok := p.list.SelectedItem().(FormatItem); ok {
		return item.format
	}
	return ""
}

// View renders the component
func (p *ExportPicker) View() string {
	return p.list.View()
}
