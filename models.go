package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-scripts/scrapeview/pkg/common"
	"github.com/go-scripts/scrapeview/pkg/controller"
	"github.com/go-scripts/scrapeview/ui"
)

// TUICmd runs the interactive client
type TUICmd struct{}

func (c *TUICmd) Run(app *App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := newModel(ctx, app)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Model is the bubbletea model. Key presses become controller commands and
// command results are handed back to the controller, which redraws the
// layout through its sink interfaces.
type Model struct {
	ctrl   *controller.Controller
	layout *ui.Layout
	cancel context.CancelFunc
}

func newModel(ctx context.Context, app *App) Model {
	cfg := app.Config
	layout := ui.NewLayout(ui.Options{
		NarrowWidth: cfg.NarrowWidth,
		TruncateAt:  cfg.TruncateAt,
		ToastTTL:    cfg.ToastTTL,
		Formats:     common.ExportFormats,
	})
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		ctrl:   app.controller(ctx, layout, layout, layout),
		layout: layout,
		cancel: cancel,
	}
}

// Init loads whatever the backend already holds
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.layout.Init(),
		m.ctrl.Query("", common.SortDefault),
	)
}

// Update handles all the updates and state transitions
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Create a slice to track all commands
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case controller.ScrapedMsg, controller.FetchedMsg, controller.DeletedMsg,
		controller.RefreshedMsg, controller.ExportedMsg:
		cmds = append(cmds, m.ctrl.Apply(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		cmd, quit := m.handleKey(msg)
		if quit {
			m.cancel()
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	default:
		_, cmd := m.layout.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.layout.Flush())
	return m, tea.Batch(cmds...)
}

// handleKey routes a key press according to what has focus
func (m Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.layout.Mode() {
	case ui.ModeURL:
		switch msg.String() {
		case "enter":
			target := m.layout.URLValue()
			m.layout.Blur()
			return m.ctrl.Submit(target), false
		case "esc":
			m.layout.Blur()
			return nil, false
		}
		_, cmd := m.layout.Update(msg)
		return cmd, false

	case ui.ModeSearch:
		switch msg.String() {
		case "enter", "esc":
			m.layout.Blur()
			return nil, false
		}
		before := m.layout.SearchValue()
		_, cmd := m.layout.Update(msg)
		if after := m.layout.SearchValue(); after != before {
			_, mode, _ := m.ctrl.Inputs()
			cmd = tea.Batch(cmd, m.ctrl.Query(after, mode))
		}
		return cmd, false

	case ui.ModeExport:
		switch msg.String() {
		case "enter":
			format := m.layout.SelectedFormat()
			m.layout.Blur()
			return m.ctrl.Export(format), false
		case "esc", "q":
			m.layout.Blur()
			return nil, false
		}
		_, cmd := m.layout.Update(msg)
		return cmd, false
	}

	snap := m.layout.Snapshot()
	switch msg.String() {
	case "q":
		return nil, true
	case "u":
		return m.layout.Focus(ui.ModeURL), false
	case "/":
		return m.layout.Focus(ui.ModeSearch), false
	case "e":
		return m.layout.Focus(ui.ModeExport), false
	case "s":
		search, mode, _ := m.ctrl.Inputs()
		return m.ctrl.Query(search, mode.Next()), false
	case "c":
		return m.ctrl.ClearSearch(), false
	case "x":
		return m.ctrl.Refresh(), false
	case "d":
		if row, ok := m.layout.Selected(); ok {
			return m.ctrl.Delete(row.Index), false
		}
		return nil, false
	case "left", "h":
		m.ctrl.ChangePage(snap.Page - 1)
		return nil, false
	case "right", "l":
		m.ctrl.ChangePage(snap.Page + 1)
		return nil, false
	case "[":
		m.ctrl.ChangePage(1)
		return nil, false
	case "]":
		m.ctrl.ChangePage(snap.TotalPages)
		return nil, false
	case "esc":
		m.layout.DismissToast()
		return nil, false
	}
	if page, ok := pageKey(msg); ok {
		m.ctrl.ChangePage(page)
		return nil, false
	}
	_, cmd := m.layout.Update(msg)
	return cmd, false
}

// pageKey maps the digit keys 1-9 to page numbers
func pageKey(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// View returns a string representation of the UI
func (m Model) View() string {
	return m.layout.View()
}
