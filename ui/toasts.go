package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/scrapeview/internal/queue"
	"github.com/go-scripts/scrapeview/pkg/controller"
)

// ExpireToastsMsg asks the toast panel to drop toasts that are due
type ExpireToastsMsg struct {
	Time time.Time
}

// Styles for toast levels
var (
	errorToastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successToastStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	infoToastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true)
)

// ToastPanel shows notifications until they expire or are dismissed
type ToastPanel struct {
	queue *queue.Queue
	width int
	now   func() time.Time
}

// NewToastPanel creates a panel whose toasts live for ttl
func NewToastPanel(ttl time.Duration) *ToastPanel {
	return &ToastPanel{
		queue: queue.New(ttl, 5),
		now:   time.Now,
	}
}

// SetSize updates the panel width
func (p *ToastPanel) SetSize(width int) {
	p.width = width
}

// Push shows n and returns the command that expires it
func (p *ToastPanel) Push(n controller.Notification) tea.Cmd {
	p.queue.Push(n, p.now())
	return tea.Tick(p.queue.TTL(), func(t time.Time) tea.Msg {
		return ExpireToastsMsg{Time: t}
	})
}

// Dismiss drops the newest toast
func (p *ToastPanel) Dismiss() bool {
	toasts := p.queue.Toasts()
	if len(toasts) == 0 {
		return false
	}
	return p.queue.Dismiss(toasts[len(toasts)-1].ID)
}

// Toasts returns the visible toasts, oldest first
func (p *ToastPanel) Toasts() []queue.Toast {
	return p.queue.Toasts()
}

// Update handles expiry
func (p *ToastPanel) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ExpireToastsMsg); ok {
		p.queue.Expire(msg.Time)
	}
	return nil
}

func levelLabel(l controller.Level) string {
	switch l {
	case controller.LevelError:
		return "ERROR"
	case controller.LevelSuccess:
		return "OK"
	default:
		return "INFO"
	}
}

// View renders the toasts, newest last
func (p *ToastPanel) View() string {
	toasts := p.queue.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, t := range toasts {
		var style lipgloss.Style
		switch t.Level {
		case controller.LevelError:
			style = errorToastStyle
		case controller.LevelSuccess:
			style = successToastStyle
		default:
			style = infoToastStyle
		}
		shown := t.Expires.Add(-p.queue.TTL())
		sb.WriteString(timestampStyle.Render(shown.Format("15:04:05")))
		sb.WriteString(" ")
		sb.WriteString(style.Render("[" + levelLabel(t.Level) + "] " + t.Message))
		if i < len(toasts)-1 {
			sb.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Width(p.width).Render(sb.String())
}
