// Package progress shows a terminal spinner while backend requests run.
package progress

import (
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner is a controller.Loader for line-oriented output. It only animates
// when out is a terminal.
type Spinner struct {
	s       *spinner.Spinner
	active  bool
	message string
	mu      sync.Mutex
}

// New creates a Spinner writing to out with message after the glyph
func New(out io.Writer, message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message
	return &Spinner{s: s, message: message}
}

// SetLoading starts or stops the spinner. Repeated calls with the same
// value do nothing.
func (p *Spinner) SetLoading(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if on == p.active {
		return
	}
	p.active = on
	if on {
		p.s.Start()
	} else {
		p.s.Stop()
	}
}

// Loading reports whether a request is outstanding
func (p *Spinner) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// SetTarget names the URL being worked on in the spinner suffix
func (p *Spinner) SetTarget(target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Lock()
	p.s.Suffix = " " + p.message + " " + ShortURL(target, 40)
	p.s.Unlock()
}

// ShortURL shortens target to at most width characters, keeping the host
// and the end of the path
func ShortURL(target string, width int) string {
	if len(target) <= width {
		return target
	}
	u, err := url.Parse(target)
	if err == nil && u.Host != "" {
		path := u.Path
		if room := width - len(u.Host) - 3; room > 0 && len(path) > room {
			path = "..." + path[len(path)-room:]
		}
		return u.Host + path
	}
	return "..." + target[len(target)-width:]
}
