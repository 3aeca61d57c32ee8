// Package backendtest provides an in-memory stand-in for the scraping
// server, for tests and local runs of code that talks to it.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-scripts/scrapeview/pkg/common"
)

// Handler mimics the backend's routes over an in-memory item list
type Handler struct {
	mux      *http.ServeMux
	mu       sync.Mutex
	items    []common.Item
	pages    map[string][]common.Item
	requests []string

	// Fallback produces scrape results for URLs missing from pages.
	// Nil means such URLs are not accessible.
	Fallback func(target string) []common.Item
	// FailDelete makes /delete answer with a 500
	FailDelete bool
	// FailRefresh makes /refresh answer {"success": false}
	FailRefresh bool
}

// NewHandler creates a handler preloaded with items. Scrape results come
// from pages, keyed by the submitted URL.
func NewHandler(items []common.Item, pages map[string][]common.Item) *Handler {
	s := &Handler{
		items: append([]common.Item(nil), items...),
		pages: pages,
		mux:   http.NewServeMux(),
	}
	s.mux.HandleFunc("/scrape", s.scrape)
	s.mux.HandleFunc("/get-data", s.getData)
	s.mux.HandleFunc("/delete/", s.delete)
	s.mux.HandleFunc("/refresh", s.refresh)
	s.mux.HandleFunc("/export/", s.export)
	return s
}

// ServeHTTP records the request and dispatches it
func (s *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()
	s.mux.ServeHTTP(w, r)
}

// Server is a Handler listening on a local test address
type Server struct {
	*httptest.Server
	*Handler
}

// NewServer starts a Handler on a test server that is closed when t ends
func NewServer(t testing.TB, items []common.Item, pages map[string][]common.Item) *Server {
	h := NewHandler(items, pages)
	s := &Server{Server: httptest.NewServer(h), Handler: h}
	t.Cleanup(s.Close)
	return s
}

// Items returns a copy of the stored items
func (s *Handler) Items() []common.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]common.Item(nil), s.items...)
}

// Requests returns "METHOD /path" for every request received
func (s *Handler) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Handler) scrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	target := strings.TrimSpace(r.FormValue("url"))
	items, ok := s.pages[target]
	if !ok && s.Fallback != nil {
		items, ok = s.Fallback(target), true
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "URL is not accessible"})
		return
	}
	if len(items) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No articles found on this page."})
		return
	}
	s.mu.Lock()
	s.items = append([]common.Item(nil), items...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Handler) getData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Items())
}

func (s *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if s.FailDelete {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete item"})
		return
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/delete/"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || idx < 0 || idx >= len(s.items) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
		return
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if s.FailRefresh {
		writeJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Handler) export(w http.ResponseWriter, r *http.Request) {
	format := strings.TrimPrefix(r.URL.Path, "/export/")
	items := s.Items()
	if len(items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No data to export"})
		return
	}
	switch format {
	case "json":
		w.Header().Set("Content-Disposition", "attachment; filename=scraped_data_test.json")
		writeJSON(w, http.StatusOK, items)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment;filename=scraped_data_test.csv")
		var sb strings.Builder
		sb.WriteString("title,url,date\r\n")
		for _, it := range items {
			sb.WriteString(it.Title + "," + it.URL + "," + it.Date + "\r\n")
		}
		_, _ = w.Write([]byte(sb.String()))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid format"})
	}
}
