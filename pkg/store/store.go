// Package store holds the dataset the table renders and the current page.
package store

import (
	"fmt"

	"github.com/go-scripts/scrapeview/pkg/common"
	"github.com/go-scripts/scrapeview/pkg/paginate"
)

// Origin tells whether the working sequence is the authoritative dataset
// itself or a filtered/sorted derivative of it
type Origin int

const (
	Authoritative Origin = iota
	Derived
)

func (o Origin) String() string {
	if o == Derived {
		return "derived"
	}
	return "authoritative"
}

// Entry is one row of the working sequence. Pos is the item's position in
// the authoritative dataset, which is the position the backend stores it at.
type Entry struct {
	common.Item
	Pos int
}

// Store is the single source of truth for what the table shows.
// It is not safe for concurrent use.
type Store struct {
	source  []common.Item
	entries []Entry
	origin  Origin
	page    int
}

// New returns an empty store on page 1
func New() *Store {
	return &Store{page: 1}
}

// Replace installs items as both the authoritative dataset and the working
// sequence and resets to page 1
func (s *Store) Replace(items []common.Item) {
	s.source = append([]common.Item(nil), items...)
	s.entries = make([]Entry, len(items))
	for i, it := range items {
		s.entries[i] = Entry{Item: it, Pos: i}
	}
	s.origin = Authoritative
	s.page = 1
}

// Derive installs a fresh authoritative dataset and a working sequence made
// of the items at idx, in that order, and resets to page 1
func (s *Store) Derive(items []common.Item, idx []int) error {
	entries := make([]Entry, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(items) {
			return fmt.Errorf("derive: index %d out of range [0,%d)", i, len(items))
		}
		entries = append(entries, Entry{Item: items[i], Pos: i})
	}
	s.source = append([]common.Item(nil), items...)
	s.entries = entries
	s.origin = Derived
	s.page = 1
	return nil
}

// Remove deletes the row at absolute index abs. The authoritative copy loses
// the same item and every later position shifts down by one, matching what
// the backend does to its own list.
func (s *Store) Remove(abs int) (Entry, error) {
	e, err := s.At(abs)
	if err != nil {
		return Entry{}, err
	}
	s.entries = append(s.entries[:abs:abs], s.entries[abs+1:]...)
	if e.Pos < len(s.source) {
		s.source = append(s.source[:e.Pos:e.Pos], s.source[e.Pos+1:]...)
	}
	for i := range s.entries {
		if s.entries[i].Pos > e.Pos {
			s.entries[i].Pos--
		}
	}
	s.page = paginate.Clamp(len(s.entries), paginate.PageSize, s.page)
	return e, nil
}

// Clear empties the store and resets to page 1
func (s *Store) Clear() {
	s.source = nil
	s.entries = nil
	s.origin = Authoritative
	s.page = 1
}

// At returns the row at absolute index abs
func (s *Store) At(abs int) (Entry, error) {
	if abs < 0 || abs >= len(s.entries) {
		return Entry{}, fmt.Errorf("index %d out of range [0,%d)", abs, len(s.entries))
	}
	return s.entries[abs], nil
}

// SetPage moves to page p. It reports false and changes nothing when p is
// outside [1, TotalPages()].
func (s *Store) SetPage(p int) bool {
	if p < 1 || p > s.TotalPages() {
		return false
	}
	s.page = p
	return true
}

// Page returns the current page
func (s *Store) Page() int { return s.page }

// Len returns the length of the working sequence
func (s *Store) Len() int { return len(s.entries) }

// SourceLen returns the length of the authoritative dataset
func (s *Store) SourceLen() int { return len(s.source) }

// Origin reports where the working sequence came from
func (s *Store) Origin() Origin { return s.origin }

// TotalPages returns the page count of the working sequence
func (s *Store) TotalPages() int {
	return paginate.TotalPages(len(s.entries), paginate.PageSize)
}

// Window returns the rows of the current page and the absolute index of
// the first one
func (s *Store) Window() ([]Entry, int) {
	w := paginate.WindowOf(len(s.entries), paginate.PageSize, s.page)
	rows := make([]Entry, w.Len())
	copy(rows, s.entries[w.Start:w.End])
	return rows, w.Start
}

// Items returns a copy of the working sequence
func (s *Store) Items() []common.Item {
	out := make([]common.Item, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Item
	}
	return out
}
