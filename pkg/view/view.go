// Package view filters and orders scraped items for display.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/go-scripts/scrapeview/pkg/common"
)

// DefaultLocale is used for title ordering when no locale is configured
const DefaultLocale = "en"

// Engine applies a search term and sort mode to a dataset.
// The zero value orders titles with DefaultLocale.
type Engine struct {
	Locale string
}

// Apply returns the items of items matching term, ordered by mode
func Apply(items []common.Item, term string, mode common.SortMode) []common.Item {
	return Engine{}.Apply(items, term, mode)
}

// Select is Apply in permutation form: indices into items, in output order
func Select(items []common.Item, term string, mode common.SortMode) []int {
	return Engine{}.Select(items, term, mode)
}

// Apply returns the items of items matching term, ordered by mode
func (e Engine) Apply(items []common.Item, term string, mode common.SortMode) []common.Item {
	idx := e.Select(items, term, mode)
	out := make([]common.Item, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

// Select returns indices into items of the matching items, in output order
func (e Engine) Select(items []common.Item, term string, mode common.SortMode) []int {
	idx := make([]int, 0, len(items))
	needle := strings.ToLower(term)
	for i, it := range items {
		if Matches(it, needle) {
			idx = append(idx, i)
		}
	}

	switch mode {
	case common.SortTitle:
		c := e.collator()
		sort.SliceStable(idx, func(a, b int) bool {
			return c.CompareString(items[idx[a]].Title, items[idx[b]].Title) < 0
		})
	case common.SortDate:
		keys := make(map[int]dateKey, len(idx))
		for _, i := range idx {
			keys[i] = parseDate(items[i].Date)
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return keys[idx[a]].after(keys[idx[b]])
		})
	}
	return idx
}

// Matches reports whether the lower-cased needle occurs in the item's
// title or url, ignoring case. An empty needle matches everything.
func Matches(it common.Item, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Title), needle) ||
		strings.Contains(strings.ToLower(it.URL), needle)
}

func (e Engine) collator() *collate.Collator {
	locale := e.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return collate.New(tag)
}

type dateKey struct {
	t  time.Time
	ok bool
}

// after orders parseable dates newest first, unparseable dates last
func (k dateKey) after(o dateKey) bool {
	if k.ok != o.ok {
		return k.ok
	}
	if !k.ok {
		return false
	}
	return k.t.After(o.t)
}

func parseDate(s string) dateKey {
	s = strings.TrimSpace(s)
	if s == "" {
		return dateKey{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return dateKey{}
	}
	return dateKey{t: t, ok: true}
}
