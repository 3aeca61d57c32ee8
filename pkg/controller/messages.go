package controller

import (
	"github.com/go-scripts/scrapeview/pkg/common"
	"github.com/go-scripts/scrapeview/pkg/paginate"
	"github.com/go-scripts/scrapeview/pkg/store"
)

// ScrapedMsg carries the result of Submit
type ScrapedMsg struct {
	seq    uint64
	Target string
	Items  []common.Item
	Err    error
}

// FetchedMsg carries the result of Query
type FetchedMsg struct {
	seq   uint64
	gen   uint64
	Term  string
	Mode  common.SortMode
	Items []common.Item
	Err   error
}

// DeletedMsg carries the result of Delete
type DeletedMsg struct {
	seq   uint64
	gen   uint64
	Index int
	Pos   int
	Err   error
}

// RefreshedMsg carries the result of Refresh
type RefreshedMsg struct {
	seq uint64
	Err error
}

// ExportedMsg carries the result of Export
type ExportedMsg struct {
	Format string
	Path   string
	Err    error
}

// Row is one table row. Index is the row's absolute position in the
// working sequence, which is what Delete expects.
type Row struct {
	Index int
	Item  common.Item
}

// Snapshot is everything a renderer needs to draw the table
type Snapshot struct {
	Rows        []Row
	Buttons     []paginate.Button
	Page        int
	TotalPages  int
	Total       int
	SourceTotal int
	Origin      store.Origin
	Search      string
	Sort        common.SortMode
	URL         string
}
