// Package paginate computes page windows and pagination controls for a
// sequence of known length. All functions are pure.
package paginate

// PageSize is the number of rows shown per page
const PageSize = 10

// Kind identifies what a Button draws
type Kind int

const (
	KindPrev Kind = iota
	KindPage
	KindEllipsis
	KindNext
)

// Button describes one pagination control
type Button struct {
	Kind     Kind
	Page     int // target page; zero for ellipsis
	Active   bool
	Disabled bool
}

// Window is the half-open range [Start, End) of the visible slice
type Window struct {
	Start int
	End   int
}

// Len returns the number of rows in the window
func (w Window) Len() int { return w.End - w.Start }

// TotalPages returns ceil(total/size), never less than 1
func TotalPages(total, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp returns page limited to [1, TotalPages(total, size)]
func Clamp(total, size, page int) int {
	if page < 1 {
		return 1
	}
	if n := TotalPages(total, size); page > n {
		return n
	}
	return page
}

// WindowOf returns the slice bounds of page, clipped to total
func WindowOf(total, size, page int) Window {
	if size <= 0 {
		size = PageSize
	}
	if total < 0 {
		total = 0
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Window{Start: start, End: end}
}

// ButtonsFor returns the controls to render for page. Nothing is rendered
// when everything fits on a single page.
func ButtonsFor(total, size, page int) []Button {
	pages := TotalPages(total, size)
	if pages <= 1 {
		return nil
	}
	page = Clamp(total, size, page)

	buttons := []Button{{Kind: KindPrev, Page: page - 1, Disabled: page == 1}}
	last := 0
	for i := 1; i <= pages; i++ {
		if i != 1 && i != pages && (i < page-1 || i > page+1) {
			continue
		}
		if last != 0 && i-last > 1 {
			buttons = append(buttons, Button{Kind: KindEllipsis})
		}
		buttons = append(buttons, Button{Kind: KindPage, Page: i, Active: i == page})
		last = i
	}
	buttons = append(buttons, Button{Kind: KindNext, Page: page + 1, Disabled: page == pages})
	return buttons
}
