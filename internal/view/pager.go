package view

import "fmt"

// Pager tracks the current page over a fixed-size list. The current page is
// always within [1, max(1, totalPages)], including for an empty list.
type Pager struct {
	page    int
	perPage int
	total   int
}

// NewPager starts on page 1. perPage must be positive; zero or negative
// values fall back to a single page holding everything.
func NewPager(total, perPage int) Pager {
	if perPage <= 0 {
		perPage = max(total, 1)
	}
	if total < 0 {
		total = 0
	}
	return Pager{page: 1, perPage: perPage, total: total}
}

// TotalPages is never below 1, even for an empty list.
func (p Pager) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.perPage - 1) / p.perPage
}

// Page is the current 1-based page number.
func (p Pager) Page() int { return p.page }

// Next advances one page. Past the last page it is a no-op and returns false.
func (p *Pager) Next() bool {
	if p.page >= p.TotalPages() {
		return false
	}
	p.page++
	return true
}

// Prev steps back one page. On page 1 it is a no-op and returns false.
func (p *Pager) Prev() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// Bounds returns the half-open index range [start, end) of the current page.
func (p Pager) Bounds() (start, end int) {
	start = (p.page - 1) * p.perPage
	end = start + p.perPage
	if end > p.total {
		end = p.total
	}
	if start > p.total {
		start = p.total
	}
	return start, end
}

// ShowControls reports whether paging controls should render at all.
func (p Pager) ShowControls() bool { return p.TotalPages() > 1 }

// Label renders the "Page X of Y" caption.
func (p Pager) Label() string {
	return fmt.Sprintf("Page %d of %d", p.page, p.TotalPages())
}
