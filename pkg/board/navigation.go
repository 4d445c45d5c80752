package board

import "gitlab.com/tinyland/lab/parkicle/pkg/station"

// SummaryPage is the page index of the grid view.
const SummaryPage = -1

// Key is a navigation input.
type Key int

const (
	KeyEnter Key = iota
	KeyLeft
	KeyRight
)

// HandleKey applies a navigation key and reports whether the page changed.
// Every key is a no-op while the list is empty.
//
//	Enter  back to Summary
//	Right  next station, stopping at the last
//	Left   previous station, Summary before the first
func (b *Board) HandleKey(k Key) bool {
	if len(b.stations) == 0 {
		return false
	}
	switch k {
	case KeyEnter:
		return b.Back()
	case KeyRight:
		return b.Next()
	case KeyLeft:
		return b.Prev()
	}
	return false
}

// Select opens the detail page for the station at index i. Indexes
// outside the list are ignored.
func (b *Board) Select(i int) bool {
	if i < 0 || i >= len(b.stations) || i == b.page {
		return false
	}
	b.show(i)
	return true
}

// Back returns to Summary.
func (b *Board) Back() bool {
	if b.page == SummaryPage {
		return false
	}
	b.page = SummaryPage
	return true
}

// Next moves one station forward. From Summary it opens the first station.
func (b *Board) Next() bool {
	next := min(b.page+1, len(b.stations)-1)
	if next == b.page {
		return false
	}
	b.show(next)
	return true
}

// Prev moves one station back. From the first station it returns to
// Summary.
func (b *Board) Prev() bool {
	prev := max(b.page-1, SummaryPage)
	if prev == b.page {
		return false
	}
	b.show(prev)
	return true
}

// show moves to page and remembers the last station shown.
func (b *Board) show(page int) {
	b.page = page
	if page != SummaryPage {
		b.visited = page
	}
}

// LastVisited returns the index of the station most recently shown on the
// detail page, or SummaryPage if none has been shown for this area.
func (b *Board) LastVisited() int { return b.visited }

// Page returns the current page, SummaryPage or a station index.
func (b *Board) Page() int { return b.page }

// InDetail reports whether a single station is shown.
func (b *Board) InDetail() bool { return b.page != SummaryPage }

// Current returns the station on the detail page.
func (b *Board) Current() (station.Station, bool) {
	if b.page == SummaryPage || b.page >= len(b.stations) {
		return station.Station{}, false
	}
	return b.stations[b.page], true
}

// clampPage keeps the detail index inside the list after it is replaced.
func (b *Board) clampPage() {
	if b.visited >= len(b.stations) {
		b.visited = SummaryPage
	}
	if b.page == SummaryPage {
		return
	}
	if len(b.stations) == 0 {
		b.page = SummaryPage
		return
	}
	if b.page >= len(b.stations) {
		b.page = len(b.stations) - 1
	}
	b.visited = b.page
}
