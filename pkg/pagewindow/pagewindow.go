// Package pagewindow computes the visible pagination controls for a paged
// result set: the item range label, the list of page buttons (with ellipsis
// markers), and which navigation controls are enabled.
//
// Pages are zero-based. [Compute] never clamps the current page; callers
// that need a valid page (for example after a delete shrinks the result set)
// use [ClampPage] before requesting the next page.
package pagewindow

import "slices"

const (
	// MaxVisible is the largest number of page buttons shown without
	// collapsing the middle of the range into ellipses.
	MaxVisible = 5

	// DefaultPageSize is used when a [State] carries a non-positive page size.
	DefaultPageSize = 10
)

// State is the pagination state reported by a data source.
type State struct {
	// CurrentPage is the zero-based index of the displayed page.
	CurrentPage int
	// TotalPages is the total number of pages reported by the source.
	// It may be zero even when TotalElements is positive.
	TotalPages int
	// TotalElements is the total number of items across all pages.
	TotalElements int
	// PageSize is the number of items per page.
	PageSize int
}

// Entry is a single slot in the page-button sequence. It is either a page
// index or an ellipsis marker.
type Entry struct {
	Page     int
	Ellipsis bool
}

// EllipsisEntry marks a gap in the page-button sequence.
var EllipsisEntry = Entry{Ellipsis: true}

// PageEntry returns an [Entry] for the given zero-based page index.
func PageEntry(page int) Entry {
	return Entry{Page: page}
}

// Window is the derived view model for the pagination controls.
type Window struct {
	// Entries holds page indices and ellipsis markers in display order.
	Entries []Entry
	// StartItem is the one-based index of the first item on the current page,
	// or zero when there are no items.
	StartItem int
	// EndItem is the one-based index of the last item on the current page,
	// or zero when there are no items.
	EndItem int

	CanGoFirst bool
	CanGoPrev  bool
	CanGoNext  bool
	CanGoLast  bool
}

// EffectiveTotalPages returns the number of pages used to build the window.
// A source that reports zero pages but a positive element count is treated
// as having a single page.
func (s State) EffectiveTotalPages() int {
	switch {
	case s.TotalPages > 0:
		return s.TotalPages
	case s.TotalElements > 0:
		return 1
	default:
		return 0
	}
}

func (s State) pageSize() int {
	if s.PageSize <= 0 {
		return DefaultPageSize
	}

	return s.PageSize
}

// Compute derives the [Window] for the given [State].
func Compute(s State) Window {
	total := s.EffectiveTotalPages()
	if total == 0 {
		return Window{}
	}

	cp := s.CurrentPage
	size := s.pageSize()

	w := Window{
		Entries:    pageEntries(cp, total),
		StartItem:  cp*size + 1,
		EndItem:    min((cp+1)*size, s.TotalElements),
		CanGoFirst: cp > 0,
		CanGoPrev:  cp > 0,
		CanGoNext:  cp < total-1,
		CanGoLast:  cp < total-1,
	}

	return w
}

func pageEntries(cp, total int) []Entry {
	if total <= MaxVisible {
		entries := make([]Entry, 0, total)
		for p := range total {
			entries = append(entries, PageEntry(p))
		}

		return entries
	}

	switch {
	case cp <= 2:
		return []Entry{
			PageEntry(0), PageEntry(1), PageEntry(2),
			EllipsisEntry,
			PageEntry(total - 1),
		}

	case cp >= total-3:
		return []Entry{
			PageEntry(0),
			EllipsisEntry,
			PageEntry(total - 3), PageEntry(total - 2), PageEntry(total - 1),
		}

	default:
		return []Entry{
			PageEntry(0),
			EllipsisEntry,
			PageEntry(cp - 1), PageEntry(cp), PageEntry(cp + 1),
			EllipsisEntry,
			PageEntry(total - 1),
		}
	}
}

// Empty reports whether the window has no page buttons, which is the case
// when the source holds no items.
func (w Window) Empty() bool {
	return len(w.Entries) == 0
}

// Pages returns the page indices in the window, skipping ellipsis markers.
func (w Window) Pages() []int {
	pages := make([]int, 0, len(w.Entries))
	for _, e := range w.Entries {
		if !e.Ellipsis {
			pages = append(pages, e.Page)
		}
	}

	return pages
}

// Contains reports whether the window has a button for the given page.
func (w Window) Contains(page int) bool {
	return slices.Contains(w.Pages(), page)
}

// ClampPage bounds page to the valid range for totalPages. It returns zero
// when there are no pages.
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 || page < 0 {
		return 0
	}

	return min(page, totalPages-1)
}
