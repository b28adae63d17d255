// Package pagination renders a [pagewindow.Window] as a footer line:
//
//	Showing 11 to 20 of 42 results      «  ‹  1  2  3  4  5  ›  »
//
// Page buttons are one-based; the current page is highlighted, and disabled
// navigation controls are dimmed.
package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/macropower/fleetdesk/pkg/pagewindow"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

const (
	First    = "«"
	Prev     = "‹"
	Next     = "›"
	Last     = "»"
	Ellipsis = "..."

	separator = "  "
)

// Renderer draws the pagination footer: the item range label and the page
// controls of a [pagewindow.Window].
type Renderer struct {
	theme *theme.Theme
	plain bool
}

// RendererOpt configures a [Renderer].
type RendererOpt func(*Renderer)

// WithPlain disables styling. Disabled controls are then rendered as
// blanks, and the current page in brackets.
func WithPlain() RendererOpt {
	return func(r *Renderer) {
		r.plain = true
	}
}

// New creates a [Renderer] styled with t.
func New(t *theme.Theme, opts ...RendererOpt) *Renderer {
	r := &Renderer{theme: t}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Label returns the item range text, e.g. "Showing 1 to 10 of 1,234 results".
func Label(w pagewindow.Window, totalElements int) string {
	if w.Empty() {
		return "No results"
	}

	return fmt.Sprintf("Showing %s to %s of %s results",
		humanize.Comma(int64(w.StartItem)),
		humanize.Comma(int64(w.EndItem)),
		humanize.Comma(int64(totalElements)),
	)
}

// Controls renders the navigation controls and page buttons.
func (r *Renderer) Controls(w pagewindow.Window, current int) string {
	if w.Empty() {
		return ""
	}

	parts := make([]string, 0, len(w.Entries)+4)
	parts = append(parts, r.control(First, w.CanGoFirst), r.control(Prev, w.CanGoPrev))

	for _, e := range w.Entries {
		switch {
		case e.Ellipsis:
			parts = append(parts, r.style(r.theme.PaginationStyle, Ellipsis))
		case e.Page == current:
			if r.plain {
				parts = append(parts, "["+strconv.Itoa(e.Page+1)+"]")
			} else {
				parts = append(parts, r.theme.CurrentPageStyle.Render(strconv.Itoa(e.Page+1)))
			}
		default:
			parts = append(parts, r.style(r.theme.PageStyle, strconv.Itoa(e.Page+1)))
		}
	}

	parts = append(parts, r.control(Next, w.CanGoNext), r.control(Last, w.CanGoLast))

	return strings.Join(parts, separator)
}

// Render computes the window for s and renders the label and controls on one
// line of the given width. When both do not fit, the controls are placed on
// a second line.
func (r *Renderer) Render(s pagewindow.State, width int) string {
	w := pagewindow.Compute(s)

	label := r.style(r.theme.PaginationStyle, Label(w, s.TotalElements))
	controls := r.Controls(w, s.CurrentPage)
	if controls == "" {
		return label
	}

	gap := width - lipgloss.Width(label) - lipgloss.Width(controls)
	if gap < 2 {
		return label + "\n" + controls
	}

	return label + strings.Repeat(" ", gap) + controls
}

func (r *Renderer) control(symbol string, enabled bool) string {
	switch {
	case enabled:
		return r.style(r.theme.PageStyle, symbol)
	case r.plain:
		return strings.Repeat(" ", lipgloss.Width(symbol))
	default:
		return r.theme.DisabledPageStyle.Render(symbol)
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}

	return s.Render(text)
}
