// Package overlay draws a floating box, such as a confirmation prompt or an
// error, centered on top of a rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/reflow/truncate"

	charmansi "github.com/charmbracelet/x/ansi"

	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

const (
	defaultMinWidth = 16
	// Rows kept free above and below the box.
	verticalMargin = 4
)

type Overlay struct {
	theme *theme.Theme
	hint  string

	width, height int
	minWidth      int
}

type OverlayOpt func(*Overlay)

func New(t *theme.Theme, opts ...OverlayOpt) *Overlay {
	o := &Overlay{
		theme:    t,
		minWidth: defaultMinWidth,
		hint:     "output truncated",
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithMinWidth sets the minimum width of the box, in cells.
func WithMinWidth(minWidth int) OverlayOpt {
	return func(o *Overlay) {
		o.minWidth = minWidth
	}
}

// WithTruncationHint sets the line shown when content is cut to fit.
func WithTruncationHint(hint string) OverlayOpt {
	return func(o *Overlay) {
		o.hint = hint
	}
}

// SetSize sets the size of the view the overlay is placed on.
func (o *Overlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Place renders fg with style and centers it on top of bg. The box is
// widthFraction of the view wide, bounded by the minimum width and the view.
func (o *Overlay) Place(bg, fg string, widthFraction float64, style lipgloss.Style) string {
	boxWidth := clamp(int(float64(o.width)*widthFraction), o.minWidth, max(o.minWidth, o.width))
	innerWidth := max(1, boxWidth-style.GetHorizontalFrameSize())

	fgLines := strings.Split(cellbuf.Wrap(fg, innerWidth, " /-"), "\n")

	maxLines := o.height - 2*verticalMargin
	if maxLines < 1 {
		fgLines = nil
	} else if len(fgLines) > maxLines {
		hint := truncate.StringWithTail(o.hint, uint(innerWidth), o.theme.Ellipsis) //nolint:gosec // Positive.
		fgLines = append(fgLines[:maxLines], "", o.theme.SubtleStyle.Render(hint))
	}

	box := style.Width(innerWidth).Render(strings.Join(fgLines, "\n"))

	return composite(bg, box)
}

// composite writes fg over bg, centered.
func composite(bg, fg string) string {
	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)

	x := clamp(bgWidth-fgWidth, 0, bgWidth) / 2
	y := clamp(len(bgLines)-len(fgLines), 0, len(bgLines)) / 2

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+len(fgLines) {
			b.WriteString(bgLine)

			continue
		}

		left := charmansi.Truncate(bgLine, x, "")
		b.WriteString(left)
		b.WriteString(strings.Repeat(" ", x-charmansi.StringWidth(left)))

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)

		pos := x + charmansi.StringWidth(fgLine)
		b.WriteString(charmansi.TruncateLeft(bgLine, pos, ""))
	}

	return b.String()
}

func clamp(v, lower, upper int) int {
	return min(max(v, lower), upper)
}

// getLines splits s into lines, also returning the width of the widest line.
func getLines(s string) ([]string, int) {
	lines := strings.Split(s, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, charmansi.StringWidth(l))
	}

	return lines, widest
}
