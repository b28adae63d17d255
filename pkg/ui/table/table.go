// Package table renders fixed-column resource tables for the TUI list view
// and the CLI.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

const (
	columnGap   = "  "
	minColWidth = 3

	// NoCursor renders the table without a selected row.
	NoCursor = -1
)

// Renderer lays out rows under a header with columns sized to their content.
type Renderer struct {
	theme     *theme.Theme
	highlight string
	plain     bool
}

// RendererOpt configures a [Renderer].
type RendererOpt func(*Renderer)

// WithPlain renders without styles or the cursor gutter.
func WithPlain() RendererOpt {
	return func(r *Renderer) {
		r.plain = true
	}
}

// WithHighlight underlines the runes of each cell that fuzzy-match term.
func WithHighlight(term string) RendererOpt {
	return func(r *Renderer) {
		r.highlight = strings.TrimSpace(term)
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

// Render lays out the header and rows within width. Columns are sized to
// their content and the widest columns are truncated first when the table
// does not fit. The row at index cursor is highlighted.
func (r *Renderer) Render(columns []string, rows [][]string, cursor, width int) string {
	if len(columns) == 0 {
		return ""
	}

	gutter := 2
	if r.plain {
		gutter = 0
	}

	widths := columnWidths(columns, rows, width-gutter)

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, r.row(columns, widths, r.headerStyle(), "  "))

	for i, cells := range rows {
		if i == cursor && !r.plain {
			lines = append(lines, r.row(cells, widths, r.theme.CursorStyle, r.theme.SelectedStyle.Render("│")+" "))

			continue
		}

		lines = append(lines, r.row(cells, widths, r.theme.GenericTextStyle, "  "))
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) headerStyle() lipgloss.Style {
	if r.plain {
		return lipgloss.NewStyle()
	}

	return r.theme.HeaderStyle
}

func (r *Renderer) row(cells []string, widths []int, style lipgloss.Style, gutter string) string {
	var b strings.Builder

	if !r.plain {
		b.WriteString(gutter)
	}

	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}

		// Truncate keeps cells that already fit.
		cell = ansi.Truncate(cell, w, theme.Ellipsis)
		pad := strings.Repeat(" ", max(0, w-ansi.StringWidth(cell)))

		if r.plain {
			if i > 0 {
				b.WriteString(columnGap)
			}

			b.WriteString(cell + pad)

			continue
		}

		if i > 0 {
			b.WriteString(style.Render(columnGap))
		}

		b.WriteString(r.styleCell(cell, style) + style.Render(pad))
	}

	if r.plain {
		return strings.TrimRight(b.String(), " ")
	}

	return b.String()
}

func (r *Renderer) styleCell(cell string, style lipgloss.Style) string {
	if r.highlight == "" {
		return style.Render(cell)
	}

	matches := fuzzy.Find(fleet.Normalize(r.highlight), []string{fleet.Normalize(cell)})
	if len(matches) == 0 {
		return style.Render(cell)
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, i := range matches[0].MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	underline := style.Underline(true)
	for i, c := range []rune(cell) {
		if matched[i] {
			b.WriteString(underline.Render(string(c)))

			continue
		}

		b.WriteString(style.Render(string(c)))
	}

	return b.String()
}

// columnWidths sizes each column to its widest cell, then shrinks the widest
// column one cell at a time until the table fits available.
func columnWidths(columns []string, rows [][]string, available int) []int {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = ansi.StringWidth(c)
	}

	for _, cells := range rows {
		for i := range min(len(cells), len(widths)) {
			widths[i] = max(widths[i], ansi.StringWidth(cells[i]))
		}
	}

	if available <= 0 {
		return widths
	}

	budget := available - len(columnGap)*(len(columns)-1)
	for sum(widths) > budget {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}

		if widths[widest] <= minColWidth {
			break
		}

		widths[widest]--
	}

	return widths
}

func sum(ns []int) int {
	total := 0
	for _, n := range ns {
		total += n
	}

	return total
}
