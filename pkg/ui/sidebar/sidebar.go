// Package sidebar renders the resource navigation column of the TUI.
package sidebar

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"

	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/ui/common"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

// Width is the rendered width of the sidebar, including its border.
const Width = 20

// DefaultKind is selected when the sidebar is created.
const DefaultKind = fleet.KindBus

type Model struct {
	theme  *theme.Theme
	kinds  []fleet.Kind
	active int
	height int
}

// New creates a sidebar listing kinds in order. With no kinds, every
// [fleet.Kind] is listed.
func New(t *theme.Theme, kinds ...fleet.Kind) *Model {
	if len(kinds) == 0 {
		kinds = fleet.AllKinds
	}

	m := &Model{
		theme: t,
		kinds: slices.Clone(kinds),
	}

	m.Select(DefaultKind)

	return m
}

// Active returns the selected kind.
func (m *Model) Active() fleet.Kind {
	return m.kinds[m.active]
}

// Kinds returns the listed kinds in display order.
func (m *Model) Kinds() []fleet.Kind {
	return slices.Clone(m.kinds)
}

// Select activates k. It reports whether the selection changed.
func (m *Model) Select(k fleet.Kind) bool {
	i := slices.Index(m.kinds, k)
	if i < 0 || i == m.active {
		return false
	}

	m.active = i

	return true
}

// Next activates the following kind, wrapping around.
func (m *Model) Next() {
	m.active = (m.active + 1) % len(m.kinds)
}

// Prev activates the preceding kind, wrapping around.
func (m *Model) Prev() {
	m.active = (m.active - 1 + len(m.kinds)) % len(m.kinds)
}

// HandleKey switches the active kind for the view keys and the number
// shortcuts. It reports whether the selection changed.
func (m *Model) HandleKey(kb *common.KeyBinds, key string) bool {
	before := m.active

	switch {
	case kb.NextView.Match(key):
		m.Next()
	case kb.PrevView.Match(key):
		m.Prev()
	default:
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > len(m.kinds) {
			return false
		}

		m.active = n - 1
	}

	return m.active != before
}

func (m *Model) SetHeight(height int) {
	m.height = height
}

func (m *Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(m.theme.BorderStyle.GetForeground())

	inner := Width - style.GetHorizontalFrameSize()
	tabWidth := inner - m.theme.TabStyle.GetHorizontalFrameSize()

	rows := make([]string, 0, len(m.kinds)+2)
	rows = append(rows, m.theme.LogoStyle.Render(fit(" fleetdesk", inner)), "")

	for i, k := range m.kinds {
		label := fit(fmt.Sprintf("%d %s", i+1, k.Title()), tabWidth)
		if i == m.active {
			rows = append(rows, m.theme.ActiveTabStyle.Render(label))

			continue
		}

		rows = append(rows, m.theme.TabStyle.Render(label))
	}

	style = style.Width(inner)
	if m.height > 0 {
		style = style.Height(m.height)
	}

	return style.Render(strings.Join(rows, "\n"))
}

func fit(s string, width int) string {
	w := ansi.PrintableRuneWidth(s)
	if w > width {
		runes := []rune(s)
		return string(runes[:max(0, width-1)]) + theme.Ellipsis
	}

	return s + strings.Repeat(" ", width-w)
}
