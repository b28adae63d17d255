package statusbar_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/macropower/fleetdesk/pkg/ui/statusbar"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

func TestStatusBarWidth(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		width int
		want  int
	}{
		"wide":  {width: 100, want: 100},
		"exact": {width: 60, want: 60},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bar := statusbar.NewStatusBarRenderer(theme.Default, tc.width).RenderWithNote("Buses", "page 1/3")
			assert.Equal(t, tc.want, lipgloss.Width(bar))
		})
	}
}

func TestStatusBarContent(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts     []statusbar.StatusBarOpt
		contains []string
		missing  []string
	}{
		"normal": {
			contains: []string{"fleetdesk", "Buses", "page 2/9", "? Help"},
		},
		"success message": {
			opts:     []statusbar.StatusBarOpt{statusbar.WithMessage("deleted bus #4", statusbar.StyleSuccess)},
			contains: []string{"deleted bus #4", "? Help"},
			missing:  []string{"Buses"},
		},
		"error message": {
			opts:     []statusbar.StatusBarOpt{statusbar.WithMessage("backend unavailable", statusbar.StyleError)},
			contains: []string{"backend unavailable", "! Error"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bar := ansi.Strip(statusbar.NewStatusBarRenderer(theme.Default, 100, tc.opts...).
				RenderWithNote("Buses", "page 2/9"))

			for _, s := range tc.contains {
				assert.Contains(t, bar, s)
			}

			for _, s := range tc.missing {
				assert.NotContains(t, bar, s)
			}
		})
	}
}

func TestStatusBarTruncatesNote(t *testing.T) {
	t.Parallel()

	bar := ansi.Strip(statusbar.NewStatusBarRenderer(theme.Default, 50).
		RenderWithNote("a very long note that cannot possibly fit in the available space", ""))

	assert.Contains(t, bar, theme.Ellipsis)
	assert.LessOrEqual(t, lipgloss.Width(bar), 50)
}
