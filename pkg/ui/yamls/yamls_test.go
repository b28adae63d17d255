package yamls_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/fleetdesk/pkg/ui/theme"
	"github.com/macropower/fleetdesk/pkg/ui/yamls"
)

const busYAML = `apiVersion: fleetdesk.macropower.dev/v1beta1
kind: buses
spec:
  id: 3
  model: Torino
`

func TestRenderPlain(t *testing.T) {
	t.Parallel()

	h := yamls.NewHighlighter(theme.Default, yamls.LanguageYAML, yamls.WithFormatter("noop"))

	got, err := h.Render(busYAML, 0)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimRight(busYAML, "\n"), got)
}

func TestRenderColored(t *testing.T) {
	t.Parallel()

	h := yamls.NewHighlighter(theme.Default, yamls.LanguageYAML, yamls.WithProfile(termenv.TrueColor))

	got, err := h.Render(busYAML, 0)
	require.NoError(t, err)
	assert.NotEqual(t, strings.TrimRight(busYAML, "\n"), got)
	assert.Equal(t, strings.TrimRight(busYAML, "\n"), strings.TrimSpace(ansi.Strip(got)))
}

func TestRenderWraps(t *testing.T) {
	t.Parallel()

	h := yamls.NewHighlighter(theme.Default, yamls.LanguageYAML, yamls.WithFormatter("noop"))

	got, err := h.Render("description: wide low floor entrance\n", 12)
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	assert.Greater(t, len(lines), 1)

	for _, line := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(line), 12, line)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		oldDoc   string
		newDoc   string
		contains []string
		want     yamls.DiffStat
		summary  string
	}{
		"equal": {
			oldDoc:  busYAML,
			newDoc:  busYAML,
			summary: "no changes",
		},
		"changed value": {
			oldDoc:   "model: Torino\nyear: 2019\n",
			newDoc:   "model: Torino\nyear: 2020\n",
			contains: []string{"--- live", "+++ local", "-year: 2019", "+year: 2020"},
			want:     yamls.DiffStat{Insertions: 1, Deletions: 1},
			summary:  "1 insertion, 1 deletion",
		},
		"added lines": {
			oldDoc:   "name: Ramp\n",
			newDoc:   "name: Ramp\ndescription: Wheelchair ramp\nid: 2\n",
			contains: []string{"+description: Wheelchair ramp", "+id: 2"},
			want:     yamls.DiffStat{Insertions: 2},
			summary:  "2 insertions, 0 deletions",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			diff := yamls.Diff("live", "local", tc.oldDoc, tc.newDoc)
			for _, s := range tc.contains {
				assert.Contains(t, diff, s)
			}

			if len(tc.contains) == 0 {
				assert.Empty(t, diff)
			}

			stat := yamls.Stat(diff)
			assert.Equal(t, tc.want, stat)
			assert.Equal(t, tc.summary, stat.String())
		})
	}
}
