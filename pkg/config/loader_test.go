package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/fleetdesk/pkg/config"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

func TestDefaultYAML(t *testing.T) {
	t.Parallel()

	l := config.NewLoaderFromBytes(config.DefaultYAML())
	require.NoError(t, l.Validate())

	got, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, config.New(), got)
}

func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		check   func(t *testing.T, c *config.Config)
		input   string
		wantErr bool
	}{
		"header only": {
			input: "apiVersion: fleetdesk.macropower.dev/v1beta1\nkind: Configuration\n",
			check: func(t *testing.T, c *config.Config) {
				t.Helper()

				assert.Equal(t, 10, *c.UI.PageSize)
				assert.NotNil(t, c.UI.KeyBinds.List.Create)
			},
		},
		"overrides": {
			input: `apiVersion: fleetdesk.macropower.dev/v1beta1
kind: Configuration
api:
  baseURL: https://fleet.example.com
  timeout: 2s
ui:
  pageSize: 25
  searchDelay: 250ms
  theme: dracula
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()

				assert.Equal(t, "https://fleet.example.com", c.API.BaseURL)
				assert.Equal(t, 2*time.Second, *c.API.Timeout)
				assert.Equal(t, 25, *c.UI.PageSize)
				assert.Equal(t, 250*time.Millisecond, *c.UI.SearchDelay)
				assert.Equal(t, "dracula", c.UI.Theme)
			},
		},
		"unknown field": {
			input:   "apiVersion: fleetdesk.macropower.dev/v1beta1\nkind: Configuration\nfoo: bar\n",
			wantErr: true,
		},
		"wrong kind": {
			input:   "apiVersion: fleetdesk.macropower.dev/v1beta1\nkind: Bus\n",
			wantErr: true,
		},
		"page size too large": {
			input:   "apiVersion: fleetdesk.macropower.dev/v1beta1\nkind: Configuration\nui:\n  pageSize: 500\n",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := config.NewLoaderFromBytes([]byte(tc.input)).Load()
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tc.check(t, got)
		})
	}
}

func TestLoaderValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		contains string
	}{
		"valid": {
			input: "apiVersion: fleetdesk.macropower.dev/v1beta1\nkind: Configuration\nui:\n  pageSize: 20\n",
		},
		"keybinds": {
			input: `apiVersion: fleetdesk.macropower.dev/v1beta1
kind: Configuration
ui:
  theme: dracula
  keybinds:
    common:
      reload:
        description: reload
        keys:
          - code: ctrl+r
    list:
      copy:
        description: copy id
        keys:
          - code: c
`,
		},
		"page size below minimum": {
			input:    "apiVersion: fleetdesk.macropower.dev/v1beta1\nkind: Configuration\nui:\n  pageSize: 0\n",
			contains: "$.ui.pageSize",
		},
		"bad duration": {
			input:    "apiVersion: fleetdesk.macropower.dev/v1beta1\nkind: Configuration\nui:\n  searchDelay: soon\n",
			contains: "$.ui.searchDelay",
		},
		"unsupported api version": {
			input:    "apiVersion: v1\nkind: Configuration\n",
			contains: "$.apiVersion",
		},
		"missing kind": {
			input:    "apiVersion: fleetdesk.macropower.dev/v1beta1\n",
			contains: "kind",
		},
		"not yaml": {
			input:    "ui: [\n",
			contains: "[",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := config.NewLoaderFromBytes([]byte(tc.input)).Validate()
			if tc.contains == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

type rejectAll struct{ err error }

func (r rejectAll) Validate(any) error { return r.err }

func TestLoaderWithValidator(t *testing.T) {
	t.Parallel()

	want := assert.AnError
	l := config.NewLoaderFromBytes(config.DefaultYAML(), config.WithValidator(rejectAll{err: want}))

	require.ErrorIs(t, l.Validate(), want)
}

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, config.DefaultYAML(), 0o600))

	l, err := config.NewLoaderFromFile(path)
	require.NoError(t, err)
	require.NoError(t, l.Validate())

	_, err = config.NewLoaderFromFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.NewLoaderFromFile(dir)
	require.ErrorIs(t, err, config.ErrNotRegular)
}

func TestLoaderTheme(t *testing.T) {
	t.Parallel()

	l := config.NewLoaderFromBytes([]byte("kind: Configuration\n"))
	assert.Same(t, theme.Default, l.Theme())
}

func TestExtractThemeWithRegex(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"bare": {
			input: "ui:\n  pageSize: 10\n  theme: dracula\n",
			want:  "dracula",
		},
		"double quoted": {
			input: "ui:\n  theme: \"github-dark\"\n",
			want:  "github-dark",
		},
		"single quoted with comment": {
			input: "ui:\n  theme: 'nord' # cold\n",
			want:  "nord",
		},
		"broken yaml": {
			input: "ui:\n  theme: monokai\n  pageSize: [\n",
			want:  "monokai",
		},
		"not under ui": {
			input: "api:\n  theme: dracula\n",
			want:  "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, config.ExtractThemeWithRegex([]byte(tc.input)))
		})
	}
}
