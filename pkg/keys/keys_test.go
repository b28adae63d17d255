package keys_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/fleetdesk/pkg/keys"
)

func TestKeyBindString(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		kb   keys.KeyBind
		want string
	}{
		"codes": {
			kb:   keys.NewBind("search", keys.New("/")),
			want: "/",
		},
		"aliases": {
			kb:   keys.NewBind("next page", keys.New("right", keys.WithAlias("→")), keys.New("l")),
			want: "→/l",
		},
		"hidden skipped": {
			kb:   keys.NewBind("quit", keys.New("q"), keys.New("ctrl+c", keys.WithAlias("⌃c"), keys.Hidden())),
			want: "q",
		},
		"all hidden": {
			kb:   keys.NewBind("suspend", keys.New("ctrl+z", keys.Hidden())),
			want: "",
		},
		"no keys": {
			kb:   keys.NewBind("reload"),
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.kb.String())
		})
	}
}

func TestKeyBindMatch(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("first page",
		keys.New("home"),
		keys.New("g", keys.Hidden()),
	)

	tcs := map[string]struct {
		code string
		want bool
	}{
		"visible key": {code: "home", want: true},
		"hidden key":  {code: "g", want: true},
		"alias only":  {code: "⇱", want: false},
		"other key":   {code: "end", want: false},
		"empty":       {code: "", want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, kb.Match(tc.code))
		})
	}

	var unset *keys.KeyBind
	assert.False(t, unset.Match("home"))
}

func TestKeyBindAddKey(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("quit", keys.New("q"))

	kb.AddKey(keys.New("ctrl+c", keys.WithAlias("⌃c"), keys.Hidden()))
	require.Len(t, kb.Keys, 2)
	assert.True(t, kb.Keys[1].Hidden)

	kb.AddKey(keys.New("ctrl+c"))
	kb.AddKey(keys.New("q", keys.WithAlias("Q")))
	assert.Len(t, kb.Keys, 2, "codes already bound are skipped")
	assert.Empty(t, kb.Keys[0].Alias)

	var unset *keys.KeyBind
	assert.NotPanics(t, func() { unset.AddKey(keys.New("q")) })
}

func TestKeyBindBubbleKey(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("back", keys.New("esc"), keys.New("ctrl+[", keys.Hidden()))
	bk := kb.BubbleKey()

	assert.Equal(t, []string{"esc", "ctrl+["}, bk.Keys())
	assert.Equal(t, "esc", bk.Help().Key)
	assert.Equal(t, "back", bk.Help().Desc)
	assert.True(t, bk.Enabled())
}

func TestSetDefaultBind(t *testing.T) {
	t.Parallel()

	def := keys.NewBind("copy", keys.New("c"))

	tcs := map[string]struct {
		kb   *keys.KeyBind
		want keys.KeyBind
	}{
		"unset": {
			kb:   nil,
			want: def,
		},
		"keys only": {
			kb:   &keys.KeyBind{Keys: []keys.Key{keys.New("y")}},
			want: keys.NewBind("copy", keys.New("y")),
		},
		"description only": {
			kb:   &keys.KeyBind{Description: "yank"},
			want: keys.NewBind("yank", keys.New("c")),
		},
		"complete": {
			kb:   &keys.KeyBind{Description: "yank", Keys: []keys.Key{keys.New("y")}},
			want: keys.NewBind("yank", keys.New("y")),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			kb := tc.kb
			keys.SetDefaultBind(&kb, def)

			require.NotNil(t, kb)
			assert.Equal(t, tc.want, *kb)
		})
	}
}

func TestValidateBinds(t *testing.T) {
	t.Parallel()

	common := []keys.KeyBind{
		keys.NewBind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden())),
		keys.NewBind("reload", keys.New("ctrl+r")),
	}

	tcs := map[string]struct {
		groups [][]keys.KeyBind
		want   []string
	}{
		"distinct": {
			groups: [][]keys.KeyBind{common, {
				keys.NewBind("sort", keys.New("s")),
				keys.NewBind("order", keys.New("o")),
			}},
		},
		"across groups": {
			groups: [][]keys.KeyBind{common, {
				keys.NewBind("sort", keys.New("q")),
			}},
			want: []string{`"q" triggers both "quit" and "sort"`},
		},
		"hidden keys count": {
			groups: [][]keys.KeyBind{common, {
				keys.NewBind("copy", keys.New("ctrl+c")),
			}},
			want: []string{`"ctrl+c" triggers both "quit" and "copy"`},
		},
		"within one binding": {
			groups: [][]keys.KeyBind{{
				keys.NewBind("delete", keys.New("x"), keys.New("x")),
			}},
			want: []string{`"x" triggers both "delete" and "delete"`},
		},
		"every conflict reported": {
			groups: [][]keys.KeyBind{common, {
				keys.NewBind("edit", keys.New("ctrl+r")),
				keys.NewBind("create", keys.New("q")),
			}},
			want: []string{
				`"ctrl+r" triggers both "reload" and "edit"`,
				`"q" triggers both "quit" and "create"`,
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := keys.ValidateBinds(tc.groups...)
			if len(tc.want) == 0 {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, keys.ErrDuplicateKey)

			for _, want := range tc.want {
				assert.ErrorContains(t, err, want)
			}

			assert.Len(t, strings.Split(err.Error(), "\n"), len(tc.want))
		})
	}
}

func TestKeyBindRendererRender(t *testing.T) {
	t.Parallel()

	paging := []keys.KeyBind{
		keys.NewBind("next page", keys.New("right", keys.WithAlias("→")), keys.New("l")),
		keys.NewBind("search", keys.New("/")),
	}

	tcs := map[string]struct {
		columns [][]keys.KeyBind
		want    []string
		width   int
	}{
		"single column": {
			columns: [][]keys.KeyBind{paging},
			width:   30,
			want: []string{
				" →/l  next page" + strings.Repeat(" ", 15),
				" /    search" + strings.Repeat(" ", 18),
			},
		},
		"description truncated": {
			columns: [][]keys.KeyBind{{keys.NewBind("delete vehicle", keys.New("x"))}},
			width:   16,
			want:    []string{" x  delete veh… "},
		},
		"description that fits": {
			columns: [][]keys.KeyBind{{keys.NewBind("edit vehicle", keys.New("e"))}},
			width:   17,
			want:    []string{" e  edit vehicle "},
		},
		"hidden binding skipped": {
			columns: [][]keys.KeyBind{{
				keys.NewBind("suspend", keys.New("ctrl+z", keys.Hidden())),
				keys.NewBind("help", keys.New("?")),
			}},
			width: 12,
			want:  []string{" ?  help    "},
		},
		"no columns": {
			width: 80,
			want:  []string{""},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			kbr := &keys.KeyBindRenderer{}
			for _, col := range tc.columns {
				kbr.AddColumn(col...)
			}

			assert.Equal(t, tc.want, strings.Split(kbr.Render(tc.width), "\n"))
		})
	}
}

func TestKeyBindRendererColumns(t *testing.T) {
	t.Parallel()

	kbr := &keys.KeyBindRenderer{}
	kbr.AddColumn(
		keys.NewBind("up", keys.New("up", keys.WithAlias("↑")), keys.New("k")),
		keys.NewBind("down", keys.New("down", keys.WithAlias("↓")), keys.New("j")),
		keys.NewBind("reload", keys.New("ctrl+r", keys.WithAlias("⌃r"))),
	)
	kbr.AddColumn()
	kbr.AddColumn(keys.NewBind("sort", keys.New("s")))

	lines := strings.Split(kbr.Render(41), "\n")
	require.Len(t, lines, 3, "the tallest column sets the height")

	for _, line := range lines {
		assert.Equal(t, 41, ansi.StringWidth(line))
	}

	assert.Contains(t, lines[0], "sort")
	assert.NotContains(t, lines[1], "sort")
	assert.Contains(t, lines[2], "reload")

	narrow := strings.Split(kbr.Render(4), "\n")
	for _, line := range narrow {
		assert.Equal(t, 16, ansi.StringWidth(line), "columns keep a minimum width")
	}
}
