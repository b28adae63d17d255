// Package yamls highlights YAML documents and unified diffs for terminal
// output.
package yamls

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/termenv"

	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

const wrapOnCharacters = " /-"

// Language selects the lexer used by a [Highlighter].
type Language string

const (
	LanguageYAML Language = "YAML"
	LanguageDiff Language = "Diff"
)

// Highlighter renders source with the theme's Chroma style.
type Highlighter struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

type HighlighterOpt func(*Highlighter)

// WithFormatter sets the Chroma formatter by name, e.g. "noop" or
// "terminal16m". By default it is chosen from the terminal color profile.
func WithFormatter(name string) HighlighterOpt {
	return func(h *Highlighter) {
		h.formatter = formatters.Get(name)
	}
}

// WithProfile chooses the formatter for the given color profile.
func WithProfile(p termenv.Profile) HighlighterOpt {
	return func(h *Highlighter) {
		h.formatter = formatters.Get(formatterName(p))
	}
}

func NewHighlighter(t *theme.Theme, lang Language, opts ...HighlighterOpt) *Highlighter {
	lexer := lexers.Get(string(lang))
	if lexer == nil {
		lexer = lexers.Fallback
	}

	h := &Highlighter{
		lexer:     chroma.Coalesce(lexer),
		formatter: formatters.Get(formatterName(termenv.ColorProfile())),
		style:     t.ChromaStyle,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Render highlights src. Lines longer than width are wrapped; a width of
// zero disables wrapping.
func (h *Highlighter) Render(src string, width int) (string, error) {
	iterator, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = h.formatter.Format(buf, h.style, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	out := strings.TrimRight(buf.String(), "\n")
	if width <= 0 {
		return out, nil
	}

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = cellbuf.Wrap(line, width, wrapOnCharacters)
	}

	return strings.Join(lines, "\n"), nil
}

func formatterName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal8"
	default:
		return "noop"
	}
}
