package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/fleetdesk/pkg/ui/theme"
	"github.com/macropower/fleetdesk/pkg/version"
)

const (
	helpText  = " ? Help "
	errorText = " ! Error "
)

type Style int

const (
	StyleNormal Style = iota
	StyleSuccess
	StyleError
)

// StatusBarRenderer renders the single-line status bar shown below each view.
type StatusBarRenderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

func NewStatusBarRenderer(t *theme.Theme, width int, opts ...StatusBarOpt) *StatusBarRenderer {
	sb := &StatusBarRenderer{theme: t, width: max(0, width), style: StyleNormal}
	for _, opt := range opts {
		opt(sb)
	}

	return sb
}

type StatusBarOpt func(*StatusBarRenderer)

// WithMessage replaces the note with message, rendered in the given style.
func WithMessage(message string, style Style) StatusBarOpt {
	return func(r *StatusBarRenderer) {
		r.style = style
		r.message = message
	}
}

// RenderWithNote renders the bar with a note on the left and a short
// position indicator, such as "page 2/9", on the right.
func (r *StatusBarRenderer) RenderWithNote(note, position string) string {
	logo := r.logoView()
	help := r.helpView()
	pos := r.positionView(position)
	msg := r.noteView(note, lipgloss.Width(logo)+lipgloss.Width(pos)+lipgloss.Width(help))
	space := r.spaceView(logo, msg, pos, help)

	return logo + msg + space + pos + help
}

func (r *StatusBarRenderer) styles() (note, pos, help lipgloss.Style) {
	t := r.theme

	switch r.style {
	case StyleError:
		return t.StatusBarErrorStyle, t.StatusBarErrorPosStyle, t.StatusBarErrorHelpStyle
	case StyleSuccess:
		return t.StatusBarMessageStyle, t.StatusBarMessagePosStyle, t.StatusBarMessageHelpStyle
	default:
		return t.StatusBarStyle, t.StatusBarPosStyle, t.StatusBarHelpStyle
	}
}

func (r *StatusBarRenderer) positionView(position string) string {
	if position == "" {
		return ""
	}

	_, pos, _ := r.styles()

	return pos.Render(" " + position + " ")
}

func (r *StatusBarRenderer) helpView() string {
	_, _, help := r.styles()
	if r.style == StyleError {
		return help.Render(errorText)
	}

	return help.Render(helpText)
}

func (r *StatusBarRenderer) noteView(note string, used int) string {
	if r.message != "" {
		note = r.message
	}

	note = strings.TrimSpace(strings.ReplaceAll(note, "\n", " "))
	available := uint(max(0, r.width-used)) //nolint:gosec // Uses max.
	note = truncate.StringWithTail(" "+note+" ", available, r.theme.Ellipsis)

	style, _, _ := r.styles()

	return style.Render(note)
}

func (r *StatusBarRenderer) spaceView(components ...string) string {
	padding := r.width
	for _, c := range components {
		padding -= ansi.PrintableRuneWidth(c)
	}

	style, _, _ := r.styles()

	return style.Render(strings.Repeat(" ", max(0, padding)))
}

func (r *StatusBarRenderer) logoView() string {
	return r.theme.LogoStyle.Render(fmt.Sprintf(" fleetdesk %s ", version.GetVersion()))
}
