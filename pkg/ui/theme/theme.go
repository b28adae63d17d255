// Package theme derives lipgloss styles for the TUI from a Chroma style, so
// that every Chroma style name can be used as a fleetdesk theme.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const Ellipsis = "…"

var (
	ErrInvalidName = errors.New("invalid theme name")

	Default = New("auto")
)

type Theme struct {
	// General.
	GenericTextStyle    lipgloss.Style
	SubtleStyle         lipgloss.Style
	SelectedStyle       lipgloss.Style
	SelectedSubtleStyle lipgloss.Style
	ErrorTextStyle      lipgloss.Style
	LogoStyle           lipgloss.Style
	HelpStyle           lipgloss.Style

	// Overlays.
	GenericOverlayStyle lipgloss.Style
	ErrorOverlayStyle   lipgloss.Style
	ErrorTitleStyle     lipgloss.Style
	ResultTitleStyle    lipgloss.Style

	// Tables.
	HeaderStyle lipgloss.Style
	CursorStyle lipgloss.Style
	BorderStyle lipgloss.Style

	// Sidebar.
	TabStyle       lipgloss.Style
	ActiveTabStyle lipgloss.Style

	// Pagination.
	PageStyle         lipgloss.Style
	CurrentPageStyle  lipgloss.Style
	DisabledPageStyle lipgloss.Style
	PaginationStyle   lipgloss.Style

	// Status bar.
	StatusBarStyle            lipgloss.Style
	StatusBarPosStyle         lipgloss.Style
	StatusBarHelpStyle        lipgloss.Style
	StatusBarMessageStyle     lipgloss.Style
	StatusBarMessagePosStyle  lipgloss.Style
	StatusBarMessageHelpStyle lipgloss.Style
	StatusBarErrorStyle       lipgloss.Style
	StatusBarErrorPosStyle    lipgloss.Style
	StatusBarErrorHelpStyle   lipgloss.Style

	ChromaStyle *chroma.Style
	Name        string
	Ellipsis    string
}

// New creates a [Theme] from the named Chroma style. The names "dark",
// "light" and "auto" select a GitHub style for the terminal background.
// Unknown names fall back to [styles.Fallback].
func New(name string) *Theme {
	cs := newChromaStyle(name)

	var (
		text     = cs.fg(chroma.Background)
		inverse  = cs.bg(chroma.Background)
		accent   = cs.fg(chroma.NameTag)
		subtle   = cs.fg(chroma.Comment)
		deleted  = cs.fg(chroma.GenericDeleted)
		inserted = cs.fg(chroma.GenericInserted)

		generic  = lipgloss.NewStyle().Foreground(text)
		selected = lipgloss.NewStyle().Foreground(accent)
		faded    = lipgloss.NewStyle().Foreground(subtle)

		barBg     = cs.bgFactor(chroma.Background, 0.1)
		barPosBg  = cs.bgFactor(chroma.Background, 0.15)
		barHelpBg = cs.bgFactor(chroma.Background, 0.2)
	)

	return &Theme{
		GenericTextStyle:    generic,
		SubtleStyle:         faded,
		SelectedStyle:       selected,
		SelectedSubtleStyle: lipgloss.NewStyle().Foreground(cs.fgFactor(chroma.NameTag, 0.3)),
		ErrorTextStyle:      lipgloss.NewStyle().Foreground(deleted),
		LogoStyle:           lipgloss.NewStyle().Foreground(inverse).Background(accent).Bold(true),
		HelpStyle: lipgloss.NewStyle().
			Foreground(cs.fgFactor(chroma.Background, 0.2)).
			Background(barHelpBg),

		GenericOverlayStyle: generic.Border(lipgloss.RoundedBorder()).Padding(0, 1),
		ErrorOverlayStyle:   generic.Border(lipgloss.RoundedBorder()).BorderForeground(deleted).Padding(0, 1),
		ErrorTitleStyle:     lipgloss.NewStyle().Foreground(inverse).Background(deleted).Padding(0, 1),
		ResultTitleStyle:    lipgloss.NewStyle().Foreground(inverse).Background(inserted).Padding(0, 1),

		HeaderStyle: selected.Bold(true),
		CursorStyle: lipgloss.NewStyle().Foreground(accent).Background(barBg).Bold(true),
		BorderStyle: faded,

		TabStyle:       faded.Padding(0, 1),
		ActiveTabStyle: lipgloss.NewStyle().Foreground(inverse).Background(accent).Bold(true).Padding(0, 1),

		PageStyle:         generic,
		CurrentPageStyle:  selected.Bold(true).Underline(true),
		DisabledPageStyle: faded.Faint(true),
		PaginationStyle:   faded,

		StatusBarStyle:            lipgloss.NewStyle().Foreground(text).Background(barBg),
		StatusBarPosStyle:         lipgloss.NewStyle().Foreground(text).Background(barPosBg),
		StatusBarHelpStyle:        lipgloss.NewStyle().Foreground(subtle).Background(barHelpBg),
		StatusBarMessageStyle:     lipgloss.NewStyle().Foreground(inverse).Background(cs.fgFactor(chroma.NameTag, 0.15)),
		StatusBarMessagePosStyle:  lipgloss.NewStyle().Foreground(inverse).Background(cs.fgFactor(chroma.NameTag, 0.1)),
		StatusBarMessageHelpStyle: lipgloss.NewStyle().Foreground(inverse).Background(accent),
		StatusBarErrorStyle:       lipgloss.NewStyle().Foreground(inverse).Background(cs.fgFactor(chroma.GenericDeleted, 0.15)),
		StatusBarErrorPosStyle:    lipgloss.NewStyle().Foreground(inverse).Background(cs.fgFactor(chroma.GenericDeleted, 0.1)),
		StatusBarErrorHelpStyle:   lipgloss.NewStyle().Foreground(inverse).Background(deleted),

		ChromaStyle: cs.style,
		Name:        cs.style.Name,
		Ellipsis:    Ellipsis,
	}
}

// Register adds a custom Chroma style that can then be selected by name.
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	s, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("create chroma style: %w", err)
	}

	styles.Register(s)

	return nil
}

// Names returns all registered style names, plus the adaptive aliases.
func Names() []string {
	return append([]string{"auto", "dark", "light"}, styles.Names()...)
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(name string) chromaStyle {
	s, ok := styles.Registry[resolveName(name)]
	if !ok || s == nil {
		s = styles.Fallback
	}

	return chromaStyle{style: s}
}

func (cs chromaStyle) fg(t chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(t).Colour.String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) bg(t chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(t).Background.String())
}

func (cs chromaStyle) fgFactor(t chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(t).Colour.BrightenOrDarken(factor).String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) bgFactor(t chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(t).Background.BrightenOrDarken(factor).String())
}

func resolveName(name string) string {
	switch name {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return "github"
		}
		if termenv.HasDarkBackground() {
			return "github-dark"
		}

		return "github"
	default:
		return name
	}
}
