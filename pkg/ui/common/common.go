// Package common holds state and key bindings shared by every TUI view.
package common

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/fleetdesk/pkg/keys"
	"github.com/macropower/fleetdesk/pkg/ui/statusbar"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

type CommonModel struct {
	Theme              *theme.Theme
	StatusMessageTimer *time.Timer
	KeyBinds           *KeyBinds
	StatusMessage      StatusMessage
	Width              int
	Height             int
	ShowStatusMessage  bool
}

const StatusMessageTimeout = time.Second * 3 // How long to show status messages.

type (
	StatusMessage struct {
		Message string
		Style   statusbar.Style
	}
	StatusMessageTimeoutMsg struct{}
)

// GetStatusBar returns a renderer for the current status message, if any.
func (m *CommonModel) GetStatusBar() *statusbar.StatusBarRenderer {
	if m.ShowStatusMessage && m.StatusMessage.Message != "" {
		return statusbar.NewStatusBarRenderer(m.Theme, m.Width,
			statusbar.WithMessage(m.StatusMessage.Message, m.StatusMessage.Style))
	}

	return statusbar.NewStatusBarRenderer(m.Theme, m.Width)
}

// SendStatusMessage shows msg in the status bar until [StatusMessageTimeout]
// elapses.
func (m *CommonModel) SendStatusMessage(msg string, style statusbar.Style) tea.Cmd {
	m.ShowStatusMessage = true
	m.StatusMessage = StatusMessage{
		Message: msg,
		Style:   style,
	}
	if m.StatusMessageTimer != nil {
		m.StatusMessageTimer.Stop()
	}

	m.StatusMessageTimer = time.NewTimer(StatusMessageTimeout)

	return WaitForStatusMessageTimeout(m.StatusMessageTimer)
}

type ErrMsg struct{ Err error } //nolint:errname // Tea message.

func (e ErrMsg) Error() string { return e.Err.Error() }

func WaitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C

		return StatusMessageTimeoutMsg{}
	}
}

type KeyBinds struct {
	Quit    *keys.KeyBind `json:"quit,omitempty"`
	Suspend *keys.KeyBind `json:"suspend,omitempty"`
	Reload  *keys.KeyBind `json:"reload,omitempty"`
	Help    *keys.KeyBind `json:"help,omitempty"`
	Escape  *keys.KeyBind `json:"escape,omitempty"`

	// Navigation.
	Up       *keys.KeyBind `json:"up,omitempty"`
	Down     *keys.KeyBind `json:"down,omitempty"`
	Prev     *keys.KeyBind `json:"prev,omitempty"`
	Next     *keys.KeyBind `json:"next,omitempty"`
	PrevView *keys.KeyBind `json:"prevView,omitempty"`
	NextView *keys.KeyBind `json:"nextView,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Quit, keys.NewBind("quit", keys.New("q")))
	// Always ensure that ctrl+c is bound to quit.
	kb.Quit.AddKey(keys.New("ctrl+c", keys.WithAlias("⌃c"), keys.Hidden()))

	keys.SetDefaultBind(&kb.Suspend,
		keys.NewBind("suspend",
			keys.New("ctrl+z", keys.WithAlias("⌃z"), keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Reload,
		keys.NewBind("reload",
			keys.New("r"),
		))
	keys.SetDefaultBind(&kb.Escape,
		keys.NewBind("go back",
			keys.New("esc"),
		))
	keys.SetDefaultBind(&kb.Help,
		keys.NewBind("toggle help",
			keys.New("?"),
		))

	keys.SetDefaultBind(&kb.Up,
		keys.NewBind("move up",
			keys.New("up", keys.WithAlias("↑")),
			keys.New("k"),
		))
	keys.SetDefaultBind(&kb.Down,
		keys.NewBind("move down",
			keys.New("down", keys.WithAlias("↓")),
			keys.New("j"),
		))
	keys.SetDefaultBind(&kb.Prev,
		keys.NewBind("previous page",
			keys.New("left", keys.WithAlias("←")),
			keys.New("h"),
		))
	keys.SetDefaultBind(&kb.Next,
		keys.NewBind("next page",
			keys.New("right", keys.WithAlias("→")),
			keys.New("l"),
		))
	keys.SetDefaultBind(&kb.PrevView,
		keys.NewBind("previous view",
			keys.New("["),
			keys.New("shift+tab", keys.WithAlias("⇧+tab")),
		))
	keys.SetDefaultBind(&kb.NextView,
		keys.NewBind("next view",
			keys.New("]"),
			keys.New("tab"),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Quit,
		*kb.Suspend,
		*kb.Reload,
		*kb.Escape,
		*kb.Help,
		*kb.Up,
		*kb.Down,
		*kb.Prev,
		*kb.Next,
		*kb.PrevView,
		*kb.NextView,
	}
}
