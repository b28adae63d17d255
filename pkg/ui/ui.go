// Package ui provides the terminal interface for browsing and editing the
// fleet: a sidebar of resource kinds, a paged table per kind, and the
// create/edit dialogs.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/debounce"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/ui/common"
	"github.com/macropower/fleetdesk/pkg/ui/form"
	"github.com/macropower/fleetdesk/pkg/ui/list"
	"github.com/macropower/fleetdesk/pkg/ui/overlay"
	"github.com/macropower/fleetdesk/pkg/ui/sidebar"
	"github.com/macropower/fleetdesk/pkg/ui/statusbar"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

// Backend provides the collections shown by the UI.
type Backend interface {
	Collection(k fleet.Kind) (api.Collection, error)
	// AllFeatures returns every accessibility feature, for the vehicle forms.
	AllFeatures(ctx context.Context) ([]fleet.AccessibilityFeature, error)
}

// NewBackend adapts an [api.Client] to [Backend].
func NewBackend(c *api.Client) Backend {
	return clientBackend{client: c}
}

type clientBackend struct {
	client *api.Client
}

//nolint:ireturn // Erased collection.
func (b clientBackend) Collection(k fleet.Kind) (api.Collection, error) {
	return b.client.Collection(k) //nolint:wrapcheck // Already descriptive.
}

func (b clientBackend) AllFeatures(ctx context.Context) ([]fleet.AccessibilityFeature, error) {
	return b.client.Features().All(ctx) //nolint:wrapcheck // Already descriptive.
}

// NewProgram returns a new Tea program.
func NewProgram(cfg *Config, backend Backend, opts ...tea.ProgramOption) (*tea.Program, error) {
	slog.Debug("starting fleetdesk ui")

	m, err := NewModel(cfg, backend)
	if err != nil {
		return nil, err
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	return tea.NewProgram(m, opts...), nil
}

type (
	// formReadyMsg carries what is needed to open the create/edit form.
	formReadyMsg struct {
		Entity   fleet.Entity
		Kind     fleet.Kind
		Features []fleet.AccessibilityFeature
	}

	// SavedMsg carries the result of a create or update request.
	SavedMsg struct {
		Err     error
		Entity  fleet.Entity
		Kind    fleet.Kind
		Created bool
	}
)

type OverlayState int

const (
	overlayStateNone OverlayState = iota
	overlayStateError
	overlayStateLoading
	overlayStateForm
)

type model struct {
	err          error
	cm           *common.CommonModel
	backend      Backend
	overlay      *overlay.Overlay
	kb           *KeyBinds
	sidebar      *sidebar.Model
	form         *form.Model
	lists        map[fleet.Kind]list.ListModel
	collections  map[fleet.Kind]api.Collection
	started      map[fleet.Kind]bool
	spinner      spinner.Model
	overlayState OverlayState
}

// NewModel creates the root model for cfg, reading from backend.
//
//nolint:ireturn // Must satisfy [tea.Model].
func NewModel(cfg *Config, backend Backend) (tea.Model, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	cfg.EnsureDefaults()

	cm := &common.CommonModel{
		Theme:    theme.New(cfg.Theme),
		KeyBinds: cfg.KeyBinds.Common,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = cm.Theme.GenericTextStyle

	m := &model{
		cm:          cm,
		backend:     backend,
		overlay:     overlay.New(cm.Theme),
		kb:          cfg.KeyBinds,
		sidebar:     sidebar.New(cm.Theme),
		lists:       make(map[fleet.Kind]list.ListModel, len(fleet.AllKinds)),
		collections: make(map[fleet.Kind]api.Collection, len(fleet.AllKinds)),
		started:     make(map[fleet.Kind]bool, len(fleet.AllKinds)),
		spinner:     sp,
	}

	for _, k := range m.sidebar.Kinds() {
		col, err := backend.Collection(k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}

		m.collections[k] = col
		m.lists[k] = list.NewModel(list.Config{
			CommonModel: cm,
			KeyBinds:    cfg.KeyBinds.List,
			Collection:  col,
			Debouncer:   debounce.New(*cfg.SearchDelay),
			PageSize:    *cfg.PageSize,
		})
	}

	return m, nil
}

func (m *model) Init() tea.Cmd {
	return m.showList(m.sidebar.Active())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	// Window size is received when starting up and on every resize.
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

		return m, nil

	case common.StatusMessageTimeoutMsg:
		m.cm.ShowStatusMessage = false

		return m, nil

	case common.ErrMsg:
		m.showError(msg.Err)

		return m, nil

	case list.OpenFormMsg:
		return m, m.prepareForm(msg)

	case formReadyMsg:
		return m, m.openForm(msg)

	case SavedMsg:
		return m, m.handleSaved(msg)

	case spinner.TickMsg:
		if m.overlayState != overlayStateLoading {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case list.Msg:
		return m, m.updateList(msg.ListKind(), msg)
	}

	// Anything else belongs to whichever component has focus, e.g. form
	// navigation and cursor blinks.
	if m.form != nil {
		return m, m.updateForm(msg)
	}

	return m, m.updateList(m.sidebar.Active(), msg)
}

func (m *model) View() string {
	content := m.activeList().View()

	s := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), content)

	switch m.overlayState {
	case overlayStateError:
		style := m.cm.Theme.ErrorOverlayStyle.
			Align(lipgloss.Left).
			Padding(1)
		s = m.overlay.Place(s, m.errorView(), 2.0/3.0, style)

	case overlayStateLoading:
		style := m.cm.Theme.GenericOverlayStyle.
			Align(lipgloss.Center).
			Padding(1)
		s = m.overlay.Place(s, m.loadingView(), 1.0/4.0, style)

	case overlayStateForm:
		if m.form != nil {
			s = m.overlay.Place(s, m.form.View(), formWidthFraction, m.formStyle())
		}
	}

	return strings.TrimRight(s, " \n")
}

const formWidthFraction = 2.0 / 3.0

func (m *model) formStyle() lipgloss.Style {
	return m.cm.Theme.GenericOverlayStyle.
		Align(lipgloss.Left).
		Padding(1, 2)
}

func (m *model) errorView() string {
	errMsg := "<nil>"
	if m.err != nil {
		errMsg = m.err.Error()
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		m.cm.Theme.ErrorTitleStyle.Padding(0, 1).Render("ERROR"),
		lipgloss.NewStyle().Padding(1, 0).Render(errMsg),
	)
}

func (m *model) loadingView() string {
	return m.spinner.View() + " Saving..."
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// Always allow suspend and interrupt regardless of current focus.
	switch {
	case m.kb.Common.Suspend.Match(key):
		return tea.Suspend
	case key == "ctrl+c":
		return tea.Quit
	}

	switch m.overlayState {
	case overlayStateLoading:
		return nil

	case overlayStateError:
		// Any key dismisses the error, escape does nothing else.
		m.overlayState = overlayStateNone
		m.err = nil

		if m.form != nil {
			m.overlayState = overlayStateForm

			return nil
		}

		if m.kb.Common.Escape.Match(key) {
			return nil
		}

	case overlayStateForm:
		return m.updateForm(msg)
	}

	kind := m.sidebar.Active()
	if m.activeList().InputFocused() {
		return m.updateList(kind, msg)
	}

	switch {
	case m.kb.Common.Quit.Match(key):
		return tea.Quit

	case m.kb.Common.Reload.Match(key):
		return list.Reload(kind)
	}

	if m.sidebar.HandleKey(m.kb.Common, key) {
		return m.showList(m.sidebar.Active())
	}

	return m.updateList(kind, msg)
}

func (m *model) activeList() list.ListModel {
	return m.lists[m.sidebar.Active()]
}

// showList loads the first page of kind the first time it is shown.
func (m *model) showList(kind fleet.Kind) tea.Cmd {
	if m.started[kind] {
		return nil
	}

	m.started[kind] = true

	return m.lists[kind].Init()
}

func (m *model) updateList(kind fleet.Kind, msg tea.Msg) tea.Cmd {
	l, ok := m.lists[kind]
	if !ok {
		return nil
	}

	l, cmd := l.Update(msg)
	m.lists[kind] = l

	return cmd
}

// prepareForm fetches the selectable accessibility features when the form
// edits a vehicle.
func (m *model) prepareForm(msg list.OpenFormMsg) tea.Cmd {
	ready := formReadyMsg{Entity: msg.Entity, Kind: msg.Kind}
	if msg.Kind == fleet.KindFeature {
		return func() tea.Msg { return ready }
	}

	backend := m.backend

	return func() tea.Msg {
		features, err := backend.AllFeatures(context.Background())
		if err != nil {
			return common.ErrMsg{Err: fmt.Errorf("load accessibility features: %w", err)}
		}

		ready.Features = features

		return ready
	}
}

func (m *model) openForm(msg formReadyMsg) tea.Cmd {
	f, err := form.New(form.Config{
		Theme:    m.cm.Theme,
		KeyBinds: m.kb.Common,
		Entity:   msg.Entity,
		Kind:     msg.Kind,
		Features: msg.Features,
	})
	if err != nil {
		m.showError(err)

		return nil
	}

	m.form = &f
	m.overlayState = overlayStateForm
	m.resizeForm()

	return m.form.Init()
}

func (m *model) updateForm(msg tea.Msg) tea.Cmd {
	if m.form == nil {
		return nil
	}

	f, cmd := m.form.Update(msg)

	switch {
	case f.IsAborted():
		m.closeForm()

		return cmd

	case f.IsCompleted():
		m.closeForm()

		e, err := f.Entity()
		if err != nil {
			m.showError(err)

			return cmd
		}

		return tea.Batch(cmd, m.save(f.Kind(), e))
	}

	m.form = &f

	return cmd
}

func (m *model) closeForm() {
	m.form = nil
	if m.overlayState == overlayStateForm {
		m.overlayState = overlayStateNone
	}
}

func (m *model) save(kind fleet.Kind, e fleet.Entity) tea.Cmd {
	col, ok := m.collections[kind]
	if !ok {
		m.showError(fmt.Errorf("%w: %q", fleet.ErrUnknownKind, kind))

		return nil
	}

	m.overlayState = overlayStateLoading

	created := e.EntityID() == 0

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		saved, err := col.Save(context.Background(), e)

		return SavedMsg{Entity: saved, Kind: kind, Err: err, Created: created}
	})
}

func (m *model) handleSaved(msg SavedMsg) tea.Cmd {
	if m.overlayState == overlayStateLoading {
		m.overlayState = overlayStateNone
	}

	if msg.Err != nil {
		m.showError(fmt.Errorf("save %s: %w", msg.Kind.Singular(), msg.Err))

		return nil
	}

	action := "updated"
	if msg.Created {
		action = "created"
	}

	slog.Debug("saved resource",
		slog.String("kind", msg.Kind.String()),
		slog.Int64("id", msg.Entity.EntityID()),
		slog.Bool("created", msg.Created),
	)

	return tea.Batch(
		list.Reload(msg.Kind),
		m.cm.SendStatusMessage(fmt.Sprintf("%s %s", action, msg.Entity.Label()), statusbar.StyleSuccess),
	)
}

func (m *model) showError(err error) {
	slog.Debug("showing error", slog.Any("err", err))

	m.err = err
	m.overlayState = overlayStateError
}

// handleWindowResize handles terminal window resize events.
func (m *model) handleWindowResize(msg tea.WindowSizeMsg) {
	contentWidth := max(0, msg.Width-sidebar.Width)

	// The content area is what the list views and status bar fill.
	m.cm.Width = contentWidth
	m.cm.Height = msg.Height

	m.sidebar.SetHeight(msg.Height)
	m.overlay.SetSize(msg.Width, msg.Height)

	for k, l := range m.lists {
		l.SetSize(contentWidth, msg.Height)
		m.lists[k] = l
	}

	m.resizeForm()
}

func (m *model) resizeForm() {
	if m.form == nil {
		return
	}

	style := m.formStyle()
	width := int(float64(m.cm.Width+sidebar.Width)*formWidthFraction) - style.GetHorizontalFrameSize()
	// The overlay keeps four rows free above and below the box.
	height := m.cm.Height - 8 - style.GetVerticalFrameSize()

	m.form.SetSize(max(0, width), max(0, height))
}
