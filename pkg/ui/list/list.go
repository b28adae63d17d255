// Package list implements the paged resource table shown for each fleet
// collection.
package list

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/debounce"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/keys"
	"github.com/macropower/fleetdesk/pkg/pagewindow"
	"github.com/macropower/fleetdesk/pkg/ui/common"
	"github.com/macropower/fleetdesk/pkg/ui/overlay"
	"github.com/macropower/fleetdesk/pkg/ui/pagination"
	"github.com/macropower/fleetdesk/pkg/ui/statusbar"
	"github.com/macropower/fleetdesk/pkg/ui/table"
)

const (
	listIndent     = 1
	confirmTitle   = "Confirmation"
	confirmMessage = "Are you sure you want to delete this item?"
)

// Msg is implemented by messages addressed to the list of one kind.
type Msg interface {
	ListKind() fleet.Kind
}

type (
	// ReloadMsg requests the current page again.
	ReloadMsg struct {
		Kind fleet.Kind
	}

	// PageMsg carries the result of a page request.
	PageMsg struct {
		Err  error
		Page *api.Page[fleet.Entity]
		Kind fleet.Kind
		seq  uint64
	}

	// SearchMsg is sent once the search input has been quiet for the
	// debounce delay.
	SearchMsg struct {
		Kind fleet.Kind
		Term string
	}

	// DeletedMsg carries the result of a delete request.
	DeletedMsg struct {
		Err    error
		Entity fleet.Entity
		Kind   fleet.Kind
	}

	// OpenFormMsg requests the create/edit form. Entity is nil when creating.
	OpenFormMsg struct {
		Entity fleet.Entity
		Kind   fleet.Kind
	}
)

func (m ReloadMsg) ListKind() fleet.Kind { return m.Kind }
func (m PageMsg) ListKind() fleet.Kind { return m.Kind }
func (m SearchMsg) ListKind() fleet.Kind { return m.Kind }
func (m DeletedMsg) ListKind() fleet.Kind { return m.Kind }
func (m OpenFormMsg) ListKind() fleet.Kind { return m.Kind }

// ViewState is the focus state of the list.
type ViewState int

const (
	StateBrowsing ViewState = iota
	StateSearching
	StateConfirming
)

type ListModel struct {
	cm           *common.CommonModel
	col          api.Collection
	debouncer    *debounce.Debouncer
	keyHandler   *KeyHandler
	helpRenderer *statusbar.HelpRenderer
	overlay      *overlay.Overlay
	page         *api.Page[fleet.Entity]
	pending      fleet.Entity
	searchInput  textinput.Model
	kind         fleet.Kind
	query        api.ListQuery
	seq          uint64
	cursor       int
	width        int
	height       int
	ViewState    ViewState
	loading      bool
	confirmFocus bool
	ShowHelp     bool
}

type Config struct {
	CommonModel *common.CommonModel
	KeyBinds    *KeyBinds
	Collection  api.Collection
	Debouncer   *debounce.Debouncer
	PageSize    int
}

func NewModel(c Config) ListModel {
	kind := c.Collection.Kind()

	size := c.PageSize
	if size <= 0 {
		size = pagewindow.DefaultPageSize
	}

	d := c.Debouncer
	if d == nil {
		d = debounce.New(debounce.DefaultDelay)
	}

	ckb := c.CommonModel.KeyBinds
	kb := c.KeyBinds

	kbr := &keys.KeyBindRenderer{}
	kbr.AddColumn(
		*ckb.Up,
		*ckb.Down,
		*ckb.Prev,
		*ckb.Next,
		*kb.First,
		*kb.Last,
	)
	kbr.AddColumn(
		*kb.Search,
		*kb.Sort,
		*kb.Order,
		*ckb.Reload,
	)
	kbr.AddColumn(
		*kb.Create,
		*kb.Edit,
		*kb.Delete,
		*kb.Copy,
	)
	kbr.AddColumn(
		*ckb.PrevView,
		*ckb.NextView,
		*ckb.Escape,
		*ckb.Help,
		*ckb.Quit,
	)

	return ListModel{
		cm:           c.CommonModel,
		col:          c.Collection,
		kind:         kind,
		query:        api.NewListQuery(kind, size),
		debouncer:    d,
		keyHandler:   NewKeyHandler(kb, ckb),
		helpRenderer: statusbar.NewHelpRenderer(c.CommonModel.Theme, kbr),
		overlay:      overlay.New(c.CommonModel.Theme),
		searchInput:  newSearchInput(c.CommonModel),
	}
}

// Init requests the first page.
func (m ListModel) Init() tea.Cmd {
	return Reload(m.kind)
}

// Reload returns a command that requests the current page of kind again.
func Reload(kind fleet.Kind) tea.Cmd {
	return func() tea.Msg {
		return ReloadMsg{Kind: kind}
	}
}

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.ViewState {
		case StateSearching:
			return m.keyHandler.HandleSearching(m, msg)
		case StateConfirming:
			return m.keyHandler.HandleConfirm(m, msg)
		default:
			return m.keyHandler.HandleBrowsing(m, msg)
		}

	case ReloadMsg:
		return m, m.load()

	case PageMsg:
		return m.handlePage(msg)

	case SearchMsg:
		term := strings.TrimSpace(msg.Term)
		if term == m.query.Search {
			return m, nil
		}

		m.query.Search = term

		return m, m.goToPage(0)

	case DeletedMsg:
		return m.handleDeleted(msg)
	}

	if m.ViewState == StateSearching {
		var cmd tea.Cmd

		m.searchInput, cmd = m.searchInput.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ListModel) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.tableView(),
	)

	footer := lipgloss.JoinVertical(lipgloss.Left,
		"",
		m.paginationView(),
		m.statusBarView(),
		m.helpView(),
	)

	bodyHeight := max(0, m.height-lipgloss.Height(footer))
	s := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	s = lipgloss.JoinVertical(lipgloss.Left, s, footer)

	if m.ViewState == StateConfirming {
		style := m.cm.Theme.ErrorOverlayStyle.Padding(1, 2)
		s = m.overlay.Place(s, m.confirmView(), 1.0/2.0, style)
	}

	return s
}

func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.overlay.SetSize(width, height)
	m.searchInput.Width = max(0, width-listIndent*2-lipgloss.Width(m.searchInput.Prompt)-2)
}

// Kind returns the collection kind shown by the list.
func (m ListModel) Kind() fleet.Kind {
	return m.kind
}

// Query returns the query used for the current page.
func (m ListModel) Query() api.ListQuery {
	return m.query
}

// Page returns the last loaded page, or nil before the first load.
func (m ListModel) Page() *api.Page[fleet.Entity] {
	return m.page
}

// Loading reports whether a page request is in flight.
func (m ListModel) Loading() bool {
	return m.loading
}

// InputFocused reports whether keys should be delivered to the list before
// any global binding, so that typing and dialogs are not interrupted.
func (m ListModel) InputFocused() bool {
	return m.ViewState != StateBrowsing
}

// Selected returns the entity under the cursor.
func (m ListModel) Selected() fleet.Entity {
	if m.page == nil || m.cursor < 0 || m.cursor >= len(m.page.Content) {
		return nil
	}

	return m.page.Content[m.cursor]
}

func (m ListModel) state() pagewindow.State {
	if m.page == nil {
		return pagewindow.State{PageSize: m.query.Size}
	}

	// The requested page and size win over what the backend echoes back.
	return pagewindow.State{
		CurrentPage:   m.query.Page,
		TotalPages:    m.page.TotalPages,
		TotalElements: m.page.TotalElements,
		PageSize:      m.query.Size,
	}
}

func (m ListModel) window() pagewindow.Window {
	return pagewindow.Compute(m.state())
}

func (m *ListModel) load() tea.Cmd {
	m.seq++
	m.loading = true

	col, q, seq := m.col, m.query, m.seq

	return func() tea.Msg {
		page, err := col.List(context.Background(), q)

		return PageMsg{Kind: col.Kind(), Page: page, Err: err, seq: seq}
	}
}

func (m *ListModel) goToPage(page int) tea.Cmd {
	m.query.Page = max(0, page)
	m.cursor = 0

	return m.load()
}

func (m ListModel) handlePage(msg PageMsg) (ListModel, tea.Cmd) {
	if msg.seq != m.seq {
		slog.Debug("dropping stale page",
			slog.String("kind", m.kind.String()),
			slog.Uint64("seq", msg.seq),
		)

		return m, nil
	}

	m.loading = false

	if msg.Err != nil {
		return m, func() tea.Msg {
			return common.ErrMsg{Err: msg.Err}
		}
	}

	m.page = msg.Page
	m.cursor = min(m.cursor, max(0, len(m.page.Content)-1))

	// The collection shrank underneath us, e.g. another client deleted rows.
	if len(m.page.Content) == 0 && m.page.TotalPages > 0 && m.query.Page >= m.page.TotalPages {
		return m, m.goToPage(pagewindow.ClampPage(m.query.Page, m.page.TotalPages))
	}

	return m, nil
}

func (m *ListModel) moveCursor(delta int) {
	if m.page == nil || len(m.page.Content) == 0 {
		m.cursor = 0

		return
	}

	m.cursor = max(0, min(m.cursor+delta, len(m.page.Content)-1))
}

func (m *ListModel) startSearching() tea.Cmd {
	m.ViewState = StateSearching
	m.searchInput.SetValue(m.query.Search)
	m.searchInput.CursorEnd()

	return m.searchInput.Focus()
}

// stopSearching leaves the search input. With clear, the search term is
// removed and the first unfiltered page is requested.
func (m *ListModel) stopSearching(clear bool) tea.Cmd {
	m.ViewState = StateBrowsing
	m.searchInput.Blur()

	if !clear {
		return nil
	}

	m.debouncer.Stop()
	m.searchInput.Reset()

	if m.query.Search == "" {
		return nil
	}

	m.query.Search = ""

	return m.goToPage(0)
}

func (m *ListModel) scheduleSearch() tea.Cmd {
	w := m.debouncer.Schedule()
	kind, term := m.kind, m.searchInput.Value()

	return func() tea.Msg {
		if !w.Wait() {
			return nil
		}

		return SearchMsg{Kind: kind, Term: term}
	}
}

func (m *ListModel) openForm(e fleet.Entity) tea.Cmd {
	kind := m.kind
	if e == nil {
		return func() tea.Msg {
			return OpenFormMsg{Kind: kind}
		}
	}

	// Edit the latest version rather than the row snapshot.
	col, id := m.col, e.EntityID()

	return func() tea.Msg {
		fresh, err := col.Get(context.Background(), id)
		if err != nil {
			return common.ErrMsg{Err: fmt.Errorf("load %s: %w", e.Label(), err)}
		}

		return OpenFormMsg{Kind: kind, Entity: fresh}
	}
}

func (m *ListModel) confirmDelete(e fleet.Entity) {
	m.pending = e
	m.confirmFocus = false
	m.ViewState = StateConfirming
}

func (m *ListModel) cancelDelete() {
	m.pending = nil
	m.ViewState = StateBrowsing
}

func (m *ListModel) deleteConfirmed() tea.Cmd {
	e := m.pending
	m.cancelDelete()

	if e == nil {
		return nil
	}

	col, kind := m.col, m.kind

	return func() tea.Msg {
		err := col.Delete(context.Background(), e.EntityID())

		return DeletedMsg{Kind: kind, Entity: e, Err: err}
	}
}

func (m ListModel) handleDeleted(msg DeletedMsg) (ListModel, tea.Cmd) {
	if msg.Err != nil && !errors.Is(msg.Err, api.ErrNotFound) {
		return m, func() tea.Msg {
			return common.ErrMsg{Err: msg.Err}
		}
	}

	// The collection has shrunk by one, so the current page may no longer exist.
	s := m.state()
	remaining := max(0, s.TotalElements-1)
	size := max(1, m.query.Size)
	totalPages := (remaining + size - 1) / size

	cmds := []tea.Cmd{m.goToPage(pagewindow.ClampPage(m.query.Page, totalPages))}

	if msg.Err != nil {
		err := fmt.Errorf("delete %s: %w", msg.Entity.Label(), api.ErrNotFound)
		cmds = append(cmds, func() tea.Msg {
			return common.ErrMsg{Err: err}
		})
	} else {
		cmds = append(cmds, m.cm.SendStatusMessage("deleted "+msg.Entity.Label(), statusbar.StyleSuccess))
	}

	return m, tea.Batch(cmds...)
}

func (m *ListModel) copyID(e fleet.Entity) tea.Cmd {
	id := strconv.FormatInt(e.EntityID(), 10)

	// Copy using OSC 52.
	termenv.Copy(id)
	// Copy using native system clipboard.
	_ = clipboard.WriteAll(id) //nolint:errcheck // Can be ignored.

	return m.cm.SendStatusMessage("copied id "+id, statusbar.StyleSuccess)
}

func (m ListModel) headerView() string {
	if m.ViewState == StateSearching {
		return lipgloss.NewStyle().
			Padding(0, listIndent+1, 1).
			Render(m.searchInput.View())
	}

	divider := m.cm.Theme.SubtleStyle.Render(" • ")

	sections := []string{m.cm.Theme.SelectedStyle.Bold(true).Render(m.kind.Title())}

	arrow := "↑"
	if m.query.Sort.Order == fleet.OrderDesc {
		arrow = "↓"
	}

	sections = append(sections,
		m.cm.Theme.SubtleStyle.Render("sorted by "+m.query.Sort.Field.Label()+" "+arrow))

	if m.query.Search != "" {
		sections = append(sections,
			m.cm.Theme.SubtleStyle.Render(fmt.Sprintf("search “%s”", m.query.Search)))
	}

	return lipgloss.NewStyle().
		Padding(0, listIndent+1, 1).
		Render(strings.Join(sections, divider))
}

func (m ListModel) tableView() string {
	if m.page == nil || len(m.page.Content) == 0 {
		msg := "Nothing to see here."
		switch {
		case m.page == nil && m.loading:
			msg = "Loading " + strings.ToLower(m.kind.Title()) + "..."
		case m.query.Search != "":
			msg = "No results."
		}

		return strings.Repeat(" ", listIndent+1) + m.cm.Theme.SubtleStyle.Render(msg)
	}

	rows := make([][]string, 0, len(m.page.Content))
	for _, e := range m.page.Content {
		rows = append(rows, e.Cells())
	}

	r := table.New(m.cm.Theme, table.WithHighlight(m.query.Search))

	return lipgloss.NewStyle().
		PaddingLeft(listIndent).
		Render(r.Render(m.kind.Columns(), rows, m.cursor, m.width-listIndent*2))
}

func (m ListModel) paginationView() string {
	return lipgloss.NewStyle().
		Padding(0, listIndent+1).
		Render(pagination.New(m.cm.Theme).Render(m.state(), max(0, m.width-(listIndent+1)*2)))
}

func (m ListModel) statusBarView() string {
	note := m.kind.Title()
	if m.loading {
		note += " (loading)"
	}

	progress := "0/0"
	if total := m.state().EffectiveTotalPages(); total > 0 {
		progress = fmt.Sprintf("%d/%d", m.query.Page+1, total)
	}

	return m.cm.GetStatusBar().RenderWithNote(note, progress)
}

func (m ListModel) helpView() string {
	if !m.ShowHelp {
		return ""
	}

	return m.helpRenderer.Render(m.width)
}

func (m ListModel) confirmView() string {
	label := ""
	if m.pending != nil {
		label = m.pending.Label()
	}

	del := m.cm.Theme.TabStyle.Render("Delete")
	cancel := m.cm.Theme.ActiveTabStyle.Render("Cancel")
	if m.confirmFocus {
		del = m.cm.Theme.ErrorTitleStyle.Render("Delete")
		cancel = m.cm.Theme.TabStyle.Render("Cancel")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.cm.Theme.ErrorTitleStyle.Render(confirmTitle),
		"",
		confirmMessage,
		m.cm.Theme.SubtleStyle.Render(label),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, del, "  ", cancel),
	)
}
