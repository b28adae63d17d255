package list

import (
	"github.com/charmbracelet/bubbles/textinput"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/fleetdesk/pkg/keys"
	"github.com/macropower/fleetdesk/pkg/ui/common"
)

type KeyBinds struct {
	First  *keys.KeyBind `json:"first,omitempty"`
	Last   *keys.KeyBind `json:"last,omitempty"`
	Search *keys.KeyBind `json:"search,omitempty"`
	Sort   *keys.KeyBind `json:"sort,omitempty"`
	Order  *keys.KeyBind `json:"order,omitempty"`

	// Resource actions.
	Create *keys.KeyBind `json:"create,omitempty"`
	Edit   *keys.KeyBind `json:"edit,omitempty"`
	Delete *keys.KeyBind `json:"delete,omitempty"`
	Copy   *keys.KeyBind `json:"copy,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.First,
		keys.NewBind("first page",
			keys.New("home"),
			keys.New("g"),
		))
	keys.SetDefaultBind(&kb.Last,
		keys.NewBind("last page",
			keys.New("end"),
			keys.New("G"),
		))
	keys.SetDefaultBind(&kb.Search,
		keys.NewBind("search",
			keys.New("/"),
		))
	keys.SetDefaultBind(&kb.Sort,
		keys.NewBind("sort field",
			keys.New("s"),
		))
	keys.SetDefaultBind(&kb.Order,
		keys.NewBind("sort order",
			keys.New("o"),
		))
	keys.SetDefaultBind(&kb.Create,
		keys.NewBind("create",
			keys.New("n"),
		))
	keys.SetDefaultBind(&kb.Edit,
		keys.NewBind("edit",
			keys.New("e"),
			keys.New("enter", keys.WithAlias("↵")),
		))
	keys.SetDefaultBind(&kb.Delete,
		keys.NewBind("delete",
			keys.New("x"),
			keys.New("delete", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Copy,
		keys.NewBind("copy id",
			keys.New("y"),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.First,
		*kb.Last,
		*kb.Search,
		*kb.Sort,
		*kb.Order,
		*kb.Create,
		*kb.Edit,
		*kb.Delete,
		*kb.Copy,
	}
}

// KeyHandler provides key handling for the list view.
type KeyHandler struct {
	kb  *KeyBinds
	ckb *common.KeyBinds
}

func NewKeyHandler(kb *KeyBinds, ckb *common.KeyBinds) *KeyHandler {
	return &KeyHandler{kb: kb, ckb: ckb}
}

// HandleBrowsing handles keys while the table has focus.
func (h *KeyHandler) HandleBrowsing(m ListModel, msg tea.KeyMsg) (ListModel, tea.Cmd) {
	key := msg.String()

	switch {
	case h.ckb.Up.Match(key):
		m.moveCursor(-1)

	case h.ckb.Down.Match(key):
		m.moveCursor(1)

	case h.ckb.Prev.Match(key):
		if m.window().CanGoPrev {
			return m, m.goToPage(m.query.Page - 1)
		}

	case h.ckb.Next.Match(key):
		if m.window().CanGoNext {
			return m, m.goToPage(m.query.Page + 1)
		}

	case h.kb.First.Match(key):
		if m.window().CanGoFirst {
			return m, m.goToPage(0)
		}

	case h.kb.Last.Match(key):
		if m.window().CanGoLast {
			return m, m.goToPage(m.state().EffectiveTotalPages() - 1)
		}

	case h.kb.Sort.Match(key):
		m.query.Sort = m.query.Sort.Next(m.kind)

		return m, m.goToPage(0)

	case h.kb.Order.Match(key):
		m.query.Sort.Order = m.query.Sort.Order.Toggle()

		return m, m.goToPage(0)

	case h.kb.Search.Match(key):
		return m, m.startSearching()

	case h.kb.Create.Match(key):
		return m, m.openForm(nil)

	case h.kb.Edit.Match(key):
		if e := m.Selected(); e != nil {
			return m, m.openForm(e)
		}

	case h.kb.Delete.Match(key):
		if e := m.Selected(); e != nil {
			m.confirmDelete(e)
		}

	case h.kb.Copy.Match(key):
		if e := m.Selected(); e != nil {
			return m, m.copyID(e)
		}

	case h.ckb.Help.Match(key):
		m.ShowHelp = !m.ShowHelp
	}

	return m, nil
}

// HandleSearching handles messages while the search input has focus.
func (h *KeyHandler) HandleSearching(m ListModel, msg tea.Msg) (ListModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		key := keyMsg.String()

		switch {
		case h.ckb.Escape.Match(key):
			return m, m.stopSearching(true)

		case key == "enter", h.ckb.Up.Match(key), h.ckb.Down.Match(key):
			return m, m.stopSearching(false)
		}
	}

	var cmd tea.Cmd

	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)

	if m.searchInput.Value() != before {
		return m, tea.Batch(cmd, m.scheduleSearch())
	}

	return m, cmd
}

// HandleConfirm handles keys while the delete confirmation is shown.
func (h *KeyHandler) HandleConfirm(m ListModel, msg tea.KeyMsg) (ListModel, tea.Cmd) {
	key := msg.String()

	switch {
	case h.ckb.Escape.Match(key):
		m.cancelDelete()

	case h.ckb.Prev.Match(key), h.ckb.Next.Match(key), key == "tab", key == "shift+tab":
		m.confirmFocus = !m.confirmFocus

	case key == "enter":
		if !m.confirmFocus {
			m.cancelDelete()

			return m, nil
		}

		return m, m.deleteConfirmed()
	}

	return m, nil
}

func newSearchInput(m *common.CommonModel) textinput.Model {
	si := textinput.New()
	si.Prompt = "Search:"
	si.PromptStyle = m.Theme.SelectedStyle.MarginRight(1)
	si.Cursor.Style = m.Theme.SelectedStyle.MarginRight(1)
	si.TextStyle = m.Theme.GenericTextStyle

	return si
}
