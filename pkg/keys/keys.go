// Package keys holds the configurable key bindings of the fleet views and
// renders them as help columns.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

// ErrDuplicateKey is returned by [ValidateBinds] when one key code triggers
// more than one binding.
var ErrDuplicateKey = errors.New("key bound more than once")

// Key is a key code as reported by bubbletea, e.g. "ctrl+r" or "pgdown".
type Key struct {
	// Code is the key code identifier.
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias replaces the code in help text, e.g. "→" for "right".
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keys still trigger their binding but are left out of help text.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

// KeyOpt configures a [Key].
type KeyOpt func(k *Key)

// New creates a [Key] for code.
func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

// WithAlias sets the label shown in help text.
func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

// Hidden keeps the key out of help text.
func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind is one action, such as "next page", and the keys that trigger it.
type KeyBind struct {
	// Description is shown next to the keys in help text.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys that trigger the action.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

// NewBind creates a [KeyBind].
func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String joins the visible keys with "/". It is empty when every key is
// hidden.
func (kb *KeyBind) String() string {
	labels := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		if !k.Hidden {
			labels = append(labels, k.String())
		}
	}

	return strings.Join(labels, "/")
}

// Match reports whether code triggers the binding.
func (kb *KeyBind) Match(code string) bool {
	if kb == nil {
		return false
	}

	for _, k := range kb.Keys {
		if k.Code == code {
			return true
		}
	}

	return false
}

// BubbleKey converts the binding into a [key.Binding], for use with bubbles
// components such as huh forms.
func (kb *KeyBind) BubbleKey() key.Binding {
	codes := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		codes = append(codes, k.Code)
	}

	return key.NewBinding(
		key.WithKeys(codes...),
		key.WithHelp(kb.String(), kb.Description),
	)
}

// AddKey appends k unless its code is already bound.
func (kb *KeyBind) AddKey(k Key) {
	if kb == nil || kb.Match(k.Code) {
		return
	}

	kb.Keys = append(kb.Keys, k)
}

// SetDefaultBind fills in a binding left out of, or left partially empty in,
// the configuration.
func SetDefaultBind(kb **KeyBind, def KeyBind) {
	if *kb == nil {
		*kb = &def

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = def.Keys
	}

	if (*kb).Description == "" {
		(*kb).Description = def.Description
	}
}

// ValidateBinds reports every key code that appears in more than one of the
// given bindings, or twice in one binding. Hidden keys count too, since they
// still trigger their action.
func ValidateBinds(groups ...[]KeyBind) error {
	var errs []error

	owner := map[string]string{}
	for _, kbs := range groups {
		for _, kb := range kbs {
			for _, k := range kb.Keys {
				if prev, ok := owner[k.Code]; ok {
					errs = append(errs, fmt.Errorf("%w: %q triggers both %q and %q",
						ErrDuplicateKey, k.Code, prev, kb.Description))

					continue
				}

				owner[k.Code] = kb.Description
			}
		}
	}

	return errors.Join(errs...)
}

// KeyBindRenderer lays out groups of bindings as side-by-side help columns.
type KeyBindRenderer struct {
	columns [][]KeyBind
}

// AddColumn adds a column. Empty columns are ignored.
func (kbr *KeyBindRenderer) AddColumn(kbs ...KeyBind) {
	if len(kbs) > 0 {
		kbr.columns = append(kbr.columns, kbs)
	}
}

// minColumnWidth fits a short key and a truncated description.
const minColumnWidth = 6

// Render returns the columns sharing width. Every line has the same printable
// width, and the leftover columns of an uneven split pad the end of each line.
func (kbr *KeyBindRenderer) Render(width int) string {
	n := len(kbr.columns)
	if n == 0 {
		return ""
	}

	colWidth := max(minColumnWidth, width/n-2)
	remainder := max(0, width%n)

	cols := make([][]string, n)
	height := 0

	for i, col := range kbr.columns {
		cols[i] = column(colWidth, col)
		height = max(height, len(cols[i]))
	}

	lines := make([]string, 0, height)
	for row := range height {
		var sb strings.Builder
		for _, col := range cols {
			cell := strings.Repeat(" ", colWidth)
			if row < len(col) {
				cell = col[row]
			}

			sb.WriteString(" " + cell + " ")
		}

		sb.WriteString(strings.Repeat(" ", remainder))
		lines = append(lines, sb.String())
	}

	return strings.Join(lines, "\n")
}

// column renders one line per visible binding, keys left-aligned to the
// widest key label and descriptions truncated to the rest of width.
func column(width int, kbs []KeyBind) []string {
	keyWidth := 0
	for _, kb := range kbs {
		keyWidth = max(keyWidth, ansi.StringWidth(kb.String()))
	}

	descWidth := max(0, width-keyWidth-2)

	lines := []string{}
	for _, kb := range kbs {
		label := kb.String()
		if label == "" {
			continue
		}

		desc := ansi.Truncate(kb.Description, descWidth, theme.Ellipsis)

		lines = append(lines, fmt.Sprintf("%s%s  %s%s",
			label, strings.Repeat(" ", keyWidth-ansi.StringWidth(label)),
			desc, strings.Repeat(" ", max(0, descWidth-ansi.StringWidth(desc))),
		))
	}

	return lines
}
