package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/macropower/fleetdesk/pkg/debounce"
	"github.com/macropower/fleetdesk/pkg/keys"
	"github.com/macropower/fleetdesk/pkg/pagewindow"
	"github.com/macropower/fleetdesk/pkg/ui/common"
	"github.com/macropower/fleetdesk/pkg/ui/list"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

// MaxPageSize is the largest page size the backend accepts.
const MaxPageSize = 100

var ErrInvalidPageSize = errors.New("invalid page size")

// Config contains TUI-specific configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// KeyBinds contains key binding configurations for the UI.
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Bindings"`
	// PageSize is the number of rows requested per page.
	PageSize *int `json:"pageSize,omitempty" jsonschema:"title=Page Size,minimum=1,maximum=100"`
	// SearchDelay is how long the search input must be idle before a query
	// is sent, e.g. "500ms".
	SearchDelay *time.Duration `json:"searchDelay,omitempty" jsonschema:"title=Search Delay"`
	// Theme is the name of the Chroma style the UI colors are derived from.
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
}

func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.KeyBinds == nil {
		c.KeyBinds = &KeyBinds{}
	}

	c.KeyBinds.EnsureDefaults()

	if c.PageSize == nil {
		size := pagewindow.DefaultPageSize
		c.PageSize = &size
	}

	if c.SearchDelay == nil {
		delay := debounce.DefaultDelay
		c.SearchDelay = &delay
	}

	if c.Theme == "" {
		c.Theme = "auto"
	}
}

// Validate checks the values that cannot be expressed in the schema.
func (c *Config) Validate() error {
	if c.PageSize != nil && (*c.PageSize < 1 || *c.PageSize > MaxPageSize) {
		return fmt.Errorf("%w: %d, must be between 1 and %d", ErrInvalidPageSize, *c.PageSize, MaxPageSize)
	}

	if c.KeyBinds != nil {
		err := c.KeyBinds.Validate()
		if err != nil {
			return fmt.Errorf("keybinds: %w", err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	th, ok := jss.Properties.Get("theme")
	if !ok {
		panic("theme property not found in schema")
	}

	for _, name := range theme.Names() {
		th.Examples = append(th.Examples, name)
	}

	_, _ = jss.Properties.Set("theme", th)
}

type KeyBinds struct {
	Common *common.KeyBinds `json:"common,omitempty" jsonschema:"title=Common"`
	List   *list.KeyBinds   `json:"list,omitempty"   jsonschema:"title=List"`
}

func (kb *KeyBinds) EnsureDefaults() {
	if kb.Common == nil {
		kb.Common = &common.KeyBinds{}
	}
	if kb.List == nil {
		kb.List = &list.KeyBinds{}
	}

	kb.Common.EnsureDefaults()
	kb.List.EnsureDefaults()
}

// Validate reports keys bound to more than one action.
func (kb *KeyBinds) Validate() error {
	return keys.ValidateBinds( //nolint:wrapcheck // Already descriptive.
		kb.Common.GetKeyBinds(),
		kb.List.GetKeyBinds(),
	)
}
