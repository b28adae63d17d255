package form_test

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/ui/common"
	"github.com/macropower/fleetdesk/pkg/ui/form"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

var features = []fleet.AccessibilityFeature{
	{ID: 1, Name: "Ramp", Description: "Wheelchair ramp"},
	{ID: 3, Name: "Braille", Description: "Braille signage"},
}

func newConfig(kind fleet.Kind, e fleet.Entity) form.Config {
	kb := &common.KeyBinds{}
	kb.EnsureDefaults()

	return form.Config{
		Theme:    theme.Default,
		KeyBinds: kb,
		Kind:     kind,
		Entity:   e,
		Features: features,
	}
}

func TestEntityRoundTrip(t *testing.T) {
	t.Parallel()

	vehicle := fleet.Vehicle{
		Model:        "Torino",
		Brand:        "Marcopolo",
		Color:        "White",
		Year:         "2019",
		LicensePlate: "ABC-1234",
	}

	tcs := map[string]struct {
		entity fleet.Entity
		kind   fleet.Kind
	}{
		"bus": {
			kind: fleet.KindBus,
			entity: fleet.Bus{
				Vehicle:               vehicle,
				ID:                    7,
				NumberOfSeats:         fleet.Ptr(40),
				HasWifi:               fleet.Ptr(true),
				HasAirConditioning:    fleet.Ptr(false),
				AccessibilityFeatures: []fleet.FeatureRef{{ID: 1}, {ID: 3}},
			},
		},
		"van": {
			kind: fleet.KindVan,
			entity: fleet.Van{
				Vehicle:               vehicle,
				ID:                    2,
				NumberOfSeats:         fleet.Ptr(0),
				HasWifi:               fleet.Ptr(false),
				HasStorageSpace:       fleet.Ptr(true),
				HasAirConditioning:    fleet.Ptr(true),
				AccessibilityFeatures: []fleet.FeatureRef{{ID: 3}},
			},
		},
		"feature": {
			kind:   fleet.KindFeature,
			entity: fleet.AccessibilityFeature{ID: 4, Name: "Ramp", Description: "Wheelchair ramp"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m, err := form.New(newConfig(tc.kind, tc.entity))
			require.NoError(t, err)
			assert.Equal(t, tc.kind, m.Kind())

			got, err := m.Entity()
			require.NoError(t, err)
			assert.Equal(t, tc.entity, got)
		})
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		entity fleet.Entity
		err    error
		kind   fleet.Kind
	}{
		"kind mismatch": {
			kind:   fleet.KindVan,
			entity: fleet.Bus{ID: 1},
			err:    form.ErrKindMismatch,
		},
		"feature as bus": {
			kind:   fleet.KindBus,
			entity: fleet.AccessibilityFeature{ID: 1},
			err:    form.ErrKindMismatch,
		},
		"unknown kind": {
			kind: fleet.Kind("trains"),
			err:  fleet.ErrUnknownKind,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := form.New(newConfig(tc.kind, tc.entity))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCreateRequiresValues(t *testing.T) {
	t.Parallel()

	for _, kind := range fleet.AllKinds {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			m, err := form.New(newConfig(kind, nil))
			require.NoError(t, err)

			_, err = m.Entity()
			require.ErrorIs(t, err, fleet.ErrInvalid)
		})
	}
}

func TestViewAndAbort(t *testing.T) {
	t.Parallel()

	m, err := form.New(newConfig(fleet.KindBus, nil))
	require.NoError(t, err)

	m.SetSize(80, 40)
	m.Init()

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "New bus")
	assert.Contains(t, view, "Model")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.True(t, m.IsAborted())
	assert.False(t, m.IsCompleted())
	assert.Empty(t, m.View())
}

func TestEditTitle(t *testing.T) {
	t.Parallel()

	m, err := form.New(newConfig(fleet.KindFeature, fleet.AccessibilityFeature{ID: 9, Name: "Ramp"}))
	require.NoError(t, err)

	m.SetSize(80, 40)
	m.Init()

	assert.Contains(t, ansi.Strip(m.View()), "Edit accessibility feature #9")
}
