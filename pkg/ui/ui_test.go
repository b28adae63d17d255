package ui_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/ui"
	"github.com/macropower/fleetdesk/pkg/ui/common"
	"github.com/macropower/fleetdesk/pkg/uitest"
)

type fakeCollection struct {
	kind  fleet.Kind
	items []fleet.Entity
	saved []fleet.Entity
	mu    sync.Mutex
}

func (c *fakeCollection) Kind() fleet.Kind { return c.kind }

func (c *fakeCollection) List(_ context.Context, q api.ListQuery) (*api.Page[fleet.Entity], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := fleet.Paginate(c.items, q.Page, q.Size)

	return &api.Page[fleet.Entity]{
		Content:       l.Content,
		TotalElements: l.TotalElements,
		TotalPages:    l.TotalPages,
		Number:        l.Number,
		Size:          l.Size,
	}, nil
}

//nolint:ireturn // Satisfies api.Collection.
func (c *fakeCollection) Get(_ context.Context, id int64) (fleet.Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.items {
		if e.EntityID() == id {
			return e, nil
		}
	}

	return nil, api.ErrNotFound
}

//nolint:ireturn // Satisfies api.Collection.
func (c *fakeCollection) Save(_ context.Context, e fleet.Entity) (fleet.Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.saved = append(c.saved, e)

	return e, nil
}

func (c *fakeCollection) Delete(context.Context, int64) error { return nil }

//nolint:ireturn // Satisfies api.Collection.
func (c *fakeCollection) Decode(func(any) error) (fleet.Entity, error) {
	return nil, nil //nolint:nilnil // Unused.
}

type fakeBackend struct {
	featuresErr error
	collections map[fleet.Kind]*fakeCollection
}

func newBackend() *fakeBackend {
	b := &fakeBackend{collections: map[fleet.Kind]*fakeCollection{}}

	buses := &fakeCollection{kind: fleet.KindBus}
	for i := 1; i <= 12; i++ {
		buses.items = append(buses.items, fleet.Bus{
			ID:      int64(i),
			Vehicle: fleet.Vehicle{Model: fmt.Sprintf("Torino %02d", i), Year: "2019"},
		})
	}

	vans := &fakeCollection{kind: fleet.KindVan}
	for i := 1; i <= 3; i++ {
		vans.items = append(vans.items, fleet.Van{
			ID:      int64(i),
			Vehicle: fleet.Vehicle{Model: fmt.Sprintf("Sprinter %02d", i), Brand: "Mercedes"},
		})
	}

	features := &fakeCollection{kind: fleet.KindFeature}
	features.items = append(features.items, fleet.AccessibilityFeature{
		ID:          1,
		Name:        "Ramp",
		Description: "Wheelchair ramp",
	})

	b.collections[fleet.KindBus] = buses
	b.collections[fleet.KindVan] = vans
	b.collections[fleet.KindFeature] = features

	return b
}

//nolint:ireturn // Satisfies ui.Backend.
func (b *fakeBackend) Collection(k fleet.Kind) (api.Collection, error) {
	c, ok := b.collections[k]
	if !ok {
		return nil, fleet.ErrUnknownKind
	}

	return c, nil
}

func (b *fakeBackend) AllFeatures(context.Context) ([]fleet.AccessibilityFeature, error) {
	if b.featuresErr != nil {
		return nil, b.featuresErr
	}

	return []fleet.AccessibilityFeature{{ID: 1, Name: "Ramp", Description: "Wheelchair ramp"}}, nil
}

func newTestModel(t *testing.T, b *fakeBackend) *teatest.TestModel {
	t.Helper()

	m, err := ui.NewModel(ui.NewConfig(), b)
	require.NoError(t, err)

	return uitest.NewTestModel(t, m, uitest.Standard)
}

func TestStartsOnBuses(t *testing.T) {
	t.Parallel()

	tm := newTestModel(t, newBackend())

	uitest.WaitForText(t, tm, "Showing 1 to 10 of 12 results", "Torino 01", "2 Buses")

	uitest.Quit(t, tm)
}

func TestSwitchViews(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		keys string
		want string
	}{
		"digit vans":      {keys: "3", want: "Sprinter 01"},
		"digit features":  {keys: "1", want: "Wheelchair ramp"},
		"next view":       {keys: "]", want: "Showing 1 to 3 of 3 results"},
		"previous view":   {keys: "[", want: "Ramp"},
		"wrap after vans": {keys: "]]", want: "Wheelchair ramp"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tm := newTestModel(t, newBackend())
			uitest.WaitForText(t, tm, "Torino 01")

			tm.Type(tc.keys)
			uitest.WaitForText(t, tm, tc.want)

			uitest.Quit(t, tm)
		})
	}
}

func TestErrorOverlay(t *testing.T) {
	t.Parallel()

	tm := newTestModel(t, newBackend())
	uitest.WaitForText(t, tm, "Torino 01")

	tm.Send(common.ErrMsg{Err: errors.New("backend unavailable")})
	uitest.WaitForText(t, tm, "ERROR", "backend unavailable")

	uitest.Quit(t, tm)
}

func TestOpenCreateForm(t *testing.T) {
	t.Parallel()

	tm := newTestModel(t, newBackend())
	uitest.WaitForText(t, tm, "Torino 01")

	tm.Type("n")
	uitest.WaitForText(t, tm, "New bus")

	uitest.Quit(t, tm)
}

func TestOpenFormFeaturesError(t *testing.T) {
	t.Parallel()

	b := newBackend()
	b.featuresErr = errors.New("connection refused")

	tm := newTestModel(t, b)
	uitest.WaitForText(t, tm, "Torino 01")

	tm.Type("n")
	uitest.WaitForText(t, tm, "load accessibility features: connection refused")

	uitest.Quit(t, tm)
}

func TestSavedShowsStatus(t *testing.T) {
	t.Parallel()

	tm := newTestModel(t, newBackend())
	uitest.WaitForText(t, tm, "Torino 01")

	bus := fleet.Bus{ID: 13, Vehicle: fleet.Vehicle{Model: "Volare", LicensePlate: "NEW-0013"}}
	tm.Send(ui.SavedMsg{Kind: fleet.KindBus, Entity: bus, Created: true})
	uitest.WaitForText(t, tm, "created "+bus.Label())

	uitest.Quit(t, tm)
}

func TestSaveErrorShowsOverlay(t *testing.T) {
	t.Parallel()

	tm := newTestModel(t, newBackend())
	uitest.WaitForText(t, tm, "Torino 01")

	tm.Send(ui.SavedMsg{Kind: fleet.KindVan, Err: api.ErrBadRequest})
	uitest.WaitForText(t, tm, "save van")

	uitest.Quit(t, tm)
}

func TestNewModelUnknownCollection(t *testing.T) {
	t.Parallel()

	b := newBackend()
	delete(b.collections, fleet.KindVan)

	_, err := ui.NewModel(ui.NewConfig(), b)
	require.ErrorIs(t, err, fleet.ErrUnknownKind)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		size int
	}{
		"default": {size: 10},
		"max":     {size: ui.MaxPageSize},
		"zero":    {size: 0, err: ui.ErrInvalidPageSize},
		"too big": {size: ui.MaxPageSize + 1, err: ui.ErrInvalidPageSize},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := ui.NewConfig()
			c.PageSize = &tc.size

			err := c.Validate()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			assert.NoError(t, err)
		})
	}
}
