// Package form implements the create and edit dialogs for fleet resources.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/ui/common"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

var ErrKindMismatch = errors.New("entity does not match kind")

type Config struct {
	Theme    *theme.Theme
	KeyBinds *common.KeyBinds
	// Entity is edited in place of a new resource when set.
	Entity fleet.Entity
	Kind   fleet.Kind
	// Features are offered for selection on buses and vans.
	Features []fleet.AccessibilityFeature
}

type Model struct {
	form  *huh.Form
	draft *draft
	theme *theme.Theme
	title string
	kind  fleet.Kind
}

// draft holds the editable values bound to the form fields.
type draft struct {
	model        string
	brand        string
	color        string
	year         string
	licensePlate string
	seats        string
	name         string
	description  string
	features     []int64
	id           int64
	wifi         bool
	airCon       bool
	storage      bool
	submit       bool
}

func New(c Config) (Model, error) {
	d, err := newDraft(c.Kind, c.Entity)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		draft: d,
		theme: c.Theme,
		kind:  c.Kind,
		title: "New " + c.Kind.Singular(),
	}
	if d.id != 0 {
		m.title = fmt.Sprintf("Edit %s #%d", c.Kind.Singular(), d.id)
	}

	var fields []huh.Field
	if c.Kind == fleet.KindFeature {
		fields = m.featureFields()
	} else {
		fields = m.vehicleFields(c.Features)
	}

	fields = append(fields,
		huh.NewConfirm().
			Key("submit").
			Title("Save?").
			Affirmative("Save").
			Negative("Back").
			Value(&d.submit).
			Validate(func(ok bool) error {
				if !ok {
					return nil
				}

				_, err := m.Entity()

				return err
			}),
	)

	km := huh.NewDefaultKeyMap()
	if c.KeyBinds != nil {
		km.Quit = c.KeyBinds.Escape.BubbleKey()
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).
		WithShowHelp(true).
		WithKeyMap(km).
		WithTheme(theme.HuhTheme(c.Theme))

	return m, nil
}

func (m Model) vehicleFields(features []fleet.AccessibilityFeature) []huh.Field {
	d := m.draft

	fields := []huh.Field{
		huh.NewInput().Key("model").Title("Model").Value(&d.model).Validate(required("model")),
		huh.NewInput().Key("brand").Title("Brand").Value(&d.brand).Validate(required("brand")),
		huh.NewInput().Key("color").Title("Color").Value(&d.color).Validate(required("color")),
		huh.NewInput().Key("year").Title("Year").Value(&d.year).Validate(validYear),
		huh.NewInput().Key("licensePlate").Title("License plate").
			Value(&d.licensePlate).
			Validate(required("license plate")),
		huh.NewInput().Key("numberOfSeats").Title("Seats").Value(&d.seats).Validate(validSeats),
		huh.NewConfirm().Key("hasWifi").Title("Wi-Fi").Affirmative("Yes").Negative("No").Value(&d.wifi),
		huh.NewConfirm().Key("hasAirConditioning").Title("Air conditioning").
			Affirmative("Yes").
			Negative("No").
			Value(&d.airCon),
	}

	if m.kind == fleet.KindVan {
		fields = append(fields,
			huh.NewConfirm().Key("hasStorageSpace").Title("Storage space").
				Affirmative("Yes").
				Negative("No").
				Value(&d.storage),
		)
	}

	if len(features) > 0 {
		opts := make([]huh.Option[int64], 0, len(features))
		for _, f := range features {
			opts = append(opts, huh.NewOption(f.Label(), f.ID))
		}

		fields = append(fields,
			huh.NewMultiSelect[int64]().
				Key("accessibilityFeatures").
				Title("Accessibility features").
				Options(opts...).
				Filterable(true).
				Height(min(len(opts)+2, 8)).
				Value(&d.features),
		)
	}

	return fields
}

func (m Model) featureFields() []huh.Field {
	d := m.draft

	return []huh.Field{
		huh.NewInput().Key("name").Title("Name").Value(&d.name).Validate(required("name")),
		huh.NewText().Key("description").Title("Description").
			Lines(3).
			Value(&d.description).
			Validate(required("description")),
	}
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	// Declining the final prompt leaves the form without saving.
	if m.form.State == huh.StateCompleted && !m.draft.submit {
		m.form.State = huh.StateAborted
	}

	return m, cmd
}

func (m Model) View() string {
	if m.form.State != huh.StateNormal {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.ResultTitleStyle.Render(m.title),
		"",
		m.form.View(),
	)
}

// SetSize bounds the form to the given dimensions.
func (m *Model) SetSize(width, height int) {
	m.form.WithWidth(width)
	m.form.WithHeight(max(0, height-2))
}

func (m Model) Kind() fleet.Kind {
	return m.kind
}

// IsCompleted reports whether the user confirmed the form.
func (m Model) IsCompleted() bool {
	return m.form.State == huh.StateCompleted && m.draft.submit
}

// IsAborted reports whether the user left the form without saving.
func (m Model) IsAborted() bool {
	return m.form.State == huh.StateAborted
}

// Entity builds the resource from the current values and validates it.
//
//nolint:ireturn // One of the fleet entity types.
func (m Model) Entity() (fleet.Entity, error) {
	e, err := m.draft.entity(m.kind)
	if err != nil {
		return nil, err
	}

	err = fleet.Validate(e)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already descriptive.
	}

	return e, nil
}

func newDraft(kind fleet.Kind, e fleet.Entity) (*draft, error) {
	d := &draft{}

	switch v := e.(type) {
	case nil:
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %q", fleet.ErrUnknownKind, kind)
		}

		return d, nil

	case fleet.Bus:
		if kind != fleet.KindBus {
			break
		}

		d.setVehicle(v.Vehicle)
		d.id = v.ID
		d.seats = seatsString(v.NumberOfSeats)
		d.wifi = deref(v.HasWifi)
		d.airCon = deref(v.HasAirConditioning)
		d.features = fleet.FeatureIDs(v.AccessibilityFeatures)

		return d, nil

	case fleet.Van:
		if kind != fleet.KindVan {
			break
		}

		d.setVehicle(v.Vehicle)
		d.id = v.ID
		d.seats = seatsString(v.NumberOfSeats)
		d.wifi = deref(v.HasWifi)
		d.airCon = deref(v.HasAirConditioning)
		d.storage = deref(v.HasStorageSpace)
		d.features = fleet.FeatureIDs(v.AccessibilityFeatures)

		return d, nil

	case fleet.AccessibilityFeature:
		if kind != fleet.KindFeature {
			break
		}

		d.id = v.ID
		d.name = v.Name
		d.description = v.Description

		return d, nil
	}

	return nil, fmt.Errorf("%w: %T for %s", ErrKindMismatch, e, kind)
}

func (d *draft) setVehicle(v fleet.Vehicle) {
	d.model = v.Model
	d.brand = v.Brand
	d.color = v.Color
	d.year = string(v.Year)
	d.licensePlate = v.LicensePlate
}

//nolint:ireturn // One of the fleet entity types.
func (d *draft) entity(kind fleet.Kind) (fleet.Entity, error) {
	vehicle := fleet.Vehicle{
		Model:        strings.TrimSpace(d.model),
		Brand:        strings.TrimSpace(d.brand),
		Color:        strings.TrimSpace(d.color),
		Year:         fleet.Year(strings.TrimSpace(d.year)),
		LicensePlate: strings.TrimSpace(d.licensePlate),
	}

	var seats *int
	if s := strings.TrimSpace(d.seats); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: numberOfSeats must be a number", fleet.ErrInvalid)
		}

		seats = &n
	}

	switch kind {
	case fleet.KindBus:
		return fleet.Bus{
			Vehicle:               vehicle,
			ID:                    d.id,
			NumberOfSeats:         seats,
			HasWifi:               fleet.Ptr(d.wifi),
			HasAirConditioning:    fleet.Ptr(d.airCon),
			AccessibilityFeatures: fleet.FeatureRefs(d.features),
		}, nil

	case fleet.KindVan:
		return fleet.Van{
			Vehicle:               vehicle,
			ID:                    d.id,
			NumberOfSeats:         seats,
			HasWifi:               fleet.Ptr(d.wifi),
			HasStorageSpace:       fleet.Ptr(d.storage),
			HasAirConditioning:    fleet.Ptr(d.airCon),
			AccessibilityFeatures: fleet.FeatureRefs(d.features),
		}, nil

	case fleet.KindFeature:
		return fleet.AccessibilityFeature{
			ID:          d.id,
			Name:        strings.TrimSpace(d.name),
			Description: strings.TrimSpace(d.description),
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", fleet.ErrUnknownKind, kind)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}

		return nil
	}
}

func validYear(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("year is required")
	}

	if fleet.Year(s).Int() <= 0 {
		return errors.New("year must be a number")
	}

	return nil
}

func validSeats(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("seats is required")
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errors.New("seats must be a whole number")
	}

	return nil
}

func seatsString(n *int) string {
	if n == nil {
		return ""
	}

	return strconv.Itoa(*n)
}

func deref(b *bool) bool {
	return b != nil && *b
}
