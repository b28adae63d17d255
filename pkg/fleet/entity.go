// Package fleet defines the bus, van and accessibility feature resources
// managed by the fleet backend, along with their sortable fields, validation
// rules and the local listing helpers used for collections the backend does
// not page.
package fleet

import (
	"strconv"

	xstrings "github.com/charmbracelet/x/exp/strings"
)

// Entity is implemented by every fleet resource.
type Entity interface {
	// EntityID returns the backend identifier, or zero for unsaved entities.
	EntityID() int64
	// Cells returns the table cells matching [Kind.Columns].
	Cells() []string
	// Label is a short human-readable name for messages and confirmations.
	Label() string
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// FeatureRef links a vehicle to an [AccessibilityFeature] by id.
type FeatureRef struct {
	ID int64 `json:"id"`
}

// Vehicle holds the attributes shared by buses and vans.
type Vehicle struct {
	Model        string `json:"model"        validate:"required"`
	Brand        string `json:"brand"        validate:"required"`
	Color        string `json:"color"        validate:"required"`
	Year         Year   `json:"year"         validate:"required"`
	LicensePlate string `json:"licensePlate" validate:"required"`
}

type Bus struct {
	Vehicle `json:",inline"`

	ID                    int64        `json:"id,omitempty"`
	NumberOfSeats         *int         `json:"numberOfSeats"         validate:"required,gte=0"`
	HasWifi               *bool        `json:"hasWifi"               validate:"required"`
	HasAirConditioning    *bool        `json:"hasAirConditioning"    validate:"required"`
	AccessibilityFeatures []FeatureRef `json:"accessibilityFeatures"`
}

func (b Bus) EntityID() int64 { return b.ID }

func (b Bus) Label() string { return vehicleLabel(b.Vehicle, b.ID) }

func (b Bus) Cells() []string {
	return []string{
		idCell(b.ID),
		b.Model,
		string(b.Year),
		strconv.Itoa(len(b.AccessibilityFeatures)),
	}
}

type Van struct {
	Vehicle `json:",inline"`

	ID                    int64        `json:"id,omitempty"`
	NumberOfSeats         *int         `json:"numberOfSeats"         validate:"required,gte=0"`
	HasWifi               *bool        `json:"hasWifi"               validate:"required"`
	HasStorageSpace       *bool        `json:"hasStorageSpace"`
	HasAirConditioning    *bool        `json:"hasAirConditioning"    validate:"required"`
	AccessibilityFeatures []FeatureRef `json:"accessibilityFeatures"`
}

func (v Van) EntityID() int64 { return v.ID }

func (v Van) Label() string { return vehicleLabel(v.Vehicle, v.ID) }

func (v Van) Cells() []string {
	seats := ""
	if v.NumberOfSeats != nil {
		seats = strconv.Itoa(*v.NumberOfSeats)
	}

	return []string{
		idCell(v.ID),
		v.Model,
		v.Brand,
		seats,
		strconv.Itoa(len(v.AccessibilityFeatures)),
	}
}

type AccessibilityFeature struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (f AccessibilityFeature) EntityID() int64 { return f.ID }

func (f AccessibilityFeature) Label() string {
	if f.Name == "" {
		return "feature " + idCell(f.ID)
	}

	return f.Name
}

func (f AccessibilityFeature) Cells() []string {
	return []string{idCell(f.ID), f.Name, f.Description}
}

// FeatureIDs returns the ids of the referenced features.
func FeatureIDs(refs []FeatureRef) []int64 {
	ids := make([]int64, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}

	return ids
}

// FeatureRefs builds references from feature ids.
func FeatureRefs(ids []int64) []FeatureRef {
	refs := make([]FeatureRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, FeatureRef{ID: id})
	}

	return refs
}

// DescribeFeatures renders the names of the referenced features as an
// English list ("a, b and c"), falling back to ids for unknown features.
func DescribeFeatures(refs []FeatureRef, known []AccessibilityFeature) string {
	if len(refs) == 0 {
		return "none"
	}

	byID := make(map[int64]string, len(known))
	for _, f := range known {
		byID[f.ID] = f.Name
	}

	names := make([]string, 0, len(refs))
	for _, r := range refs {
		name, ok := byID[r.ID]
		if !ok || name == "" {
			name = "#" + idCell(r.ID)
		}

		names = append(names, name)
	}

	return xstrings.EnglishJoin(names, true)
}

func vehicleLabel(v Vehicle, id int64) string {
	switch {
	case v.LicensePlate != "":
		return v.Model + " (" + v.LicensePlate + ")"
	case v.Model != "":
		return v.Model
	default:
		return "#" + idCell(id)
	}
}

func idCell(id int64) string {
	return strconv.FormatInt(id, 10)
}
