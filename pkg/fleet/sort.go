package fleet

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)

// SortField names a field the backend accepts in the sort query parameter.
type SortField string

const (
	SortModel         SortField = "model"
	SortYear          SortField = "year"
	SortBrand         SortField = "brand"
	SortNumberOfSeats SortField = "numberOfSeats"
	SortName          SortField = "name"
)

// Label is the column-style name of the field.
func (f SortField) Label() string {
	switch f {
	case SortModel:
		return "Model"
	case SortYear:
		return "Year"
	case SortBrand:
		return "Brand"
	case SortNumberOfSeats:
		return "Seats"
	case SortName:
		return "Name"
	}

	return string(f)
}

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Toggle returns the opposite order.
func (o Order) Toggle() Order {
	if o == OrderDesc {
		return OrderAsc
	}

	return OrderDesc
}

func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case OrderAsc, "":
		return OrderAsc, nil
	case OrderDesc:
		return OrderDesc, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
}

// Sort is a validated sort specification for a [Kind].
type Sort struct {
	Field SortField
	Order Order
}

// ParseSort parses "field" or "field,order" and validates the field against
// the kind's sortable fields. An empty string yields the kind's default.
func ParseSort(k Kind, s string) (Sort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return k.DefaultSort(), nil
	}

	field, order, _ := strings.Cut(s, ",")

	o, err := ParseOrder(strings.TrimSpace(order))
	if err != nil {
		return Sort{}, err
	}

	srt := Sort{Field: SortField(strings.TrimSpace(field)), Order: o}

	err = srt.Validate(k)
	if err != nil {
		return Sort{}, err
	}

	return srt, nil
}

// Validate checks that the field belongs to the kind.
func (s Sort) Validate(k Kind) error {
	fields := k.SortFields()
	if !slices.Contains(fields, s.Field) {
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, string(f))
		}

		return fmt.Errorf("%w %q for %s, one of: %s",
			ErrInvalidSortField, s.Field, k, strings.Join(names, ", "))
	}

	return nil
}

// Next cycles to the next sortable field of the kind, keeping the order.
func (s Sort) Next(k Kind) Sort {
	fields := k.SortFields()
	i := slices.Index(fields, s.Field)

	return Sort{Field: fields[(i+1)%len(fields)], Order: s.Order}
}

// String renders the sort in query form, e.g. "model,asc".
func (s Sort) String() string {
	return string(s.Field) + "," + string(s.Order)
}
