package fleet

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrUnknownKind = errors.New("unknown resource kind")

// Kind identifies one of the fleet resource collections.
type Kind string

const (
	KindBus     Kind = "buses"
	KindVan     Kind = "vans"
	KindFeature Kind = "accessibility-features"
)

// AllKinds lists every [Kind] in sidebar order.
var AllKinds = []Kind{KindFeature, KindBus, KindVan}

type kindInfo struct {
	title    string
	singular string
	aliases  []string
	columns  []string
	fields   []SortField
}

var kinds = map[Kind]kindInfo{
	KindBus: {
		title:    "Buses",
		singular: "bus",
		aliases:  []string{"bus", "buses"},
		columns:  []string{"ID", "Model", "Year", "Accessibility"},
		fields:   []SortField{SortModel, SortYear},
	},
	KindVan: {
		title:    "Vans",
		singular: "van",
		aliases:  []string{"van", "vans"},
		columns:  []string{"ID", "Model", "Brand", "Seats", "Accessibility"},
		fields:   []SortField{SortBrand, SortNumberOfSeats},
	},
	KindFeature: {
		title:    "Accessibility",
		singular: "accessibility feature",
		aliases:  []string{"feature", "features", "accessibility", "accessibility-feature", "accessibility-features", "af"},
		columns:  []string{"ID", "Name", "Description"},
		fields:   []SortField{SortName},
	},
}

// ParseKind resolves a user-supplied resource name, accepting singular,
// plural and short aliases.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range AllKinds {
		if slices.Contains(kinds[k].aliases, s) {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// KindNames returns the canonical names of all kinds, for completions.
func KindNames() []string {
	names := make([]string, 0, len(AllKinds))
	for _, k := range AllKinds {
		names = append(names, string(k))
	}

	return names
}

func (k Kind) String() string { return string(k) }

// Path is the REST collection path for the kind.
func (k Kind) Path() string { return "/" + string(k) }

// Title is the human-readable plural name.
func (k Kind) Title() string { return kinds[k].title }

// Singular is the human-readable singular name.
func (k Kind) Singular() string { return kinds[k].singular }

// Columns are the table headers for the kind, matching [Entity.Cells].
func (k Kind) Columns() []string { return slices.Clone(kinds[k].columns) }

// SortFields is the closed set of fields the kind can be sorted by.
func (k Kind) SortFields() []SortField { return slices.Clone(kinds[k].fields) }

// DefaultSort is the initial sort used by list views.
func (k Kind) DefaultSort() Sort {
	return Sort{Field: kinds[k].fields[0], Order: OrderAsc}
}

// ServerPaged reports whether the backend pages and sorts the collection.
// Accessibility features are returned as a single list and paged locally.
func (k Kind) ServerPaged() bool {
	return k != KindFeature
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}
