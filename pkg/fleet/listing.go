package fleet

import (
	"slices"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Listing is one page of a locally paged collection.
type Listing[T any] struct {
	Content       []T
	TotalElements int
	TotalPages    int
	Number        int
	Size          int
}

// Paginate slices one page out of items. The page is not clamped, so a page
// past the end yields empty content with the totals still populated.
func Paginate[T any](items []T, page, size int) Listing[T] {
	if size <= 0 {
		size = 10
	}

	page = max(page, 0)

	total := len(items)
	l := Listing[T]{
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
		Number:        page,
		Size:          size,
		Content:       []T{},
	}

	start := page * size
	if start >= total {
		return l
	}

	l.Content = slices.Clone(items[start:min(start+size, total)])

	return l
}

// SortFeatures returns a sorted copy of features, ordered by name using
// locale-aware collation for tag. Use [language.Und] for the root locale.
func SortFeatures(features []AccessibilityFeature, s Sort, tag language.Tag) []AccessibilityFeature {
	c := collate.New(tag, collate.IgnoreCase)

	out := slices.Clone(features)
	slices.SortStableFunc(out, func(a, b AccessibilityFeature) int {
		// Name is the only sortable feature field.
		cmp := c.CompareString(a.Name, b.Name)
		if s.Order == OrderDesc {
			return -cmp
		}

		return cmp
	})

	return out
}

type featureSource []AccessibilityFeature

func (fs featureSource) String(i int) string {
	return Normalize(fs[i].Name + " " + fs[i].Description)
}

func (fs featureSource) Len() int { return len(fs) }

// SearchFeatures filters features whose name or description fuzzy-matches
// term, ignoring case and diacritics. The input order is preserved so that
// a prior sort still applies. An empty term returns every feature.
func SearchFeatures(features []AccessibilityFeature, term string) []AccessibilityFeature {
	term = strings.TrimSpace(term)
	if term == "" {
		return slices.Clone(features)
	}

	matches := fuzzy.FindFrom(Normalize(term), featureSource(features))

	idx := make([]int, 0, len(matches))
	for _, m := range matches {
		idx = append(idx, m.Index)
	}

	slices.Sort(idx)

	out := make([]AccessibilityFeature, 0, len(idx))
	for _, i := range idx {
		out = append(out, features[i])
	}

	return out
}

// Normalize lowercases s and strips combining marks, for matching user
// input against names regardless of case and diacritics.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.ToLower(out)
}
