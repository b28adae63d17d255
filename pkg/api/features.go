package api

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/text/language"

	"github.com/macropower/fleetdesk/pkg/fleet"
)

// FeatureClient serves accessibility features. The backend returns the
// whole collection, so sorting, searching and paging happen locally.
type FeatureClient struct {
	*ResourceClient[fleet.AccessibilityFeature]

	// Locale drives the collation used when sorting by name.
	Locale language.Tag
}

// All fetches every feature in backend order.
func (f *FeatureClient) All(ctx context.Context) ([]fleet.AccessibilityFeature, error) {
	var features []fleet.AccessibilityFeature

	err := f.client.do(ctx, request{
		method: http.MethodGet,
		path:   f.kind.Path(),
		out:    &features,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", f.kind, err)
	}

	return features, nil
}

// List fetches all features and returns the requested page after applying
// the search term and sort.
func (f *FeatureClient) List(ctx context.Context, q ListQuery) (*Page[fleet.AccessibilityFeature], error) {
	err := q.Validate(f.kind)
	if err != nil {
		return nil, err
	}

	all, err := f.All(ctx)
	if err != nil {
		return nil, err
	}

	matched := fleet.SearchFeatures(all, q.Search)
	sorted := fleet.SortFeatures(matched, q.Sort, f.Locale)
	l := fleet.Paginate(sorted, q.Page, q.Size)

	return &Page[fleet.AccessibilityFeature]{
		Content:       l.Content,
		TotalElements: l.TotalElements,
		TotalPages:    l.TotalPages,
		Number:        l.Number,
		Size:          l.Size,
	}, nil
}
