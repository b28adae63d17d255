package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/pagewindow"
)

const MaxPageSize = 100

// ListQuery selects one page of a collection.
type ListQuery struct {
	Search string
	Sort   fleet.Sort
	Page   int `validate:"gte=0"`
	Size   int `validate:"gte=1,lte=100"`
}

// NewListQuery returns the first page of k with the default sort.
func NewListQuery(k fleet.Kind, size int) ListQuery {
	return ListQuery{
		Page: 0,
		Size: size,
		Sort: k.DefaultSort(),
	}
}

// Validate checks the query bounds and that the sort field belongs to k.
func (q ListQuery) Validate(k fleet.Kind) error {
	err := fleet.Validator().Struct(q)
	if err != nil {
		return fmt.Errorf("invalid list query: %w", err)
	}

	err = q.Sort.Validate(k)
	if err != nil {
		return fmt.Errorf("invalid list query: %w", err)
	}

	return nil
}

// Values encodes the query as URL parameters. The search parameter is only
// sent when non-empty.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("sort", q.Sort.String())

	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}

	return v
}

// Page is one page of a collection as reported by the backend.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
	Size          int `json:"size"`
}

// State converts the page metadata into the input for [pagewindow.Compute].
func (p *Page[T]) State() pagewindow.State {
	return pagewindow.State{
		CurrentPage:   p.Number,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
		PageSize:      p.Size,
	}
}

type pageMetadata struct {
	Size          *int `json:"size"`
	Number        *int `json:"number"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
}

// UnmarshalJSON accepts both the flat page layout and the layout with
// the metadata nested under "page". Number and Size keep their prior values
// when the response omits them, so callers can seed them from the request.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	var raw struct {
		pageMetadata

		Page    *pageMetadata `json:"page"`
		Content []T           `json:"content"`
	}

	err := json.Unmarshal(b, &raw)
	if err != nil {
		return err //nolint:wrapcheck // Decoder adds context.
	}

	p.Content = raw.Content
	if p.Content == nil {
		p.Content = []T{}
	}

	md := raw.pageMetadata
	if raw.Page != nil {
		md = *raw.Page
	}

	p.TotalElements = md.TotalElements
	p.TotalPages = md.TotalPages

	if md.Number != nil {
		p.Number = *md.Number
	}

	if md.Size != nil {
		p.Size = *md.Size
	}

	return nil
}
