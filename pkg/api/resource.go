package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/macropower/fleetdesk/pkg/fleet"
)

// Repository is the uniform CRUD surface over one fleet collection.
type Repository[T fleet.Entity] interface {
	Kind() fleet.Kind
	List(ctx context.Context, q ListQuery) (*Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id int64, v T) (T, error)
	Delete(ctx context.Context, id int64) error
}

var (
	_ Repository[fleet.Bus]                  = (*ResourceClient[fleet.Bus])(nil)
	_ Repository[fleet.Van]                  = (*ResourceClient[fleet.Van])(nil)
	_ Repository[fleet.AccessibilityFeature] = (*FeatureClient)(nil)
)

// ResourceClient is a [Repository] backed by a server-paged collection.
type ResourceClient[T fleet.Entity] struct {
	client *Client
	kind   fleet.Kind
}

func (r *ResourceClient[T]) Kind() fleet.Kind {
	return r.kind
}

func (r *ResourceClient[T]) itemPath(id int64) string {
	return r.kind.Path() + "/" + strconv.FormatInt(id, 10)
}

// List fetches one page. The query is validated before any request is sent.
func (r *ResourceClient[T]) List(ctx context.Context, q ListQuery) (*Page[T], error) {
	err := q.Validate(r.kind)
	if err != nil {
		return nil, err
	}

	// Not every backend echoes the page metadata.
	page := &Page[T]{Number: q.Page, Size: q.Size}

	err = r.client.do(ctx, request{
		method: http.MethodGet,
		path:   r.kind.Path(),
		query:  q.Values(),
		out:    page,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}

	return page, nil
}

func (r *ResourceClient[T]) Get(ctx context.Context, id int64) (T, error) {
	var v T

	err := r.client.do(ctx, request{
		method: http.MethodGet,
		path:   r.itemPath(id),
		out:    &v,
	})
	if err != nil {
		return v, fmt.Errorf("get %s %d: %w", r.kind.Singular(), id, err)
	}

	return v, nil
}

// Create validates v and posts it to the collection.
func (r *ResourceClient[T]) Create(ctx context.Context, v T) (T, error) {
	var created T

	err := fleet.Validate(v)
	if err != nil {
		return created, err
	}

	err = r.client.do(ctx, request{
		method: http.MethodPost,
		path:   r.kind.Path(),
		body:   v,
		out:    &created,
		expect: []int{http.StatusCreated, http.StatusOK},
	})
	if err != nil {
		return created, fmt.Errorf("create %s: %w", r.kind.Singular(), err)
	}

	return created, nil
}

// Update validates v and replaces the resource with the given id.
func (r *ResourceClient[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	var updated T

	err := fleet.Validate(v)
	if err != nil {
		return updated, err
	}

	err = r.client.do(ctx, request{
		method: http.MethodPut,
		path:   r.itemPath(id),
		body:   v,
		out:    &updated,
	})
	if err != nil {
		return updated, fmt.Errorf("update %s %d: %w", r.kind.Singular(), id, err)
	}

	return updated, nil
}

// Delete removes the resource. The backend answers 204 on success.
func (r *ResourceClient[T]) Delete(ctx context.Context, id int64) error {
	err := r.client.do(ctx, request{
		method: http.MethodDelete,
		path:   r.itemPath(id),
		expect: []int{http.StatusNoContent, http.StatusOK},
	})
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", r.kind.Singular(), id, err)
	}

	return nil
}
