package api

import (
	"context"
	"fmt"

	"github.com/macropower/fleetdesk/pkg/fleet"
)

// Collection is a [Repository] with the entity type erased, so that callers
// such as the list view and CLI can handle every [fleet.Kind] uniformly.
type Collection interface {
	Kind() fleet.Kind
	List(ctx context.Context, q ListQuery) (*Page[fleet.Entity], error)
	Get(ctx context.Context, id int64) (fleet.Entity, error)
	// Save creates e when its ID is zero and updates it otherwise.
	Save(ctx context.Context, e fleet.Entity) (fleet.Entity, error)
	Delete(ctx context.Context, id int64) error
	// Decode unmarshals a single entity of the collection's type.
	Decode(unmarshal func(any) error) (fleet.Entity, error)
}

// Erase wraps r as a [Collection].
func Erase[T fleet.Entity](r Repository[T]) Collection {
	return erased[T]{r: r}
}

// Collection returns the [Collection] for k.
func (c *Client) Collection(k fleet.Kind) (Collection, error) {
	switch k {
	case fleet.KindBus:
		return Erase(c.Buses()), nil
	case fleet.KindVan:
		return Erase(c.Vans()), nil
	case fleet.KindFeature:
		return Erase(c.Features()), nil
	}

	return nil, fmt.Errorf("%w: %q", fleet.ErrUnknownKind, k)
}

type erased[T fleet.Entity] struct {
	r Repository[T]
}

func (e erased[T]) Kind() fleet.Kind {
	return e.r.Kind()
}

func (e erased[T]) List(ctx context.Context, q ListQuery) (*Page[fleet.Entity], error) {
	p, err := e.r.List(ctx, q)
	if err != nil {
		return nil, err
	}

	content := make([]fleet.Entity, 0, len(p.Content))
	for _, v := range p.Content {
		content = append(content, v)
	}

	return &Page[fleet.Entity]{
		Content:       content,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Number:        p.Number,
		Size:          p.Size,
	}, nil
}

//nolint:ireturn // Type erasure.
func (e erased[T]) Get(ctx context.Context, id int64) (fleet.Entity, error) {
	v, err := e.r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return v, nil
}

//nolint:ireturn // Type erasure.
func (e erased[T]) Save(ctx context.Context, ent fleet.Entity) (fleet.Entity, error) {
	v, ok := ent.(T)
	if !ok {
		return nil, fmt.Errorf("save %s: unexpected type %T", e.r.Kind().Singular(), ent)
	}

	var err error
	if id := v.EntityID(); id != 0 {
		v, err = e.r.Update(ctx, id, v)
	} else {
		v, err = e.r.Create(ctx, v)
	}

	if err != nil {
		return nil, err
	}

	return v, nil
}

func (e erased[T]) Delete(ctx context.Context, id int64) error {
	return e.r.Delete(ctx, id)
}

//nolint:ireturn // Type erasure.
func (e erased[T]) Decode(unmarshal func(any) error) (fleet.Entity, error) {
	var v T

	err := unmarshal(&v)
	if err != nil {
		return nil, err
	}

	return v, nil
}
