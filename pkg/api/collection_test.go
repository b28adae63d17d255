package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/fleet"
)

func TestCollectionUnknownKind(t *testing.T) {
	c := newClient(t, 0)

	_, err := c.Collection(fleet.Kind("trains"))
	require.ErrorIs(t, err, fleet.ErrUnknownKind)
}

func TestCollectionList(t *testing.T) {
	c := newClient(t, 0)

	gock.New(baseURL).
		Get("/vans").
		MatchParam("page", "0").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"content":       []map[string]any{{"id": 4, "model": "Sprinter", "brand": "Mercedes"}},
			"totalElements": 1,
			"totalPages":    1,
			"number":        0,
			"size":          10,
		})

	col, err := c.Collection(fleet.KindVan)
	require.NoError(t, err)
	assert.Equal(t, fleet.KindVan, col.Kind())

	page, err := col.List(context.Background(), api.NewListQuery(fleet.KindVan, 10))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)

	van, ok := page.Content[0].(fleet.Van)
	require.True(t, ok)
	assert.Equal(t, "Mercedes", van.Brand)
	assert.True(t, gock.IsDone())
}

func TestCollectionSave(t *testing.T) {
	c := newClient(t, 0)

	col, err := c.Collection(fleet.KindFeature)
	require.NoError(t, err)

	gock.New(baseURL).
		Post("/accessibility-features").
		Reply(http.StatusCreated).
		JSON(map[string]any{"id": 3, "name": "Ramp", "description": "Boarding ramp"})

	gock.New(baseURL).
		Put("/accessibility-features/3").
		Reply(http.StatusOK).
		JSON(map[string]any{"id": 3, "name": "Ramp", "description": "Wide boarding ramp"})

	created, err := col.Save(context.Background(), fleet.AccessibilityFeature{Name: "Ramp", Description: "Boarding ramp"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.EntityID())

	updated, err := col.Save(context.Background(), fleet.AccessibilityFeature{ID: 3, Name: "Ramp", Description: "Wide boarding ramp"})
	require.NoError(t, err)
	assert.Equal(t, "Wide boarding ramp", updated.(fleet.AccessibilityFeature).Description)

	_, err = col.Save(context.Background(), fleet.Bus{ID: 1})
	require.ErrorContains(t, err, "unexpected type")
	assert.True(t, gock.IsDone())
}

func TestCollectionGetError(t *testing.T) {
	c := newClient(t, 0)

	gock.New(baseURL).
		Get("/buses/9").
		Reply(http.StatusNotFound)

	col, err := c.Collection(fleet.KindBus)
	require.NoError(t, err)

	got, err := col.Get(context.Background(), 9)
	require.ErrorIs(t, err, api.ErrNotFound)
	assert.Nil(t, got)
}

func TestCollectionDecode(t *testing.T) {
	c := newClient(t, 0)

	col, err := c.Collection(fleet.KindBus)
	require.NoError(t, err)

	raw := []byte(`{"id": 2, "model": "Torino", "year": 2019}`)

	got, err := col.Decode(func(v any) error { return json.Unmarshal(raw, v) })
	require.NoError(t, err)

	bus, ok := got.(fleet.Bus)
	require.True(t, ok)
	assert.Equal(t, fleet.Year("2019"), bus.Year)

	_, err = col.Decode(func(v any) error { return json.Unmarshal([]byte(`{`), v) })
	require.Error(t, err)
}
