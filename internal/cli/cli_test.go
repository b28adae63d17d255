package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"github.com/macropower/fleetdesk/internal/cli"
	"github.com/macropower/fleetdesk/pkg/api"
)

const baseURL = "http://fleet.test"

var bus = map[string]any{
	"id":                    3,
	"model":                 "Torino",
	"brand":                 "Marcopolo",
	"color":                 "white",
	"year":                  "2019",
	"licensePlate":          "ABC-1234",
	"numberOfSeats":         40,
	"hasWifi":               true,
	"hasAirConditioning":    false,
	"accessibilityFeatures": []map[string]any{},
}

// execute runs the root command against the mocked backend. Tests using it
// cannot run in parallel, since gock is global.
func execute(t *testing.T, opts []cli.RootOpt, args ...string) (string, error) {
	t.Helper()

	hc := &http.Client{}
	gock.InterceptClient(hc)
	t.Cleanup(func() {
		gock.RestoreClient(hc)
		gock.Off()
	})

	opts = append(opts, cli.WithClientOpts(api.WithHTTPClient(hc)))

	cmd := cli.NewRootCmd(opts...)

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
		"--base-url", baseURL,
	}, args...))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestList(t *testing.T) {
	gock.New(baseURL).
		Get("/vans").
		MatchParam("page", "1").
		MatchParam("size", "5").
		MatchParam("sort", "numberOfSeats,desc").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"content": []map[string]any{
				{"id": 4, "model": "Sprinter", "brand": "Mercedes", "numberOfSeats": 15},
			},
			"totalElements": 6,
			"totalPages":    2,
			"number":        1,
			"size":          5,
		})

	out, err := execute(t, nil, "list", "vans", "--page", "2", "--size", "5", "--sort", "numberOfSeats,desc")
	require.NoError(t, err)

	assert.Contains(t, out, "Sprinter")
	assert.Contains(t, out, "Mercedes")
	assert.Contains(t, out, "Showing 6 to 6 of 6 results")
	assert.Contains(t, out, "[2]")
	assert.True(t, gock.IsDone())
}

func TestListInvalidSort(t *testing.T) {
	_, err := execute(t, nil, "list", "buses", "--sort", "brand")
	require.ErrorContains(t, err, `"--sort"`)
}

func TestRootPrintsBusesWhenNotATerminal(t *testing.T) {
	gock.New(baseURL).
		Get("/buses").
		MatchParam("page", "0").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"content":       []map[string]any{bus},
			"totalElements": 1,
			"totalPages":    1,
			"number":        0,
			"size":          10,
		})

	out, err := execute(t, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "Torino")
	assert.Contains(t, out, "Showing 1 to 1 of 1 results")
	assert.True(t, gock.IsDone())
}

func TestGet(t *testing.T) {
	gock.New(baseURL).
		Get("/buses/3").
		Reply(http.StatusOK).
		JSON(bus)

	out, err := execute(t, nil, "get", "bus", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "kind: buses")
	assert.Contains(t, out, "model: Torino")
	assert.Contains(t, out, "# accessibility features: none")
	assert.True(t, gock.IsDone())
}

func TestGetErrors(t *testing.T) {
	tcs := map[string]struct {
		want string
		args []string
	}{
		"unknown kind": {
			args: []string{"get", "trains", "1"},
			want: "trains",
		},
		"bad id": {
			args: []string{"get", "bus", "abc"},
			want: "id must be a positive number",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, nil, tc.args...)
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestGetNotFound(t *testing.T) {
	gock.New(baseURL).
		Get("/vans/9").
		Reply(http.StatusNotFound)

	_, err := execute(t, nil, "get", "van", "9")
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestDelete(t *testing.T) {
	gock.New(baseURL).
		Get("/buses/3").
		Reply(http.StatusOK).
		JSON(bus)

	gock.New(baseURL).
		Delete("/buses/3").
		Reply(http.StatusNoContent)

	out, err := execute(t, nil, "delete", "bus", "3", "--yes")
	require.NoError(t, err)

	assert.Contains(t, out, "deleted bus Torino (ABC-1234)")
	assert.True(t, gock.IsDone())
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	gock.New(baseURL).
		Get("/buses/3").
		Reply(http.StatusOK).
		JSON(bus)

	_, err := execute(t, nil, "delete", "bus", "3")
	require.ErrorIs(t, err, cli.ErrNeedsConfirm)
}

func TestApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`apiVersion: fleetdesk.macropower.dev/v1beta1
kind: accessibility-features
spec:
  name: Ramp
  description: Wheelchair ramp
`), 0o600))

	gock.New(baseURL).
		Post("/accessibility-features").
		Reply(http.StatusCreated).
		JSON(map[string]any{"id": 7, "name": "Ramp", "description": "Wheelchair ramp"})

	out, err := execute(t, nil, "apply", "-f", path)
	require.NoError(t, err)

	assert.Contains(t, out, "created accessibility feature Ramp (id 7)")
	assert.True(t, gock.IsDone())
}

func TestApplyDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`apiVersion: fleetdesk.macropower.dev/v1beta1
kind: buses
spec:
  id: 3
  model: Torino
  brand: Marcopolo
  color: red
  year: "2019"
  licensePlate: ABC-1234
  numberOfSeats: 40
  hasWifi: true
  hasAirConditioning: false
  accessibilityFeatures: []
`), 0o600))

	gock.New(baseURL).
		Get("/buses/3").
		Reply(http.StatusOK).
		JSON(bus)

	out, err := execute(t, nil, "apply", "-f", path, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "-  color: white")
	assert.Contains(t, out, "+  color: red")
	assert.Contains(t, out, "1 insertion, 1 deletion")
	assert.NotContains(t, out, "updated")
	assert.True(t, gock.IsDone())
}

func TestApplyInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`apiVersion: fleetdesk.macropower.dev/v1beta1
kind: accessibility-features
spec:
  name: Ramp
`), 0o600))

	_, err := execute(t, nil, "apply", "-f", path)
	require.ErrorContains(t, err, "document 1")
}

func TestApplyRequiresFile(t *testing.T) {
	_, err := execute(t, nil, "apply")
	require.ErrorIs(t, err, cli.ErrNoFile)
}

func TestEdit(t *testing.T) {
	tcs := map[string]struct {
		edit    func(string) string
		want    string
		updated bool
	}{
		"changed": {
			edit:    func(s string) string { return strings.Replace(s, "color: white", "color: red", 1) },
			want:    "updated bus Torino (ABC-1234) (id 3)",
			updated: true,
		},
		"unchanged": {
			edit: func(s string) string { return s },
			want: "edit cancelled, no changes",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			gock.New(baseURL).
				Get("/buses/3").
				Reply(http.StatusOK).
				JSON(bus)

			if tc.updated {
				updated := map[string]any{}
				for k, v := range bus {
					updated[k] = v
				}
				updated["color"] = "red"

				gock.New(baseURL).
					Put("/buses/3").
					Reply(http.StatusOK).
					JSON(updated)
			}

			editor := cli.WithEditor(func(_ context.Context, path string) error {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}

				return os.WriteFile(path, []byte(tc.edit(string(data))), 0o600)
			})

			out, err := execute(t, []cli.RootOpt{editor}, "edit", "bus", "3")
			require.NoError(t, err)

			assert.Contains(t, out, tc.want)
			assert.True(t, gock.IsDone())
		})
	}
}

func TestEditRejectsChangedID(t *testing.T) {
	gock.New(baseURL).
		Get("/buses/3").
		Reply(http.StatusOK).
		JSON(bus)

	editor := cli.WithEditor(func(_ context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return os.WriteFile(path, []byte(strings.Replace(string(data), "id: 3", "id: 4", 1)), 0o600)
	})

	_, err := execute(t, []cli.RootOpt{editor}, "edit", "bus", "3")
	require.ErrorIs(t, err, cli.ErrEditedManifest)
}

func TestConfigSchema(t *testing.T) {
	out, err := execute(t, nil, "config", "schema")
	require.NoError(t, err)

	assert.Contains(t, out, `"$id": "https://fleetdesk.macropower.dev/config.v1beta1.json"`)
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, nil, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "fleet.test")
	assert.Contains(t, out, "pageSize: 10")
}

func TestConfigWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cmd := cli.NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "config", "write"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: fleetdesk.macropower.dev/v1beta1")
}
