package yaml_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/fleetdesk/pkg/yaml"
)

type plate struct {
	Number string `json:"number"`
	Seats  int    `json:"seats"`
}

func TestDecoderMultipleDocuments(t *testing.T) {
	t.Parallel()

	dec := yaml.NewDecoder(bytes.NewReader([]byte("number: ABC-1234\nseats: 40\n---\nnumber: XYZ-9876\nseats: 12\n")))

	var got []plate
	for {
		var p plate

		err := dec.Decode(&p)
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		got = append(got, p)
	}

	assert.Equal(t, []plate{{Number: "ABC-1234", Seats: 40}, {Number: "XYZ-9876", Seats: 12}}, got)
}

func TestParseDocuments(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    []plate
		wantErr bool
	}{
		"single": {
			input: "number: ABC-1234\nseats: 40\n",
			want:  []plate{{Number: "ABC-1234", Seats: 40}},
		},
		"skips empty documents": {
			input: "---\nnumber: ABC-1234\nseats: 40\n---\n---\nnumber: XYZ-9876\nseats: 12\n",
			want:  []plate{{Number: "ABC-1234", Seats: 40}, {Number: "XYZ-9876", Seats: 12}},
		},
		"invalid": {
			input:   "number: [\n",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			nodes, err := yaml.ParseDocuments([]byte(tc.input))
			if tc.wantErr {
				require.Error(t, err)

				var yamlErr *yaml.Error
				assert.ErrorAs(t, err, &yamlErr)

				return
			}

			require.NoError(t, err)

			got := make([]plate, 0, len(nodes))
			for _, n := range nodes {
				var p plate
				require.NoError(t, yaml.DecodeNode(n, &p))

				got = append(got, p)
			}

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeNodeUnknownField(t *testing.T) {
	t.Parallel()

	nodes, err := yaml.ParseDocuments([]byte("number: ABC-1234\ncolour: red\n"))
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	var p plate

	err = yaml.DecodeNode(nodes[0], &p)
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	assert.Contains(t, err.Error(), "colour")
}
