// Package yaml wraps [github.com/goccy/go-yaml] with the options, schema
// validation, and source-annotated errors used by config files and
// resource manifests.
package yaml

import (
	"bytes"

	"github.com/goccy/go-yaml"
)

// DefaultEncoderOptions are applied to every [Encoder] and to [Marshal].
var DefaultEncoderOptions = []yaml.EncodeOption{
	yaml.Indent(2),
	yaml.IndentSequence(true),
	yaml.UseJSONMarshaler(),
}

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Marshal encodes v as a single YAML document.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf)

	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}

	err = enc.Close()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes the first YAML document in data into v. Errors are
// returned as [*Error] with the offending source attached.
func Unmarshal(data []byte, v any) error {
	err := NewDecoder(bytes.NewReader(data)).Decode(v)
	if err != nil {
		return Annotate(err, WithSource(data))
	}

	return nil
}
