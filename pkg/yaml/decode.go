package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// DefaultDecoderOptions reject unknown fields, so that typos in manifests
// surface as errors instead of silently dropped values.
var DefaultDecoderOptions = []yaml.DecodeOption{
	yaml.DisallowUnknownField(),
	yaml.UseJSONUnmarshaler(),
}

type Decoder struct {
	d *yaml.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		d: yaml.NewDecoder(r, DefaultDecoderOptions...),
	}
}

// Decode reads the next document into v. It returns [io.EOF] when there are
// no more documents.
func (d *Decoder) Decode(v any) error {
	return wrapError(d.d.Decode(v))
}

// ParseDocuments splits data into the bodies of its YAML documents. Empty
// documents are skipped.
func ParseDocuments(data []byte) ([]ast.Node, error) {
	f, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, Annotate(wrapError(err), WithSource(data))
	}

	nodes := make([]ast.Node, 0, len(f.Docs))
	for _, doc := range f.Docs {
		if doc.Body == nil || doc.Body.Type() == ast.NullType {
			continue
		}

		nodes = append(nodes, doc.Body)
	}

	return nodes, nil
}

// DecodeNode decodes a parsed node into v with [DefaultDecoderOptions].
func DecodeNode(node ast.Node, v any) error {
	return wrapError(yaml.NodeToValue(node, v, DefaultDecoderOptions...))
}

// wrapError converts goccy errors into an [*Error] that keeps the token.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}
