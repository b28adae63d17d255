// Package manifest reads and writes fleet resources as YAML documents:
//
//	apiVersion: fleetdesk.macropower.dev/v1beta1
//	kind: buses
//	spec:
//	  id: 3
//	  model: Torino
//	  ...
//
// A file may hold several documents separated by "---". Resources without
// an id are created when applied, and the rest are updated.
package manifest

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml/ast"

	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/yaml"
)

const APIVersion = "fleetdesk.macropower.dev/v1beta1"

var (
	ErrInvalidHeader = errors.New("invalid manifest header")
	ErrMissingSpec   = errors.New("missing spec")
	ErrEmpty         = errors.New("no manifests found")
)

var specPath = yaml.NewPathBuilder().Root().Child("spec").Build()

// Decoder produces the entity type of one collection, such as an
// [github.com/macropower/fleetdesk/pkg/api.Collection].
type Decoder interface {
	Decode(unmarshal func(any) error) (fleet.Entity, error)
}

// Document is one parsed manifest whose spec has not been decoded yet.
type Document struct {
	spec   ast.Node
	source []byte
	Kind   fleet.Kind
	// Index is the position of the document in the file.
	Index int
}

// envelope fields are in output order.
type envelope struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
	Spec       any    `json:"spec"`
}

// Parse splits data into documents and checks their headers.
func Parse(data []byte) ([]Document, error) {
	nodes, err := yaml.ParseDocuments(data)
	if err != nil {
		return nil, err //nolint:wrapcheck // Annotated with the source.
	}

	if len(nodes) == 0 {
		return nil, ErrEmpty
	}

	docs := make([]Document, 0, len(nodes))
	for i, node := range nodes {
		doc, err := parseDocument(node, data)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}

		doc.Index = i
		docs = append(docs, doc)
	}

	return docs, nil
}

func parseDocument(node ast.Node, source []byte) (Document, error) {
	var env envelope

	err := yaml.DecodeNode(node, &env)
	if err != nil {
		return Document{}, yaml.Annotate(err, yaml.WithSource(source))
	}

	if env.APIVersion != APIVersion {
		return Document{}, fmt.Errorf("%w: unsupported apiVersion %q, want %q",
			ErrInvalidHeader, env.APIVersion, APIVersion)
	}

	kind, err := fleet.ParseKind(env.Kind)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	spec, err := specPath.FilterNode(node)
	if err != nil || spec == nil || spec.Type() == ast.NullType {
		return Document{}, ErrMissingSpec
	}

	return Document{Kind: kind, spec: spec, source: source}, nil
}

// Decode decodes the spec with the decoder for the document's kind.
//
//nolint:ireturn // One of the fleet entity types.
func (d Document) Decode(dec Decoder) (fleet.Entity, error) {
	e, err := dec.Decode(func(v any) error {
		return yaml.Annotate(yaml.DecodeNode(d.spec, v), yaml.WithSource(d.source))
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.Kind.Singular(), err)
	}

	return e, nil
}

// Marshal renders e as a manifest of the given kind.
func Marshal(kind fleet.Kind, e fleet.Entity) ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", fleet.ErrUnknownKind, kind)
	}

	b, err := yaml.Marshal(envelope{
		APIVersion: APIVersion,
		Kind:       string(kind),
		Spec:       e,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind.Singular(), err)
	}

	return b, nil
}
