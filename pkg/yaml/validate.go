package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Validator validates data against a JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a new [Validator] with the provided JSON schema data.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var schema any

	err := json.Unmarshal(schemaData, &schema)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	err = compiler.AddResource(url, schema)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data against the schema. Data must use JSON-compatible
// types, e.g. the result of decoding YAML into an [any].
//
// Failures are returned as an [*Error] whose Path points at the most specific
// failing location.
func (s *Validator) Validate(data any) error {
	err := s.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	cause := mostSpecificCause(validationErr)

	return &Error{
		Err:  errors.New(causeMessage(cause)),
		Path: pathFromLocation(cause.InstanceLocation),
	}
}

// ValidateBytes decodes YAML source and validates it, attaching the source
// to any returned [*Error].
func (s *Validator) ValidateBytes(source []byte) error {
	var data any

	err := Unmarshal(source, &data)
	if err != nil {
		return err
	}

	return Annotate(s.Validate(data), WithSource(source))
}

// mostSpecificCause returns the cause with the longest InstanceLocation.
func mostSpecificCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	best := err
	for _, cause := range err.Causes {
		c := mostSpecificCause(cause)
		if len(c.InstanceLocation) > len(best.InstanceLocation) {
			best = c
		}
	}

	return best
}

func causeMessage(err *jsonschema.ValidationError) string {
	if err.ErrorKind == nil {
		return err.Error()
	}

	return err.ErrorKind.LocalizedString(message.NewPrinter(language.English))
}

// pathFromLocation converts an InstanceLocation slice to a [yaml.Path].
func pathFromLocation(location []string) *yaml.Path {
	current := NewPathBuilder().Root()

	for _, part := range location {
		index, err := strconv.ParseUint(part, 10, 64)
		if err == nil {
			current = current.Index(uint(index))
		} else {
			current = current.Child(part)
		}
	}

	return current.Build()
}
