package config

import (
	"encoding/json"
	"fmt"
	"path"
	"reflect"
	"sync"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/macropower/fleetdesk/pkg/yaml"
)

// SchemaURL identifies the configuration schema.
const SchemaURL = "https://fleetdesk.macropower.dev/config.v1beta1.json"

// durationPattern matches the strings accepted by [time.ParseDuration].
const durationPattern = `^-?([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

var durationType = reflect.TypeFor[time.Duration]()

var defaultValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	data, err := Schema()
	if err != nil {
		return nil, err
	}

	return yaml.NewValidator(SchemaURL, data)
})

// Schema generates the JSON schema for [Config].
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous: true,
		Mapper:    mapType,
		Namer:     typeName,
	}

	jss := r.Reflect(&Config{})
	jss.ID = SchemaURL
	jss.Title = "fleetdesk configuration"

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return data, nil
}

// DefaultValidator returns a validator for the generated [Schema]. The
// schema is compiled once.
func DefaultValidator() (*yaml.Validator, error) {
	return defaultValidator()
}

func mapType(t reflect.Type) *jsonschema.Schema {
	if t == durationType {
		return &jsonschema.Schema{
			Type:     "string",
			Pattern:  durationPattern,
			Examples: []any{"500ms", "10s"},
		}
	}

	return nil
}

// typeName qualifies definition names with their package, since several
// packages declare a Config or KeyBinds type.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.PkgPath() == "" {
		return t.Name()
	}

	return path.Base(t.PkgPath()) + "." + t.Name()
}
