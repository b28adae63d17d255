package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/invopop/jsonschema"
	"golang.org/x/text/language"

	_ "embed"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/ui"
	"github.com/macropower/fleetdesk/pkg/yaml"
)

const (
	APIVersion = "fleetdesk.macropower.dev/v1beta1"
	Kind       = "Configuration"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	ValidAPIVersions = []string{APIVersion}
	ValidKinds       = []string{Kind}

	ErrInvalidHeader = errors.New("invalid header")
	ErrInvalidAPI    = errors.New("invalid api config")
)

// Config is the root of the configuration file.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// API configures the connection to the fleet backend.
	API *APIConfig `json:"api,omitempty" jsonschema:"title=API"`
	// UI configures the terminal interface.
	UI *ui.Config `json:"ui,omitempty" jsonschema:"title=UI"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// APIConfig contains the backend client settings.
type APIConfig struct {
	// Timeout bounds each HTTP attempt, e.g. "10s".
	Timeout *time.Duration `json:"timeout,omitempty" jsonschema:"title=Timeout"`
	// Retries is the number of extra attempts for failed idempotent requests.
	Retries *int `json:"retries,omitempty" jsonschema:"title=Retries,minimum=0,maximum=10"`
	// BaseURL is the root URL of the fleet REST API.
	BaseURL string `json:"baseURL,omitempty" jsonschema:"title=Base URL,format=uri"`
	// Locale is the BCP 47 tag used to sort accessibility features by name.
	Locale string `json:"locale,omitempty" jsonschema:"title=Locale"`
}

// New returns a [Config] with every default applied.
func New() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.API == nil {
		c.API = &APIConfig{}
	}

	c.API.EnsureDefaults()

	if c.UI == nil {
		c.UI = &ui.Config{}
	}

	c.UI.EnsureDefaults()
}

// Validate checks the values that the schema cannot express.
func (c *Config) Validate() error {
	if !slices.Contains(ValidAPIVersions, c.APIVersion) {
		return fmt.Errorf("%w: unsupported apiVersion %q", ErrInvalidHeader, c.APIVersion)
	}

	if !slices.Contains(ValidKinds, c.Kind) {
		return fmt.Errorf("%w: unsupported kind %q", ErrInvalidHeader, c.Kind)
	}

	if c.API != nil {
		err := c.API.Validate()
		if err != nil {
			return err
		}
	}

	if c.UI != nil {
		err := c.UI.Validate()
		if err != nil {
			return fmt.Errorf("ui: %w", err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	setConsts(jss, "apiVersion", "API Version", ValidAPIVersions)
	setConsts(jss, "kind", "Kind", ValidKinds)
}

func setConsts(jss *jsonschema.Schema, name, title string, values []string) {
	prop, ok := jss.Properties.Get(name)
	if !ok {
		panic(name + " property not found in schema")
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	_, _ = jss.Properties.Set(name, prop)
}

// MarshalYAML renders the configuration as a YAML document.
func (c *Config) MarshalYAML() ([]byte, error) {
	b, err := yaml.Marshal(*c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

func (c *APIConfig) EnsureDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = api.DefaultBaseURL
	}

	if c.Timeout == nil {
		timeout := api.DefaultTimeout
		c.Timeout = &timeout
	}

	if c.Retries == nil {
		retries := api.DefaultRetries
		c.Retries = &retries
	}

	if c.Locale == "" {
		c.Locale = language.AmericanEnglish.String()
	}
}

func (c *APIConfig) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("%w: baseURL: %w", ErrInvalidAPI, err)
		}

		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: baseURL %q must be an absolute http(s) URL", ErrInvalidAPI, c.BaseURL)
		}
	}

	if c.Timeout != nil && *c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidAPI)
	}

	if c.Locale != "" {
		_, err := language.Parse(c.Locale)
		if err != nil {
			return fmt.Errorf("%w: locale: %w", ErrInvalidAPI, err)
		}
	}

	return nil
}

// ClientConfig converts the settings into an [api.Config]. Unset values
// are left for [api.New] to default.
func (c *APIConfig) ClientConfig() api.Config {
	cfg := api.Config{BaseURL: c.BaseURL}

	if c.Timeout != nil {
		cfg.Timeout = *c.Timeout
	}

	if c.Retries != nil {
		cfg.Retries = *c.Retries
	}

	if tag, err := language.Parse(c.Locale); err == nil {
		cfg.Locale = tag
	}

	return cfg
}

// DefaultYAML returns the commented configuration written by
// [WriteDefault].
func DefaultYAML() []byte {
	return slices.Clone(defaultConfigYAML)
}
