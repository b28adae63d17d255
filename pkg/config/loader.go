package config

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"github.com/macropower/fleetdesk/pkg/ui/theme"
	"github.com/macropower/fleetdesk/pkg/yaml"
)

// Validator validates decoded configuration data.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator replaces the schema validator.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// WithThemeFromData reads the theme from the data itself, so that errors
// about the file are rendered in the theme the user asked for.
func WithThemeFromData() LoaderOpt {
	return func(l *Loader) {
		l.theme = getTheme(l.data)
	}
}

// WithColor enables highlighting of the source excerpt in errors.
func WithColor(colored bool) LoaderOpt {
	return func(l *Loader) {
		l.colored = colored
	}
}

// Loader validates and decodes a configuration document.
type Loader struct {
	validator Validator
	theme     *theme.Theme
	data      []byte
	colored   bool
}

func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		theme: theme.Default,
		data:  data,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate checks the data against the schema.
func (l *Loader) Validate() error {
	v := l.validator
	if v == nil {
		dv, err := DefaultValidator()
		if err != nil {
			return err
		}

		v = dv
	}

	var data any

	err := yaml.Unmarshal(l.data, &data)
	if err != nil {
		return l.annotate(err)
	}

	return l.annotate(v.Validate(data))
}

// Load decodes the data into a [Config] and applies defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := &Config{}

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(cfg)
	if err != nil {
		return nil, l.annotate(err)
	}

	cfg.EnsureDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Theme returns the theme used to render errors about the data.
func (l *Loader) Theme() *theme.Theme {
	return l.theme
}

func (l *Loader) annotate(err error) error {
	return yaml.Annotate(err, yaml.WithSource(l.data), yaml.WithColor(l.colored))
}

func getTheme(data []byte) *theme.Theme {
	var name string

	path := yaml.NewPathBuilder().Root().Child("ui").Child("theme").Build()

	err := path.Read(bytes.NewReader(data), &name)
	if err == nil && name != "" {
		return theme.New(name)
	}

	slog.Debug("could not read theme, config might be invalid")

	name = extractThemeWithRegex(data)
	if name != "" {
		slog.Debug("extracted theme using regex fallback", slog.String("theme", name))

		return theme.New(name)
	}

	return theme.Default
}

var (
	// uiSectionRe captures the indented lines following a top-level "ui:".
	uiSectionRe = regexp.MustCompile(`(?m)^ui:\s*$((?:\n[ \t]+.*)*)`)
	// themeRe captures a quoted or bare theme value within that section.
	themeRe = regexp.MustCompile(`\n[ \t]+theme:\s*(?:"([^"#\n]+)"|'([^'#\n]+)'|([^\s#\n]+))`)
)

// extractThemeWithRegex finds ui.theme in data that is not valid YAML.
func extractThemeWithRegex(data []byte) string {
	ui := uiSectionRe.FindSubmatch(data)
	if len(ui) < 2 {
		return ""
	}

	m := themeRe.FindSubmatch(ui[1])
	for i := 1; i < len(m); i++ {
		if len(m[i]) > 0 {
			return strings.TrimSpace(string(m[i]))
		}
	}

	return ""
}
