package yaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

// Error is a YAML decoding or validation error. It points at the offending
// location via either a [*yaml.Path] or a [*token.Token], and renders the
// surrounding source when it is available.
type Error struct {
	Err     error
	Path    *yaml.Path
	Token   *token.Token
	Source  []byte
	Colored bool
}

type ErrorOpt func(e *Error)

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

// WithColor enables ANSI highlighting of the annotated source.
func WithColor(colored bool) ErrorOpt {
	return func(e *Error) {
		e.Colored = colored
	}
}

// Annotate applies opts to err if it is an [*Error], and returns err
// unchanged otherwise.
func Annotate(err error, opts ...ErrorOpt) error {
	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	for _, opt := range opts {
		opt(yamlErr)
	}

	return err
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}

	switch {
	case e.Token != nil:
		var p printer.Printer

		pos := e.Token.Position
		src := p.PrintErrorToken(e.Token, e.Colored)

		return fmt.Sprintf("[%d:%d] %v\n%s", pos.Line, pos.Column, e.Err, src)

	case e.Path != nil:
		if len(e.Source) > 0 {
			src, err := e.Path.AnnotateSource(e.Source, e.Colored)
			if err == nil {
				return fmt.Sprintf("error at %s: %v\n%s", e.Path, e.Err, strings.TrimRight(string(src), "\n"))
			}
		}

		return fmt.Sprintf("error at %s: %v", e.Path, e.Err)
	}

	return e.Err.Error()
}
