package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when the backend responds with 404.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest is returned when the backend rejects a payload with 400.
	ErrBadRequest = errors.New("bad request")
)

// StatusError is returned for any unexpected HTTP status.
type StatusError struct {
	Method  string
	Path    string
	Message string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

// Is maps well-known status codes onto the package sentinel errors.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrBadRequest:
		return e.Code == http.StatusBadRequest
	}

	return false
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	switch e.Code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return true
	}

	return false
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// newStatusError reads the response body for a message, preferring the
// "error" field, then "message", then a generic status description.
func newStatusError(method, path string, resp *http.Response) *StatusError {
	se := &StatusError{
		Method: method,
		Path:   path,
		Code:   resp.StatusCode,
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(b) > 0 {
		var eb errorBody
		if json.Unmarshal(b, &eb) == nil {
			se.Message = firstNonEmpty(eb.Error, eb.Message)
		}
	}

	if se.Message == "" {
		se.Message = fmt.Sprintf("request failed: %d %s", resp.StatusCode,
			strings.ToLower(http.StatusText(resp.StatusCode)))
	}

	return se
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}

	return ""
}
