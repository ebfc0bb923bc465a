// Package apierr holds the typed failures returned by every source adapter.
// Callers branch on them with errors.As; the batch runner turns them into an
// inline marker instead of aborting the run.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TransportError is a network or connection level failure: the request never
// produced an upstream response.
type TransportError struct {
	Service string
	Op      string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: transport error: %v", e.Service, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is a response with an unexpected status. For subprocess based
// adapters (helm) StatusCode carries the exit code.
type UpstreamError struct {
	Service    string
	Op         string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: failed to %s: %d", e.Service, e.Op, e.StatusCode)
	if e.Message != "" {
		msg += " " + e.Message
	}
	return msg
}

// NotFoundError reports an absent resource (unknown container, job, pod...).
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
}

// ConfigError reports a missing credential or an invalid parameter.
type ConfigError struct {
	Key  string
	Hint string
}

func (e *ConfigError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("missing or invalid configuration %q", e.Key)
	}
	return fmt.Sprintf("missing or invalid configuration %q: %s", e.Key, e.Hint)
}

// ParseError reports an upstream payload that could not be decoded into the
// expected structure.
type ParseError struct {
	Service string
	Op      string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: malformed response: %v", e.Service, e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const maxMessageRunes = 200

// FromStatus builds the UpstreamError for a non-success response. The body is
// trimmed and truncated so it can be shown on a single line.
func FromStatus(service, op string, code int, body []byte) *UpstreamError {
	msg := strings.TrimSpace(string(body))
	if r := []rune(msg); len(r) > maxMessageRunes {
		msg = string(r[:maxMessageRunes]) + "..."
	}
	if msg == "" {
		msg = http.StatusText(code)
	}
	return &UpstreamError{Service: service, Op: op, StatusCode: code, Message: msg}
}

// NotFoundOn converts a 404 UpstreamError into a NotFoundError for the given
// resource. Any other error is returned unchanged.
func NotFoundOn(err error, kind, name string) error {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.StatusCode == http.StatusNotFound {
		return &NotFoundError{Kind: kind, Name: name}
	}
	return err
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Marker is the inline error indicator recorded in a result row.
func Marker(err error) string {
	return "ERROR: " + err.Error()
}
