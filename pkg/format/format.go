// Package format provides the response codecs used by the API client.
//
// A Format decodes a raw response body into structured data and exposes the
// URL extension that selects the format on the wire. JSON responses are
// requested by appending ".json" to the resolved URL; form-encoded responses
// (used by the OAuth handshake) use no extension at all.
package format

import (
	"encoding/json"
	"net/url"
	"strings"

	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
)

// Format decodes a raw response body into a structured value.
//
// Decode returns nil (with a nil error) for empty or whitespace-only input
// where the format treats such input as "no data"; streaming endpoints send
// empty lines as keep-alives and rely on this.
type Format interface {
	// Decode parses raw response text into a structured value.
	Decode(raw string) (any, error)

	// Extension returns the URL suffix (without the leading dot) that
	// selects this format, or an empty string if none is used.
	Extension() string
}

// JSON decodes JSON response bodies. The decoded result is a generic value
// (map, slice, string, float64, bool). Empty input decodes to nil; streams
// use empty lines as keep-alives.
type JSON struct{}

// Decode implements Format.
func (JSON) Decode(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, &apierrors.DecodeError{Message: "invalid JSON", Err: err}
	}
	return value, nil
}

// Extension implements Format.
func (JSON) Extension() string { return "json" }

// Form decodes application/x-www-form-urlencoded response bodies into a flat
// string-to-string map. It is used by the OAuth token handshake. Empty input
// decodes to an empty map, not nil: the handshake distinguishes "no fields"
// from "no data".
type Form struct{}

// Decode implements Format.
func (Form) Decode(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	fields := make(map[string]string)
	if raw == "" {
		return fields, nil
	}

	for _, pair := range strings.Split(raw, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, &apierrors.DecodeError{Message: "malformed form pair " + quote(pair)}
		}
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			return nil, &apierrors.DecodeError{Message: "malformed form key " + quote(key), Err: err}
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, &apierrors.DecodeError{Message: "malformed form value " + quote(value), Err: err}
		}
		fields[decodedKey] = decodedValue
	}
	return fields, nil
}

// Extension implements Format.
func (Form) Extension() string { return "" }

// quote quotes a string for error messages.
func quote(s string) string {
	return `"` + s + `"`
}

// External adapts a caller-supplied decode function to the Format interface.
// Empty input short-circuits to nil without invoking the callback, matching
// the keep-alive behavior of the built-in formats.
type External struct {
	decode    func(raw string) (any, error)
	extension string
}

// NewExternal wraps fn as a Format with no URL extension.
func NewExternal(fn func(raw string) (any, error)) (*External, error) {
	return NewExternalWithExtension(fn, "")
}

// NewExternalWithExtension wraps fn as a Format that selects itself on the
// wire with the given URL extension.
func NewExternalWithExtension(fn func(raw string) (any, error), extension string) (*External, error) {
	if fn == nil {
		return nil, &apierrors.DecodeError{Message: "external format requires a decode function"}
	}
	return &External{decode: fn, extension: extension}, nil
}

// Decode implements Format.
func (e *External) Decode(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return e.decode(raw)
}

// Extension implements Format.
func (e *External) Extension() string { return e.extension }
