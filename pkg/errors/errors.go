// Package errors defines the error taxonomy used throughout the Twitter API wrapper.
//
// Every failure mode of the library maps to a distinct error type so that
// callers can branch with errors.As instead of matching message strings.
// Transport-level errors (ServerError, TransportError) are produced by the
// transport and reclassified into the semantic types (NotPermittedError,
// NotFoundError, CallbackError) at the client's execution boundary.
package errors

import (
	"fmt"
)

// ConfigError indicates a problem with the client configuration.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// OperationError indicates that a caller supplied a malformed operation
// descriptor: an empty or blank HTTP method, an empty path, or a path
// template with placeholders left unresolved after parameter substitution.
type OperationError struct {
	// Message contains the detailed error message
	Message string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation error: %s", e.Message)
}

// CredentialsError indicates malformed credentials at construction time:
// a missing consumer key or secret, a token key without a token secret
// (or the reverse), or a missing username or password for basic auth.
type CredentialsError struct {
	// Field contains the name of the credentials field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *CredentialsError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("credentials error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("credentials error: %s", e.Message)
}

// CallbackError indicates that the server rejected the OAuth callback URL
// or another handshake parameter during the token request.
type CallbackError struct {
	// StatusCode is the HTTP status code of the rejection, if any
	StatusCode int
	// Message contains the server's rejection text
	Message string
}

func (e *CallbackError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("callback rejected (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("callback rejected: %s", e.Message)
}

// NotPermittedError indicates that the server refused authorization for the
// requested operation. It is mapped from HTTP 401/403-class responses.
type NotPermittedError struct {
	// StatusCode is the HTTP status code, if the error came from a response
	StatusCode int
	// Message contains the server's response text
	Message string
}

func (e *NotPermittedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("operation not permitted (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("operation not permitted: %s", e.Message)
}

// NotFoundError indicates that the requested operation path does not exist
// on the server. It is mapped from HTTP 404-class responses.
type NotFoundError struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// Message contains the server's response text
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("operation target not found (status %d): %s", e.StatusCode, e.Message)
}

// ServerError represents any non-2xx HTTP response that has not been
// classified further. It carries the numeric status code and the raw
// response body; no interpretation is attempted at the transport layer.
type ServerError struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// Body contains the raw response body text
	Body string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError indicates a low-level networking failure: a malformed URL,
// a DNS lookup failure, or a broken connection. It is connection-class, as
// opposed to the server-class ServerError.
type TransportError struct {
	// URL is the URL that was being accessed
	URL string
	// Err contains the underlying error
	Err error
}

func (e *TransportError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError indicates that a response body could not be decoded by the
// operation's format codec.
type DecodeError struct {
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("decode error: %s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("decode error: %v", e.Err)
	}
	return fmt.Sprintf("decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
