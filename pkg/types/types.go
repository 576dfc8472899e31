// Package types defines the request descriptors shared between the client,
// the credentials signer, and the transport.
//
// The three types form a pipeline: an Operation describes an endpoint, the
// invocation builder resolves it into an Invocation, and a credentials
// variant signs the invocation into a SignedRequest ready for transport.
// Each stage's output is treated as read-only by the stages after it; in
// particular a SignedRequest must reach the wire byte-for-byte as built,
// since its contents are covered by the OAuth signature.
package types

import (
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/format"
)

// Operation is an immutable descriptor of an API endpoint: an HTTP verb, a
// path, and an optional response format.
//
// The path may be relative ("statuses/update"), host-relative
// ("/oauth/request_token"), or absolute ("https://stream.twitter.com/...").
// It may contain %(name)s-style placeholders that the invocation builder
// substitutes from the supplied parameters; this placeholder shape is the
// contract with the endpoint layers built on top of this library.
type Operation struct {
	// Method is the HTTP verb. It is normalized (trimmed, uppercased)
	// by the invocation builder.
	Method string

	// Path is the endpoint path template.
	Path string

	// Format selects the response codec and the URL extension.
	// A nil Format means JSON.
	Format format.Format
}

// Invocation is a resolved, unsigned request built from an Operation and a
// parameter set. Treat it as read-only once built.
type Invocation struct {
	// Method is the normalized HTTP verb.
	Method string

	// URL is the resolved absolute URL, including the format extension
	// but excluding any query parameters.
	URL string

	// Params holds the request parameters destined for the query string
	// or the request body, depending on the verb and the signer.
	Params map[string]string

	// Headers holds the request headers, including the appended
	// User-Agent.
	Headers map[string]string

	// Format is the response codec chosen for this invocation.
	Format format.Format
}

// SignedRequest is an Invocation with authorization material applied. Its
// properties are covered by the signature and must not be modified.
type SignedRequest struct {
	// Method is the HTTP verb.
	Method string

	// URL is the final request URL, including the signed query string
	// for GET requests.
	URL string

	// Headers holds the final request headers, including any
	// Authorization or Content-Type headers added by the signer.
	Headers map[string]string

	// PostData is the form-encoded request body, or empty for requests
	// that carry no body.
	PostData string

	// Format is the response codec carried through for the caller.
	Format format.Format
}
