package gtaw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/okuzmin/go-twitter-api-wrapper/internal"
	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/throttle"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/types"
)

const (
	// Version is the library version, reported in the User-Agent header.
	Version = "0.1.0"

	// DefaultAPIHost is the default REST API host.
	DefaultAPIHost = "api.twitter.com"

	// DefaultAPIVersion is the path segment prefixed to relative
	// operation paths.
	DefaultAPIVersion = "1"

	// libraryUserAgent identifies this library. It is appended to any
	// caller-supplied User-Agent header, separated by a single space.
	libraryUserAgent = "go-twitter-api-wrapper/" + Version
)

// Transport performs the blocking HTTP exchange for a signed request.
// Implementations must send the request exactly as built, since its
// contents are covered by the OAuth signature.
//
// The default transport is created by DefaultTransport; callers may inject
// their own implementation through Config.Transport.
type Transport interface {
	// Open executes the request and returns its body as a readable
	// stream. Non-2xx responses are reported as *errors.ServerError,
	// connection-level failures as *errors.TransportError.
	Open(ctx context.Context, req *types.SignedRequest) (ResponseBody, error)
}

// ResponseBody is a readable response stream. It supports one whole-body
// read or repeated line reads, and must be closed to release the
// connection.
type ResponseBody interface {
	// ReadAll reads the remaining body to its end.
	ReadAll() (string, error)

	// ReadLine reads the next line without its terminator, returning
	// io.EOF once the body ends. Lines are surfaced as the server sends
	// them, not when the connection closes.
	ReadLine() (string, error)

	// Close releases the underlying connection.
	Close() error
}

// DefaultTransport returns the net/http-backed transport used when no
// custom transport is configured. A nil httpClient selects a client with a
// response-header timeout but no overall deadline, so streams are not cut
// off mid-flight.
func DefaultTransport(httpClient *http.Client, logger *slog.Logger) Transport {
	return &defaultTransport{inner: internal.NewHTTPTransport(httpClient, logger)}
}

type defaultTransport struct {
	inner *internal.HTTPTransport
}

func (t *defaultTransport) Open(ctx context.Context, req *types.SignedRequest) (ResponseBody, error) {
	body, err := t.inner.Open(ctx, req)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Config holds the configuration for the API client. The zero value of
// every field selects a documented default.
type Config struct {
	// APIHost is the REST API host used to resolve relative operation
	// paths. Defaults to DefaultAPIHost.
	APIHost string

	// APIVersion is the version segment prefixed to relative paths.
	// Defaults to DefaultAPIVersion.
	APIVersion string

	// PlainHTTP disables TLS for resolved URLs. Off by default.
	PlainHTTP bool

	// Headers are extra headers added to every invocation.
	Headers map[string]string

	// HTTPClient is used by the default transport. Ignored when a
	// custom Transport is set.
	HTTPClient *http.Client

	// Transport performs the HTTP exchanges. Defaults to
	// DefaultTransport(HTTPClient, Logger).
	Transport Transport

	// Throttler, if set, is waited on before every Call and Flow.
	Throttler throttle.Throttler

	// Logger for structured diagnostics. Optional.
	Logger *slog.Logger
}

// Client executes API operations against a single host configuration.
// It is the execution boundary where transport-level errors are
// reclassified into the semantic error taxonomy.
type Client struct {
	config    *Config
	transport Transport
	throttler throttle.Throttler
	logger    *slog.Logger
}

// NewClient creates a new API client with the provided configuration.
// A nil config selects all defaults.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}

	cfg := *config
	if len(config.Headers) > 0 {
		cfg.Headers = make(map[string]string, len(config.Headers))
		for k, v := range config.Headers {
			cfg.Headers[k] = v
		}
	}
	if cfg.APIHost == "" {
		cfg.APIHost = DefaultAPIHost
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if strings.Contains(cfg.APIHost, "://") {
		return nil, &apierrors.ConfigError{Field: "APIHost", Message: "host must not contain a scheme"}
	}
	if cfg.Transport == nil {
		cfg.Transport = DefaultTransport(cfg.HTTPClient, cfg.Logger)
	}

	return &Client{
		config:    &cfg,
		transport: cfg.Transport,
		throttler: cfg.Throttler,
		logger:    cfg.Logger,
	}, nil
}

// Call performs a single blocking request: wait on the throttler, build and
// sign the invocation, perform the exchange, read the whole body, and
// decode it with the operation's format.
//
// Transport-level errors are reclassified here: 401/403 responses become
// *errors.NotPermittedError (or *errors.CallbackError when the server
// rejected a handshake callback), 404 becomes *errors.NotFoundError, and
// everything else is returned unchanged. No retries are performed.
func (c *Client) Call(ctx context.Context, creds *Credentials, op types.Operation, params map[string]any) (any, error) {
	inv, err := c.prepare(creds, op, params)
	if err != nil {
		return nil, err
	}

	if c.throttler != nil {
		if err := c.throttler.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := creds.Sign(inv)
	if err != nil {
		return nil, err
	}

	body, err := c.transport.Open(ctx, req)
	if err != nil {
		return nil, classify(err)
	}
	defer body.Close()

	raw, err := body.ReadAll()
	if err != nil {
		return nil, classify(err)
	}

	if c.logger != nil {
		c.logger.Debug("call completed", "method", inv.Method, "url", inv.URL, "bytes", len(raw))
	}

	return inv.Format.Decode(raw)
}

// Flow opens a long-lived streaming request and returns a Stream over its
// newline-delimited messages. The same throttling, signing, and error
// reclassification as Call apply to the connection setup; read errors
// during iteration are reclassified by the stream itself.
func (c *Client) Flow(ctx context.Context, creds *Credentials, op types.Operation, params map[string]any) (*Stream, error) {
	inv, err := c.prepare(creds, op, params)
	if err != nil {
		return nil, err
	}

	if c.throttler != nil {
		if err := c.throttler.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := creds.Sign(inv)
	if err != nil {
		return nil, err
	}

	body, err := c.transport.Open(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	if c.logger != nil {
		c.logger.Debug("stream opened", "method", inv.Method, "url", inv.URL)
	}

	return &Stream{body: body, format: inv.Format}, nil
}

// prepare validates the credentials and builds the invocation shared by
// Call and Flow.
func (c *Client) prepare(creds *Credentials, op types.Operation, params map[string]any) (*types.Invocation, error) {
	if creds == nil {
		return nil, &apierrors.CredentialsError{Message: "credentials are required"}
	}
	return c.Invoke(op, params)
}

// classify maps transport-level errors onto the semantic taxonomy by
// inspecting the status code and the response body. Unrecognized errors
// pass through unchanged; nothing is swallowed.
func classify(err error) error {
	var srv *apierrors.ServerError
	if !errors.As(err, &srv) {
		return err
	}

	switch srv.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if strings.Contains(strings.ToLower(srv.Body), "callback") {
			return &apierrors.CallbackError{StatusCode: srv.StatusCode, Message: srv.Body}
		}
		return &apierrors.NotPermittedError{StatusCode: srv.StatusCode, Message: srv.Body}
	case http.StatusNotFound:
		return &apierrors.NotFoundError{StatusCode: srv.StatusCode, Message: srv.Body}
	default:
		return err
	}
}
