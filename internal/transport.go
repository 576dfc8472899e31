package internal

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/types"
)

const (
	// DefaultResponseHeaderTimeout bounds the wait for response headers.
	// The overall request is deliberately unbounded: streaming endpoints
	// hold the connection open indefinitely, so an http.Client.Timeout
	// would kill every stream.
	DefaultResponseHeaderTimeout = 30 * time.Second

	// lineBufferSize is kept small so ReadLine surfaces stream lines as
	// they arrive instead of waiting for a large buffer to fill.
	lineBufferSize = 4096
)

// HTTPTransport performs blocking HTTP calls for signed requests and
// translates low-level failures into the library's error taxonomy.
type HTTPTransport struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPTransport returns a transport backed by the given http.Client.
// If httpClient is nil, a client with a response-header timeout but no
// overall deadline is used, so long-lived streams are not cut off.
func NewHTTPTransport(httpClient *http.Client, logger *slog.Logger) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
			},
		}
	}
	return &HTTPTransport{client: httpClient, logger: logger}
}

// Open performs the HTTP exchange for req and returns the response body as
// a readable stream. A non-2xx status is reported as a ServerError carrying
// the status code and the raw body text; connection-level failures are
// reported as a TransportError.
func (t *HTTPTransport) Open(ctx context.Context, req *types.SignedRequest) (*Body, error) {
	var reqBody io.Reader
	if req.PostData != "" {
		reqBody = strings.NewReader(req.PostData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, reqBody)
	if err != nil {
		return nil, &apierrors.TransportError{URL: req.URL, Err: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &apierrors.TransportError{URL: req.URL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		return nil, &apierrors.ServerError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if t.logger != nil {
		t.logger.Debug("request opened", "method", req.Method, "url", req.URL, "status", resp.StatusCode)
	}

	return &Body{
		response: resp,
		reader:   bufio.NewReaderSize(resp.Body, lineBufferSize),
		url:      req.URL,
	}, nil
}

// Body is a readable response stream supporting a single whole-body read or
// repeated line-by-line reads, plus an explicit Close.
type Body struct {
	response *http.Response
	reader   *bufio.Reader
	url      string
}

// ReadAll reads the remaining response body to its end.
func (b *Body) ReadAll() (string, error) {
	raw, err := io.ReadAll(b.reader)
	if err != nil {
		return "", &apierrors.TransportError{URL: b.url, Err: err}
	}
	return string(raw), nil
}

// ReadLine reads the next line of the response, without the trailing line
// terminator. Lines are surfaced as soon as the server sends them. At the
// end of the body it returns io.EOF; a final line without a terminator is
// returned first, with a nil error.
func (b *Body) ReadLine() (string, error) {
	line, err := b.reader.ReadString('\n')
	switch {
	case err == nil:
		return strings.TrimRight(line, "\r\n"), nil
	case err == io.EOF:
		if line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", io.EOF
	default:
		return "", &apierrors.TransportError{URL: b.url, Err: err}
	}
}

// Close releases the underlying connection. It is safe to call after the
// body has been fully consumed.
func (b *Body) Close() error {
	return b.response.Body.Close()
}
