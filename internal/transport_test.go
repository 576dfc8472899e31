package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/types"
)

func TestOpenReadsWholeBody(t *testing.T) {
	t.Parallel()

	const payload = "hello world!\nthis is a test server."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.Client(), nil)
	body, err := transport.Open(context.Background(), &types.SignedRequest{Method: http.MethodGet, URL: server.URL})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer body.Close()

	got, err := body.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if got != payload {
		t.Errorf("ReadAll = %q, want %q", got, payload)
	}
}

func TestOpenSendsPostData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected Content-Type %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "POST RESPONSE: %s", raw)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.Client(), nil)
	body, err := transport.Open(context.Background(), &types.SignedRequest{
		Method:   http.MethodPost,
		URL:      server.URL,
		Headers:  map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		PostData: "hello=world",
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer body.Close()

	got, err := body.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if got != "POST RESPONSE: hello=world" {
		t.Errorf("ReadAll = %q", got)
	}
}

func TestOpenTranslatesServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(567)
		fmt.Fprint(w, "TEST FAILED")
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.Client(), nil)
	_, err := transport.Open(context.Background(), &types.SignedRequest{Method: http.MethodGet, URL: server.URL})

	var srv *apierrors.ServerError
	if !errors.As(err, &srv) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}
	if srv.StatusCode != 567 {
		t.Errorf("StatusCode = %d, want 567", srv.StatusCode)
	}
	if srv.Body != "TEST FAILED" {
		t.Errorf("Body = %q, want %q", srv.Body, "TEST FAILED")
	}
}

func TestOpenTranslatesConnectionError(t *testing.T) {
	t.Parallel()

	transport := NewHTTPTransport(&http.Client{Timeout: 2 * time.Second}, nil)

	tests := []struct {
		name string
		url  string
	}{
		{"malformed url", "not a url at all"},
		{"unreachable host", "http://127.0.0.1:1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transport.Open(context.Background(), &types.SignedRequest{Method: http.MethodGet, URL: tt.url})

			var te *apierrors.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %T: %v", err, err)
			}
			var srv *apierrors.ServerError
			if errors.As(err, &srv) {
				t.Error("connection failure must not be server-class")
			}
		})
	}
}

func TestReadLineSplitsAndTrims(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "first\r\nsecond\nlast without newline")
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.Client(), nil)
	body, err := transport.Open(context.Background(), &types.SignedRequest{Method: http.MethodGet, URL: server.URL})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer body.Close()

	want := []string{"first", "second", "last without newline"}
	for i, expected := range want {
		line, err := body.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine #%d returned error: %v", i, err)
		}
		if line != expected {
			t.Errorf("ReadLine #%d = %q, want %q", i, line, expected)
		}
	}

	if _, err := body.ReadLine(); err != io.EOF {
		t.Errorf("expected io.EOF after last line, got %v", err)
	}
}

// A line must be surfaced as soon as the server flushes it, while the
// connection is still open; buffering the whole response would stall
// streaming consumers.
func TestReadLineDeliversBeforeConnectionCloses(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer does not support flushing")
			return
		}
		fmt.Fprint(w, "early line\n")
		flusher.Flush()
		<-release // hold the connection open
	}))
	defer server.Close()
	defer close(release)

	transport := NewHTTPTransport(server.Client(), nil)
	body, err := transport.Open(context.Background(), &types.SignedRequest{Method: http.MethodGet, URL: server.URL})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer body.Close()

	type lineResult struct {
		line string
		err  error
	}
	results := make(chan lineResult, 1)
	go func() {
		line, err := body.ReadLine()
		results <- lineResult{line, err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			t.Fatalf("ReadLine returned error: %v", res.err)
		}
		if res.line != "early line" {
			t.Errorf("ReadLine = %q, want %q", res.line, "early line")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("line was not delivered while the connection stayed open")
	}
}
