package gtaw

import (
	"io"
	"net/http"

	"github.com/okuzmin/go-twitter-api-wrapper/pkg/format"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/types"
)

// Well-known streaming endpoint descriptors. The streaming host differs
// from the REST host, so the paths are absolute; the JSON format appends
// the ".json" extension during invocation.
var (
	// SampleStream is a random sample of public statuses.
	SampleStream = types.Operation{Method: http.MethodGet, Path: "https://stream.twitter.com/1/statuses/sample"}

	// FilterStream is the public statuses matching caller-supplied
	// predicates (follow, track, locations), passed as parameters.
	FilterStream = types.Operation{Method: http.MethodPost, Path: "https://stream.twitter.com/1/statuses/filter"}

	// FirehoseStream is the full public status firehose.
	FirehoseStream = types.Operation{Method: http.MethodGet, Path: "https://stream.twitter.com/1/statuses/firehose"}

	// UserStream is the stream of events for the authorized user.
	UserStream = types.Operation{Method: http.MethodPost, Path: "https://userstream.twitter.com/2/user"}
)

// Stream is a lazy sequence of decoded messages read line by line from a
// long-lived connection. It is restartable per connection: iteration runs
// until the connection closes, an error occurs, or the caller stops
// consuming. Every exit path releases the underlying connection, including
// an early Close or an error surfaced to the consumer.
//
// A Stream is not safe for concurrent use; it follows the library's
// single-owner, blocking call model.
type Stream struct {
	body   ResponseBody
	format format.Format
	closed bool
	err    error
}

// Next blocks until the next message arrives and returns it decoded. Empty
// keep-alive lines are filtered out before reaching the consumer. When the
// connection ends, Next returns io.EOF; on any error (including io.EOF) the
// underlying connection is released before returning.
func (s *Stream) Next() (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.closed {
		return nil, io.EOF
	}

	for {
		line, err := s.body.ReadLine()
		if err != nil {
			if err != io.EOF {
				err = classify(err)
			}
			s.fail(err)
			return nil, err
		}

		value, err := s.format.Decode(line)
		if err != nil {
			s.fail(err)
			return nil, err
		}
		if value == nil {
			continue // keep-alive
		}
		return value, nil
	}
}

// fail records the terminal error and releases the connection.
func (s *Stream) fail(err error) {
	s.err = err
	s.Close()
}

// Close releases the underlying connection. It is idempotent and must be
// called when the caller stops consuming before the stream ends.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
