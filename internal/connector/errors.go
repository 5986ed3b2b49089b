package connector

import (
	"errors"
	"fmt"
)

// ErrInvalidConnectionString reports a malformed connection string at
// construction time.
var ErrInvalidConnectionString = errors.New("invalid connection string")

// TransportError reports a non-200 engine response or an I/O failure on a
// call. Message carries whatever the engine returned.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("engine returned status %d: %s", e.StatusCode, e.Message)
}

// ParseError reports a response whose required structure is absent, e.g. a
// missing hits container or a missing aggregation. Informational fields
// (counts, timings) never produce a ParseError; they degrade to sentinels.
type ParseError struct {
	Path string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response is missing required field %q", e.Path)
}
