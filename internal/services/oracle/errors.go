package oracle

import (
	"fmt"
)

// FailureClass buckets oracle failures for the probabilistic fallback policy.
type FailureClass string

const (
	FailureAuth      FailureClass = "auth"         // 401/403
	FailureRateLimit FailureClass = "rate_limited" // 429
	FailureServer    FailureClass = "server"       // 5xx
	FailureHTTP      FailureClass = "http"         // other non-2xx
	FailureMalformed FailureClass = "malformed"    // non-JSON or empty response
	FailureSchema    FailureClass = "schema"       // JSON parses but misses required fields
	FailureTransport FailureClass = "transport"    // timeout / connection failure
)

// Error is a classified oracle failure. Clean hold/sell verdicts are not
// errors; only transport and parse problems surface here.
type Error struct {
	Class  FailureClass
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("oracle %s (status %d): %v", e.Class, e.Status, e.Err)
	}
	return fmt.Sprintf("oracle %s: %v", e.Class, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newStatusError(status int, body []byte) *Error {
	class := FailureHTTP
	switch {
	case status == 401 || status == 403:
		class = FailureAuth
	case status == 429:
		class = FailureRateLimit
	case status >= 500:
		class = FailureServer
	}
	return &Error{
		Class:  class,
		Status: status,
		Err:    fmt.Errorf("unexpected status %d: %s", status, truncate(body, 200)),
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
