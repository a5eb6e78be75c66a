package httpclient

import (
	"errors"
	"fmt"
)

// ErrDecodeResult is returned when the body does not fit the result target.
var ErrDecodeResult = errors.New("httpclient: failed to decode response body")

// StatusError describes a rejected HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("httpclient: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("httpclient: unexpected status %d: %s", e.StatusCode, e.Body)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
