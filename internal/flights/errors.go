package flights

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransientError marks a supplier failure worth retrying: rate limits,
// server-side errors, and network-level flakiness. Anything else is
// treated as permanent for the current task.
type TransientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("flights: transient %s failure (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("flights: transient %s failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// retryableStatuses mirrors the supplier's documented throttling and
// availability responses.
var retryableStatuses = map[int]bool{
	429: true, 500: true, 502: true, 503: true, 504: true,
}

// RetryableStatus reports whether an HTTP status from the supplier
// should be retried.
func RetryableStatus(code int) bool { return retryableStatuses[code] }

// IsTransient classifies an error from a SearchClient call.
func IsTransient(err error) bool {
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
