package bingx

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned before any network attempt when the
// client holds an incomplete credential.
var ErrUnauthenticated = errors.New("bingx: api credentials not configured")

// APIError is an exchange-level rejection: the HTTP exchange completed
// but the envelope carried a non-zero code. Never retried; surfaced
// verbatim so the caller can inspect the exchange's own message.
type APIError struct {
	Endpoint string
	Code     int64
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bingx %s: code %d: %s", e.Endpoint, e.Code, e.Message)
}

// IsAPIError reports whether err is an exchange-level rejection.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
