package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jpillora/backoff"
)

// RetryConfig bounds the transport retry budget. MaxAttempts counts total
// attempts, not re-tries; Delay is the fixed inter-attempt wait.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryConfig returns the retry discipline used against the
// exchange: three total attempts, one second apart.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       time.Second,
	}
}

// TransportError reports an exhausted retry budget. Timeout distinguishes
// repeated deadline expiry from other transport or parse faults; Err
// carries the last underlying cause.
type TransportError struct {
	URL      string
	Attempts int
	Timeout  bool
	Err      error
}

func (e *TransportError) Error() string {
	kind := "transport failure"
	if e.Timeout {
		kind = "timeout"
	}
	return fmt.Sprintf("%s after %d attempts: %v", kind, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is an exhausted-retry timeout.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}

// IsTransport reports whether err is any exhausted-retry transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Retry runs fn up to cfg.MaxAttempts times with a fixed delay between
// attempts. Every error fn returns is treated as a retryable transport or
// parse fault; application-level rejections must be decided by the caller
// after Retry succeeds.
func Retry(url string, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}

	b := &backoff.Backoff{
		Min:    cfg.Delay,
		Max:    cfg.Delay,
		Factor: 1,
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt < cfg.MaxAttempts {
			time.Sleep(b.Duration())
		}
	}

	return &TransportError{
		URL:      url,
		Attempts: cfg.MaxAttempts,
		Timeout:  isTimeoutErr(lastErr),
		Err:      lastErr,
	}
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
