// Package resilience provides the circuit breaker guarding the AI provider
// boundary and transient error classification for it.
package resilience

import (
	"context"
	"errors"
	"net"
	"strings"
)

// TransientError marks an error as retryable/countable by the breaker.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as transient. Returns nil for nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether the error chain contains a TransientError or
// matches common transient network patterns.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := err.Error()
	for _, pattern := range []string{
		"connection reset",
		"connection refused",
		"no such host",
		"overloaded",
		"rate limit",
		"429",
		"529",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
