package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDownstreamUnavailable wraps any failure of the generation,
	// retrieval or identity backends.
	ErrDownstreamUnavailable = errors.New("downstream unavailable")
	// ErrUnhandledInternal marks a failure nobody expected, e.g. a panic.
	ErrUnhandledInternal = errors.New("unhandled internal error")
)

// ValidationParseError reports structured generation output that could
// not be decoded. Raw keeps the payload for logging.
type ValidationParseError struct {
	Raw string
	Err error
}

func (e *ValidationParseError) Error() string {
	return fmt.Sprintf("structured output malformed: %v", e.Err)
}

func (e *ValidationParseError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as a downstream outage.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrDownstreamUnavailable, err)
}
