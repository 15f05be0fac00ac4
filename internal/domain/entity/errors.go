package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced flight, price, booking or
	// review row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsightExpired is returned when the stored insight is past its expiry.
	ErrInsightExpired = errors.New("insight expired")
)

// ValidationError reports malformed input to a public operation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DecodeError reports a change notification that could not be decoded
type DecodeError struct {
	Payload string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode change payload %q: %v", e.Payload, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func errMissingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}
