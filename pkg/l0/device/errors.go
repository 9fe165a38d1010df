package device

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned before any I/O when a command
	// argument is out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTimedOut means no complete reply arrived before the deadline.
	ErrTimedOut = errors.New("timed out")
	// ErrMalformed means a reply failed validation.
	ErrMalformed = errors.New("malformed reply")
)

// ArgumentError details ErrInvalidArgument.
type ArgumentError struct {
	Name  string
	Value int
	Min   int
	Max   int
}

// Error implements error.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%v: %s %d not in [%d, %d]", ErrInvalidArgument, e.Name, e.Value, e.Min, e.Max)
}

// Unwrap returns ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// CheckRange returns an *ArgumentError unless min <= value <= max.
func CheckRange(name string, value, min, max int) error {
	if value < min || value > max {
		return &ArgumentError{Name: name, Value: value, Min: min, Max: max}
	}
	return nil
}

// IOError is a transport failure after the port was opened successfully.
// It is never retried by the controller.
type IOError struct {
	Op   string
	Want int
	Got  int
	Err  error
}

// Error implements error.
func (e *IOError) Error() string {
	if e.Want > 0 {
		return fmt.Sprintf("%s: %d of %d bytes: %v", e.Op, e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the cause.
func (e *IOError) Unwrap() error {
	return e.Err
}

// MalformedError details ErrMalformed.
type MalformedError struct {
	Command string
	Raw     []byte
	Err     error
}

// Error implements error.
func (e *MalformedError) Error() string {
	msg := fmt.Sprintf("%s: %v % x", e.Command, ErrMalformed, e.Raw)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns both ErrMalformed and the cause.
func (e *MalformedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}
