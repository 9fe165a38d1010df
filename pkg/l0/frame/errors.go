package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrChecksumMismatch indicates the frame integrity check failed.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnterminatedFrame indicates the terminator is missing.
	ErrUnterminatedFrame = errors.New("unterminated frame")
	// ErrUnexpectedLength indicates the frame is too short or too long.
	ErrUnexpectedLength = errors.New("unexpected length")
	// ErrReservedByte indicates a payload contains the terminator.
	ErrReservedByte = errors.New("payload contains terminator")
)

// LengthError details ErrUnexpectedLength.
type LengthError struct {
	Want int
	Got  int
}

// Error implements error.
func (e *LengthError) Error() string {
	return fmt.Sprintf("%v: want %d, got %d", ErrUnexpectedLength, e.Want, e.Got)
}

// Unwrap returns ErrUnexpectedLength.
func (e *LengthError) Unwrap() error {
	return ErrUnexpectedLength
}
