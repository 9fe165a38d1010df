package serial

import (
	"errors"
	"fmt"
)

// ErrPortUnavailable indicates the device is missing, inaccessible or
// locked by another process.
var ErrPortUnavailable = errors.New("port unavailable")

// ErrInvalidBudget is returned by ReadUntil for a budget below one byte.
var ErrInvalidBudget = errors.New("read budget must be positive")

// ConfigError is a failure while opening or configuring a port.
// No usable channel exists after a ConfigError.
type ConfigError struct {
	Op   string
	Path string
	Err  error
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("serial %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrPortUnavailable, err)
}
