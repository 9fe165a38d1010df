// Package serial owns a configured serial line to a device.
package serial

import (
	"fmt"
	"time"
)

// Parity selects the parity mode.
type Parity byte

// Parity modes.
const (
	ParityNone Parity = 'N'
	ParityOdd  Parity = 'O'
	ParityEven Parity = 'E'
)

// PortConfig is the line discipline applied to a port when it is opened.
type PortConfig struct {
	// Device is the path, e.g. /dev/ttyS0.
	Device string
	// Baud is the line speed in bits per second.
	Baud int
	// DataBits is the character size, 5 to 8.
	DataBits int
	Parity   Parity
	// IgnoreParity drops characters with parity errors (IGNPAR).
	IgnoreParity bool
	// IgnoreBreak ignores break conditions (IGNBRK).
	IgnoreBreak bool
	// Local ignores modem status lines (CLOCAL).
	Local bool
	// MinBytes is the minimum number of bytes satisfying a read (VMIN).
	MinBytes int
	// InterByte is the inter-byte timeout (VTIME), in 100ms steps.
	InterByte time.Duration
}

// DefaultPortConfig returns the 8N1 raw configuration used by all
// supported devices, at the given path and baud rate.
func DefaultPortConfig(device string, baud int) PortConfig {
	return PortConfig{
		Device:       device,
		Baud:         baud,
		DataBits:     8,
		Parity:       ParityNone,
		IgnoreParity: true,
		IgnoreBreak:  true,
		Local:        true,
		MinBytes:     1,
		InterByte:    100 * time.Millisecond,
	}
}

// Validate checks the configuration before touching the device.
func (c *PortConfig) Validate() error {
	var err error
	switch {
	case c.Device == "":
		err = fmt.Errorf("device path required")
	case c.Baud <= 0:
		err = fmt.Errorf("invalid baud rate %d", c.Baud)
	case c.DataBits < 5 || c.DataBits > 8:
		err = fmt.Errorf("invalid character size %d", c.DataBits)
	case c.Parity != ParityNone && c.Parity != ParityOdd && c.Parity != ParityEven:
		err = fmt.Errorf("invalid parity %q", c.Parity)
	case c.MinBytes < 0 || c.MinBytes > 255:
		err = fmt.Errorf("invalid minimum bytes %d", c.MinBytes)
	case c.InterByte < 0 || c.InterByte > 25500*time.Millisecond:
		err = fmt.Errorf("invalid inter-byte timeout %v", c.InterByte)
	}
	if err != nil {
		return &ConfigError{Op: "validate", Path: c.Device, Err: err}
	}
	return nil
}

// vtime converts InterByte to deciseconds.
func (c *PortConfig) vtime() uint8 {
	ds := c.InterByte / (100 * time.Millisecond)
	if ds == 0 && c.InterByte > 0 {
		ds = 1
	}
	return uint8(ds)
}
