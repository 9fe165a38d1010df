//go:build !linux

package serial

import (
	"errors"
	"os"
	"time"

	bugst "go.bug.st/serial"
)

// bugstPort adapts go.bug.st/serial where termios is not available.
// The library owns the line settings, so there is nothing to restore.
type bugstPort struct {
	bugst.Port
	deadline time.Time
}

func openPort(c *PortConfig) (Port, error) {
	mode := &bugst.Mode{
		BaudRate: c.Baud,
		DataBits: c.DataBits,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	switch c.Parity {
	case ParityOdd:
		mode.Parity = bugst.OddParity
	case ParityEven:
		mode.Parity = bugst.EvenParity
	}
	port, err := bugst.Open(c.Device, mode)
	if err != nil {
		var portErr *bugst.PortError
		if errors.As(err, &portErr) {
			switch portErr.Code() {
			case bugst.PortBusy, bugst.PortNotFound, bugst.PermissionDenied:
				err = unavailable(err)
			}
		}
		return nil, &ConfigError{Op: "open", Path: c.Device, Err: err}
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, &ConfigError{Op: "flush", Path: c.Device, Err: err}
	}
	return &bugstPort{Port: port}, nil
}

// SetReadDeadline implements Port.
func (p *bugstPort) SetReadDeadline(t time.Time) error {
	p.deadline = t
	timeout := time.Until(t)
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return p.Port.SetReadTimeout(timeout)
}

// Read reports a read timeout as os.ErrDeadlineExceeded.
func (p *bugstPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == nil && !p.deadline.IsZero() && !time.Now().Before(p.deadline) {
		err = os.ErrDeadlineExceeded
	}
	return n, err
}

// Flush implements Port.
func (p *bugstPort) Flush() error {
	return p.Port.ResetInputBuffer()
}
