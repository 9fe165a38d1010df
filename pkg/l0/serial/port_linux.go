//go:build linux

package serial

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	fx "github.com/robotalks/soda.go/pkg/framework"
)

var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

var charSizes = map[int]uint32{
	5: unix.CS5,
	6: unix.CS6,
	7: unix.CS7,
	8: unix.CS8,
}

// termPort is a tty configured through termios. The settings found at open
// time are written back exactly once, in Close.
type termPort struct {
	file  *os.File
	conn  syscall.RawConn
	saved *unix.Termios
}

func openPort(c *PortConfig) (Port, error) {
	speed, ok := baudRates[c.Baud]
	if !ok {
		return nil, &ConfigError{Op: "configure", Path: c.Device, Err: fmt.Errorf("unsupported baud rate %d", c.Baud)}
	}

	// O_NONBLOCK keeps the descriptor on the runtime poller so read
	// deadlines are honored.
	file, err := os.OpenFile(c.Device, os.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, &ConfigError{Op: "open", Path: c.Device, Err: unavailable(err)}
	}
	p := &termPort{file: file}
	if p.conn, err = file.SyscallConn(); err != nil {
		file.Close()
		return nil, &ConfigError{Op: "open", Path: c.Device, Err: err}
	}

	if err = p.control(func(fd int) error {
		if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
			return &ConfigError{Op: "lock", Path: c.Device, Err: unavailable(err)}
		}
		if err := unix.IoctlSetInt(fd, unix.TIOCEXCL, 0); err != nil {
			return &ConfigError{Op: "lock", Path: c.Device, Err: err}
		}
		saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
		if err != nil {
			return &ConfigError{Op: "save", Path: c.Device, Err: err}
		}
		p.saved = saved

		t := *saved
		t.Cflag = charSizes[c.DataBits] | unix.CREAD | speed
		t.Iflag, t.Oflag, t.Lflag = 0, 0, 0
		if c.Local {
			t.Cflag |= unix.CLOCAL
		}
		switch c.Parity {
		case ParityOdd:
			t.Cflag |= unix.PARENB | unix.PARODD
		case ParityEven:
			t.Cflag |= unix.PARENB
		}
		if c.IgnoreParity {
			t.Iflag |= unix.IGNPAR
		}
		if c.IgnoreBreak {
			t.Iflag |= unix.IGNBRK
		}
		t.Ispeed, t.Ospeed = speed, speed
		t.Cc[unix.VMIN] = uint8(c.MinBytes)
		t.Cc[unix.VTIME] = c.vtime()

		if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
			return &ConfigError{Op: "flush", Path: c.Device, Err: err}
		}
		if err := unix.IoctlSetTermios(fd, unix.TCSETS, &t); err != nil {
			return &ConfigError{Op: "configure", Path: c.Device, Err: err}
		}
		return nil
	}); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *termPort) control(fn func(fd int) error) error {
	var opErr error
	if err := p.conn.Control(func(fd uintptr) {
		opErr = fn(int(fd))
	}); err != nil {
		return err
	}
	return opErr
}

// Read implements io.Reader.
func (p *termPort) Read(b []byte) (int, error) {
	return p.file.Read(b)
}

// Write implements io.Writer.
func (p *termPort) Write(b []byte) (int, error) {
	return p.file.Write(b)
}

// SetReadDeadline implements Port.
func (p *termPort) SetReadDeadline(t time.Time) error {
	return p.file.SetReadDeadline(t)
}

// Flush implements Port.
func (p *termPort) Flush() error {
	return p.control(func(fd int) error {
		return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)
	})
}

// Close implements io.Closer.
func (p *termPort) Close() error {
	var errs fx.AggregatedError
	if saved := p.saved; saved != nil {
		p.saved = nil
		errs.Add(p.control(func(fd int) error {
			return unix.IoctlSetTermios(fd, unix.TCSETS, saved)
		}))
	}
	if err := p.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		errs.Add(err)
	}
	return errs.Aggregate()
}
