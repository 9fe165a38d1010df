package serial

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/l0/frame"
)

// Port is the raw byte stream under a Channel.
type Port interface {
	io.ReadWriteCloser
	// SetReadDeadline bounds subsequent reads, which fail with
	// os.ErrDeadlineExceeded once t passes.
	SetReadDeadline(t time.Time) error
	// Flush discards received but unread input.
	Flush() error
}

// ReplyKind classifies bytes read for an exchange.
type ReplyKind int

const (
	// ReplyComplete is a well-formed frame.
	ReplyComplete ReplyKind = iota
	// ReplyTimeout means the deadline passed without a complete frame.
	ReplyTimeout
	// ReplyMalformed means the bytes can not form the expected frame.
	ReplyMalformed
)

// String implements fmt.Stringer.
func (k ReplyKind) String() string {
	switch k {
	case ReplyComplete:
		return "complete"
	case ReplyTimeout:
		return "timeout"
	case ReplyMalformed:
		return "malformed"
	}
	return fmt.Sprintf("ReplyKind(%d)", int(k))
}

// Reply holds the bytes read by ReadUntil.
type Reply struct {
	Kind ReplyKind
	Data []byte
}

// Channel is an open, configured serial line. It exclusively owns the port
// and restores the previous line settings on Close.
//
// A Channel serves one exchange at a time and is not safe for concurrent use.
type Channel struct {
	port   Port
	config PortConfig

	closeOnce sync.Once
}

// Open opens and configures the device. On any failure the port is
// restored and released, and a *ConfigError is returned.
func Open(config PortConfig) (*Channel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	port, err := openPort(&config)
	if err != nil {
		return nil, err
	}
	glog.Infof("serial %s opened at %d baud", config.Device, config.Baud)
	return NewChannel(port, config), nil
}

// NewChannel wraps an already configured Port.
func NewChannel(port Port, config PortConfig) *Channel {
	return &Channel{port: port, config: config}
}

// Config returns the applied configuration.
func (c *Channel) Config() PortConfig {
	return c.config
}

// Write writes b in a single call. A short write is reported with
// io.ErrShortWrite and is never retried.
func (c *Channel) Write(b []byte) (int, error) {
	n, err := c.port.Write(b)
	if glog.V(2) {
		glog.Infof("serial %s TX % x", c.config.Device, b[:n])
	}
	if err == nil && n != len(b) {
		err = io.ErrShortWrite
	}
	return n, err
}

// ReadUntil reads until complete reports a whole frame, budget bytes are
// received or deadline passes, whichever happens first. It never blocks
// past deadline. The returned error is set only for I/O failures; a timeout
// is a regular Reply.
func (c *Channel) ReadUntil(deadline time.Time, budget int, complete frame.Predicate) (Reply, error) {
	if budget < 1 {
		return Reply{Kind: ReplyMalformed}, ErrInvalidBudget
	}
	data := make([]byte, 0, budget)
	chunk := make([]byte, budget)
	for {
		if !time.Now().Before(deadline) {
			return Reply{Kind: ReplyTimeout, Data: data}, nil
		}
		if err := c.port.SetReadDeadline(deadline); err != nil {
			return Reply{Kind: ReplyMalformed, Data: data}, err
		}
		n, err := c.port.Read(chunk[:budget-len(data)])
		if n > 0 {
			data = append(data, chunk[:n]...)
			if glog.V(2) {
				glog.Infof("serial %s RX % x", c.config.Device, chunk[:n])
			}
			switch complete(data) {
			case frame.Complete:
				return Reply{Kind: ReplyComplete, Data: data}, nil
			case frame.Invalid:
				return Reply{Kind: ReplyMalformed, Data: data}, nil
			}
			if len(data) >= budget {
				return Reply{Kind: ReplyMalformed, Data: data}, nil
			}
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return Reply{Kind: ReplyTimeout, Data: data}, nil
			}
			return Reply{Kind: ReplyMalformed, Data: data}, err
		}
	}
}

// Flush discards pending input.
func (c *Channel) Flush() error {
	return c.port.Flush()
}

// Close restores the saved line settings and releases the port.
// Only the first call has any effect; later calls return nil.
func (c *Channel) Close() (err error) {
	c.closeOnce.Do(func() {
		err = c.port.Close()
		glog.Infof("serial %s closed", c.config.Device)
	})
	return
}
