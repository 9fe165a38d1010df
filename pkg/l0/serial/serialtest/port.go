// Package serialtest provides an in-memory Port for exercising the serial
// stack without hardware.
package serialtest

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/robotalks/soda.go/pkg/l0/serial"
)

// Port is a scripted serial.Port. Bytes written are recorded and passed
// to Responder; whatever it returns becomes readable.
type Port struct {
	// Responder produces the device's answer to one write.
	Responder func(written []byte) []byte
	// ShortWrite makes Write accept one byte less than requested.
	ShortWrite bool
	// WriteErr fails every Write.
	WriteErr error
	// ReadErr fails every Read.
	ReadErr error

	lock     sync.Mutex
	writes   [][]byte
	pending  []byte
	dataCh   chan struct{}
	deadline time.Time
	flushes  int
	closes   int
}

var _ serial.Port = (*Port)(nil)

// New creates a Port with no responder.
func New() *Port {
	return &Port{dataCh: make(chan struct{}, 1)}
}

// Respond sets a Responder from request/response pairs matched exactly.
func (p *Port) Respond(pairs ...[]byte) *Port {
	p.Responder = func(written []byte) []byte {
		for i := 0; i+1 < len(pairs); i += 2 {
			if bytes.Equal(pairs[i], written) {
				return pairs[i+1]
			}
		}
		return nil
	}
	return p
}

// Channel wraps p into a serial.Channel.
func (p *Port) Channel() *serial.Channel {
	return serial.NewChannel(p, serial.DefaultPortConfig("/dev/fake", 4800))
}

// Inject makes b readable as unsolicited input.
func (p *Port) Inject(b []byte) {
	p.lock.Lock()
	p.pending = append(p.pending, b...)
	p.lock.Unlock()
	select {
	case p.dataCh <- struct{}{}:
	default:
	}
}

// Writes returns every Write call's bytes.
func (p *Port) Writes() [][]byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([][]byte(nil), p.writes...)
}

// Flushes counts Flush calls.
func (p *Port) Flushes() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.flushes
}

// Closes counts Close calls.
func (p *Port) Closes() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.closes
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	if p.WriteErr != nil {
		return 0, p.WriteErr
	}
	n := len(b)
	if p.ShortWrite && n > 0 {
		n--
	}
	p.lock.Lock()
	p.writes = append(p.writes, append([]byte(nil), b[:n]...))
	p.lock.Unlock()
	if p.Responder != nil {
		if resp := p.Responder(b[:n]); len(resp) > 0 {
			p.Inject(resp)
		}
	}
	return n, nil
}

// Read implements io.Reader and blocks until data or the deadline.
func (p *Port) Read(b []byte) (int, error) {
	if p.ReadErr != nil {
		return 0, p.ReadErr
	}
	for {
		p.lock.Lock()
		if len(p.pending) > 0 {
			n := copy(b, p.pending)
			p.pending = p.pending[n:]
			p.lock.Unlock()
			return n, nil
		}
		deadline := p.deadline
		p.lock.Unlock()

		var timeout <-chan time.Time
		if !deadline.IsZero() {
			wait := time.Until(deadline)
			if wait <= 0 {
				return 0, os.ErrDeadlineExceeded
			}
			timeout = time.After(wait)
		}
		select {
		case <-p.dataCh:
		case <-timeout:
			return 0, os.ErrDeadlineExceeded
		}
	}
}

// SetReadDeadline implements serial.Port.
func (p *Port) SetReadDeadline(t time.Time) error {
	p.lock.Lock()
	p.deadline = t
	p.lock.Unlock()
	return nil
}

// Flush implements serial.Port.
func (p *Port) Flush() error {
	p.lock.Lock()
	p.flushes++
	p.pending = nil
	p.lock.Unlock()
	return nil
}

// Close implements io.Closer.
func (p *Port) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.closes++
	if p.closes > 1 {
		return errors.New("closed twice")
	}
	return nil
}
