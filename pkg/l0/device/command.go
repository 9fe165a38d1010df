// Package device runs request/reply exchanges with a serial device.
package device

import (
	"time"

	"github.com/robotalks/soda.go/pkg/l0/frame"
)

// ReplyShape tells how the end of a reply is recognized.
type ReplyShape int

const (
	// ReplyNone is fire-and-forget: the device gets a settle delay and
	// whatever it sends meanwhile is discarded.
	ReplyNone ReplyShape = iota
	// ReplyFixed is exactly ReplyLen bytes.
	ReplyFixed
	// ReplyFramed is a codec frame ending with its terminator.
	ReplyFramed
)

// Arg describes one single-byte command argument.
type Arg struct {
	Name string
	Min  int
	Max  int
}

// CommandSpec is one entry of a device command table.
type CommandSpec struct {
	Name string
	// Payload is the fixed part of the command, arguments are appended.
	Payload []byte
	Args    []Arg

	Reply    ReplyShape
	ReplyLen int
	// Settle is the delay after a ReplyNone command.
	Settle time.Duration
	// Check validates a decoded reply payload. A failure makes the
	// reply malformed.
	Check func(payload []byte) error
	// Idempotent commands may be repeated after a timeout or a
	// malformed reply.
	Idempotent bool
}

// Encode validates args and builds the command payload. No byte of an
// invalid command is ever produced.
func (s *CommandSpec) Encode(args ...int) ([]byte, error) {
	if len(args) != len(s.Args) {
		return nil, &ArgumentError{Name: s.Name + " args", Value: len(args), Min: len(s.Args), Max: len(s.Args)}
	}
	payload := make([]byte, 0, len(s.Payload)+len(args))
	payload = append(payload, s.Payload...)
	for n, arg := range s.Args {
		if err := CheckRange(arg.Name, args[n], arg.Min, arg.Max); err != nil {
			return nil, err
		}
		payload = append(payload, byte(args[n]))
	}
	return payload, nil
}

func (s *CommandSpec) predicate(codec *frame.Codec) (frame.Predicate, int) {
	switch s.Reply {
	case ReplyFixed:
		n := s.ReplyLen + codec.Overhead()
		return frame.Fixed(n), n
	case ReplyFramed:
		return codec.Scan, MaxFrameSize
	}
	return nil, 0
}

// MaxFrameSize bounds a framed reply.
const MaxFrameSize = 256
