package frame

import (
	"bytes"
	"fmt"
)

// Checksum computes the check byte of a payload.
type Checksum interface {
	Sum(payload []byte) byte
}

// XOR is a longitudinal redundancy check seeded with its own value.
// XOR(0) is the plain XOR of all payload bytes.
type XOR byte

// Sum implements Checksum.
func (s XOR) Sum(payload []byte) byte {
	lrc := byte(s)
	for _, b := range payload {
		lrc ^= b
	}
	return lrc
}

// Codec encodes and validates frames of one device family.
// A zero Codec passes payloads through untouched.
type Codec struct {
	Header     []byte
	Checksum   Checksum
	Terminator byte
	Terminated bool
}

// Raw is the pass-through codec: no header, checksum or terminator.
var Raw = Codec{}

// Overhead is the number of framing bytes around a payload.
func (c *Codec) Overhead() int {
	n := len(c.Header)
	if c.Checksum != nil {
		n++
	}
	if c.Terminated {
		n++
	}
	return n
}

// Encode builds the frame for payload.
func (c *Codec) Encode(payload []byte) ([]byte, error) {
	if c.Terminated && bytes.IndexByte(payload, c.Terminator) >= 0 {
		return nil, ErrReservedByte
	}
	b := make([]byte, 0, len(payload)+c.Overhead())
	b = append(b, c.Header...)
	b = append(b, payload...)
	if c.Checksum != nil {
		b = append(b, c.Checksum.Sum(payload))
	}
	if c.Terminated {
		b = append(b, c.Terminator)
	}
	return b, nil
}

// Decode validates a complete frame and returns a copy of its payload.
// Nothing is returned from a frame failing validation.
func (c *Codec) Decode(raw []byte) ([]byte, error) {
	if len(raw) < c.Overhead() {
		return nil, &LengthError{Want: c.Overhead(), Got: len(raw)}
	}
	end := len(raw)
	if c.Terminated {
		end--
		if raw[end] != c.Terminator {
			return nil, ErrUnterminatedFrame
		}
	}
	if !bytes.HasPrefix(raw, c.Header) {
		return nil, fmt.Errorf("header % x: %w", raw[:len(c.Header)], ErrChecksumMismatch)
	}
	var sum byte
	if c.Checksum != nil {
		end--
		sum = raw[end]
	}
	payload := raw[len(c.Header):end]
	if c.Checksum != nil {
		if expected := c.Checksum.Sum(payload); expected != sum {
			return nil, fmt.Errorf("want %02x, got %02x: %w", expected, sum, ErrChecksumMismatch)
		}
	}
	if c.Terminated && bytes.IndexByte(payload, c.Terminator) >= 0 {
		return nil, ErrReservedByte
	}
	return append([]byte(nil), payload...), nil
}

// Scan implements Predicate for frames of this codec.
func (c *Codec) Scan(buf []byte) Status {
	if n := len(c.Header); len(buf) < n {
		if !bytes.HasPrefix(c.Header, buf) {
			return Invalid
		}
		return Incomplete
	}
	if !bytes.HasPrefix(buf, c.Header) {
		return Invalid
	}
	if !c.Terminated {
		// without a terminator the frame length comes from the reply shape.
		return Incomplete
	}
	last := len(buf) - 1
	if buf[last] != c.Terminator {
		return Incomplete
	}
	if _, err := c.Decode(buf); err == nil {
		return Complete
	}
	// payload bytes never equal the terminator, so only a check byte
	// that does can be followed by more of the frame.
	if c.Checksum != nil && c.Checksum.Sum(buf[len(c.Header):last]) == buf[last] {
		return Incomplete
	}
	return Invalid
}
