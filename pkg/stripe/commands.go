// Package stripe drives a magnetic stripe reader which is configured with
// framed commands and reports card swipes as unsolicited track data.
package stripe

import (
	"fmt"
	"time"

	"github.com/robotalks/soda.go/pkg/l0/device"
	"github.com/robotalks/soda.go/pkg/l0/frame"
)

// Codec frames reader commands as {0x60, 0x00, payload, LRC, ETX}.
var Codec = frame.Codec{
	Header:     []byte{0x60, 0x00},
	Checksum:   frame.XOR(0x60),
	Terminator: 0x03,
	Terminated: true,
}

// DefaultSettle is how long the reader gets after each command.
const DefaultSettle = time.Second

// LEDColor is the argument of the LED command.
type LEDColor byte

// LED colors.
const (
	LEDOff   LEDColor = 0x30
	LEDGreen LEDColor = 0x31
	LEDRed   LEDColor = 0x32
	LEDAmber LEDColor = 0x33
)

var ledNames = map[LEDColor]string{
	LEDOff:   "off",
	LEDGreen: "green",
	LEDRed:   "red",
	LEDAmber: "amber",
}

// String implements fmt.Stringer.
func (c LEDColor) String() string {
	if name, ok := ledNames[c]; ok {
		return name
	}
	return fmt.Sprintf("LEDColor(%#02x)", byte(c))
}

// ParseLEDColor parses a color name.
func ParseLEDColor(name string) (LEDColor, error) {
	for color, n := range ledNames {
		if n == name {
			return color, nil
		}
	}
	return 0, fmt.Errorf("%w: LED color %q", device.ErrInvalidArgument, name)
}

// Tracks selects which tracks are decoded.
type Tracks byte

// Track selections.
const (
	AnyTrack  Tracks = 0x30
	Track1    Tracks = 0x31
	Track2    Tracks = 0x32
	Track12   Tracks = 0x33
	Track3    Tracks = 0x34
	Track13   Tracks = 0x35
	Track23   Tracks = 0x36
	AllTracks Tracks = 0x37
)

// Reader option bits.
const (
	// OptHostLED hands LED control to the host, no data envelope and the
	// standard decoder.
	OptHostLED byte = 0x10
)

// Command table of the stripe reader. All commands are fire-and-forget.
var (
	CmdReaderOptions = device.CommandSpec{
		Name:    "reader-options",
		Payload: []byte{0x04, 0x53, 0x11, 0x01},
		Args:    []device.Arg{{Name: "options", Min: 0, Max: 0xff}},
		Settle:  DefaultSettle,
	}
	CmdTrackSelection = device.CommandSpec{
		Name:    "track-selection",
		Payload: []byte{0x04, 0x53, 0x13, 0x01},
		Args:    []device.Arg{{Name: "tracks", Min: int(AnyTrack), Max: int(AllTracks)}},
		Settle:  DefaultSettle,
	}
	CmdReading = device.CommandSpec{
		Name:    "reading",
		Payload: []byte{0x04, 0x53, 0x1a, 0x01},
		Args:    []device.Arg{{Name: "enable", Min: 0x30, Max: 0x31}},
		Settle:  DefaultSettle,
	}
	CmdLED = device.CommandSpec{
		Name:    "led",
		Payload: []byte{0x02, 0x6c},
		Args:    []device.Arg{{Name: "color", Min: int(LEDOff), Max: int(LEDAmber)}},
		Settle:  DefaultSettle,
	}
)

// Swipe data is ';' ... '?' followed by one more byte.
const (
	SwipeStart   = ';'
	SwipeEnd     = '?'
	swipeTrailer = 1
	maxSwipeSize = 256
)

// SwipePredicate recognizes a complete swipe buffer.
var SwipePredicate = frame.Delimited(SwipeStart, SwipeEnd, swipeTrailer)
