package stripe

import (
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/l0/device"
)

// Reader is the stripe reader. Like the vending Machine it has a single
// owner issuing commands one at a time.
type Reader struct {
	// Settle is the pause after each command before pending input is
	// flushed.
	Settle time.Duration

	ctl    *device.Controller
	closer io.Closer
}

// NewReader creates a Reader over link. If link is an io.Closer it is
// closed by Close.
func NewReader(link device.Link) *Reader {
	r := &Reader{
		Settle: DefaultSettle,
		ctl:    device.NewController(link, Codec),
	}
	r.closer, _ = link.(io.Closer)
	return r
}

// Close releases the serial line.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *Reader) send(spec *device.CommandSpec, arg int) error {
	cmd := *spec
	cmd.Settle = r.Settle
	_, err := r.ctl.Execute(&cmd, 0, arg)
	if err != nil {
		glog.Errorf("Reader %s %#02x: %v", spec.Name, arg, err)
	}
	return err
}

// SetReaderOptions writes the reader option byte.
func (r *Reader) SetReaderOptions(options byte) error {
	return r.send(&CmdReaderOptions, int(options))
}

// SetTrackSelection selects the decoded tracks.
func (r *Reader) SetTrackSelection(tracks Tracks) error {
	return r.send(&CmdTrackSelection, int(tracks))
}

// SetReaderEnabled turns card reading on or off.
func (r *Reader) SetReaderEnabled(enabled bool) error {
	arg := 0x30
	if enabled {
		arg = 0x31
	}
	return r.send(&CmdReading, arg)
}

// SetLED sets the LED color.
func (r *Reader) SetLED(color LEDColor) error {
	return r.send(&CmdLED, int(color))
}

// Init puts the reader under host LED control, reading track 2 only,
// enabled and with the LED off.
func (r *Reader) Init() error {
	if err := r.SetReaderOptions(OptHostLED); err != nil {
		return err
	}
	if err := r.SetTrackSelection(Track2); err != nil {
		return err
	}
	if err := r.SetReaderEnabled(true); err != nil {
		return err
	}
	if err := r.SetLED(LEDOff); err != nil {
		return err
	}
	glog.Info("Reader initialized")
	return nil
}

// AwaitSwipe waits up to timeout for a card swipe. Buffers not enclosed
// in the swipe sentinels are discarded. It returns false when no swipe
// arrived in time.
func (r *Reader) AwaitSwipe(timeout time.Duration) (Swipe, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Swipe{}, false, nil
		}
		res, err := r.ctl.Receive("swipe", maxSwipeSize, SwipePredicate, remaining)
		if err != nil {
			return Swipe{}, false, err
		}
		switch res.Status {
		case device.StatusOK:
			swipe := ParseSwipe(res.Payload)
			glog.V(1).Infof("Swipe %s", swipe.MaskedPAN())
			return swipe, true, nil
		case device.StatusTimedOut:
			if len(res.Raw) > 0 {
				glog.Warningf("Discarded partial swipe % x", res.Raw)
			}
			return Swipe{}, false, nil
		}
		glog.Warningf("Discarded % x", res.Raw)
		if err := r.ctl.Flush(); err != nil {
			return Swipe{}, false, err
		}
	}
}
