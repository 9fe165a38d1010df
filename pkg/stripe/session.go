package stripe

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// Authorizer decides whether a swiped card may pay.
type Authorizer interface {
	Authorize(ctx context.Context, swipe Swipe) (bool, error)
}

// AuthorizerFunc is the func form of Authorizer.
type AuthorizerFunc func(ctx context.Context, swipe Swipe) (bool, error)

// Authorize implements Authorizer.
func (f AuthorizerFunc) Authorize(ctx context.Context, swipe Swipe) (bool, error) {
	return f(ctx, swipe)
}

// ApproveAll approves every card.
var ApproveAll = AuthorizerFunc(func(context.Context, Swipe) (bool, error) {
	return true, nil
})

// Session gives LED feedback around card authorization: reading is
// disabled and the LED is amber while authorizing, then the LED shows
// green or red for Pause before reading is enabled again.
type Session struct {
	Reader     *Reader
	Authorizer Authorizer
	Pause      time.Duration
	// OnResult, when set, is told about every authorized swipe.
	OnResult func(swipe Swipe, approved bool)
}

// NewSession creates a Session with a one second result pause.
func NewSession(r *Reader, auth Authorizer) *Session {
	return &Session{Reader: r, Authorizer: auth, Pause: time.Second}
}

// HandleSwipe implements Handler.
func (s *Session) HandleSwipe(ctx context.Context, swipe Swipe) error {
	if err := s.Reader.SetReaderEnabled(false); err != nil {
		return err
	}
	if err := s.Reader.SetLED(LEDAmber); err != nil {
		return err
	}
	approved, err := s.Authorizer.Authorize(ctx, swipe)
	if err != nil {
		glog.Warningf("Authorize %s: %v", swipe.MaskedPAN(), err)
		approved = false
	}
	glog.Infof("Card %s approved=%v", swipe.MaskedPAN(), approved)
	if s.OnResult != nil {
		s.OnResult(swipe, approved)
	}
	color := LEDRed
	if approved {
		color = LEDGreen
	}
	if err := s.Reader.SetLED(color); err != nil {
		return err
	}
	if s.Pause > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(s.Pause):
		}
	}
	if err := s.Reader.SetLED(LEDOff); err != nil {
		return err
	}
	return s.Reader.SetReaderEnabled(true)
}
