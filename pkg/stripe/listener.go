package stripe

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// DefaultPoll bounds each swipe wait so cancellation is noticed.
const DefaultPoll = time.Second

// Handler processes a swipe. It runs on the Listener's goroutine and may
// issue reader commands.
type Handler interface {
	HandleSwipe(ctx context.Context, swipe Swipe) error
}

// HandlerFunc is the func form of Handler.
type HandlerFunc func(ctx context.Context, swipe Swipe) error

// HandleSwipe implements Handler.
func (f HandlerFunc) HandleSwipe(ctx context.Context, swipe Swipe) error {
	return f(ctx, swipe)
}

// Listener waits for swipes and hands them to Handler until the context
// is canceled or an I/O error occurs.
type Listener struct {
	Reader  *Reader
	Handler Handler
	Poll    time.Duration
}

// Run implements Runnable.
func (l *Listener) Run(ctx context.Context) error {
	poll := l.Poll
	if poll <= 0 {
		poll = DefaultPoll
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		swipe, ok, err := l.Reader.AwaitSwipe(poll)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := l.Handler.HandleSwipe(ctx, swipe); err != nil {
			glog.Errorf("Handle swipe: %v", err)
			return err
		}
	}
}
