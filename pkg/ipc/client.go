package ipc

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/msgs"
)

// ErrClosed is returned for calls pending when the Client stops.
var ErrClosed = errors.New("connection closed")

// Client sends commands over a Pipe and matches replies by sequence.
// Events are passed to OnEvent.
type Client struct {
	Pipe    *Pipe
	OnEvent func(fx.Message)

	lock    sync.Mutex
	seq     uint32
	pending map[uint32]chan fx.Message
	closed  bool
}

// NewClient creates a Client over rw. Run must be started to receive
// replies.
//
// Sequences start at a random value: clients sharing a reply topic see
// each other's replies and tell them apart by sequence.
func NewClient(rw PacketReadWriter) *Client {
	c := &Client{
		seq:     rand.Uint32(),
		pending: make(map[uint32]chan fx.Message),
	}
	c.Pipe = NewPipe(rw, c)
	return c
}

// Run implements Runnable.
func (c *Client) Run(ctx context.Context) error {
	err := c.Pipe.Run(ctx)
	c.lock.Lock()
	c.closed = true
	for seq, ch := range c.pending {
		close(ch)
		delete(c.pending, seq)
	}
	c.lock.Unlock()
	return err
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.Pipe.Close()
}

// Do sends cmd and waits for its reply. A CommandErr reply is returned
// as the error.
func (c *Client) Do(ctx context.Context, cmd fx.Message) (fx.Message, error) {
	ch := make(chan fx.Message, 1)
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return nil, ErrClosed
	}
	c.seq++
	seq := c.seq
	c.pending[seq] = ch
	c.lock.Unlock()

	defer func() {
		c.lock.Lock()
		delete(c.pending, seq)
		c.lock.Unlock()
	}()
	if err := c.Pipe.SendCommandMsg(cmd, seq); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case reply, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if cmdErr, ok := reply.(*msgs.CommandErr); ok {
			return nil, cmdErr
		}
		return reply, nil
	}
}

// HandleTypedMsg implements TypedMsgHandler.
func (c *Client) HandleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		if h := c.OnEvent; h != nil {
			h(msg)
		}
		return nil
	}
	c.lock.Lock()
	ch := c.pending[typed.Sequence]
	c.lock.Unlock()
	if ch != nil {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}
