// Package daemon serves vending requests from any number of transports
// through a single worker, so at most one exchange is on the serial line.
package daemon

import (
	"context"
	"errors"

	"github.com/golang/glog"

	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/ipc"
	"github.com/robotalks/soda.go/pkg/l0/device"
	"github.com/robotalks/soda.go/pkg/msgs"
	"github.com/robotalks/soda.go/pkg/vending"
)

// Vending is the subset of *vending.Machine the worker drives.
type Vending interface {
	QueryInventory() (vending.Inventory, error)
	HasSoda(slot int) (bool, error)
	Vend(slot int) (vending.VendOutcome, error)
	AwaitButton(timeoutSeconds int) (int, error)
}

// ErrStopped is returned by Do once the worker stopped.
var ErrStopped = errors.New("worker stopped")

type request struct {
	msg     fx.Message
	replyCh chan fx.Message
}

// Worker owns the machine and runs requests one by one.
type Worker struct {
	Machine Vending

	reqCh  chan *request
	doneCh chan struct{}
}

// NewWorker creates a Worker.
func NewWorker(m Vending) *Worker {
	return &Worker{
		Machine: m,
		reqCh:   make(chan *request),
		doneCh:  make(chan struct{}),
	}
}

// Run implements Runnable.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-w.reqCh:
			req.replyCh <- w.execute(req.msg)
		}
	}
}

// Do queues a command and waits for its reply. A *msgs.CommandErr reply
// is returned as the error.
func (w *Worker) Do(ctx context.Context, msg fx.Message) (fx.Message, error) {
	req := &request{msg: msg, replyCh: make(chan fx.Message, 1)}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.doneCh:
		return nil, ErrStopped
	case w.reqCh <- req:
	}
	reply := <-req.replyCh
	if cmdErr, ok := reply.(*msgs.CommandErr); ok {
		return nil, cmdErr
	}
	return reply, nil
}

// Serve runs a Pipe over rw, answering every command through the worker.
func (w *Worker) Serve(ctx context.Context, rw ipc.PacketReadWriter) error {
	pipe := ipc.NewPipe(rw, nil)
	pipe.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		if !typed.IsCommand() || typed.IsReply() {
			return nil
		}
		reply, err := w.Do(ctx, msg)
		if err != nil {
			var cmdErr *msgs.CommandErr
			if !errors.As(err, &cmdErr) {
				return err
			}
			reply = cmdErr
		}
		return pipe.SendCommandMsg(reply, typed.Sequence)
	})
	return pipe.Run(ctx)
}

func (w *Worker) execute(msg fx.Message) fx.Message {
	glog.V(1).Infof("Request %T", msg)
	switch m := msg.(type) {
	case *msgs.InventoryQuery:
		inv, err := w.Machine.QueryInventory()
		if err != nil {
			return commandErr(err)
		}
		return &msgs.InventoryReply{Bitmap: uint32(inv), Slots: inv.String()}
	case *msgs.SlotQuery:
		has, err := w.Machine.HasSoda(int(m.Slot))
		if err != nil {
			return commandErr(err)
		}
		return &msgs.SlotReply{Slot: m.Slot, HasSoda: has}
	case *msgs.ButtonQuery:
		timeout := int(m.TimeoutSeconds)
		if timeout == 0 {
			timeout = vending.DefaultButtonTimeout
		}
		button, err := w.Machine.AwaitButton(timeout)
		if err != nil {
			return commandErr(err)
		}
		return &msgs.ButtonReply{Button: int32(button)}
	case *msgs.VendRequest:
		outcome, err := w.Machine.Vend(int(m.Slot))
		if errors.Is(err, device.ErrInvalidArgument) {
			return commandErr(err)
		}
		reply := &msgs.VendReply{Slot: m.Slot, Code: outcome.Code()}
		if err != nil {
			reply.Error = err.Error()
		}
		return reply
	}
	return msgs.NewCommandErr(msgs.ErrUnsupportedCommand, msgs.ErrKindUnsupported)
}

func commandErr(err error) *msgs.CommandErr {
	glog.Errorf("Request failed: %v", err)
	return msgs.NewCommandErr(err, ErrorKind(err))
}

// ErrorKind classifies err for msgs.CommandErr.
func ErrorKind(err error) string {
	var ioErr *device.IOError
	switch {
	case errors.Is(err, device.ErrInvalidArgument):
		return msgs.ErrKindInvalidArgument
	case errors.Is(err, device.ErrTimedOut):
		return msgs.ErrKindTimeout
	case errors.Is(err, device.ErrMalformed):
		return msgs.ErrKindMalformed
	case errors.Is(err, vending.ErrVendRefused):
		return msgs.ErrKindRefused
	case errors.As(err, &ioErr):
		return msgs.ErrKindIO
	}
	return ""
}
