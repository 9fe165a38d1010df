package daemon

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/soda.go/pkg/ipc"
	"github.com/robotalks/soda.go/pkg/ipc/stream"
	"github.com/robotalks/soda.go/pkg/l0/device"
	"github.com/robotalks/soda.go/pkg/l0/serial/serialtest"
	"github.com/robotalks/soda.go/pkg/msgs"
	"github.com/robotalks/soda.go/pkg/vending"
)

func startWorker(t *testing.T, m Vending) (*Worker, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(m)
	go w.Run(ctx)
	t.Cleanup(cancel)
	return w, ctx
}

func newMachine(port *serialtest.Port) *vending.Machine {
	m := vending.New(port.Channel())
	m.ReplyTimeout = 50 * time.Millisecond
	return m
}

func TestWorkerInventory(t *testing.T) {
	port := serialtest.New().Respond([]byte{'S'}, []byte("S83"))
	w, ctx := startWorker(t, newMachine(port))
	reply, err := w.Do(ctx, &msgs.InventoryQuery{})
	require.NoError(t, err)
	inv := reply.(*msgs.InventoryReply)
	require.Equal(t, uint32(0x83), inv.Bitmap)
	require.Equal(t, "XX00000X", inv.Slots)

	reply, err = w.Do(ctx, &msgs.SlotQuery{Slot: 7})
	require.NoError(t, err)
	require.True(t, reply.(*msgs.SlotReply).HasSoda)
}

func TestWorkerVend(t *testing.T) {
	port := serialtest.New().Respond(
		[]byte{'S'}, []byte("S03"),
		[]byte{'V', 1}, []byte{'Y'},
		[]byte{'V', 0}, []byte{'N'},
	)
	w, ctx := startWorker(t, newMachine(port))
	testCases := []struct {
		slot int32
		code int32
		err  bool
	}{
		{slot: 1, code: 0},
		{slot: 2, code: 1},
		{slot: 0, code: -1, err: true},
	}
	for _, tc := range testCases {
		reply, err := w.Do(ctx, &msgs.VendRequest{Slot: tc.slot})
		require.NoError(t, err)
		vend := reply.(*msgs.VendReply)
		require.Equal(t, tc.slot, vend.Slot)
		require.Equal(t, tc.code, vend.Code)
		require.Equal(t, tc.err, vend.Error != "")
	}

	_, err := w.Do(ctx, &msgs.VendRequest{Slot: 8})
	var cmdErr *msgs.CommandErr
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, msgs.ErrKindInvalidArgument, cmdErr.Kind)
}

func TestWorkerButton(t *testing.T) {
	port := serialtest.New().Respond([]byte{'B'}, []byte{4})
	w, ctx := startWorker(t, newMachine(port))
	reply, err := w.Do(ctx, &msgs.ButtonQuery{TimeoutSeconds: 1})
	require.NoError(t, err)
	require.Equal(t, int32(4), reply.(*msgs.ButtonReply).Button)

	_, err = w.Do(ctx, &msgs.ButtonQuery{TimeoutSeconds: 61})
	var cmdErr *msgs.CommandErr
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, msgs.ErrKindInvalidArgument, cmdErr.Kind)
	require.Len(t, port.Writes(), 1)
}

func TestWorkerTimeout(t *testing.T) {
	w, ctx := startWorker(t, newMachine(serialtest.New()))
	_, err := w.Do(ctx, &msgs.InventoryQuery{})
	var cmdErr *msgs.CommandErr
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, msgs.ErrKindTimeout, cmdErr.Kind)
}

func TestWorkerUnsupported(t *testing.T) {
	w, ctx := startWorker(t, newMachine(serialtest.New()))
	_, err := w.Do(ctx, &msgs.CommandOK{})
	var cmdErr *msgs.CommandErr
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, msgs.ErrKindUnsupported, cmdErr.Kind)
}

func TestWorkerStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(newMachine(serialtest.New()))
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	_, err := w.Do(context.Background(), &msgs.InventoryQuery{})
	require.Equal(t, ErrStopped, err)
}

func TestServe(t *testing.T) {
	port := serialtest.New().Respond([]byte{'S'}, []byte("S01"))
	w, ctx := startWorker(t, newMachine(port))
	c1, c2 := net.Pipe()
	go w.Serve(ctx, stream.New(c1))
	client := ipc.NewClient(stream.New(c2))
	go client.Run(ctx)
	defer client.Close()

	reply, err := client.Do(ctx, &msgs.SlotQuery{Slot: 0})
	require.NoError(t, err)
	require.True(t, reply.(*msgs.SlotReply).HasSoda)

	_, err = client.Do(ctx, &msgs.SlotQuery{Slot: -1})
	var cmdErr *msgs.CommandErr
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, msgs.ErrKindInvalidArgument, cmdErr.Kind)
	require.Len(t, port.Writes(), 1)
}

func TestErrorKind(t *testing.T) {
	require.Equal(t, msgs.ErrKindIO, ErrorKind(&device.IOError{Op: "vend write", Err: errors.New("x")}))
	require.Equal(t, msgs.ErrKindRefused, ErrorKind(vending.ErrVendRefused))
	require.Equal(t, msgs.ErrKindMalformed, ErrorKind(&device.MalformedError{Command: "inventory"}))
	require.Equal(t, "", ErrorKind(errors.New("other")))
}

func TestTransports(t *testing.T) {
	w := NewWorker(nil)
	_, err := (&Config{}).Transports(w)
	require.Equal(t, ErrNoTransport, err)

	conf := &Config{
		Socket:  filepath.Join(t.TempDir(), "soda.sock"),
		Listen:  "127.0.0.1:0",
		MQTTURL: "mqtt://localhost:1883/soda/",
	}
	runnables, err := conf.Transports(w)
	require.NoError(t, err)
	require.Len(t, runnables, 3)
}
