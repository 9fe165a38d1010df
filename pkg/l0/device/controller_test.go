package device

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/soda.go/pkg/l0/frame"
	"github.com/robotalks/soda.go/pkg/l0/serial/serialtest"
)

var (
	querySpec = CommandSpec{
		Name:       "query",
		Payload:    []byte{'S'},
		Reply:      ReplyFixed,
		ReplyLen:   3,
		Idempotent: true,
		Check: func(p []byte) error {
			if p[0] != 'S' {
				return errors.New("no echo")
			}
			return nil
		},
	}
	vendSpec = CommandSpec{
		Name:     "vend",
		Payload:  []byte{'V'},
		Args:     []Arg{{Name: "slot", Min: 0, Max: 7}},
		Reply:    ReplyFixed,
		ReplyLen: 1,
	}
	ledSpec = CommandSpec{
		Name:    "led",
		Payload: []byte{0x02, 0x6c},
		Args:    []Arg{{Name: "color", Min: 0x30, Max: 0x33}},
		Settle:  time.Second,
	}
	framedSpec = CommandSpec{
		Name:    "framed",
		Payload: []byte{0x01},
		Reply:   ReplyFramed,
	}
	lrcCodec = frame.Codec{Header: []byte{0x60, 0x00}, Checksum: frame.XOR(0x60), Terminator: 0x03, Terminated: true}
)

const testTimeout = 50 * time.Millisecond

func TestExecuteOK(t *testing.T) {
	port := serialtest.New().Respond([]byte{'S'}, []byte{'S', '0', '7'})
	ctl := NewController(port.Channel(), frame.Raw)
	res, err := ctl.Execute(&querySpec, testTimeout)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, []byte{'S', '0', '7'}, res.Payload)
	require.Equal(t, StateRepliedOK, ctl.State())
	require.NoError(t, res.AsError("query"))
}

func TestExecuteInvalidArgument(t *testing.T) {
	port := serialtest.New()
	ctl := NewController(port.Channel(), frame.Raw)
	for _, slot := range []int{-1, 8, 255} {
		_, err := ctl.Execute(&vendSpec, testTimeout, slot)
		require.ErrorIs(t, err, ErrInvalidArgument)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		require.Equal(t, "slot", argErr.Name)
		require.Equal(t, slot, argErr.Value)
	}
	_, err := ctl.Execute(&vendSpec, testTimeout)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ctl.Execute(&vendSpec, 0, 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Empty(t, port.Writes())
	require.Equal(t, StateIdle, ctl.State())
}

func TestExecuteTimeout(t *testing.T) {
	port := serialtest.New()
	ctl := NewController(port.Channel(), frame.Raw)
	res, err := ctl.Execute(&vendSpec, testTimeout, 2)
	require.NoError(t, err)
	require.Equal(t, StatusTimedOut, res.Status)
	require.Equal(t, StateTimedOut, ctl.State())
	require.ErrorIs(t, res.AsError("vend"), ErrTimedOut)
	require.False(t, errors.Is(res.AsError("vend"), ErrMalformed))
	require.Equal(t, [][]byte{{'V', 2}}, port.Writes())
}

func TestExecuteMalformed(t *testing.T) {
	port := serialtest.New().Respond([]byte{'S'}, []byte{'X', '0', '7'})
	ctl := NewController(port.Channel(), frame.Raw)
	res, err := ctl.Execute(&querySpec, testTimeout)
	require.NoError(t, err)
	require.Equal(t, StatusMalformed, res.Status)
	require.Nil(t, res.Payload)
	require.Equal(t, []byte{'X', '0', '7'}, res.Raw)
	require.Equal(t, StateRepliedError, ctl.State())
	require.ErrorIs(t, res.AsError("query"), ErrMalformed)
	require.False(t, errors.Is(res.AsError("query"), ErrTimedOut))
}

func TestExecuteRetry(t *testing.T) {
	var calls int
	port := serialtest.New()
	port.Responder = func([]byte) []byte {
		if calls++; calls == 1 {
			return []byte{'?', '?', '?'}
		}
		return []byte{'S', '0', '1'}
	}
	ctl := NewController(port.Channel(), frame.Raw)
	ctl.Retries = 1
	res, err := ctl.Execute(&querySpec, testTimeout)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	require.Len(t, port.Writes(), 2)
	require.Equal(t, 1, port.Flushes())

	// vend is not idempotent and is sent only once.
	port = serialtest.New()
	ctl = NewController(port.Channel(), frame.Raw)
	ctl.Retries = 3
	res, err = ctl.Execute(&vendSpec, testTimeout, 1)
	require.NoError(t, err)
	require.Equal(t, StatusTimedOut, res.Status)
	require.Len(t, port.Writes(), 1)
}

func TestExecuteWriteFailure(t *testing.T) {
	port := serialtest.New()
	port.ShortWrite = true
	ctl := NewController(port.Channel(), frame.Raw)
	ctl.Retries = 3
	_, err := ctl.Execute(&querySpec, testTimeout)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, 1, ioErr.Want)
	require.Equal(t, 0, ioErr.Got)
	require.Equal(t, StateFatal, ctl.State())
	require.Len(t, port.Writes(), 1)

	port = serialtest.New()
	port.WriteErr = errors.New("unplugged")
	ctl = NewController(port.Channel(), frame.Raw)
	_, err = ctl.Execute(&vendSpec, testTimeout, 1)
	require.ErrorIs(t, err, port.WriteErr)
	require.Equal(t, StateFatal, ctl.State())
}

func TestExecuteReadFailure(t *testing.T) {
	port := serialtest.New()
	port.ReadErr = errors.New("unplugged")
	ctl := NewController(port.Channel(), frame.Raw)
	_, err := ctl.Execute(&vendSpec, testTimeout, 1)
	require.ErrorIs(t, err, port.ReadErr)
	require.Equal(t, StateFatal, ctl.State())
}

func TestExecuteFireAndForget(t *testing.T) {
	port := serialtest.New()
	ctl := NewController(port.Channel(), lrcCodec)
	var slept time.Duration
	ctl.sleep = func(d time.Duration) { slept += d }
	res, err := ctl.Execute(&ledSpec, 0, 0x33)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, time.Second, slept)
	require.Equal(t, 1, port.Flushes())
	require.Equal(t, [][]byte{{0x60, 0x00, 0x02, 0x6c, 0x33, 0x60 ^ 0x02 ^ 0x6c ^ 0x33, 0x03}}, port.Writes())
}

func TestExecuteFramed(t *testing.T) {
	reply, err := lrcCodec.Encode([]byte{0x06, 0x01})
	require.NoError(t, err)
	port := serialtest.New()
	port.Responder = func([]byte) []byte { return reply }
	ctl := NewController(port.Channel(), lrcCodec)
	res, err := ctl.Execute(&framedSpec, testTimeout)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, []byte{0x06, 0x01}, res.Payload)

	reply[3] ^= 0x10
	res, err = ctl.Execute(&framedSpec, testTimeout)
	require.NoError(t, err)
	require.Equal(t, StatusMalformed, res.Status)
}

func TestReceive(t *testing.T) {
	port := serialtest.New()
	ctl := NewController(port.Channel(), frame.Raw)
	port.Inject([]byte(";123?\r"))
	res, err := ctl.Receive("swipe", 64, frame.Delimited(';', '?', 1), testTimeout)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, []byte(";123?\r"), res.Payload)

	res, err = ctl.Receive("swipe", 64, frame.Delimited(';', '?', 1), testTimeout)
	require.NoError(t, err)
	require.Equal(t, StatusTimedOut, res.Status)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "awaiting-reply", StateAwaitingReply.String())
	require.Equal(t, "State(99)", State(99).String())
}
