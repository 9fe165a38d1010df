package sh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/msgs"
	"github.com/robotalks/soda.go/pkg/vending"
)

func TestFormatReply(t *testing.T) {
	testCases := []struct {
		reply interface{}
		out   string
	}{
		{&msgs.CommandOK{}, "OK"},
		{&msgs.InventoryReply{Bitmap: 0x07, Slots: "XXX00000"}, "XXX00000 (0x07)"},
		{&msgs.SlotReply{Slot: 3, HasSoda: true}, "slot 3 has soda"},
		{&msgs.SlotReply{Slot: 4}, "slot 4 is empty"},
		{&msgs.ButtonReply{Button: -1}, "no button pressed"},
		{&msgs.ButtonReply{Button: 2}, "button 2"},
		{&msgs.VendReply{Slot: 1, Code: 0}, "slot 1: success"},
		{&msgs.VendReply{Slot: 1, Code: 1}, "slot 1: empty"},
		{&msgs.VendReply{Slot: 1, Code: -1, Error: "timed out"}, "slot 1: error: timed out"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.out, FormatReply(tc.reply.(msgs.SerializableMessage)))
	}
}

func TestDial(t *testing.T) {
	_, _, err := Dial("ftp://host/x")
	require.Error(t, err)
	_, _, err = Dial("mqtt://localhost:1883/soda/")
	require.Error(t, err)
	_, _, err = Dial("unix:///nonexistent/soda.sock")
	require.Error(t, err)
}

type fakeDoer struct {
	reply fx.Message
	err   error
	sent  []fx.Message
}

func (d *fakeDoer) Do(ctx context.Context, msg fx.Message) (fx.Message, error) {
	d.sent = append(d.sent, msg)
	return d.reply, d.err
}

func TestSlotArg(t *testing.T) {
	testCases := []struct {
		args []string
		slot int32
		err  bool
	}{
		{[]string{"0"}, 0, false},
		{[]string{"7"}, 7, false},
		{[]string{"8"}, 0, true},
		{[]string{"-1"}, 0, true},
		{[]string{"4294967296"}, 0, true},
		{[]string{"4294967303"}, 0, true},
		{[]string{"x"}, 0, true},
		{nil, 0, true},
		{[]string{"1", "2"}, 0, true},
	}
	for _, tc := range testCases {
		slot, err := slotArg(tc.args)
		if tc.err {
			require.Errorf(t, err, "args %v", tc.args)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.slot, slot)
	}
}

func TestRunRejectsSlotWithoutSending(t *testing.T) {
	doer := &fakeDoer{reply: &msgs.VendReply{Slot: 0}}
	s := New(doer)
	require.False(t, s.Run("vend", "4294967296"))
	require.False(t, s.Run("has", "8"))
	require.Empty(t, doer.sent)
}

func TestRunReportsFailures(t *testing.T) {
	doer := &fakeDoer{reply: &msgs.VendReply{Slot: 2}}
	s := New(doer)
	require.True(t, s.Run("vend", "2"))
	require.Equal(t, []fx.Message{&msgs.VendRequest{Slot: 2}}, doer.sent)

	doer.reply = &msgs.VendReply{Slot: 2, Code: vending.VendError.Code(), Error: "refused"}
	require.False(t, s.Run("vend", "2"))

	doer.reply = &msgs.VendReply{Slot: 2, Code: vending.VendEmpty.Code()}
	require.False(t, s.Run("vend", "2"))

	doer.reply, doer.err = nil, errors.New("timed out")
	require.False(t, s.Run("inventory"))

	// a later success is not affected by the previous failure.
	doer.reply, doer.err = &msgs.InventoryReply{Bitmap: 1, Slots: "X0000000"}, nil
	require.True(t, s.Run("inventory"))

	require.False(t, s.Run("button", "0"))
}
