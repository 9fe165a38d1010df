package msgs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedRoundTrip(t *testing.T) {
	typed, err := TypedFrom(&VendReply{Slot: 3, Code: -1, Error: "vend refused"})
	require.NoError(t, err)
	typed.Sequence = 42
	require.True(t, typed.IsCommand())
	require.True(t, typed.IsReply())
	data, err := typed.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, VendReplyTypeID, decoded.TypeId)
	require.Equal(t, uint32(42), decoded.Sequence)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	reply, ok := msg.(*VendReply)
	require.True(t, ok)
	require.Equal(t, int32(-1), reply.Code)
	require.Equal(t, int32(3), reply.Slot)
}

func TestTypeKinds(t *testing.T) {
	for id := range MessageTypes {
		typed := &Typed{TypeId: id}
		require.NotEqual(t, typed.IsCommand(), typed.IsEvent())
		if typed.IsEvent() {
			require.False(t, typed.IsReply())
		}
	}
	require.False(t, (&Typed{TypeId: VendRequestTypeID}).IsReply())
	require.True(t, (&Typed{TypeId: SwipeEventTypeID}).IsEvent())
}

func TestUnknownType(t *testing.T) {
	_, err := (&Typed{TypeId: GroupVending | 0x7fff}).Decode()
	var unknown *ErrUnknownType
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, GroupVending|0x7fff, unknown.TypeID)
}

func TestNotSerializable(t *testing.T) {
	_, err := TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)
}

func TestCommandErr(t *testing.T) {
	m := NewCommandErr(errors.New("slot 9 not in [0, 7]"), ErrKindInvalidArgument)
	require.EqualError(t, m, "slot 9 not in [0, 7]")
	require.Equal(t, ErrKindInvalidArgument, m.Kind)
}
