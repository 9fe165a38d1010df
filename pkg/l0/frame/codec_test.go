package frame

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var stripeCodec = Codec{
	Header:     []byte{0x60, 0x00},
	Checksum:   XOR(0x60),
	Terminator: 0x03,
	Terminated: true,
}

func randomPayload(r *rand.Rand, terminator byte) []byte {
	b := make([]byte, r.Intn(32))
	for i := range b {
		for {
			b[i] = byte(r.Intn(256))
			if b[i] != terminator {
				break
			}
		}
	}
	return b
}

func TestXOR(t *testing.T) {
	require.Equal(t, byte(0), XOR(0).Sum(nil))
	require.Equal(t, byte(0x60), XOR(0x60).Sum(nil))
	require.Equal(t, byte(0x60^0x04^0x53^0x11^0x01^0x10), XOR(0x60).Sum([]byte{0x04, 0x53, 0x11, 0x01, 0x10}))
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		name    string
		codec   Codec
		payload []byte
		expect  []byte
	}{
		{"raw inventory", Raw, []byte{'S'}, []byte{'S'}},
		{"raw vend", Raw, []byte{'V', 3}, []byte{'V', 3}},
		{"stripe led off", stripeCodec, []byte{0x02, 0x6c, 0x30},
			[]byte{0x60, 0x00, 0x02, 0x6c, 0x30, 0x60 ^ 0x02 ^ 0x6c ^ 0x30, 0x03}},
		{"stripe empty", stripeCodec, nil, []byte{0x60, 0x00, 0x60, 0x03}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.codec.Encode(tc.payload)
			require.NoError(t, err)
			require.Equal(t, tc.expect, b)
			again, err := tc.codec.Encode(tc.payload)
			require.NoError(t, err)
			require.Equal(t, b, again)
		})
	}
}

func TestEncodeReservedByte(t *testing.T) {
	_, err := stripeCodec.Encode([]byte{0x01, 0x03})
	require.Equal(t, ErrReservedByte, err)
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, codec := range []Codec{Raw, stripeCodec} {
		for i := 0; i < 500; i++ {
			payload := randomPayload(r, codec.Terminator)
			b, err := codec.Encode(payload)
			require.NoError(t, err)
			decoded, err := codec.Decode(b)
			require.NoError(t, err)
			require.Equal(t, len(payload), len(decoded))
			if len(payload) > 0 {
				require.Equal(t, payload, decoded)
			}
		}
	}
}

func TestTamper(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 300; i++ {
		payload := randomPayload(r, stripeCodec.Terminator)
		b, err := stripeCodec.Encode(payload)
		require.NoError(t, err)
		// every byte before the terminator is covered by the integrity check.
		for pos := 0; pos < len(b)-1; pos++ {
			tampered := append([]byte(nil), b...)
			tampered[pos] ^= byte(r.Intn(255) + 1)
			decoded, err := stripeCodec.Decode(tampered)
			require.ErrorIsf(t, err, ErrChecksumMismatch, "payload % x pos %d", payload, pos)
			require.Nil(t, decoded)
		}
		tampered := append([]byte(nil), b...)
		tampered[len(b)-1] ^= 0xff
		_, err = stripeCodec.Decode(tampered)
		require.Equal(t, ErrUnterminatedFrame, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := stripeCodec.Decode([]byte{0x60, 0x03})
	require.ErrorIs(t, err, ErrUnexpectedLength)
	var lenErr *LengthError
	require.ErrorAs(t, err, &lenErr)
	require.Equal(t, 4, lenErr.Want)
	require.Equal(t, 2, lenErr.Got)

	_, err = stripeCodec.Decode([]byte{0x60, 0x00, 0x01, 0x61, 0x04})
	require.Equal(t, ErrUnterminatedFrame, err)
}

func TestScan(t *testing.T) {
	frame, err := stripeCodec.Encode([]byte{0x02, 0x6c, 0x31})
	require.NoError(t, err)
	for n := 0; n < len(frame); n++ {
		require.Equalf(t, Incomplete, stripeCodec.Scan(frame[:n]), "prefix %d", n)
	}
	require.Equal(t, Complete, stripeCodec.Scan(frame))
	require.Equal(t, Invalid, stripeCodec.Scan([]byte{0x61}))
	require.Equal(t, Invalid, stripeCodec.Scan([]byte{0x60, 0x01, 0x02}))

	// a check byte equal to the terminator must not end the frame early.
	payload := []byte{0x60 ^ 0x03}
	frame, err = stripeCodec.Encode(payload)
	require.NoError(t, err)
	require.Equal(t, []byte{0x60, 0x00, 0x63, 0x03, 0x03}, frame)
	require.Equal(t, Incomplete, stripeCodec.Scan(frame[:4]))
	require.Equal(t, Complete, stripeCodec.Scan(frame))

	// a terminated frame failing its check is rejected at once.
	require.Equal(t, Invalid, stripeCodec.Scan([]byte{0x60, 0x00, 0x06, 0x01, 0x77, 0x03}))
	require.Equal(t, Invalid, stripeCodec.Scan([]byte{0x60, 0x00, 0x03}))
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 300; i++ {
		payload := randomPayload(r, stripeCodec.Terminator)
		b, err := stripeCodec.Encode(payload)
		require.NoError(t, err)
		pos := len(stripeCodec.Header) + r.Intn(len(payload)+1)
		orig := b[pos]
		for {
			b[pos] = byte(r.Intn(256))
			// a difference equal to the terminator leaves a valid prefix.
			if b[pos] != orig && b[pos] != stripeCodec.Terminator && b[pos]^orig != stripeCodec.Terminator {
				break
			}
		}
		require.Equalf(t, Invalid, stripeCodec.Scan(b), "frame % x", b)
	}
}

func TestPredicates(t *testing.T) {
	fixed := Fixed(3)
	require.Equal(t, Incomplete, fixed([]byte{'S'}))
	require.Equal(t, Complete, fixed([]byte{'S', '0', '7'}))
	require.Equal(t, Invalid, fixed([]byte{'S', '0', '7', '1'}))

	swipe := Delimited(';', '?', 1)
	require.Equal(t, Incomplete, swipe(nil))
	require.Equal(t, Invalid, swipe([]byte("%B123")))
	require.Equal(t, Incomplete, swipe([]byte(";1234")))
	require.Equal(t, Incomplete, swipe([]byte(";1234?")))
	require.Equal(t, Complete, swipe([]byte(";1234?\r")))
	require.Equal(t, "complete", Complete.String())
}
