package varint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/varint"
)

func TestRoundTrip(t *testing.T) {
	cases := []uint64{
		0, 1, 127, 128, 129, 255, 256, 16383, 16384,
		1 << 32, 1<<60 - 1, 1 << 60, ^uint64(0),
	}
	for _, v := range cases {
		buf := varint.Append(nil, v)
		assert.LessOrEqual(t, len(buf), varint.MaxLen64)
		assert.Equal(t, varint.Len(v), len(buf))

		got, n, err := varint.Decode(buf)
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, v, got)
	}
}

func TestCanonical(t *testing.T) {
	// Zero must encode as a single zero byte, never a padded continuation.
	buf := varint.Append(nil, 0)
	assert.Equal(t, []byte{0}, buf)
}

func TestTruncated(t *testing.T) {
	buf := []byte{0x80, 0x80}
	_, _, err := varint.Decode(buf)
	assert.ErrorIs(t, err, varint.ErrTruncated)
}

func TestOverflow(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0x80
	}
	_, _, err := varint.Decode(buf)
	assert.ErrorIs(t, err, varint.ErrOverflow)
}

func TestEncodeBuf(t *testing.T) {
	buf := make([]byte, varint.MaxLen64)
	n := varint.Encode(buf, 300)
	got, m, err := varint.Decode(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, uint64(300), got)
}
