package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func TestConvertToString(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	s := ops.Convert(b, r, b.IntOf(42), value.KindString)
	assert.Equal(t, []byte("42"), value.String(s, r))
}

func TestConvertToInt(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	assert.Equal(t, int64(7), value.Int(ops.Convert(b, r, b.FloatOf(7.0), value.KindInt), r))
	assert.Equal(t, value.Invalid, ops.Convert(b, r, b.FloatOf(7.5), value.KindInt))
	assert.Equal(t, int64(123), value.Int(ops.Convert(b, r, b.StringOf([]byte("123")), value.KindInt), r))
	assert.Equal(t, value.Invalid, ops.Convert(b, r, b.StringOf([]byte("nope")), value.KindInt))
}

func TestConvertToFloat(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	assert.Equal(t, 3.0, value.Float(ops.Convert(b, r, b.IntOf(3), value.KindFloat), r))
}

func TestConvertToBool(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	assert.True(t, value.AsBool(ops.Convert(b, r, b.IntOf(1), value.KindBool)))
	assert.False(t, value.AsBool(ops.Convert(b, r, b.IntOf(0), value.KindBool)))
}

func TestConvertIdentity(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	i := b.IntOf(5)
	assert.Equal(t, i, ops.Convert(b, r, i, value.KindInt))
}
