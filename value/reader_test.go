package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/value"
)

// arena is a minimal test double for an allocator: a bump-pointer byte
// buffer with a Reader closure over it.
type arena struct {
	buf []byte
}

func newArena() *arena {
	return &arena{buf: make([]byte, 8)} // offset 0 reserved, matches alloc's invariant
}

func (a *arena) store(data []byte) uint64 {
	off := uint64(len(a.buf))
	a.buf = append(a.buf, data...)
	return off
}

func (a *arena) reader() value.Reader {
	return func(offset uint64, n int) []byte {
		end := int(offset) + n
		if end > len(a.buf) {
			end = len(a.buf)
		}
		return a.buf[offset:end]
	}
}

func TestOutlineIntRoundTrip(t *testing.T) {
	a := newArena()
	off := a.store(value.EncodeOutlineInt(-12345))
	v := value.OutlineIntPtr(off)
	assert.Equal(t, int64(-12345), value.Int(v, a.reader()))
}

func TestOutlineFloatRoundTrip(t *testing.T) {
	a := newArena()
	off := a.store(value.EncodeOutlineFloat(3.14159265358979))
	v := value.OutlineFloatPtr(off)
	assert.Equal(t, 3.14159265358979, value.Float(v, a.reader()))
}

func TestOutlineStringRoundTrip(t *testing.T) {
	a := newArena()
	long := "this string is definitely longer than seven bytes"
	off := a.store(value.EncodeOutlineString([]byte(long)))
	v := value.OutlineStringPtr(off)
	assert.Equal(t, []byte(long), value.String(v, a.reader()))
}

func TestInlineIntAndFloatViaReaderWrappers(t *testing.T) {
	a := newArena()
	assert.Equal(t, int64(7), value.Int(value.IntInlineOf(7), a.reader()))
	assert.Equal(t, float64(float32(2.5)), value.Float(value.FloatInlineOf(2.5), a.reader()))
}

func TestSequenceItemsRoundTrip(t *testing.T) {
	a := newArena()
	items := []value.Value{value.IntInlineOf(1), value.IntInlineOf(2), value.IntInlineOf(3)}
	off := a.store(value.EncodeCollectionBody(items))
	v := value.SequencePtr(off)

	assert.Equal(t, 3, value.Count(v, a.reader()))
	got := value.Items(v, a.reader())
	require.Len(t, got, 3)
	for i, item := range got {
		assert.Equal(t, items[i], item)
	}
}

func TestMappingItemsRoundTrip(t *testing.T) {
	a := newArena()
	pairs := []value.Value{
		value.StringInlineOf([]byte("a")), value.IntInlineOf(1),
		value.StringInlineOf([]byte("b")), value.IntInlineOf(2),
	}
	off := a.store(value.EncodeMappingBody(pairs))
	v := value.MappingPtr(off)

	assert.Equal(t, 2, value.Count(v, a.reader()))
	got := value.Items(v, a.reader())
	require.Len(t, got, 4)
	for i, item := range got {
		assert.Equal(t, pairs[i], item)
	}
}

func TestIndirectRecordRoundTrip(t *testing.T) {
	a := newArena()
	inner := value.IntInlineOf(99)
	anchor := value.StringInlineOf([]byte("anc"))
	body := value.EncodeIndirectRecord(inner, true, anchor, true, value.Value(0), false, 1, false)
	off := a.store(body)
	v := value.IndirectPtr(off)

	rec := value.ReadIndirect(v, a.reader())
	assert.True(t, rec.HasValue)
	assert.Equal(t, inner, rec.Value)
	assert.True(t, rec.HasAnchor)
	assert.Equal(t, anchor, rec.Anchor)
	assert.False(t, rec.HasTag)
	assert.Equal(t, uint8(1), rec.ScalarStyle)
	assert.False(t, rec.FlowStyle)
	assert.Equal(t, value.KindIndirect, value.KindOf(v, a.reader()))
}

func TestAliasDetection(t *testing.T) {
	a := newArena()
	anchor := value.StringInlineOf([]byte("x"))
	body := value.EncodeIndirectRecord(value.Value(0), false, anchor, true, value.Value(0), false, 0, false)
	off := a.store(body)
	v := value.IndirectPtr(off)

	assert.True(t, value.IsAlias(v, a.reader()))
	assert.Equal(t, value.KindAlias, value.KindOf(v, a.reader()))
}
