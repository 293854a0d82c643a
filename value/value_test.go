package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/value"
)

func TestNullIsZeroWord(t *testing.T) {
	assert.Equal(t, value.Value(0), value.Null)
	assert.Equal(t, value.KindNull, value.TypeOf(value.Null))
}

func TestBoolRoundTrip(t *testing.T) {
	assert.Equal(t, value.KindBool, value.TypeOf(value.BoolOf(true)))
	assert.Equal(t, value.KindBool, value.TypeOf(value.BoolOf(false)))
	assert.True(t, value.AsBool(value.BoolOf(true)))
	assert.False(t, value.AsBool(value.BoolOf(false)))
	assert.NotEqual(t, value.BoolOf(true), value.BoolOf(false))
}

func TestInvalidIsDistinctFromNull(t *testing.T) {
	assert.Equal(t, value.KindInvalid, value.TypeOf(value.Invalid))
	assert.NotEqual(t, value.Null, value.Invalid)
}

func TestIntInlineRoundTrip(t *testing.T) {
	for _, i := range []int64{0, 1, -1, 1<<60 - 1, -(1 << 60), 42, -42} {
		require.True(t, value.Fits61(i), "expected %d to fit", i)
		v := value.IntInlineOf(i)
		assert.Equal(t, value.KindInt, value.TypeOf(v))
		assert.True(t, value.IsInPlace(v))
		assert.Equal(t, i, value.AsIntInline(v))
	}
}

func TestFits61Boundary(t *testing.T) {
	assert.True(t, value.Fits61(1<<60-1))
	assert.False(t, value.Fits61(1<<60))
	assert.True(t, value.Fits61(-(1 << 60)))
	assert.False(t, value.Fits61(-(1<<60)-1))
}

func TestFloatInlineRoundTrip(t *testing.T) {
	for _, f := range []float32{0, 1.5, -1.5, 3.14159, 1e30} {
		v := value.FloatInlineOf(f)
		assert.Equal(t, value.KindFloat, value.TypeOf(v))
		assert.True(t, value.IsInPlace(v))
		assert.Equal(t, f, value.AsFloatInline(v))
	}
}

func TestFitsFloat32(t *testing.T) {
	assert.True(t, value.FitsFloat32(1.5))
	assert.False(t, value.FitsFloat32(0.1))
}

func TestStringInlineBoundary(t *testing.T) {
	for _, s := range []string{"", "a", "abcdefg"} {
		v := value.StringInlineOf([]byte(s))
		assert.Equal(t, value.KindString, value.TypeOf(v))
		assert.True(t, value.IsInPlace(v))
		assert.Equal(t, []byte(s), value.AsStringInline(v))
	}
	assert.Equal(t, 7, value.MaxInlineStringLen())
}

func TestOutlinePointersResolve(t *testing.T) {
	v := value.OutlineIntPtr(64)
	assert.False(t, value.IsInPlace(v))
	off, ok := value.ResolvePtr(v)
	require.True(t, ok)
	assert.Equal(t, uint64(64), off)

	v = value.OutlineStringPtr(128)
	off, ok = value.ResolvePtr(v)
	require.True(t, ok)
	assert.Equal(t, uint64(128), off)
}

func TestSequenceVsMappingDisambiguation(t *testing.T) {
	seq := value.SequencePtr(32)
	mapping := value.MappingPtr(32)
	assert.Equal(t, value.KindSequence, value.TypeOf(seq))
	assert.Equal(t, value.KindMapping, value.TypeOf(mapping))

	seqOff, ok := value.ResolveCollectionPtr(seq)
	require.True(t, ok)
	assert.Equal(t, uint64(32), seqOff)

	mapOff, ok := value.ResolveCollectionPtr(mapping)
	require.True(t, ok)
	assert.Equal(t, uint64(32), mapOff)
}

func TestRelocatePtrIdentityAtZero(t *testing.T) {
	for _, v := range []value.Value{
		value.OutlineIntPtr(64),
		value.SequencePtr(32),
		value.MappingPtr(48),
		value.IndirectPtr(16),
		value.Null,
		value.BoolOf(true),
		value.IntInlineOf(7),
	} {
		assert.Equal(t, v, value.RelocatePtr(v, 0))
	}
}

func TestRelocatePtrShiftsOffsetOnly(t *testing.T) {
	v := value.OutlineIntPtr(64)
	relocated := value.RelocatePtr(v, 16)
	off, ok := value.ResolvePtr(relocated)
	require.True(t, ok)
	assert.Equal(t, uint64(80), off)

	mv := value.MappingPtr(32)
	relocatedMapping := value.RelocatePtr(mv, 16)
	assert.Equal(t, value.KindMapping, value.TypeOf(relocatedMapping))
	moff, ok := value.ResolveCollectionPtr(relocatedMapping)
	require.True(t, ok)
	assert.Equal(t, uint64(48), moff)
}

func TestIndirectPtrResolves(t *testing.T) {
	v := value.IndirectPtr(40)
	assert.Equal(t, value.KindIndirect, value.TypeOf(v))
	off, ok := value.ResolvePtr(v)
	require.True(t, ok)
	assert.Equal(t, uint64(40), off)
}
