package builder_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

func TestRelocateZeroDeltaIsIdentity(t *testing.T) {
	a := alloc.NewLinear(4096)
	defer a.Destroy()
	b, err := builder.NewWithTag(a, alloc.TagConfig{}, builder.Schema12Core)
	require.NoError(t, err)

	longStr := "a string longer than seven bytes, stored out of line"
	seq := b.SequenceOf([]value.Value{b.IntOf(1 << 62), b.StringOf([]byte(longStr))})

	area, ok := b.ExportSingleArea(seq)
	require.True(t, ok)
	before := append([]byte(nil), area.Bytes...)

	relocated := builder.Relocate(area.Bytes, seq, 0)
	assert.Equal(t, seq, relocated)
	assert.Equal(t, before, area.Bytes)
}

func TestRelocateShiftsEveryReachablePointer(t *testing.T) {
	a := alloc.NewLinear(4096)
	defer a.Destroy()
	b, err := builder.NewWithTag(a, alloc.TagConfig{}, builder.Schema12Core)
	require.NoError(t, err)

	longStr := "a string longer than seven bytes, stored out of line"
	intChild := b.IntOf(1 << 62)
	strChild := b.StringOf([]byte(longStr))
	seq := b.SequenceOf([]value.Value{intChild, strChild})

	seqOff, ok := value.ResolveCollectionPtr(seq)
	require.True(t, ok)
	intOff, ok := value.ResolvePtr(intChild)
	require.True(t, ok)
	strOff, ok := value.ResolvePtr(strChild)
	require.True(t, ok)

	area, ok := b.ExportSingleArea(seq)
	require.True(t, ok)

	const delta = 1000
	relocatedSeq := builder.Relocate(area.Bytes, seq, delta)

	relocatedSeqOff, ok := value.ResolveCollectionPtr(relocatedSeq)
	require.True(t, ok)
	assert.Equal(t, seqOff+delta, relocatedSeqOff)

	childIntWord := value.Value(binary.LittleEndian.Uint64(area.Bytes[seqOff+8 : seqOff+16]))
	gotIntOff, ok := value.ResolvePtr(childIntWord)
	require.True(t, ok)
	assert.Equal(t, intOff+delta, gotIntOff)

	childStrWord := value.Value(binary.LittleEndian.Uint64(area.Bytes[seqOff+16 : seqOff+24]))
	gotStrOff, ok := value.ResolvePtr(childStrWord)
	require.True(t, ok)
	assert.Equal(t, strOff+delta, gotStrOff)
}

func TestCacheHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 24)
	root := value.IntInlineOf(7)
	builder.WriteHeader(buf, builder.EncodeMagicVersion(), 0x1000, root)

	magicVersion, base, gotRoot := builder.ReadHeader(buf)
	version, ok := builder.DecodeMagicVersion(magicVersion)
	assert.True(t, ok)
	assert.Equal(t, uint32(builder.CacheVersion), version)
	assert.Equal(t, uint64(0x1000), base)
	assert.Equal(t, root, gotRoot)
}
