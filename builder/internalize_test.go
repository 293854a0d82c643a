package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

func TestInternalizeCopiesForeignStructure(t *testing.T) {
	srcAlloc := alloc.NewMalloc()
	defer srcAlloc.Destroy()
	src, err := builder.NewWithTag(srcAlloc, alloc.TagConfig{}, builder.Schema12Core)
	require.NoError(t, err)

	foreign := src.MappingOf([]value.Value{
		src.StringOf([]byte("key")),
		src.StringOf([]byte("a value longer than seven bytes")),
	})

	dst := newBuilder(t)
	internalized := dst.Internalize(foreign, src.Reader())

	assert.Equal(t, value.KindMapping, value.TypeOf(internalized))
	off, ok := value.ResolveCollectionPtr(internalized)
	require.True(t, ok)
	assert.True(t, dst.Contains(off))

	pairs := value.Items(internalized, dst.Reader())
	require.Len(t, pairs, 2)
	assert.Equal(t, []byte("key"), value.String(pairs[0], dst.Reader()))
	assert.Equal(t, []byte("a value longer than seven bytes"), value.String(pairs[1], dst.Reader()))
}

func TestInternalizeIsNoOpForOwnValues(t *testing.T) {
	b := newBuilder(t)
	v := b.StringOf([]byte("already owned, quite long indeed"))
	assert.Equal(t, v, b.Internalize(v, b.Reader()))
}

func TestDeepCopySequence(t *testing.T) {
	srcAlloc := alloc.NewMalloc()
	defer srcAlloc.Destroy()
	src, err := builder.NewWithTag(srcAlloc, alloc.TagConfig{}, builder.Schema12Core)
	require.NoError(t, err)

	orig := src.SequenceOf([]value.Value{src.IntOf(1), src.IntOf(2)})

	dst := newBuilder(t)
	copied := dst.DeepCopy(orig, src.Reader())
	items := value.Items(copied, dst.Reader())
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), value.Int(items[0], dst.Reader()))
	assert.Equal(t, int64(2), value.Int(items[1], dst.Reader()))
}
