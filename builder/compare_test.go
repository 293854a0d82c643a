package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

func TestCompareEqualWords(t *testing.T) {
	b := newBuilder(t)
	v := b.IntOf(5)
	assert.Equal(t, 0, builder.Compare(v, v, b.Reader(), b.Reader()))
}

func TestCompareInvalidIsIncomparable(t *testing.T) {
	b := newBuilder(t)
	v := b.IntOf(5)
	assert.Equal(t, -1, builder.Compare(value.Invalid, v, b.Reader(), b.Reader()))
	assert.Equal(t, -1, builder.Compare(v, value.Invalid, b.Reader(), b.Reader()))
	assert.Equal(t, -1, builder.Compare(value.Invalid, value.Invalid, b.Reader(), b.Reader()))
}

func TestCompareDifferingKindsByTag(t *testing.T) {
	b := newBuilder(t)
	i := b.IntOf(1)
	s := b.StringOf([]byte("x"))
	assert.NotEqual(t, 0, builder.Compare(i, s, b.Reader(), b.Reader()))
}

func TestCompareNaturalOrdering(t *testing.T) {
	b := newBuilder(t)
	assert.Equal(t, -1, builder.Compare(b.IntOf(1), b.IntOf(2), b.Reader(), b.Reader()))
	assert.Equal(t, 1, builder.Compare(b.IntOf(2), b.IntOf(1), b.Reader(), b.Reader()))
	assert.Equal(t, -1, builder.Compare(b.StringOf([]byte("a")), b.StringOf([]byte("b")), b.Reader(), b.Reader()))
}

func TestCompareSequencesElementwise(t *testing.T) {
	b := newBuilder(t)
	a := b.SequenceOf([]value.Value{b.IntOf(1), b.IntOf(2)})
	c := b.SequenceOf([]value.Value{b.IntOf(1), b.IntOf(3)})
	assert.Equal(t, -1, builder.Compare(a, c, b.Reader(), b.Reader()))

	shorter := b.SequenceOf([]value.Value{b.IntOf(1)})
	assert.Equal(t, -1, builder.Compare(shorter, a, b.Reader(), b.Reader()))
}

func TestCompareMappingsBySameKeysEqualValues(t *testing.T) {
	b := newBuilder(t)
	m1 := b.MappingOf([]value.Value{b.StringOf([]byte("k")), b.IntOf(1)})
	m2 := b.MappingOf([]value.Value{b.StringOf([]byte("k")), b.IntOf(1)})
	assert.Equal(t, 0, builder.Compare(m1, m2, b.Reader(), b.Reader()))

	m3 := b.MappingOf([]value.Value{b.StringOf([]byte("k")), b.IntOf(2)})
	assert.NotEqual(t, 0, builder.Compare(m1, m3, b.Reader(), b.Reader()))
}
