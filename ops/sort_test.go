package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func TestSort(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 3, 1, 2, 1)
	sorted := ops.Sort(b, r, seq)
	assert.Equal(t, []int64{1, 1, 2, 3}, seqInts(r, sorted))
}

func TestSortStability(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	a := b.StringOf([]byte("a"))
	b2 := b.StringOf([]byte("b"))
	pairA1 := b.SequenceOf([]value.Value{a, b.IntOf(1)})
	pairA2 := b.SequenceOf([]value.Value{a, b.IntOf(2)})
	pairB := b.SequenceOf([]value.Value{b2, b.IntOf(3)})
	seq := b.SequenceOf([]value.Value{pairB, pairA1, pairA2})

	sorted := ops.Sort(b, r, seq)
	items := value.Items(sorted, r)
	require.Len(t, items, 3)
	first := value.Items(items[0], r)
	second := value.Items(items[1], r)
	assert.Equal(t, int64(1), value.Int(first[1], r))
	assert.Equal(t, int64(2), value.Int(second[1], r))
}
