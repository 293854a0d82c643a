package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func TestSlice(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3, 4, 5)

	assert.Equal(t, []int64{2, 3}, seqInts(r, ops.Slice(b, r, seq, 1, 3)))
	assert.Equal(t, value.Invalid, ops.Slice(b, r, seq, -1, 3))
	assert.Equal(t, value.Invalid, ops.Slice(b, r, seq, 0, 99))
	assert.Equal(t, value.Invalid, ops.Slice(b, r, seq, 3, 1))
}

func TestSlicePy(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3, 4, 5)

	assert.Equal(t, []int64{4, 5}, seqInts(r, ops.SlicePy(b, r, seq, -2, 5)))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, seqInts(r, ops.SlicePy(b, r, seq, -99, 99)))
	assert.Equal(t, []int64{}, seqInts(r, ops.SlicePy(b, r, seq, 4, 1)))
}

func TestTakeDrop(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3)

	assert.Equal(t, []int64{1, 2}, seqInts(r, ops.Take(b, r, seq, 2)))
	assert.Equal(t, []int64{1, 2, 3}, seqInts(r, ops.Take(b, r, seq, 99)))
	assert.Equal(t, []int64{3}, seqInts(r, ops.Drop(b, r, seq, 2)))
	assert.Equal(t, []int64{}, seqInts(r, ops.Drop(b, r, seq, 99)))
}

func TestFirstLastRest(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3)

	assert.Equal(t, int64(1), value.Int(ops.First(r, seq), r))
	assert.Equal(t, int64(3), value.Int(ops.Last(r, seq), r))
	assert.Equal(t, []int64{2, 3}, seqInts(r, ops.Rest(b, r, seq)))

	empty := b.SequenceOf(nil)
	assert.Equal(t, value.Invalid, ops.First(r, empty))
	assert.Equal(t, value.Invalid, ops.Last(r, empty))
	assert.Equal(t, []int64{}, seqInts(r, ops.Rest(b, r, empty)))
}
