package ops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func TestFilterSequential(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3, 4, 5, 6)
	even := ops.Filter(context.Background(), b, r, seq, func(v value.Value) bool {
		return value.Int(v, r)%2 == 0
	}, nil)
	assert.Equal(t, []int64{2, 4, 6}, seqInts(r, even))
}

func TestFilterParallelPreservesOrder(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	ints := make([]int64, 0, 100)
	for i := int64(0); i < 100; i++ {
		ints = append(ints, i)
	}
	seq := seqOf(b, ints...)
	pool := &ops.Pool{Workers: 8}
	even := ops.Filter(context.Background(), b, r, seq, func(v value.Value) bool {
		return value.Int(v, r)%2 == 0
	}, pool)
	got := seqInts(r, even)
	assert.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, int64(i*2), v)
	}
}

func TestMapParallel(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3, 4, 5)
	pool := &ops.Pool{Workers: 3}
	doubled := ops.Map(context.Background(), b, r, seq, func(v value.Value) value.Value {
		return b.IntOf(value.Int(v, r) * 2)
	}, pool)
	assert.Equal(t, []int64{2, 4, 6, 8, 10}, seqInts(r, doubled))
}

func TestReduceParallelPartialThenFinal(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	ints := make([]int64, 0, 50)
	var want int64
	for i := int64(1); i <= 50; i++ {
		ints = append(ints, i)
		want += i
	}
	seq := seqOf(b, ints...)
	pool := &ops.Pool{Workers: 4}
	sum := ops.Reduce(context.Background(), r, seq, b.IntOf(0), func(acc, v value.Value) value.Value {
		return b.IntOf(value.Int(acc, r) + value.Int(v, r))
	}, pool)
	assert.Equal(t, want, value.Int(sum, r))
}

func TestReduceNonIdentityInitSeededPerWorker(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3)
	sum := func(pool *ops.Pool) value.Value {
		return ops.Reduce(context.Background(), r, seq, b.IntOf(100), func(acc, v value.Value) value.Value {
			return b.IntOf(value.Int(acc, r) + value.Int(v, r))
		}, pool)
	}
	assert.Equal(t, int64(106), value.Int(sum(nil), r))
	assert.Equal(t, int64(306), value.Int(sum(&ops.Pool{Workers: 3}), r))
}

func TestFilterCancellationViaStopFlag(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	ints := make([]int64, 0, 1000)
	for i := int64(0); i < 1000; i++ {
		ints = append(ints, i)
	}
	seq := seqOf(b, ints...)
	stop := &ops.StopFlag{}
	stop.Request()
	pool := &ops.Pool{Workers: 4, Stop: stop}
	result := ops.Filter(context.Background(), b, r, seq, func(v value.Value) bool {
		return true
	}, pool)
	assert.Equal(t, value.Invalid, result)
}

func TestFilterCancellationViaContext(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := ops.Filter(ctx, b, r, seq, func(v value.Value) bool { return true }, nil)
	assert.Equal(t, value.Invalid, result)
}

func TestFilterRejectsNonSequence(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	m := b.MappingOf([]value.Value{b.StringOf([]byte("a")), b.IntOf(1)})
	assert.Equal(t, value.Invalid, ops.Filter(context.Background(), b, r, m, func(value.Value) bool { return true }, nil))
}
