package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func newBuilder(t *testing.T) *builder.Builder {
	t.Helper()
	a := alloc.NewMalloc()
	t.Cleanup(a.Destroy)
	b, err := builder.NewWithTag(a, alloc.TagConfig{}, builder.Schema12Core)
	require.NoError(t, err)
	return b
}

func seqOf(b *builder.Builder, ints ...int64) value.Value {
	items := make([]value.Value, len(ints))
	for i, n := range ints {
		items[i] = b.IntOf(n)
	}
	return b.SequenceOf(items)
}

func seqInts(r value.Reader, v value.Value) []int64 {
	items := value.Items(v, r)
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = value.Int(it, r)
	}
	return out
}

func TestInsertReplaceAppend(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3)

	inserted := ops.Insert(b, r, seq, 1, []value.Value{b.IntOf(99)})
	assert.Equal(t, []int64{1, 99, 2, 3}, seqInts(r, inserted))

	replaced := ops.Replace(b, r, seq, 1, []value.Value{b.IntOf(7), b.IntOf(8)})
	assert.Equal(t, []int64{1, 7, 8, 3}, seqInts(r, replaced))

	appended := ops.Append(b, r, seq, []value.Value{b.IntOf(4)})
	assert.Equal(t, []int64{1, 2, 3, 4}, seqInts(r, appended))

	assert.Equal(t, value.Invalid, ops.Insert(b, r, seq, -1, nil))
	assert.Equal(t, value.Invalid, ops.Insert(b, r, seq, 99, nil))
}

func TestConcatAndReverse(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	a1 := seqOf(b, 1, 2)
	a2 := seqOf(b, 3, 4)

	cat := ops.Concat(b, []value.Reader{r, r}, []value.Value{a1, a2})
	assert.Equal(t, []int64{1, 2, 3, 4}, seqInts(r, cat))

	rev := ops.Reverse(b, r, a1)
	assert.Equal(t, []int64{2, 1}, seqInts(r, rev))
}

func TestMappingOps(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	m := b.MappingOf([]value.Value{
		b.StringOf([]byte("a")), b.IntOf(1),
		b.StringOf([]byte("b")), b.IntOf(2),
	})

	assert.Equal(t, 2, value.Count(ops.Keys(b, r, m), r))
	assert.Equal(t, 2, value.Count(ops.Values(b, r, m), r))
	assert.Equal(t, 2, value.Count(ops.PairItems(b, r, m), r))

	got := ops.Get(r, m, b.StringOf([]byte("a")))
	require.NotEqual(t, value.Invalid, got)
	assert.Equal(t, int64(1), value.Int(got, r))

	missing := ops.Get(r, m, b.StringOf([]byte("z")))
	assert.Equal(t, value.Invalid, missing)

	assoc := ops.Assoc(b, r, m, []value.Value{b.StringOf([]byte("c")), b.IntOf(3)})
	assert.Equal(t, 3, value.Count(assoc, r))

	replaced := ops.Assoc(b, r, m, []value.Value{b.StringOf([]byte("a")), b.IntOf(99)})
	assert.Equal(t, 2, value.Count(replaced, r))
	assert.Equal(t, int64(99), value.Int(ops.Get(r, replaced, b.StringOf([]byte("a"))), r))

	disassoc := ops.Disassoc(b, r, m, []value.Value{b.StringOf([]byte("a"))})
	assert.Equal(t, 1, value.Count(disassoc, r))

	assert.True(t, ops.Contains(r, m, b.StringOf([]byte("a"))))
	assert.False(t, ops.Contains(r, m, b.StringOf([]byte("z"))))
}

func TestMerge(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	m1 := b.MappingOf([]value.Value{b.StringOf([]byte("a")), b.IntOf(1)})
	m2 := b.MappingOf([]value.Value{
		b.StringOf([]byte("a")), b.IntOf(2),
		b.StringOf([]byte("b")), b.IntOf(3),
	})
	merged := ops.Merge(b, []value.Reader{r, r}, []value.Value{m1, m2})
	assert.Equal(t, 2, value.Count(merged, r))
	assert.Equal(t, int64(2), value.Int(ops.Get(r, merged, b.StringOf([]byte("a"))), r))
}

func TestSetAndSetAt(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 3)
	updated := ops.SetAt(b, r, seq, 1, b.IntOf(77))
	assert.Equal(t, []int64{1, 77, 3}, seqInts(r, updated))

	m := b.MappingOf([]value.Value{b.StringOf([]byte("a")), b.IntOf(1)})
	updatedMap := ops.Set(b, r, m, b.StringOf([]byte("a")), b.IntOf(9))
	assert.Equal(t, int64(9), value.Int(ops.Get(r, updatedMap, b.StringOf([]byte("a"))), r))
}

func TestUnique(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	seq := seqOf(b, 1, 2, 2, 3, 1)
	uniq := ops.Unique(b, r, seq)
	assert.Equal(t, []int64{1, 2, 3}, seqInts(r, uniq))
}
