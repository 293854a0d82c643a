package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func TestGetAtPath(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	inner := b.MappingOf([]value.Value{b.StringOf([]byte("y")), b.IntOf(42)})
	outer := b.MappingOf([]value.Value{b.StringOf([]byte("x")), inner})

	path := []value.Value{b.StringOf([]byte("x")), b.StringOf([]byte("y"))}
	got := ops.GetAtPath(r, outer, path)
	assert.Equal(t, int64(42), value.Int(got, r))

	missing := ops.GetAtPath(r, outer, []value.Value{b.StringOf([]byte("x")), b.StringOf([]byte("z"))})
	assert.Equal(t, value.Invalid, missing)
}

func TestSetAtPath(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	inner := b.MappingOf([]value.Value{b.StringOf([]byte("y")), b.IntOf(1)})
	other := b.MappingOf([]value.Value{b.StringOf([]byte("untouched")), b.IntOf(5)})
	outer := b.MappingOf([]value.Value{
		b.StringOf([]byte("x")), inner,
		b.StringOf([]byte("w")), other,
	})

	path := []value.Value{b.StringOf([]byte("x")), b.StringOf([]byte("y"))}
	updated := ops.SetAtPath(b, r, outer, path, b.IntOf(99))

	got := ops.GetAtPath(r, updated, path)
	assert.Equal(t, int64(99), value.Int(got, r))

	// sibling subtree is preserved.
	w := ops.Get(r, updated, b.StringOf([]byte("w")))
	assert.Equal(t, int64(5), value.Int(ops.Get(r, w, b.StringOf([]byte("untouched"))), r))
}

func TestSetAtPathEmptyPath(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	v := b.IntOf(1)
	result := ops.SetAtPath(b, r, v, nil, b.IntOf(2))
	assert.Equal(t, int64(2), value.Int(result, r))
}

func TestSetAtPathMissingSegment(t *testing.T) {
	b := newBuilder(t)
	r := b.Reader()
	outer := b.MappingOf([]value.Value{b.StringOf([]byte("x")), b.IntOf(1)})
	path := []value.Value{b.StringOf([]byte("missing")), b.StringOf([]byte("y"))}
	assert.Equal(t, value.Invalid, ops.SetAtPath(b, r, outer, path, b.IntOf(2)))
}
