package encode_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/encode"
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

func encodeString(t *testing.T, b *builder.Builder, v value.Value, schema builder.Schema) string {
	t.Helper()
	var buf bytes.Buffer
	enc := encode.NewEncoder(&buf, schema)
	require.NoError(t, enc.Encode(v, b.Reader()))
	require.NoError(t, enc.Close())
	return buf.String()
}

func TestEncodeScalars(t *testing.T) {
	b := newBuilder(t)
	assert.Equal(t, "null\n", encodeString(t, b, b.NullOf(), builder.Schema12Core))
	assert.Equal(t, "true\n", encodeString(t, b, b.BoolOf(true), builder.Schema12Core))
	assert.Equal(t, "42\n", encodeString(t, b, b.IntOf(42), builder.Schema12Core))
	assert.Equal(t, "hello\n", encodeString(t, b, b.StringOf([]byte("hello")), builder.Schema12Core))
}

func TestEncodeQuotesAmbiguousString(t *testing.T) {
	b := newBuilder(t)
	out := encodeString(t, b, b.StringOf([]byte("true")), builder.Schema12Core)
	assert.Equal(t, "\"true\"\n", out)
}

func TestEncodeSequence(t *testing.T) {
	b := newBuilder(t)
	seq := b.SequenceOf([]value.Value{b.IntOf(1), b.IntOf(2), b.IntOf(3)})
	out := encodeString(t, b, seq, builder.Schema12Core)
	assert.Equal(t, "- 1\n- 2\n- 3\n", out)
}

func TestEncodeMapping(t *testing.T) {
	b := newBuilder(t)
	m := b.MappingOf([]value.Value{
		b.StringOf([]byte("a")), b.IntOf(1),
		b.StringOf([]byte("b")), b.BoolOf(true),
	})
	out := encodeString(t, b, m, builder.Schema12Core)
	assert.Equal(t, "a: 1\nb: true\n", out)
}

func TestEncodeJSONModeIsFlowAndQuoted(t *testing.T) {
	b := newBuilder(t)
	m := b.MappingOf([]value.Value{
		b.StringOf([]byte("a")), b.SequenceOf([]value.Value{b.IntOf(1), b.IntOf(2)}),
	})
	out := encodeString(t, b, m, builder.SchemaJSON)
	assert.Contains(t, out, `"a"`)
	assert.Contains(t, out, "{")
	assert.Contains(t, out, "[")
	assert.NotContains(t, out, "- ")
}

func TestEncodeAnchorAndAlias(t *testing.T) {
	b := newBuilder(t)
	shared := b.IntOf(7)
	anchored := b.IndirectOf(shared, true, b.StringOf([]byte("x")), true, value.Value(0), false, 0, false)
	alias := b.AliasOf(b.StringOf([]byte("x")))
	seq := b.SequenceOf([]value.Value{anchored, alias})
	out := encodeString(t, b, seq, builder.Schema12Core)
	assert.Contains(t, out, "&x")
	assert.Contains(t, out, "*x")
}

func TestEncodeInvalidUTF8RequiresBinaryTag(t *testing.T) {
	b := newBuilder(t)
	v := b.StringOf([]byte{0xff, 0xfe})
	out := encodeString(t, b, v, builder.Schema12Core)
	assert.Contains(t, out, "!!binary")
}

func TestEmitRegisteredWithOps(t *testing.T) {
	b := newBuilder(t)
	seq := b.SequenceOf([]value.Value{b.IntOf(1), b.IntOf(2)})
	out, err := ops.Op(ops.OpEmit, ops.Args{
		Ctx:     context.Background(),
		Builder: b,
		Reader:  b.Reader(),
		Input:   seq,
		EmitOptions: ops.EmitOptions{
			Schema: builder.Schema12Core,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, value.KindString, value.TypeOf(out))
	assert.Equal(t, []byte("- 1\n- 2\n"), value.String(out, b.Reader()))
}

func TestEncodeFloat(t *testing.T) {
	b := newBuilder(t)
	seq := b.SequenceOf([]value.Value{
		b.FloatOf(1.5),
	})
	out := encodeString(t, b, seq, builder.Schema12Core)
	assert.Equal(t, "- 1.5\n", out)
}
