package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
	"github.com/willabides/fyvalue/builder"
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

func TestScalarCreation(t *testing.T) {
	b := newBuilder(t)
	assert.Equal(t, value.Null, b.NullOf())
	assert.True(t, value.AsBool(b.BoolOf(true)))
	assert.Equal(t, int64(42), value.Int(b.IntOf(42), b.Reader()))
	assert.Equal(t, int64(1)<<62, value.Int(b.IntOf(1<<62), b.Reader()))
	assert.Equal(t, 1.5, value.Float(b.FloatOf(1.5), b.Reader()))
	assert.Equal(t, 0.1, value.Float(b.FloatOf(0.1), b.Reader()))
	assert.Equal(t, []byte("short"), value.String(b.StringOf([]byte("short")), b.Reader()))
	long := "a string longer than seven bytes for sure"
	assert.Equal(t, []byte(long), value.String(b.StringOf([]byte(long)), b.Reader()))
}

func TestSequenceAndMapping(t *testing.T) {
	b := newBuilder(t)
	seq := b.SequenceOf([]value.Value{b.IntOf(1), b.IntOf(2), b.IntOf(3)})
	assert.Equal(t, value.KindSequence, value.TypeOf(seq))
	assert.Equal(t, 3, value.Count(seq, b.Reader()))

	mapping := b.MappingOf([]value.Value{
		b.StringOf([]byte("a")), b.IntOf(1),
		b.StringOf([]byte("b")), b.IntOf(2),
	})
	assert.Equal(t, value.KindMapping, value.TypeOf(mapping))
	assert.Equal(t, 2, value.Count(mapping, b.Reader()))
}

func TestIndirectAndAlias(t *testing.T) {
	b := newBuilder(t)
	anchor := b.StringOf([]byte("anchor1"))
	inner := b.IntOf(7)
	ind := b.IndirectOf(inner, true, anchor, true, value.Value(0), false, 0, false)
	assert.Equal(t, value.KindIndirect, value.KindOf(ind, b.Reader()))

	alias := b.AliasOf(anchor)
	assert.True(t, value.IsAlias(alias, b.Reader()))
	assert.Equal(t, value.KindAlias, value.KindOf(alias, b.Reader()))
}

func TestCreateScalarFromTextCore(t *testing.T) {
	b := newBuilder(t)
	cases := []struct {
		text string
		kind value.Kind
	}{
		{"null", value.KindNull},
		{"~", value.KindNull},
		{"true", value.KindBool},
		{"False", value.KindBool},
		{"42", value.KindInt},
		{"-17", value.KindInt},
		{"3.14", value.KindFloat},
		{".inf", value.KindFloat},
		{"-.inf", value.KindFloat},
		{".nan", value.KindFloat},
		{"hello world", value.KindString},
		{"yes", value.KindString}, // not a Core-schema bool literal
	}
	for _, c := range cases {
		v := b.CreateScalarFromText(c.text, builder.Schema12Core, value.KindInvalid, false)
		assert.Equalf(t, c.kind, value.KindOf(v, b.Reader()), "text %q", c.text)
	}
}

func TestCreateScalarFromTextYAML11AllowsYesNo(t *testing.T) {
	b := newBuilder(t)
	v := b.CreateScalarFromText("yes", builder.Schema11, value.KindInvalid, false)
	assert.Equal(t, value.KindBool, value.KindOf(v, b.Reader()))
	assert.True(t, value.AsBool(v))

	v = b.CreateScalarFromText("off", builder.Schema11, value.KindInvalid, false)
	assert.Equal(t, value.KindBool, value.KindOf(v, b.Reader()))
	assert.False(t, value.AsBool(v))
}

func TestCreateScalarFromTextJSONIsStrict(t *testing.T) {
	b := newBuilder(t)
	// JSON schema has no +sign, no 0x/0o prefixes, lowercase literals only.
	v := b.CreateScalarFromText("+5", builder.SchemaJSON, value.KindInvalid, false)
	assert.Equal(t, value.KindString, value.KindOf(v, b.Reader()))

	v = b.CreateScalarFromText("Yes", builder.SchemaJSON, value.KindInvalid, false)
	assert.Equal(t, value.KindString, value.KindOf(v, b.Reader()))

	v = b.CreateScalarFromText("true", builder.SchemaJSON, value.KindInvalid, false)
	assert.Equal(t, value.KindBool, value.KindOf(v, b.Reader()))
}

func TestCreateScalarFromTextFailsafeIsAlwaysString(t *testing.T) {
	b := newBuilder(t)
	for _, text := range []string{"null", "true", "42", "3.14"} {
		v := b.CreateScalarFromText(text, builder.Schema12Failsafe, value.KindInvalid, false)
		assert.Equal(t, value.KindString, value.KindOf(v, b.Reader()))
	}
}

func TestCreateScalarFromTextForceTypeMismatch(t *testing.T) {
	b := newBuilder(t)
	v := b.CreateScalarFromText("not a number", builder.Schema12Core, value.KindInt, true)
	assert.Equal(t, value.Invalid, v)
}

func TestCreateScalarFromTextForceString(t *testing.T) {
	b := newBuilder(t)
	v := b.CreateScalarFromText("42", builder.Schema12Core, value.KindString, true)
	assert.Equal(t, value.KindString, value.KindOf(v, b.Reader()))
	assert.Equal(t, []byte("42"), value.String(v, b.Reader()))
}

func TestIsMergeKey(t *testing.T) {
	assert.True(t, builder.IsMergeKey("<<"))
	assert.False(t, builder.IsMergeKey("<<<"))
}
