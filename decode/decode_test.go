package decode_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/decode"
	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func newBuilder(t *testing.T) *builder.Builder {
	t.Helper()
	a := alloc.NewMalloc()
	t.Cleanup(a.Destroy)
	b, err := builder.NewWithTag(a, alloc.TagConfig{}, builder.SchemaAuto)
	require.NoError(t, err)
	return b
}

func TestDecodeScalar(t *testing.T) {
	b := newBuilder(t)
	d := decode.NewDecoder(strings.NewReader("hello\n"), b, builder.SchemaAuto, nil)
	root, _, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, value.KindString, value.TypeOf(root))
	assert.Equal(t, []byte("hello"), value.String(root, b.Reader()))
}

func TestDecodeSequence(t *testing.T) {
	b := newBuilder(t)
	d := decode.NewDecoder(strings.NewReader("- 1\n- 2\n- 3\n"), b, builder.SchemaAuto, nil)
	root, _, err := d.Decode()
	require.NoError(t, err)
	require.Equal(t, value.KindSequence, value.TypeOf(root))
	items := value.Items(root, b.Reader())
	require.Len(t, items, 3)
	assert.Equal(t, int64(1), value.Int(items[0], b.Reader()))
	assert.Equal(t, int64(3), value.Int(items[2], b.Reader()))
}

func TestDecodeMapping(t *testing.T) {
	b := newBuilder(t)
	d := decode.NewDecoder(strings.NewReader("a: 1\nb: true\nc: null\n"), b, builder.SchemaAuto, nil)
	root, _, err := d.Decode()
	require.NoError(t, err)
	r := b.Reader()
	pairs := value.Items(root, r)
	require.Len(t, pairs, 6)
	assert.Equal(t, []byte("a"), value.String(pairs[0], r))
	assert.Equal(t, int64(1), value.Int(pairs[1], r))
	assert.Equal(t, []byte("b"), value.String(pairs[2], r))
	assert.True(t, value.AsBool(pairs[3]))
	assert.Equal(t, []byte("c"), value.String(pairs[4], r))
	assert.Equal(t, value.KindNull, value.TypeOf(pairs[5]))
}

func TestDecodeAnchorAlias(t *testing.T) {
	b := newBuilder(t)
	d := decode.NewDecoder(strings.NewReader("a: &x 1\nb: *x\n"), b, builder.SchemaAuto, nil)
	root, _, err := d.Decode()
	require.NoError(t, err)
	r := b.Reader()
	pairs := value.Items(root, r)
	require.Len(t, pairs, 4)
	assert.Equal(t, int64(1), value.Int(pairs[1], r))
	assert.Equal(t, int64(1), value.Int(pairs[3], r))
}

func TestDecodeUnresolvedAlias(t *testing.T) {
	b := newBuilder(t)
	d := decode.NewDecoder(strings.NewReader("a: *missing\n"), b, builder.SchemaAuto, nil)
	_, _, err := d.Decode()
	assert.Error(t, err)
}

func TestDecodeMergeKeyExplicitWins(t *testing.T) {
	b := newBuilder(t)
	doc := "base: &b\n  x: 1\n  y: 2\nderived:\n  <<: *b\n  y: 3\n"
	d := decode.NewDecoder(strings.NewReader(doc), b, builder.SchemaAuto, nil)
	root, _, err := d.Decode()
	require.NoError(t, err)
	r := b.Reader()
	pairs := value.Items(root, r)
	require.Len(t, pairs, 4)
	derived := pairs[3]
	require.Equal(t, value.KindMapping, value.TypeOf(derived))
	dpairs := value.Items(derived, r)

	got := map[string]int64{}
	for i := 0; i < len(dpairs); i += 2 {
		got[string(value.String(dpairs[i], r))] = value.Int(dpairs[i+1], r)
	}
	assert.Equal(t, int64(1), got["x"])
	assert.Equal(t, int64(3), got["y"])
}

func TestDecodeMergeSequenceOfMappingsFirstWins(t *testing.T) {
	b := newBuilder(t)
	doc := "m1: &m1\n  x: 1\nm2: &m2\n  x: 2\n  z: 9\nresult:\n  <<: [*m1, *m2]\n"
	d := decode.NewDecoder(strings.NewReader(doc), b, builder.SchemaAuto, nil)
	root, _, err := d.Decode()
	require.NoError(t, err)
	r := b.Reader()
	pairs := value.Items(root, r)
	result := pairs[len(pairs)-1]
	rpairs := value.Items(result, r)
	got := map[string]int64{}
	for i := 0; i < len(rpairs); i += 2 {
		got[string(value.String(rpairs[i], r))] = value.Int(rpairs[i+1], r)
	}
	assert.Equal(t, int64(1), got["x"])
	assert.Equal(t, int64(9), got["z"])
}

func TestDecodeQuotedScalarForcedString(t *testing.T) {
	b := newBuilder(t)
	d := decode.NewDecoder(strings.NewReader(`"42"` + "\n"), b, builder.SchemaAuto, nil)
	root, _, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, value.KindString, value.TypeOf(root))
	assert.Equal(t, []byte("42"), value.String(root, b.Reader()))
}

func TestDecodeDirectorySchema(t *testing.T) {
	b := newBuilder(t)
	d := decode.NewDecoder(strings.NewReader("%YAML 1.1\n---\na: yes\n"), b, builder.SchemaAuto, nil)
	root, dir, err := d.Decode()
	require.NoError(t, err)
	r := b.Reader()
	pairs := value.Items(root, r)
	assert.True(t, value.AsBool(pairs[1]))

	dpairs := value.Items(dir, r)
	got := map[string]value.Value{}
	for i := 0; i < len(dpairs); i += 2 {
		got[string(value.String(dpairs[i], r))] = dpairs[i+1]
	}
	assert.Equal(t, []byte("yaml-1.1"), value.String(got["schema"], r))
	assert.Equal(t, []byte("1.1"), value.String(got["version"], r))
	assert.True(t, value.AsBool(got["version-explicit"]))
}

func TestDecodeMultipleDocuments(t *testing.T) {
	b := newBuilder(t)
	d := decode.NewDecoder(strings.NewReader("a\n---\nb\n---\nc\n"), b, builder.SchemaAuto, nil)
	var got []string
	for {
		root, _, err := d.Decode()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, string(value.String(root, b.Reader())))
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestParseRegisteredWithOps(t *testing.T) {
	b := newBuilder(t)
	out, err := ops.Op(ops.OpParse, ops.Args{
		Ctx:     context.Background(),
		Builder: b,
		Text:    []byte("- 1\n- 2\n"),
		ParseOptions: ops.ParseOptions{
			Schema: builder.SchemaAuto,
		},
	})
	require.NoError(t, err)
	require.Equal(t, value.KindSequence, value.TypeOf(out))
	items := value.Items(out, b.Reader())
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), value.Int(items[0], b.Reader()))
}
