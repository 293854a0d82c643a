package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
)

func TestDedupInternsEqualPayloads(t *testing.T) {
	d := alloc.NewDedup(alloc.NewMalloc(), alloc.DefaultDedupConfig())
	defer d.Destroy()
	tag, err := d.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	off1, ok := d.Store(tag, []byte("repeat me"), 1)
	require.True(t, ok)
	off2, ok := d.Store(tag, []byte("repeat me"), 1)
	require.True(t, ok)
	assert.Equal(t, off1, off2)

	off3, ok := d.Store(tag, []byte("different"), 1)
	require.True(t, ok)
	assert.NotEqual(t, off1, off3)
}

func TestDedupReleaseFreesOnlyAfterLastRef(t *testing.T) {
	d := alloc.NewDedup(alloc.NewMalloc(), alloc.DefaultDedupConfig())
	defer d.Destroy()
	tag, err := d.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	off, ok := d.Store(tag, []byte("shared"), 1)
	require.True(t, ok)
	_, ok = d.Store(tag, []byte("shared"), 1)
	require.True(t, ok)

	d.Release(tag, off, 6)
	assert.True(t, d.Contains(tag, off), "one reference remains")

	d.Release(tag, off, 6)
	assert.False(t, d.Contains(tag, off), "last reference released")
}

func TestDedupRebuildPreservesLookups(t *testing.T) {
	cfg := alloc.DefaultDedupConfig()
	cfg.InitialBuckets = 2
	cfg.MaxChainLength = 2
	d := alloc.NewDedup(alloc.NewMalloc(), cfg)
	defer d.Destroy()
	tag, err := d.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	offsets := make(map[string]uint64)
	for i := 0; i < 100; i++ {
		payload := []byte{byte(i), byte(i >> 8)}
		off, ok := d.Store(tag, payload, 1)
		require.True(t, ok)
		offsets[string(payload)] = off
	}
	for payload, want := range offsets {
		got, ok := d.Store(tag, []byte(payload), 1)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestDedupOverMremap(t *testing.T) {
	d := alloc.NewDedup(alloc.NewMremap(smallMremapConfig()), alloc.DefaultDedupConfig())
	defer d.Destroy()
	tag, err := d.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	off1, ok := d.Store(tag, []byte("over mremap"), 1)
	require.True(t, ok)
	off2, ok := d.Store(tag, []byte("over mremap"), 1)
	require.True(t, ok)
	assert.Equal(t, off1, off2)
	assert.Equal(t, []byte("over mremap"), d.Deref(tag, off1, len("over mremap")))
}
