package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
)

func smallMremapConfig() alloc.MremapConfig {
	cfg := alloc.DefaultMremapConfig()
	cfg.PageSize = 4096
	cfg.MinArenaSize = 4096
	cfg.GrowRatio = 2
	cfg.BalloonRatio = 4
	cfg.BigAllocThreshold = 1 << 16
	return cfg
}

func TestMremapStoreAndDeref(t *testing.T) {
	r := alloc.NewMremap(smallMremapConfig())
	defer r.Destroy()
	tag, err := r.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	off, ok := r.Store(tag, []byte("abc123"), 1)
	require.True(t, ok)
	assert.Equal(t, []byte("abc123"), r.Deref(tag, off, 6))
}

func TestMremapGrowsPastFirstArena(t *testing.T) {
	r := alloc.NewMremap(smallMremapConfig())
	defer r.Destroy()
	tag, err := r.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	seen := make(map[uint64]bool)
	for i := 0; i < 2000; i++ {
		off, ok := r.Alloc(tag, 64, 8)
		require.True(t, ok)
		assert.False(t, seen[off])
		seen[off] = true
	}
	info := r.GetInfo(tag)
	assert.Greater(t, info.Total, uint64(4096))
}

func TestMremapBigAllocBypassesArenas(t *testing.T) {
	r := alloc.NewMremap(smallMremapConfig())
	defer r.Destroy()
	tag, err := r.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	data := make([]byte, 1<<17)
	for i := range data {
		data[i] = byte(i)
	}
	off, ok := r.Store(tag, data, 8)
	require.True(t, ok)
	assert.Equal(t, data, r.Deref(tag, off, len(data)))
}

func TestMremapResetTagRewindsCursor(t *testing.T) {
	r := alloc.NewMremap(smallMremapConfig())
	defer r.Destroy()
	tag, err := r.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	off1, _ := r.Alloc(tag, 8, 8)
	r.ResetTag(tag)
	off2, _ := r.Alloc(tag, 8, 8)
	assert.Equal(t, off1, off2)
}

func TestMremapGetSingleAreaSingleArenaOnly(t *testing.T) {
	r := alloc.NewMremap(smallMremapConfig())
	defer r.Destroy()
	tag, err := r.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	_, ok := r.GetSingleArea(tag)
	assert.True(t, ok)

	for i := 0; i < 2000; i++ {
		_, ok := r.Alloc(tag, 64, 8)
		require.True(t, ok)
	}
	_, ok = r.GetSingleArea(tag)
	assert.False(t, ok, "once a second arena exists storage is no longer one contiguous mapping")
}
