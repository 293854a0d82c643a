package alloc_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
)

func TestMallocStoreFreeRoundTrip(t *testing.T) {
	m := alloc.NewMalloc()
	tag, err := m.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	off, ok := m.Store(tag, []byte("payload"), 1)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), m.Deref(tag, off, 7))
	assert.True(t, m.Contains(tag, off))

	m.Free(tag, off)
	assert.False(t, m.Contains(tag, off))
}

func TestMallocTagExhaustion(t *testing.T) {
	m := alloc.NewMalloc()
	var tags []alloc.TagID
	for i := 0; i < 32; i++ {
		tag, err := m.GetTag(alloc.TagConfig{})
		require.NoError(t, err)
		tags = append(tags, tag)
	}
	_, err := m.GetTag(alloc.TagConfig{})
	assert.ErrorIs(t, err, alloc.ErrOutOfMemory)

	m.ReleaseTag(tags[0])
	_, err = m.GetTag(alloc.TagConfig{})
	assert.NoError(t, err)
}

func TestMallocConcurrentAllocDistinctOffsets(t *testing.T) {
	m := alloc.NewMalloc()
	tag, err := m.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	const n = 200
	offs := make(chan uint64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			off, ok := m.Alloc(tag, 16, 8)
			require.True(t, ok)
			offs <- off
		}()
	}
	wg.Wait()
	close(offs)

	seen := make(map[uint64]bool)
	for off := range offs {
		assert.False(t, seen[off])
		seen[off] = true
	}
	assert.Len(t, seen, n)
}

func TestMallocGetSingleAreaAlwaysFalse(t *testing.T) {
	m := alloc.NewMalloc()
	tag, err := m.GetTag(alloc.TagConfig{})
	require.NoError(t, err)
	_, ok := m.GetSingleArea(tag)
	assert.False(t, ok)
}
