package alloc_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/willabides/fyvalue/alloc"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLinearNeverReturnsOffsetZero(t *testing.T) {
	l := alloc.NewLinear(4096)
	tag, err := l.GetTag(alloc.TagConfig{})
	require.NoError(t, err)
	off, ok := l.Alloc(tag, 8, 8)
	require.True(t, ok)
	assert.NotZero(t, off)
}

func TestLinearStoreAndDeref(t *testing.T) {
	l := alloc.NewLinear(4096)
	tag, err := l.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	off, ok := l.Store(tag, []byte("hello"), 1)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), l.Deref(tag, off, 5))
}

func TestLinearAllocExhaustion(t *testing.T) {
	l := alloc.NewLinear(64)
	tag, err := l.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	_, ok := l.Alloc(tag, 1000, 8)
	assert.False(t, ok)
}

func TestLinearResetTag(t *testing.T) {
	l := alloc.NewLinear(4096)
	tag, err := l.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	off1, _ := l.Alloc(tag, 8, 8)
	l.ResetTag(tag)
	off2, _ := l.Alloc(tag, 8, 8)
	assert.Equal(t, off1, off2)
}

func TestLinearConcurrentAllocNeverOverlaps(t *testing.T) {
	l := alloc.NewLinear(1 << 20)
	tag, err := l.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	const goroutines = 16
	const perGoroutine = 200
	offs := make(chan uint64, goroutines*perGoroutine)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				off, ok := l.Alloc(tag, 8, 8)
				require.True(t, ok)
				offs <- off
			}
		}()
	}
	wg.Wait()
	close(offs)

	seen := make(map[uint64]bool)
	for off := range offs {
		assert.False(t, seen[off], "offset %d allocated twice", off)
		seen[off] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestLinearGetSingleArea(t *testing.T) {
	l := alloc.NewLinear(4096)
	tag, err := l.GetTag(alloc.TagConfig{})
	require.NoError(t, err)

	area, ok := l.GetSingleArea(tag)
	require.True(t, ok)
	assert.Len(t, area.Bytes, 4096)
	assert.NotZero(t, area.StartOffset)
}
