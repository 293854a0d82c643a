package idbitset_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/willabides/fyvalue/idbitset"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAllocFree(t *testing.T) {
	s := idbitset.New(70) // spans two words
	ids := make(map[int]bool)
	for i := 0; i < 70; i++ {
		id := s.Alloc()
		assert.GreaterOrEqual(t, id, 0)
		assert.False(t, ids[id])
		ids[id] = true
	}
	assert.Equal(t, -1, s.Alloc())
	assert.Equal(t, 70, s.CountUsed())

	s.Free(5)
	assert.False(t, s.IsUsed(5))
	id := s.Alloc()
	assert.Equal(t, 5, id)
}

func TestAllocFixed(t *testing.T) {
	s := idbitset.New(8)
	assert.True(t, s.AllocFixed(3))
	assert.False(t, s.AllocFixed(3))
	assert.False(t, s.AllocFixed(100))
	s.Free(3)
	assert.True(t, s.AllocFixed(3))
}

func TestIterator(t *testing.T) {
	s := idbitset.New(200)
	want := []int{0, 1, 63, 64, 65, 127, 128, 199}
	for _, id := range want {
		assert.True(t, s.AllocFixed(id))
	}
	var got []int
	it := s.Iter()
	for {
		id, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, id)
	}
	assert.Equal(t, want, got)
}

func TestConcurrentAllocIsLockFree(t *testing.T) {
	const n = 1024
	s := idbitset.New(n)
	var wg sync.WaitGroup
	results := make(chan int, n)
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				id := s.Alloc()
				if id < 0 {
					return
				}
				results <- id
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for id := range results {
		assert.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	assert.Equal(t, n, len(seen))
}
