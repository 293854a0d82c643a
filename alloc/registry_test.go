package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
)

func TestRegistryBuiltins(t *testing.T) {
	for _, name := range []string{"linear", "malloc", "mremap", "dedup", "auto"} {
		a, err := alloc.New(name)
		require.NoError(t, err)
		assert.NotNil(t, a)
		a.Destroy()
	}
}

func TestRegistryUnknownName(t *testing.T) {
	_, err := alloc.New("not-a-real-allocator")
	assert.Error(t, err)
}

func TestRegistryRegisterCustomFactory(t *testing.T) {
	called := false
	alloc.Register("custom-test-allocator", func() (alloc.Allocator, error) {
		called = true
		return alloc.NewLinear(1024), nil
	})
	_, err := alloc.New("custom-test-allocator")
	require.NoError(t, err)
	assert.True(t, called)
}
