package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/fyvalue/alloc"
)

func TestAutoScenarios(t *testing.T) {
	scenarios := []alloc.Scenario{
		alloc.PerTagFree,
		alloc.PerTagFreeDedup,
		alloc.PerObjFree,
		alloc.PerObjFreeDedup,
		alloc.SingleLinear,
		alloc.SingleLinearDedup,
	}
	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.String(), func(t *testing.T) {
			a, err := alloc.NewAuto(alloc.AutoConfig{Scenario: sc, LinearCapacity: 4096})
			require.NoError(t, err)
			defer a.Destroy()

			tag, err := a.GetTag(alloc.TagConfig{})
			require.NoError(t, err)

			off, ok := a.Store(tag, []byte("scenario payload"), 1)
			require.True(t, ok)
			assert.Equal(t, []byte("scenario payload"), a.Deref(tag, off, len("scenario payload")))
		})
	}
}

func TestAutoUnknownScenario(t *testing.T) {
	_, err := alloc.NewAuto(alloc.AutoConfig{Scenario: alloc.Scenario(99)})
	assert.Error(t, err)
}
