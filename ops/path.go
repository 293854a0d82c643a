package ops

import (
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

// GetAtPath walks path left-to-right via Get, returning value.Invalid on
// any missing segment (spec §4.K "path ops").
func GetAtPath(r value.Reader, root value.Value, path []value.Value) value.Value {
	cur := root
	for _, seg := range path {
		if cur == value.Invalid {
			return value.Invalid
		}
		cur = Get(r, cur, seg)
	}
	return cur
}

// SetAtPath walks down path recording intermediate values, then rebuilds
// bottom-up with Set at each level, so untouched siblings are shared and
// only the spine is rebuilt (spec §4.K).
func SetAtPath(b *builder.Builder, r value.Reader, root value.Value, path []value.Value, newVal value.Value) value.Value {
	if len(path) == 0 {
		return newVal
	}
	spine := make([]value.Value, len(path)+1)
	spine[0] = root
	for i, seg := range path {
		if spine[i] == value.Invalid {
			return value.Invalid
		}
		spine[i+1] = Get(r, spine[i], seg)
	}
	cur := newVal
	for i := len(path) - 1; i >= 0; i-- {
		container := spine[i]
		if container == value.Invalid {
			return value.Invalid
		}
		if value.TypeOf(container) != value.KindMapping && value.TypeOf(container) != value.KindSequence {
			return value.Invalid
		}
		cur = Set(b, r, container, path[i], cur)
		if cur == value.Invalid {
			return value.Invalid
		}
	}
	return cur
}
