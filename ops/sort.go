package ops

import (
	"sort"

	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

// Sort returns a new sequence with seq's elements in Compare order. The
// sort is stable, so equal-comparing elements keep their relative order.
func Sort(b *builder.Builder, r value.Reader, seq value.Value) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := append([]value.Value(nil), value.Items(seq, r)...)
	sort.SliceStable(items, func(i, j int) bool {
		return builder.Compare(items[i], items[j], r, r) < 0
	})
	return b.SequenceOf(items)
}
