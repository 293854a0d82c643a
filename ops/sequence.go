package ops

import (
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

// Slice returns seq[start:end] using Go/C-style unsigned bounds: negative
// or out-of-range bounds are an error, matching spec §4.K's [start,end].
func Slice(b *builder.Builder, r value.Reader, seq value.Value, start, end int) value.Value {
	items := value.Items(seq, r)
	if value.TypeOf(seq) != value.KindSequence || start < 0 || end > len(items) || start > end {
		return value.Invalid
	}
	return b.SequenceOf(append([]value.Value(nil), items[start:end]...))
}

// SlicePy is Slice with Python-style signed indices: negative values
// count from the end, and bounds are clamped rather than erroring (spec
// §4.K's slice_py).
func SlicePy(b *builder.Builder, r value.Reader, seq value.Value, start, end int) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(seq, r)
	n := len(items)
	start = normalizePyIndex(start, n)
	end = normalizePyIndex(end, n)
	if start > end {
		start = end
	}
	return b.SequenceOf(append([]value.Value(nil), items[start:end]...))
}

func normalizePyIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Take returns the first n elements (or all of them if n exceeds the
// length).
func Take(b *builder.Builder, r value.Reader, seq value.Value, n int) value.Value {
	if value.TypeOf(seq) != value.KindSequence || n < 0 {
		return value.Invalid
	}
	items := value.Items(seq, r)
	if n > len(items) {
		n = len(items)
	}
	return b.SequenceOf(append([]value.Value(nil), items[:n]...))
}

// Drop returns every element after the first n (or none, if n exceeds
// the length).
func Drop(b *builder.Builder, r value.Reader, seq value.Value, n int) value.Value {
	if value.TypeOf(seq) != value.KindSequence || n < 0 {
		return value.Invalid
	}
	items := value.Items(seq, r)
	if n > len(items) {
		n = len(items)
	}
	return b.SequenceOf(append([]value.Value(nil), items[n:]...))
}

// First returns seq[0], or value.Invalid if empty.
func First(r value.Reader, seq value.Value) value.Value {
	items := value.Items(seq, r)
	if value.TypeOf(seq) != value.KindSequence || len(items) == 0 {
		return value.Invalid
	}
	return items[0]
}

// Last returns seq[len(seq)-1], or value.Invalid if empty.
func Last(r value.Reader, seq value.Value) value.Value {
	items := value.Items(seq, r)
	if value.TypeOf(seq) != value.KindSequence || len(items) == 0 {
		return value.Invalid
	}
	return items[len(items)-1]
}

// Rest returns every element after the first, or an empty sequence if
// seq has zero or one elements.
func Rest(b *builder.Builder, r value.Reader, seq value.Value) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(seq, r)
	if len(items) == 0 {
		return b.SequenceOf(nil)
	}
	return b.SequenceOf(append([]value.Value(nil), items[1:]...))
}
