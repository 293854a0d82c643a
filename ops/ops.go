// Package ops implements the pure functional operation engine (spec
// §4.K): every operation reads an input value.Value, builds a new one
// through a builder.Builder, and never mutates already-published data.
package ops

import (
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

// Insert returns a new sequence with items inserted before index at.
// at == Count(input) appends; a negative or out-of-range at is an error.
func Insert(b *builder.Builder, r value.Reader, input value.Value, at int, items []value.Value) value.Value {
	if value.TypeOf(input) != value.KindSequence {
		return value.Invalid
	}
	existing := value.Items(input, r)
	if at < 0 || at > len(existing) {
		return value.Invalid
	}
	out := make([]value.Value, 0, len(existing)+len(items))
	out = append(out, existing[:at]...)
	out = append(out, items...)
	out = append(out, existing[at:]...)
	return b.SequenceOf(out)
}

// Replace returns a new sequence with the element at idx replaced by
// items (items may expand or contract the sequence by any count).
func Replace(b *builder.Builder, r value.Reader, input value.Value, at int, items []value.Value) value.Value {
	if value.TypeOf(input) != value.KindSequence {
		return value.Invalid
	}
	existing := value.Items(input, r)
	if at < 0 || at >= len(existing) {
		return value.Invalid
	}
	out := make([]value.Value, 0, len(existing)-1+len(items))
	out = append(out, existing[:at]...)
	out = append(out, items...)
	out = append(out, existing[at+1:]...)
	return b.SequenceOf(out)
}

// Append returns input with items added at the end.
func Append(b *builder.Builder, r value.Reader, input value.Value, items []value.Value) value.Value {
	if value.TypeOf(input) != value.KindSequence {
		return value.Invalid
	}
	existing := value.Items(input, r)
	return Insert(b, r, input, len(existing), items)
}

// Concat concatenates sequences in order.
func Concat(b *builder.Builder, readers []value.Reader, collections []value.Value) value.Value {
	if len(collections) != len(readers) {
		return value.Invalid
	}
	var total int
	for i, c := range collections {
		if value.TypeOf(c) != value.KindSequence {
			return value.Invalid
		}
		total += len(value.Items(c, readers[i]))
	}
	out := make([]value.Value, 0, total)
	for i, c := range collections {
		out = append(out, value.Items(c, readers[i])...)
	}
	return b.SequenceOf(out)
}

// Reverse returns a new sequence with elements in reverse order.
func Reverse(b *builder.Builder, r value.Reader, input value.Value) value.Value {
	if value.TypeOf(input) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(input, r)
	out := make([]value.Value, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return b.SequenceOf(out)
}

// Assoc returns a new mapping with pairs (k,v,k,v,...) set, overwriting
// existing keys and appending new ones, preserving prior key order.
func Assoc(b *builder.Builder, r value.Reader, input value.Value, pairs []value.Value) value.Value {
	if value.TypeOf(input) != value.KindMapping || len(pairs)%2 != 0 {
		return value.Invalid
	}
	existing := value.Items(input, r)
	out := append([]value.Value(nil), existing...)
	for i := 0; i < len(pairs); i += 2 {
		out = setKey(b, r, out, pairs[i], pairs[i+1])
	}
	return b.MappingOf(out)
}

func setKey(b *builder.Builder, r value.Reader, pairs []value.Value, key, val value.Value) []value.Value {
	for i := 0; i < len(pairs); i += 2 {
		if builder.Compare(pairs[i], key, r, r) == 0 {
			pairs[i+1] = val
			return pairs
		}
	}
	return append(pairs, key, val)
}

// Disassoc returns a new mapping with the given keys removed.
func Disassoc(b *builder.Builder, r value.Reader, input value.Value, keys []value.Value) value.Value {
	if value.TypeOf(input) != value.KindMapping {
		return value.Invalid
	}
	existing := value.Items(input, r)
	out := make([]value.Value, 0, len(existing))
	for i := 0; i < len(existing); i += 2 {
		k, v := existing[i], existing[i+1]
		if containsValue(keys, k, r) {
			continue
		}
		out = append(out, k, v)
	}
	return b.MappingOf(out)
}

func containsValue(set []value.Value, v value.Value, r value.Reader) bool {
	for _, s := range set {
		if builder.Compare(s, v, r, r) == 0 {
			return true
		}
	}
	return false
}

// Keys returns a sequence of input's keys, in iteration order.
func Keys(b *builder.Builder, r value.Reader, input value.Value) value.Value {
	if value.TypeOf(input) != value.KindMapping {
		return value.Invalid
	}
	pairs := value.Items(input, r)
	out := make([]value.Value, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, pairs[i])
	}
	return b.SequenceOf(out)
}

// Values returns a sequence of input's values, in iteration order.
func Values(b *builder.Builder, r value.Reader, input value.Value) value.Value {
	if value.TypeOf(input) != value.KindMapping {
		return value.Invalid
	}
	pairs := value.Items(input, r)
	out := make([]value.Value, 0, len(pairs)/2)
	for i := 1; i < len(pairs); i += 2 {
		out = append(out, pairs[i])
	}
	return b.SequenceOf(out)
}

// PairItems returns a sequence of [key,value] two-element sequences.
func PairItems(b *builder.Builder, r value.Reader, input value.Value) value.Value {
	if value.TypeOf(input) != value.KindMapping {
		return value.Invalid
	}
	pairs := value.Items(input, r)
	out := make([]value.Value, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, b.SequenceOf([]value.Value{pairs[i], pairs[i+1]}))
	}
	return b.SequenceOf(out)
}

// Merge merges mappings left-to-right with later mappings' keys winning.
// The decoder's YAML 1.1 merge-key handling does not use it; it has its
// own resolveMergeEntries.
func Merge(b *builder.Builder, readers []value.Reader, mappings []value.Value) value.Value {
	if len(mappings) != len(readers) {
		return value.Invalid
	}
	var out []value.Value
	for i, m := range mappings {
		if value.TypeOf(m) != value.KindMapping {
			return value.Invalid
		}
		pairs := value.Items(m, readers[i])
		for j := 0; j < len(pairs); j += 2 {
			out = setKey(b, readers[i], out, pairs[j], pairs[j+1])
		}
	}
	return b.MappingOf(out)
}

// Contains reports whether mapping has key, or sequence contains an
// equal element.
func Contains(r value.Reader, container, needle value.Value) bool {
	switch value.TypeOf(container) {
	case value.KindMapping:
		pairs := value.Items(container, r)
		for i := 0; i < len(pairs); i += 2 {
			if builder.Compare(pairs[i], needle, r, r) == 0 {
				return true
			}
		}
	case value.KindSequence:
		for _, it := range value.Items(container, r) {
			if builder.Compare(it, needle, r, r) == 0 {
				return true
			}
		}
	}
	return false
}

// Get returns mapping[key] or sequence[index-as-int], or value.Invalid.
func Get(r value.Reader, container, key value.Value) value.Value {
	switch value.TypeOf(container) {
	case value.KindMapping:
		pairs := value.Items(container, r)
		for i := 0; i < len(pairs); i += 2 {
			if builder.Compare(pairs[i], key, r, r) == 0 {
				return pairs[i+1]
			}
		}
		return value.Invalid
	case value.KindSequence:
		if value.TypeOf(key) != value.KindInt {
			return value.Invalid
		}
		items := value.Items(container, r)
		idx := value.Int(key, r)
		if idx < 0 || int(idx) >= len(items) {
			return value.Invalid
		}
		return items[idx]
	default:
		return value.Invalid
	}
}

// GetAt is Get specialized for a plain int index into a sequence.
func GetAt(r value.Reader, seq value.Value, idx int) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(seq, r)
	if idx < 0 || idx >= len(items) {
		return value.Invalid
	}
	return items[idx]
}

// Set returns a copy of container with key/index rebound to val.
func Set(b *builder.Builder, r value.Reader, container, key, val value.Value) value.Value {
	switch value.TypeOf(container) {
	case value.KindMapping:
		return Assoc(b, r, container, []value.Value{key, val})
	case value.KindSequence:
		if value.TypeOf(key) != value.KindInt {
			return value.Invalid
		}
		return SetAt(b, r, container, int(value.Int(key, r)), val)
	default:
		return value.Invalid
	}
}

// SetAt returns a copy of seq with index idx rebound to val.
func SetAt(b *builder.Builder, r value.Reader, seq value.Value, idx int, val value.Value) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(seq, r)
	if idx < 0 || idx >= len(items) {
		return value.Invalid
	}
	out := append([]value.Value(nil), items...)
	out[idx] = val
	return b.SequenceOf(out)
}

// Unique filters consecutive-or-not duplicate elements of a sequence
// (first occurrence wins), per Compare equality.
func Unique(b *builder.Builder, r value.Reader, seq value.Value) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(seq, r)
	out := make([]value.Value, 0, len(items))
	for _, it := range items {
		if !containsValue(out, it, r) {
			out = append(out, it)
		}
	}
	return b.SequenceOf(out)
}
