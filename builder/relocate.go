package builder

import (
	"encoding/binary"

	"github.com/willabides/fyvalue/value"
)

// Relocate walks every pointer-bearing word reachable from root within
// buf, rewriting each payload offset by delta in place, and returns root
// itself relocated (spec §6/§4.J: "relocate(base, end, v, delta)...
// idempotent under repeated calls with delta=0"). A visited set keyed by
// arena offset keeps shared subtrees (common under Dedup) from being
// rewritten more than once, which would double-apply delta.
func Relocate(buf []byte, root value.Value, delta int64) value.Value {
	visited := make(map[uint64]bool)
	return relocateWalk(buf, root, delta, visited)
}

func relocateWalk(buf []byte, v value.Value, delta int64, visited map[uint64]bool) value.Value {
	if value.IsInPlace(v) {
		return v
	}
	switch value.TypeOf(v) {
	case value.KindSequence:
		off, _ := value.ResolveCollectionPtr(v)
		relocateCollectionBody(buf, off, false, delta, visited)
	case value.KindMapping:
		off, _ := value.ResolveCollectionPtr(v)
		relocateCollectionBody(buf, off, true, delta, visited)
	case value.KindIndirect, value.KindAlias:
		off, ok := value.ResolvePtr(v)
		if ok {
			relocateIndirectBody(buf, off, delta, visited)
		}
	case value.KindInt, value.KindFloat, value.KindString:
		// Outline scalars carry no nested pointers; only their own
		// pointer (applied below) needs shifting.
	}
	return value.RelocatePtr(v, delta)
}

func relocateCollectionBody(buf []byte, off uint64, isMapping bool, delta int64, visited map[uint64]bool) {
	if visited[off] {
		return
	}
	visited[off] = true
	count := binary.LittleEndian.Uint64(buf[off : off+8])
	n := count
	if isMapping {
		n *= 2
	}
	for i := uint64(0); i < n; i++ {
		idx := off + 8 + i*8
		word := value.Value(binary.LittleEndian.Uint64(buf[idx : idx+8]))
		relocated := relocateWalk(buf, word, delta, visited)
		binary.LittleEndian.PutUint64(buf[idx:idx+8], uint64(relocated))
	}
}

// Indirect flag bits, mirrored from package value (unexported there).
const (
	indirectHasValue uint8 = 1 << iota
	indirectHasAnchor
	indirectHasTag
)

func relocateIndirectBody(buf []byte, off uint64, delta int64, visited map[uint64]bool) {
	if visited[off] {
		return
	}
	visited[off] = true
	flags := buf[off]
	idx := off + 8
	if flags&indirectHasValue != 0 {
		word := value.Value(binary.LittleEndian.Uint64(buf[idx : idx+8]))
		relocated := relocateWalk(buf, word, delta, visited)
		binary.LittleEndian.PutUint64(buf[idx:idx+8], uint64(relocated))
		idx += 8
	}
	if flags&indirectHasAnchor != 0 {
		word := value.Value(binary.LittleEndian.Uint64(buf[idx : idx+8]))
		relocated := relocateWalk(buf, word, delta, visited)
		binary.LittleEndian.PutUint64(buf[idx:idx+8], uint64(relocated))
		idx += 8
	}
	if flags&indirectHasTag != 0 {
		word := value.Value(binary.LittleEndian.Uint64(buf[idx : idx+8]))
		relocated := relocateWalk(buf, word, delta, visited)
		binary.LittleEndian.PutUint64(buf[idx:idx+8], uint64(relocated))
		idx += 8
	}
}
