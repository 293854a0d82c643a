package builder

import (
	"encoding/binary"

	"github.com/willabides/fyvalue/value"
)

// Export is the result of ExportSingleArea: everything needed to write a
// cache file per spec §6.
type Export struct {
	// Bytes is the tag's full backing storage, offset 0 through len(Bytes).
	Bytes []byte
	// OriginalBase is the real virtual address Bytes was mapped at, 0 for
	// Go-heap-backed allocators with no stable address to later remap at.
	OriginalBase uint64
	// StartOffset is how many bytes at the head are reserved for the
	// caller's header.
	StartOffset uint64
	// Root is the value to record as the cache's root word.
	Root value.Value
}

// ExportSingleArea hands back a cache-writable view of b's tag storage,
// or ok=false if the underlying allocator doesn't expose one contiguous
// mapping (spec §4.J "single-area export").
func (b *Builder) ExportSingleArea(root value.Value) (Export, bool) {
	area, ok := b.alloc.GetSingleArea(b.tag)
	if !ok {
		return Export{}, false
	}
	return Export{
		Bytes:        area.Bytes,
		OriginalBase: area.Base,
		StartOffset:  area.StartOffset,
		Root:         root,
	}, true
}

// WriteHeader encodes the two/three-word cache preamble into the
// reserved head of buf: magic+version, then original_base_address, then
// root_value_word (spec §6 and DESIGN.md's Open Question decision to add
// a magic/version word ahead of the minimum two-word preamble).
func WriteHeader(buf []byte, magicVersion uint64, originalBase uint64, root value.Value) {
	binary.LittleEndian.PutUint64(buf[0:8], magicVersion)
	binary.LittleEndian.PutUint64(buf[8:16], originalBase)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(root))
}

// ReadHeader decodes the preamble WriteHeader wrote.
func ReadHeader(buf []byte) (magicVersion uint64, originalBase uint64, root value.Value) {
	magicVersion = binary.LittleEndian.Uint64(buf[0:8])
	originalBase = binary.LittleEndian.Uint64(buf[8:16])
	root = value.Value(binary.LittleEndian.Uint64(buf[16:24]))
	return
}

// CacheMagic identifies an fyvalue cache file; CacheVersion is bumped on
// incompatible layout changes.
const (
	CacheMagic   uint64 = 0x667976616c756501 // "fyvalue\x01"-ish, version folded in
	CacheVersion uint64 = 1
)

// EncodeMagicVersion packs CacheMagic's low 32 bits into the high 32 bits
// and CacheVersion into the low 32 bits, so a mismatched version is detectable without a second
// field.
func EncodeMagicVersion() uint64 {
	return uint64(uint32(CacheMagic))<<32 | CacheVersion
}

// DecodeMagicVersion reports whether word matches this build's expected
// magic, and the version it carries.
func DecodeMagicVersion(word uint64) (version uint32, ok bool) {
	gotMagic := uint32(word >> 32)
	wantMagic := uint32(CacheMagic)
	return uint32(word), gotMagic == wantMagic
}
