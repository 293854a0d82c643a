// Package builder implements the generic value builder (spec §4.J): a
// Builder pairs an alloc.Allocator with one alloc.TagID and a Schema,
// exposing the creation primitives that turn Go values and wire-format
// text into value.Value words, plus internment, internalization, deep
// copy, comparison, and single-area export/relocation for caching.
package builder

import (
	"github.com/willabides/fyvalue/alloc"
	"github.com/willabides/fyvalue/value"
)

// Builder creates and reads values scoped to one allocator tag. All
// storage it creates belongs to that tag; releasing the tag frees
// everything the builder ever wrote at once.
type Builder struct {
	alloc  alloc.Allocator
	tag    alloc.TagID
	schema Schema
	// intern controls whether Store paths route through the allocator's
	// interning (Dedup); callers on a known-canonical hot path can disable
	// it per spec §4.J's "bypass internment checks" escape hatch.
	intern bool
}

// New creates a Builder over an existing tag.
func New(a alloc.Allocator, tag alloc.TagID, schema Schema) *Builder {
	return &Builder{alloc: a, tag: tag, schema: schema, intern: true}
}

// NewWithTag creates a tag on a and returns a Builder over it.
func NewWithTag(a alloc.Allocator, cfg alloc.TagConfig, schema Schema) (*Builder, error) {
	tag, err := a.GetTag(cfg)
	if err != nil {
		return nil, err
	}
	return New(a, tag, schema), nil
}

// SetIntern toggles internment for subsequent Store calls.
func (b *Builder) SetIntern(intern bool) { b.intern = intern }

// Tag returns the builder's alloc tag.
func (b *Builder) Tag() alloc.TagID { return b.tag }

// Schema returns the builder's scalar-from-text schema.
func (b *Builder) Schema() Schema { return b.schema }

// Reader returns a value.Reader bound to this builder's (allocator, tag),
// for resolving any out-of-place word it produced.
func (b *Builder) Reader() value.Reader {
	return func(offset uint64, n int) []byte {
		return b.alloc.Deref(b.tag, offset, n)
	}
}

func (b *Builder) store(data []byte, align uint64) (uint64, bool) {
	if b.intern {
		return b.alloc.Store(b.tag, data, align)
	}
	return b.alloc.Alloc(b.tag, uint64(len(data)), align)
}

// Contains reports whether offset already lies inside this builder's
// arena, used by Internalize to short-circuit values that need no copy.
func (b *Builder) Contains(offset uint64) bool {
	return b.alloc.Contains(b.tag, offset)
}

// NullOf returns the null word; never allocates.
func (b *Builder) NullOf() value.Value { return value.Null }

// BoolOf returns the in-place bool word; never allocates.
func (b *Builder) BoolOf(v bool) value.Value { return value.BoolOf(v) }

// IntOf packs i in place when it fits 61 bits, otherwise stores an 8-byte
// word. Returns value.Invalid on allocator OOM.
func (b *Builder) IntOf(i int64) value.Value {
	if value.Fits61(i) {
		return value.IntInlineOf(i)
	}
	off, ok := b.storeWithAlign(value.EncodeOutlineInt(i), 8)
	if !ok {
		return value.Invalid
	}
	return value.OutlineIntPtr(off)
}

// FloatOf packs d in place when it round-trips exactly through float32,
// otherwise stores a full 8-byte double.
func (b *Builder) FloatOf(d float64) value.Value {
	if value.FitsFloat32(d) {
		return value.FloatInlineOf(float32(d))
	}
	off, ok := b.storeWithAlign(value.EncodeOutlineFloat(d), 8)
	if !ok {
		return value.Invalid
	}
	return value.OutlineFloatPtr(off)
}

// StringOf packs b in place when len(b) <= 7, otherwise stores
// varint(length) || bytes || 0x00.
func (b *Builder) StringOf(data []byte) value.Value {
	if len(data) <= value.MaxInlineStringLen() {
		return value.StringInlineOf(data)
	}
	off, ok := b.storeWithAlign(value.EncodeOutlineString(data), 8)
	if !ok {
		return value.Invalid
	}
	return value.OutlineStringPtr(off)
}

// storeWithAlign routes a scalar/indirect payload through Store unless
// internment is disabled, in which case Alloc+manual copy is used (Alloc
// never interns).
func (b *Builder) storeWithAlign(data []byte, align uint64) (uint64, bool) {
	if b.intern {
		return b.alloc.Store(b.tag, data, align)
	}
	off, ok := b.alloc.Alloc(b.tag, uint64(len(data)), align)
	if !ok {
		return 0, false
	}
	copy(b.alloc.Deref(b.tag, off, len(data)), data)
	return off, true
}

// SequenceOf writes a sequence header plus items, 16-byte aligned.
func (b *Builder) SequenceOf(items []value.Value) value.Value {
	off, ok := b.storeCollection(value.EncodeCollectionBody(items))
	if !ok {
		return value.Invalid
	}
	return value.SequencePtr(off)
}

// MappingOf writes a mapping header plus interleaved key/value pairs,
// 16-byte aligned. pairs must have even length.
func (b *Builder) MappingOf(pairs []value.Value) value.Value {
	if len(pairs)%2 != 0 {
		return value.Invalid
	}
	off, ok := b.storeCollection(value.EncodeMappingBody(pairs))
	if !ok {
		return value.Invalid
	}
	return value.MappingPtr(off)
}

func (b *Builder) storeCollection(body []byte) (uint64, bool) {
	// Interning of the collection body is controlled by b.intern the same
	// as any other store: under a Dedup-backed allocator, structurally
	// equal sequences/mappings built with intern on collapse to the same
	// pointer (spec §8 scenario 3). The 16-byte alignment for these
	// pointers is enforced by Alloc/Store's align argument either way.
	if b.intern {
		return b.alloc.Store(b.tag, body, 16)
	}
	off, ok := b.alloc.Alloc(b.tag, uint64(len(body)), 16)
	if !ok {
		return 0, false
	}
	copy(b.alloc.Deref(b.tag, off, len(body)), body)
	return off, true
}

// IndirectOf writes an indirect record. hasValue/hasAnchor/hasTag select
// which optional fields are present; absent fields are omitted from the
// encoded body, not merely zeroed.
func (b *Builder) IndirectOf(val value.Value, hasValue bool, anchor value.Value, hasAnchor bool, tag value.Value, hasTag bool, scalarStyle uint8, flow bool) value.Value {
	body := value.EncodeIndirectRecord(val, hasValue, anchor, hasAnchor, tag, hasTag, scalarStyle, flow)
	off, ok := b.storeWithAlign(body, 8)
	if !ok {
		return value.Invalid
	}
	return value.IndirectPtr(off)
}

// AliasOf writes an indirect record with no wrapped value: an unresolved
// or resolved-later back-reference to anchor.
func (b *Builder) AliasOf(anchor value.Value) value.Value {
	return b.IndirectOf(value.Value(0), false, anchor, true, value.Value(0), false, 0, false)
}
