package alloc

import (
	"sync/atomic"
)

// reservedPrefix is the number of bytes every tag's logical address space
// starts with, never handed out by Alloc/Store. It keeps offset 0 (and any
// offset too small to satisfy 16-byte alignment) from ever being returned,
// so word 0 unambiguously decodes as value.Null. It's sized to double as
// the cache header's reserved region (spec §6: magic/version + two-word
// preamble, 8-byte aligned).
const reservedPrefix = 32

// Linear is a single monotonically growing buffer with a bump cursor and no
// per-object free (spec §4.D). It supports exactly one tag: every GetTag
// call returns the same TagID, matching the C original's single shared
// arena.
type Linear struct {
	buf    []byte
	cursor atomic.Uint64
	ready  atomic.Bool
}

// singleTag is the one TagID Linear ever issues.
const singleTag TagID = 0

// NewLinear creates a Linear allocator with a fresh buffer of the given
// capacity.
func NewLinear(capacity uint64) *Linear {
	return NewLinearBuffer(make([]byte, capacity))
}

// NewLinearBuffer creates a Linear allocator over a caller-supplied buffer,
// letting the caller control its lifetime (e.g. a file-backed mmap for
// cache reload).
func NewLinearBuffer(buf []byte) *Linear {
	l := &Linear{buf: buf}
	l.cursor.Store(reservedPrefix)
	return l
}

func (l *Linear) Name() string { return "linear" }

func (l *Linear) GetTag(TagConfig) (TagID, error) {
	l.ready.Store(true)
	return singleTag, nil
}

func (l *Linear) ReleaseTag(tag TagID) { l.ResetTag(tag) }

func (l *Linear) TrimTag(TagID) {} // nothing to compact: one arena, no tail slack to drop

func (l *Linear) ResetTag(tag TagID) {
	if tag != singleTag {
		return
	}
	l.cursor.Store(reservedPrefix)
}

func (l *Linear) Alloc(tag TagID, size, align uint64) (uint64, bool) {
	if tag != singleTag {
		return 0, false
	}
	for {
		cur := l.cursor.Load()
		aligned, ok := alignUp(cur, align)
		if !ok {
			return 0, false
		}
		end, ok := addOverflow(aligned, size)
		if !ok || end > uint64(len(l.buf)) {
			return 0, false
		}
		if l.cursor.CompareAndSwap(cur, end) {
			return aligned, true
		}
	}
}

func (l *Linear) Free(TagID, uint64) {} // no per-object free

func (l *Linear) Store(tag TagID, data []byte, align uint64) (uint64, bool) {
	off, ok := l.Alloc(tag, uint64(len(data)), align)
	if !ok {
		return 0, false
	}
	copy(l.buf[off:], data)
	return off, true
}

func (l *Linear) StoreV(tag TagID, iov [][]byte, align uint64) (uint64, bool) {
	var total uint64
	for _, b := range iov {
		var ok bool
		total, ok = addOverflow(total, uint64(len(b)))
		if !ok {
			return 0, false
		}
	}
	off, ok := l.Alloc(tag, total, align)
	if !ok {
		return 0, false
	}
	p := off
	for _, b := range iov {
		copy(l.buf[p:], b)
		p += uint64(len(b))
	}
	return off, true
}

func (l *Linear) Release(TagID, uint64, uint64) {} // Linear never reclaims individual stores

func (l *Linear) Contains(tag TagID, offset uint64) bool {
	if tag != singleTag {
		return false
	}
	return offset >= reservedPrefix && offset < l.cursor.Load()
}

func (l *Linear) GetInfo(tag TagID) Info {
	if tag != singleTag {
		return Info{}
	}
	used := l.cursor.Load()
	return Info{
		Used:  used,
		Free:  uint64(len(l.buf)) - used,
		Total: uint64(len(l.buf)),
		Arenas: []ArenaInfo{{
			Size: uint64(len(l.buf)),
			Used: used,
		}},
	}
}

func (l *Linear) GetSingleArea(tag TagID) (SingleArea, bool) {
	if tag != singleTag {
		return SingleArea{}, false
	}
	return SingleArea{
		Bytes:       l.buf,
		Base:        0, // Go-heap-backed: no stable original mapping address
		StartOffset: reservedPrefix,
	}, true
}

func (l *Linear) GetAreas(tag TagID) []Area {
	if tag != singleTag {
		return nil
	}
	return []Area{{Bytes: l.buf}}
}

func (l *Linear) Deref(tag TagID, offset uint64, n int) []byte {
	if tag != singleTag || offset >= uint64(len(l.buf)) {
		return nil
	}
	end := offset + uint64(n)
	if end > uint64(len(l.buf)) {
		end = uint64(len(l.buf))
	}
	return l.buf[offset:end]
}

func (l *Linear) Destroy() {
	l.buf = nil
}

func addOverflow(a, b uint64) (uint64, bool) {
	s := a + b
	if s < a {
		return 0, false
	}
	return s, true
}
