package alloc

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/willabides/fyvalue/idbitset"
)

// maxMallocTags bounds the number of concurrently live tags an allocator
// instance tracks, per spec §4.E.
const maxMallocTags = 32

// spinlock is a test-and-set lock, matching the tag-local spinlock spec
// §4.E calls for instead of a blocking mutex.
type spinlock struct {
	locked atomic.Bool
}

func (s *spinlock) Lock() {
	for !s.locked.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (s *spinlock) Unlock() {
	s.locked.Store(false)
}

// mallocBlock is one heap-backed allocation, linked into its tag's list.
type mallocBlock struct {
	base  uint64
	bytes []byte
	next  *mallocBlock
}

// mallocTag owns a linked list of live blocks, protected by a spinlock.
type mallocTag struct {
	lock   spinlock
	head   *mallocBlock
	cursor uint64 // next synthetic base to hand out
	used   uint64
	live   bool
}

// Malloc implements per-object alloc/free over the Go heap, tracking
// outstanding blocks per tag (spec §4.E).
type Malloc struct {
	mu   sync.Mutex
	ids  *idbitset.Set
	tags [maxMallocTags]*mallocTag
}

// NewMalloc creates a Malloc allocator able to hold up to maxMallocTags
// concurrent tags.
func NewMalloc() *Malloc {
	return &Malloc{ids: idbitset.New(maxMallocTags)}
}

func (m *Malloc) Name() string { return "malloc" }

func (m *Malloc) GetTag(TagConfig) (TagID, error) {
	id := m.ids.Alloc()
	if id < 0 {
		return ErrTag, ErrOutOfMemory
	}
	m.mu.Lock()
	m.tags[id] = &mallocTag{cursor: reservedPrefix, live: true}
	m.mu.Unlock()
	return TagID(id), nil
}

func (m *Malloc) tag(id TagID) *mallocTag {
	if id < 0 || int(id) >= maxMallocTags {
		return nil
	}
	m.mu.Lock()
	t := m.tags[id]
	m.mu.Unlock()
	if t == nil || !t.live {
		return nil
	}
	return t
}

func (m *Malloc) ReleaseTag(id TagID) {
	t := m.tag(id)
	if t == nil {
		return
	}
	t.lock.Lock()
	t.head = nil
	t.used = 0
	t.live = false
	t.lock.Unlock()
	m.mu.Lock()
	m.tags[id] = nil
	m.mu.Unlock()
	m.ids.Free(int(id))
}

func (m *Malloc) TrimTag(TagID) {} // blocks are exactly their requested size; nothing to compact

func (m *Malloc) ResetTag(id TagID) {
	t := m.tag(id)
	if t == nil {
		return
	}
	t.lock.Lock()
	t.head = nil
	t.used = 0
	t.cursor = reservedPrefix
	t.lock.Unlock()
}

func (m *Malloc) Alloc(id TagID, size, align uint64) (uint64, bool) {
	t := m.tag(id)
	if t == nil {
		return 0, false
	}
	aligned, ok := alignUp(size, align)
	if !ok {
		return 0, false
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	base, ok := alignUp(t.cursor, align)
	if !ok {
		return 0, false
	}
	next, ok := addOverflow(base, aligned)
	if !ok {
		return 0, false
	}
	blk := &mallocBlock{base: base, bytes: make([]byte, size), next: t.head}
	t.head = blk
	t.cursor = next
	t.used += size
	return base, true
}

func (m *Malloc) Free(id TagID, offset uint64) {
	t := m.tag(id)
	if t == nil {
		return
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	var prev *mallocBlock
	for b := t.head; b != nil; b = b.next {
		if b.base == offset {
			if prev == nil {
				t.head = b.next
			} else {
				prev.next = b.next
			}
			t.used -= uint64(len(b.bytes))
			return
		}
		prev = b
	}
}

func (m *Malloc) Store(id TagID, data []byte, align uint64) (uint64, bool) {
	off, ok := m.Alloc(id, uint64(len(data)), align)
	if !ok {
		return 0, false
	}
	b := m.findBlock(id, off)
	copy(b.bytes, data)
	return off, true
}

func (m *Malloc) StoreV(id TagID, iov [][]byte, align uint64) (uint64, bool) {
	var total uint64
	for _, b := range iov {
		var ok bool
		total, ok = addOverflow(total, uint64(len(b)))
		if !ok {
			return 0, false
		}
	}
	off, ok := m.Alloc(id, total, align)
	if !ok {
		return 0, false
	}
	b := m.findBlock(id, off)
	p := 0
	for _, chunk := range iov {
		p += copy(b.bytes[p:], chunk)
	}
	return off, true
}

func (m *Malloc) Release(TagID, uint64, uint64) {} // Malloc has no internment refcounts

func (m *Malloc) findBlock(id TagID, offset uint64) *mallocBlock {
	t := m.tag(id)
	if t == nil {
		return nil
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	for b := t.head; b != nil; b = b.next {
		if b.base == offset {
			return b
		}
	}
	return nil
}

func (m *Malloc) Contains(id TagID, offset uint64) bool {
	return m.findBlock(id, offset) != nil
}

func (m *Malloc) GetInfo(id TagID) Info {
	t := m.tag(id)
	if t == nil {
		return Info{}
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	var arenas []ArenaInfo
	for b := t.head; b != nil; b = b.next {
		arenas = append(arenas, ArenaInfo{Size: uint64(len(b.bytes)), Used: uint64(len(b.bytes))})
	}
	return Info{Used: t.used, Total: t.used, Arenas: arenas}
}

func (m *Malloc) GetSingleArea(TagID) (SingleArea, bool) {
	return SingleArea{}, false // scattered heap blocks are never one contiguous mapping
}

func (m *Malloc) GetAreas(id TagID) []Area {
	t := m.tag(id)
	if t == nil {
		return nil
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	var out []Area
	for b := t.head; b != nil; b = b.next {
		out = append(out, Area{Bytes: b.bytes})
	}
	return out
}

func (m *Malloc) Deref(id TagID, offset uint64, n int) []byte {
	b := m.findBlock(id, offset)
	if b == nil {
		return nil
	}
	if n > len(b.bytes) {
		n = len(b.bytes)
	}
	return b.bytes[:n]
}

func (m *Malloc) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tags {
		m.tags[i] = nil
	}
}
