package alloc

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// DedupConfig tunes the interning table's growth.
type DedupConfig struct {
	// InitialBuckets is the starting hash-table size (rounded up to a power
	// of two).
	InitialBuckets uint64
	// MaxChainLength triggers a table rebuild into double the buckets once
	// any chain grows past it.
	MaxChainLength int
}

// DefaultDedupConfig returns sane defaults.
func DefaultDedupConfig() DedupConfig {
	return DedupConfig{InitialBuckets: 256, MaxChainLength: 8}
}

type dedupEntry struct {
	hash   uint64
	offset uint64
	size   uint64
	refs   atomic.Int64
	next   *dedupEntry
}

type dedupTable struct {
	buckets []*dedupEntry
}

type dedupTag struct {
	mu        sync.Mutex
	table     *dedupTable
	entries   int
	cfg       DedupConfig
	parentTag TagID
}

// Dedup interns equal byte payloads to the same arena offset, layered over
// a parent Allocator (spec §4.G). Content identity is xxHash64, with the
// full payload compared on hash match to rule out collisions; entries are
// refcounted so a final Release can free the parent storage.
type Dedup struct {
	parent Allocator
	cfg    DedupConfig
	mu     sync.Mutex
	tags   map[TagID]*dedupTag
	nextID int32
}

// NewDedup wraps parent with content-addressed interning.
func NewDedup(parent Allocator, cfg DedupConfig) *Dedup {
	return &Dedup{parent: parent, cfg: cfg, tags: make(map[TagID]*dedupTag)}
}

func (d *Dedup) Name() string { return "dedup" }

func newDedupTable(buckets uint64) *dedupTable {
	if buckets == 0 {
		buckets = 1
	}
	return &dedupTable{buckets: make([]*dedupEntry, nextPow2(buckets))}
}

func nextPow2(v uint64) uint64 {
	p := uint64(1)
	for p < v {
		p <<= 1
	}
	return p
}

func (d *Dedup) GetTag(cfg TagConfig) (TagID, error) {
	parentTag, err := d.parent.GetTag(cfg)
	if err != nil {
		return ErrTag, err
	}
	buckets := d.cfg.InitialBuckets
	if buckets == 0 {
		buckets = DefaultDedupConfig().InitialBuckets
	}
	d.mu.Lock()
	id := TagID(d.nextID)
	d.nextID++
	d.tags[id] = &dedupTag{table: newDedupTable(buckets), cfg: d.cfg, parentTag: parentTag}
	d.mu.Unlock()
	return id, nil
}

func (d *Dedup) tag(id TagID) *dedupTag {
	d.mu.Lock()
	t := d.tags[id]
	d.mu.Unlock()
	return t
}

func (d *Dedup) ReleaseTag(id TagID) {
	t := d.tag(id)
	if t == nil {
		return
	}
	d.parent.ReleaseTag(t.parentTag)
	d.mu.Lock()
	delete(d.tags, id)
	d.mu.Unlock()
}

func (d *Dedup) TrimTag(id TagID) {
	if t := d.tag(id); t != nil {
		d.parent.TrimTag(t.parentTag)
	}
}

func (d *Dedup) ResetTag(id TagID) {
	t := d.tag(id)
	if t == nil {
		return
	}
	t.mu.Lock()
	t.table = newDedupTable(d.cfg.InitialBuckets)
	t.entries = 0
	t.mu.Unlock()
	d.parent.ResetTag(t.parentTag)
}

// Alloc bypasses interning — content identity requires Store's data.
func (d *Dedup) Alloc(id TagID, size, align uint64) (uint64, bool) {
	t := d.tag(id)
	if t == nil {
		return 0, false
	}
	return d.parent.Alloc(t.parentTag, size, align)
}

func (d *Dedup) Free(id TagID, offset uint64) {
	if t := d.tag(id); t != nil {
		d.parent.Free(t.parentTag, offset)
	}
}

// Store interns data: an existing entry with an equal hash and equal bytes
// has its refcount bumped and its offset returned; otherwise the payload is
// stored in the parent allocator and a new entry is linked into its
// bucket's chain, triggering a rebuild if the chain has grown too long.
func (d *Dedup) Store(id TagID, data []byte, align uint64) (uint64, bool) {
	t := d.tag(id)
	if t == nil {
		return 0, false
	}
	h := xxhash.Sum64(data)

	t.mu.Lock()
	bucket := h & uint64(len(t.table.buckets)-1)
	chainLen := 0
	for e := t.table.buckets[bucket]; e != nil; e = e.next {
		chainLen++
		if e.hash == h && d.bytesEqual(t, e, data) {
			e.refs.Add(1)
			t.mu.Unlock()
			return e.offset, true
		}
	}
	t.mu.Unlock()

	off, ok := d.parent.Store(t.parentTag, data, align)
	if !ok {
		return 0, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	bucket = h & uint64(len(t.table.buckets)-1)
	entry := &dedupEntry{hash: h, offset: off, size: uint64(len(data)), next: t.table.buckets[bucket]}
	entry.refs.Store(1)
	t.table.buckets[bucket] = entry
	t.entries++
	if chainLen+1 > t.cfg.MaxChainLength {
		d.rebuild(t)
	}
	return off, true
}

func (d *Dedup) bytesEqual(t *dedupTag, e *dedupEntry, data []byte) bool {
	if e.size != uint64(len(data)) {
		return false
	}
	existing := d.parent.Deref(t.parentTag, e.offset, int(e.size))
	if len(existing) != len(data) {
		return false
	}
	for i := range data {
		if existing[i] != data[i] {
			return false
		}
	}
	return true
}

// rebuild doubles the bucket count and relinks every live entry, called
// with t.mu held.
func (d *Dedup) rebuild(t *dedupTag) {
	grown := newDedupTable(uint64(len(t.table.buckets)) * 2)
	for _, head := range t.table.buckets {
		for e := head; e != nil; {
			next := e.next
			b := e.hash & uint64(len(grown.buckets)-1)
			e.next = grown.buckets[b]
			grown.buckets[b] = e
			e = next
		}
	}
	t.table = grown
}

func (d *Dedup) StoreV(id TagID, iov [][]byte, align uint64) (uint64, bool) {
	var total int
	for _, b := range iov {
		total += len(b)
	}
	flat := make([]byte, 0, total)
	for _, b := range iov {
		flat = append(flat, b...)
	}
	return d.Store(id, flat, align)
}

// Release decrements an entry's refcount, freeing its parent storage only
// once no interned reference remains.
func (d *Dedup) Release(id TagID, offset uint64, size uint64) {
	t := d.tag(id)
	if t == nil {
		return
	}
	t.mu.Lock()
	var found *dedupEntry
	var prev *dedupEntry
	var bucket uint64
	for i, head := range t.table.buckets {
		for e, p := head, (*dedupEntry)(nil); e != nil; e = e.next {
			if e.offset == offset {
				found, prev, bucket = e, p, uint64(i)
				break
			}
			p = e
		}
		if found != nil {
			break
		}
	}
	if found == nil {
		t.mu.Unlock()
		d.parent.Free(t.parentTag, offset)
		return
	}
	remaining := found.refs.Add(-1)
	if remaining > 0 {
		t.mu.Unlock()
		return
	}
	if prev == nil {
		t.table.buckets[bucket] = found.next
	} else {
		prev.next = found.next
	}
	t.entries--
	t.mu.Unlock()
	// The entry is gone from the table; actually reclaim the parent's
	// storage now that no interned reference remains. Free, not Release —
	// the parent allocator (Malloc/Mremap) has no refcounts of its own.
	d.parent.Free(t.parentTag, offset)
}

func (d *Dedup) Contains(id TagID, offset uint64) bool {
	t := d.tag(id)
	if t == nil {
		return false
	}
	return d.parent.Contains(t.parentTag, offset)
}

func (d *Dedup) GetInfo(id TagID) Info {
	t := d.tag(id)
	if t == nil {
		return Info{}
	}
	return d.parent.GetInfo(t.parentTag)
}

func (d *Dedup) GetSingleArea(id TagID) (SingleArea, bool) {
	t := d.tag(id)
	if t == nil {
		return SingleArea{}, false
	}
	return d.parent.GetSingleArea(t.parentTag)
}

func (d *Dedup) GetAreas(id TagID) []Area {
	t := d.tag(id)
	if t == nil {
		return nil
	}
	return d.parent.GetAreas(t.parentTag)
}

func (d *Dedup) Deref(id TagID, offset uint64, n int) []byte {
	t := d.tag(id)
	if t == nil {
		return nil
	}
	return d.parent.Deref(t.parentTag, offset, n)
}

func (d *Dedup) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tags = make(map[TagID]*dedupTag)
	d.parent.Destroy()
}
