package alloc

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/willabides/fyvalue/idbitset"
)

// uintptrOf reports the real virtual address backing b, used only for
// diagnostics and the cache export's SingleArea.Base; never folded into a
// Value word (spec §9 strict-provenance note).
func uintptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// Arena flags (spec §4.F), held in one atomic word so growth races can be
// resolved with a CAS loop instead of a lock.
const (
	arenaFull uint32 = 1 << iota
	arenaGrowing
	arenaCantGrow
)

// MremapConfig tunes arena sizing and growth for a Mremap allocator.
type MremapConfig struct {
	PageSize           uint64
	MinArenaSize       uint64
	GrowRatio          float64
	BalloonRatio       float64
	EmptyFreeThreshold uint64
	BigAllocThreshold  uint64
}

// DefaultMremapConfig returns sane defaults grounded on common arena-growth
// heuristics (double until a ballast cap, 4 KiB pages).
func DefaultMremapConfig() MremapConfig {
	return MremapConfig{
		PageSize:           4096,
		MinArenaSize:       64 * 1024,
		GrowRatio:          2.0,
		BalloonRatio:       8.0,
		EmptyFreeThreshold: 4096,
		BigAllocThreshold:  1 << 20,
	}
}

type mremapArena struct {
	mapping     []byte
	base        uint64 // real virtual address of mapping[0]
	size        uint64
	logicalBase uint64 // offset in the tag's logical address space
	next        atomic.Uint64
	flags       atomic.Uint32
	arenaNext   *mremapArena
	big         bool
}

type mremapTag struct {
	mu        sync.Mutex // guards arena-list structure (append, replace tail)
	head      *mremapArena
	tail      *mremapArena
	logicalTop uint64
	live      bool
}

// Mremap grows arenas in place via mremap (MAP_PRIVATE anonymous mappings),
// falling back to a fresh appended arena when the kernel can't honor
// in-place growth, per spec §4.F and the §9 design note on mremap
// fallbacks.
type Mremap struct {
	cfg  MremapConfig
	mu   sync.Mutex
	ids  *idbitset.Set
	tags map[TagID]*mremapTag
}

const maxMremapTags = 4096

// NewMremap creates a Mremap allocator with the given configuration.
func NewMremap(cfg MremapConfig) *Mremap {
	return &Mremap{
		cfg:  cfg,
		ids:  idbitset.New(maxMremapTags),
		tags: make(map[TagID]*mremapTag),
	}
}

func (r *Mremap) Name() string { return "mremap" }

func (r *Mremap) GetTag(cfg TagConfig) (TagID, error) {
	id := r.ids.Alloc()
	if id < 0 {
		return ErrTag, ErrOutOfMemory
	}
	size := r.cfg.MinArenaSize
	if cfg.EstimatedMaxSize > size {
		size = cfg.EstimatedMaxSize
	}
	arena, err := r.newArena(size, reservedPrefix)
	if err != nil {
		r.ids.Free(id)
		return ErrTag, err
	}
	t := &mremapTag{head: arena, tail: arena, logicalTop: arena.logicalBase + arena.size, live: true}
	r.mu.Lock()
	r.tags[TagID(id)] = t
	r.mu.Unlock()
	return TagID(id), nil
}

// newArena mmaps a fresh anonymous arena of size bytes whose logical
// address space begins at logicalBase; its bump cursor starts at
// cursorStart (used to reserve the prefix on a tag's first arena).
func (r *Mremap) newArena(size, cursorStart uint64) (*mremapArena, error) {
	size, ok := alignUp(size, r.cfg.PageSize)
	if !ok || size == 0 {
		return nil, ErrSizeOverflow
	}
	mapping, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	a := &mremapArena{mapping: mapping, size: size}
	if len(mapping) > 0 {
		a.base = uint64(uintptrOf(mapping))
	}
	a.next.Store(cursorStart)
	return a, nil
}

func (r *Mremap) tag(id TagID) *mremapTag {
	r.mu.Lock()
	t := r.tags[id]
	r.mu.Unlock()
	if t == nil || !t.live {
		return nil
	}
	return t
}

func (r *Mremap) ReleaseTag(id TagID) {
	t := r.tag(id)
	if t == nil {
		return
	}
	t.mu.Lock()
	for a := t.head; a != nil; a = a.arenaNext {
		_ = unix.Munmap(a.mapping)
	}
	t.head, t.tail, t.live = nil, nil, false
	t.mu.Unlock()
	r.mu.Lock()
	delete(r.tags, id)
	r.mu.Unlock()
	r.ids.Free(int(id))
}

func (r *Mremap) TrimTag(id TagID) {
	t := r.tag(id)
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for a := t.head; a != nil; a = a.arenaNext {
		used := a.next.Load()
		if used >= a.logicalBase+a.size {
			continue
		}
		localUsed := used - a.logicalBase
		slack := a.size - localUsed
		if slack >= r.cfg.EmptyFreeThreshold && int(localUsed) < len(a.mapping) {
			_ = unix.Madvise(a.mapping[localUsed:], unix.MADV_DONTNEED)
		}
	}
}

func (r *Mremap) ResetTag(id TagID) {
	t := r.tag(id)
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	// Keep the first arena, drop the rest, and rewind its cursor — reuse
	// without unmapping, per spec §4.C's reset_tag contract.
	for a := t.head.arenaNext; a != nil; {
		next := a.arenaNext
		_ = unix.Munmap(a.mapping)
		a = next
	}
	t.head.arenaNext = nil
	t.head.next.Store(reservedPrefix)
	t.head.flags.Store(0)
	t.tail = t.head
	t.logicalTop = t.head.logicalBase + t.head.size
}

func (r *Mremap) Alloc(id TagID, size, align uint64) (uint64, bool) {
	t := r.tag(id)
	if t == nil {
		return 0, false
	}
	if size > r.cfg.BigAllocThreshold {
		return r.allocBig(t, size, align)
	}
	for {
		t.mu.Lock()
		arena := t.tail
		t.mu.Unlock()

		if off, ok := bumpArena(arena, size, align); ok {
			return off, true
		}
		if arena.flags.Load()&arenaFull != 0 {
			// Someone already replaced the tail (or is about to); loop.
			t.mu.Lock()
			stillTail := t.tail == arena
			t.mu.Unlock()
			if !stillTail {
				continue
			}
		}
		// Grow only the tail while nothing sits logically after it, and
		// move logicalTop with it so later arenas never overlap its range.
		t.mu.Lock()
		grown := t.tail == arena && t.logicalTop == arena.logicalBase+arena.size && r.growInPlace(arena)
		if grown {
			t.logicalTop = arena.logicalBase + arena.size
		}
		t.mu.Unlock()
		if grown {
			continue // retry the bump against the grown arena
		}
		if !r.replaceTail(t, arena, size) {
			return 0, false
		}
	}
}

// bumpArena attempts a lock-free bump within arena via CAS, spinning with a
// scheduler yield as the CPU-relax hint spec §4.F calls for.
func bumpArena(arena *mremapArena, size, align uint64) (uint64, bool) {
	for {
		cur := arena.next.Load()
		local := cur - arena.logicalBase
		alignedLocal, ok := alignUp(local, align)
		if !ok {
			return 0, false
		}
		end, ok := addOverflow(alignedLocal, size)
		if !ok || end > arena.size {
			return 0, false
		}
		newCur := arena.logicalBase + end
		if arena.next.CompareAndSwap(cur, newCur) {
			return arena.logicalBase + alignedLocal, true
		}
		runtime.Gosched()
	}
}

// growInPlace mremaps arena to GrowRatio times its size without moving it. Exactly
// one goroutine performs the growth at a time (arenaGrowing flag); others
// spin until it completes or fails.
func (r *Mremap) growInPlace(arena *mremapArena) bool {
	if arena.big {
		return false
	}
	if !arena.flags.CompareAndSwap(0, arenaGrowing) {
		for arena.flags.Load() == arenaGrowing {
			runtime.Gosched()
		}
		return arena.flags.Load() == 0 // someone else grew it successfully
	}
	newSize, ok := alignUp(uint64(float64(arena.size)*r.cfg.GrowRatio), r.cfg.PageSize)
	if !ok {
		arena.flags.Store(arenaCantGrow)
		return false
	}
	// No MREMAP_MAYMOVE: a growth that can't be satisfied in place fails
	// outright instead of relocating, so arena.base stays a stable address
	// for as long as the arena lives.
	grown, err := unix.Mremap(arena.mapping, int(newSize), 0)
	if err != nil {
		// Fall back: the kernel refused in-place growth; the caller
		// appends a fresh arena instead (spec §9 mremap fallback).
		arena.flags.Store(arenaCantGrow)
		return false
	}
	arena.mapping = grown
	arena.size = newSize
	arena.flags.Store(0)
	return true
}

// replaceTail appends a fresh arena sized between MinArenaSize and the
// balloon cap, becoming the new growth target.
func (r *Mremap) replaceTail(t *mremapTag, full *mremapArena, minSize uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tail != full {
		return true // someone else already replaced it
	}
	full.flags.Store(arenaFull)

	size := uint64(float64(full.size) * r.cfg.GrowRatio)
	if size < r.cfg.MinArenaSize {
		size = r.cfg.MinArenaSize
	}
	if ballast := uint64(float64(full.size) * r.cfg.BalloonRatio); size > ballast {
		size = ballast
	}
	if size < minSize {
		size = minSize
	}
	arena, err := r.newArena(size, 0)
	if err != nil {
		return false
	}
	arena.logicalBase = t.logicalTop
	arena.next.Store(arena.logicalBase)
	t.logicalTop += arena.size
	arena.arenaNext = full.arenaNext // keep any big arenas linked after the old tail
	full.arenaNext = arena
	t.tail = arena
	return true
}

// allocBig bypasses arenas entirely: a dedicated mapping, linked in as its
// own always-Full, never-growing arena (spec §4.F "big allocations bypass
// arenas").
func (r *Mremap) allocBig(t *mremapTag, size, align uint64) (uint64, bool) {
	aligned, ok := alignUp(size, align)
	if !ok {
		return 0, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	arena, err := r.newArena(aligned, 0)
	if err != nil {
		return 0, false
	}
	arena.big = true
	arena.flags.Store(arenaFull | arenaCantGrow)
	arena.logicalBase = t.logicalTop
	arena.next.Store(arena.logicalBase + aligned)
	t.logicalTop += arena.size
	arena.arenaNext = t.tail.arenaNext
	t.tail.arenaNext = arena
	// tail remains the prior growth target; big arenas never receive
	// further bumps.
	return arena.logicalBase, true
}

func (r *Mremap) Free(TagID, uint64) {} // bump arenas have no per-object free

func (r *Mremap) Store(id TagID, data []byte, align uint64) (uint64, bool) {
	off, ok := r.Alloc(id, uint64(len(data)), align)
	if !ok {
		return 0, false
	}
	copy(r.derefInternal(id, off, len(data)), data)
	return off, true
}

func (r *Mremap) StoreV(id TagID, iov [][]byte, align uint64) (uint64, bool) {
	var total uint64
	for _, b := range iov {
		var ok bool
		total, ok = addOverflow(total, uint64(len(b)))
		if !ok {
			return 0, false
		}
	}
	off, ok := r.Alloc(id, total, align)
	if !ok {
		return 0, false
	}
	dst := r.derefInternal(id, off, int(total))
	p := 0
	for _, chunk := range iov {
		p += copy(dst[p:], chunk)
	}
	return off, true
}

func (r *Mremap) Release(TagID, uint64, uint64) {}

func (r *Mremap) findArena(t *mremapTag, offset uint64) *mremapArena {
	t.mu.Lock()
	defer t.mu.Unlock()
	for a := t.head; a != nil; a = a.arenaNext {
		if offset >= a.logicalBase && offset < a.logicalBase+a.size {
			return a
		}
	}
	return nil
}

func (r *Mremap) Contains(id TagID, offset uint64) bool {
	t := r.tag(id)
	if t == nil {
		return false
	}
	return r.findArena(t, offset) != nil
}

func (r *Mremap) derefInternal(id TagID, offset uint64, n int) []byte {
	t := r.tag(id)
	if t == nil {
		return nil
	}
	a := r.findArena(t, offset)
	if a == nil {
		return nil
	}
	local := int(offset - a.logicalBase)
	end := local + n
	if end > len(a.mapping) {
		end = len(a.mapping)
	}
	return a.mapping[local:end]
}

func (r *Mremap) Deref(id TagID, offset uint64, n int) []byte {
	return r.derefInternal(id, offset, n)
}

func (r *Mremap) GetInfo(id TagID) Info {
	t := r.tag(id)
	if t == nil {
		return Info{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var info Info
	for a := t.head; a != nil; a = a.arenaNext {
		used := a.next.Load() - a.logicalBase
		info.Arenas = append(info.Arenas, ArenaInfo{Size: a.size, Used: used})
		info.Used += used
		info.Total += a.size
	}
	info.Free = info.Total - info.Used
	return info
}

func (r *Mremap) GetSingleArea(id TagID) (SingleArea, bool) {
	t := r.tag(id)
	if t == nil {
		return SingleArea{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.head == nil || t.head.arenaNext != nil {
		return SingleArea{}, false // only a single-arena tag is one contiguous mapping
	}
	return SingleArea{
		Bytes:       t.head.mapping,
		Base:        t.head.base,
		StartOffset: reservedPrefix,
	}, true
}

func (r *Mremap) GetAreas(id TagID) []Area {
	t := r.tag(id)
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Area
	for a := t.head; a != nil; a = a.arenaNext {
		out = append(out, Area{Bytes: a.mapping})
	}
	return out
}

func (r *Mremap) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tags {
		for a := t.head; a != nil; a = a.arenaNext {
			_ = unix.Munmap(a.mapping)
		}
		delete(r.tags, id)
	}
}
