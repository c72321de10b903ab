package pool

import (
	"cmp"
	"slices"
	"unsafe"

	"github.com/joshuapare/multiheap/internal/format"
)

// span is a run of free bytes inside the region, starting at a block boundary.
type span struct {
	off  int
	size int
}

// Stats holds allocation counters for one pool.
type Stats struct {
	Allocs    int // successful Alloc calls
	Frees     int // successful Free calls
	Live      int // blocks currently allocated
	InUse     int // bytes held by live blocks, headers included
	FreeBytes int // bytes available in free spans
	Spans     int // number of free spans (fragmentation indicator)
}

// Pool is a first-fit block allocator over one fixed region.
type Pool struct {
	region []byte
	base   uintptr

	// start and end bound the usable, BlockAlign-aligned part of region.
	start int
	end   int

	free  []span // sorted by off, never two adjacent spans
	stats Stats
}

// New creates a pool that owns the whole region. The region must stay valid
// for the lifetime of the pool.
func New(region []byte) (*Pool, error) {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(region)))

	// Skip leading bytes so that every block starts on a BlockAlign boundary.
	// Mapped regions are page aligned and need no skip.
	start := int(-base & format.BlockAlignMask)
	if len(region) < start+format.MinBlockSize {
		return nil, ErrTooSmall
	}
	end := start + (len(region)-start)&^format.BlockAlignMask

	return &Pool{
		region: region,
		base:   base,
		start:  start,
		end:    end,
		free:   []span{{off: start, size: end - start}},
	}, nil
}

// Alloc carves a block whose payload holds size bytes and stamps its header
// with owner. The returned pointer addresses the zeroed payload.
func (p *Pool) Alloc(owner int64, size int) (unsafe.Pointer, error) {
	need := format.BlockSize(size)
	if need < 0 {
		return nil, ErrNoSpace
	}

	for i, s := range p.free {
		if s.size < need {
			continue
		}

		off := s.off
		if rem := s.size - need; rem >= format.MinBlockSize {
			p.free[i] = span{off: off + need, size: rem}
		} else {
			// Too small to stand alone; the block absorbs it.
			need = s.size
			p.free = slices.Delete(p.free, i, i+1)
		}

		h := (*format.Header)(unsafe.Pointer(&p.region[off]))
		h.Magic = format.LiveMagic
		h.HeapID = owner
		h.Usable = uint64(max(size, 0))
		h.Span = uint64(need)
		clear(p.region[off+format.HeaderSize : off+need])

		p.stats.Allocs++
		p.stats.Live++
		p.stats.InUse += need

		return format.UserPointer(unsafe.Pointer(h)), nil
	}

	return nil, ErrNoSpace
}

// IsAlloc reports whether ptr is the user pointer of a live block in this pool.
func (p *Pool) IsAlloc(ptr unsafe.Pointer) bool {
	off, ok := p.blockOffset(ptr)
	if !ok {
		return false
	}
	h := (*format.Header)(unsafe.Pointer(&p.region[off]))
	return h.Valid() && h.Span >= uint64(format.MinBlockSize) && off+int(h.Span) <= p.end
}

// Free returns the block behind ptr to the pool.
func (p *Pool) Free(ptr unsafe.Pointer) error {
	if !p.IsAlloc(ptr) {
		return ErrBadPointer
	}
	off, _ := p.blockOffset(ptr)
	h := (*format.Header)(unsafe.Pointer(&p.region[off]))
	n := int(h.Span)
	h.Magic = format.FreedMagic

	p.insert(span{off: off, size: n})

	p.stats.Frees++
	p.stats.Live--
	p.stats.InUse -= n
	return nil
}

// Contains reports whether ptr falls anywhere inside the pool's region.
func (p *Pool) Contains(ptr unsafe.Pointer) bool {
	addr := uintptr(ptr)
	return addr >= p.base && addr < p.base+uintptr(len(p.region))
}

// Size returns the number of bytes in the region.
func (p *Pool) Size() int {
	return len(p.region)
}

// Base returns the address of the first byte of the region.
func (p *Pool) Base() uintptr {
	return p.base
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	st := p.stats
	st.Spans = len(p.free)
	for _, s := range p.free {
		st.FreeBytes += s.size
	}
	return st
}

// blockOffset maps a user pointer to the region offset of its block start.
func (p *Pool) blockOffset(ptr unsafe.Pointer) (int, bool) {
	addr := uintptr(ptr)
	lo := p.base + uintptr(p.start+format.HeaderSize)
	hi := p.base + uintptr(p.end)
	if addr < lo || addr >= hi {
		return 0, false
	}
	off := int(addr-p.base) - format.HeaderSize
	if (off-p.start)&format.BlockAlignMask != 0 {
		return 0, false
	}
	return off, true
}

// insert adds s to the free list, merging it with adjacent spans.
func (p *Pool) insert(s span) {
	i, _ := slices.BinarySearchFunc(p.free, s.off, func(f span, off int) int {
		return cmp.Compare(f.off, off)
	})

	mergePrev := i > 0 && p.free[i-1].off+p.free[i-1].size == s.off
	mergeNext := i < len(p.free) && s.off+s.size == p.free[i].off

	switch {
	case mergePrev && mergeNext:
		p.free[i-1].size += s.size + p.free[i].size
		p.free = slices.Delete(p.free, i, i+1)
	case mergePrev:
		p.free[i-1].size += s.size
	case mergeNext:
		p.free[i].off = s.off
		p.free[i].size += s.size
	default:
		p.free = slices.Insert(p.free, i, s)
	}
}
