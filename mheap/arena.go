package mheap

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/joshuapare/multiheap/internal/format"
	"github.com/joshuapare/multiheap/internal/mmfile"
	"github.com/joshuapare/multiheap/mheap/pool"
)

// Arena is one fixed-size region, obtained once and never resized, carved up
// by a single pool. Arenas are created by their heap on demand and live until
// the directory is closed.
type Arena struct {
	heap  *Heap // owner; used for linkage and notifications only
	index int   // position in heap.arenas

	region []byte
	base   uintptr
	unmap  func() error
	pool   *pool.Pool

	// occupancy counts live allocations carved from pool. An arena that drops
	// to zero stays in place.
	occupancy int
}

// newArena maps a region of size bytes, appends the arena to h and reports
// the growth to the directory observer.
func newArena(h *Heap, size int) *Arena {
	d := h.dir
	if size < d.cfg.DefaultPoolSize || !format.IsAligned(size, d.cfg.DefaultPoolSize) {
		fatalf(d.log, "grow", "heap %d: arena size %d is not a positive multiple of %d",
			h.id, size, d.cfg.DefaultPoolSize)
	}

	region, unmap, err := mmfile.MapAnon(size)
	if err != nil {
		fatalf(d.log, "grow", "%v", errors.Wrapf(err, "heap %d: map %d-byte region", h.id, size))
	}
	p, err := pool.New(region)
	if err != nil {
		_ = unmap()
		fatalf(d.log, "grow", "%v", errors.Wrapf(err, "heap %d: init pool", h.id))
	}

	a := &Arena{
		heap:   h,
		index:  len(h.arenas),
		region: region,
		base:   p.Base(),
		unmap:  unmap,
		pool:   p,
	}
	h.arenas = append(h.arenas, a)

	d.log.Debug("arena grown",
		"heap", h.id,
		"arena", a.index,
		"base", fmt.Sprintf("%#x", a.base),
		"size", size)
	d.obs.ArenaGrown(h.id, a.base, size)

	return a
}

// alloc returns a block of size bytes or nil when the pool is exhausted.
func (a *Arena) alloc(size int) unsafe.Pointer {
	ptr, err := a.pool.Alloc(int64(a.heap.id), size)
	if err != nil {
		return nil
	}
	a.occupancy++
	return ptr
}

// owns reports whether ptr is a live allocation of this arena.
func (a *Arena) owns(ptr unsafe.Pointer) bool {
	return a.pool.IsAlloc(ptr)
}

// free releases ptr, which must satisfy owns.
func (a *Arena) free(ptr unsafe.Pointer) {
	if err := a.pool.Free(ptr); err != nil {
		fatalf(a.heap.dir.log, "free", "heap %d arena %d: %v", a.heap.id, a.index, err)
	}
	a.occupancy--
}

// release unmaps the region. Base and Size keep reporting the old mapping.
func (a *Arena) release() error {
	a.pool = nil
	return a.unmap()
}

// Heap returns the heap the arena belongs to.
func (a *Arena) Heap() *Heap { return a.heap }

// Index returns the arena's position in its heap, in creation order.
func (a *Arena) Index() int { return a.index }

// Prev returns the arena created just before this one in the same heap, or nil.
func (a *Arena) Prev() *Arena {
	if a.index == 0 {
		return nil
	}
	return a.heap.arenas[a.index-1]
}

// Next returns the arena created just after this one in the same heap, or nil.
func (a *Arena) Next() *Arena {
	if a.index+1 >= len(a.heap.arenas) {
		return nil
	}
	return a.heap.arenas[a.index+1]
}

// Base returns the address of the arena's region.
func (a *Arena) Base() uintptr { return a.base }

// Size returns the size of the arena's region in bytes.
func (a *Arena) Size() int { return len(a.region) }

// Occupancy returns the number of live allocations in the arena.
func (a *Arena) Occupancy() int { return a.occupancy }

// Stats returns the counters of the arena's pool. It faults once the
// directory is closed.
func (a *Arena) Stats() pool.Stats {
	a.heap.dir.checkOpen("arena_stats")
	return a.pool.Stats()
}
