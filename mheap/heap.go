package mheap

import "unsafe"

// maxAllocAttempts bounds heap malloc: one pass over the existing arenas, and
// one more after a single growth.
const maxAllocAttempts = 2

// Heap is one logical allocation domain: an ordered list of arenas that only
// ever grows.
type Heap struct {
	id     ID
	dir    *Directory
	arenas []*Arena // creation order
}

func newHeap(d *Directory, id ID) *Heap {
	return &Heap{id: id, dir: d}
}

// malloc returns the first block any arena can provide, growing the heap by
// one arena sized for the request when none can.
func (h *Heap) malloc(size int) unsafe.Pointer {
	for attempt := 1; ; attempt++ {
		for _, a := range h.arenas {
			if ptr := a.alloc(size); ptr != nil {
				return ptr
			}
		}
		if attempt == maxAllocAttempts {
			fatalf(h.dir.log, "malloc", "heap %d: %d-byte request failed after growth", h.id, size)
		}
		h.grow(size)
	}
}

// grow appends an arena large enough to hold a size-byte allocation.
func (h *Heap) grow(size int) *Arena {
	return newArena(h, h.dir.cfg.ArenaSize(size))
}

// free returns ptr to the arena that owns it. ptr must belong to this heap.
func (h *Heap) free(ptr unsafe.Pointer) {
	for _, a := range h.arenas {
		if a.owns(ptr) {
			a.free(ptr)
			return
		}
	}
	fatalf(h.dir.log, "free", "heap %d: pointer %p is not tracked by any of its %d arenas",
		h.id, ptr, len(h.arenas))
}

// ID returns the heap's identifier.
func (h *Heap) ID() ID { return h.id }

// Arenas returns the heap's arenas in creation order.
func (h *Heap) Arenas() []*Arena {
	out := make([]*Arena, len(h.arenas))
	copy(out, h.arenas)
	return out
}

// HeapStats summarizes one heap.
type HeapStats struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Arenas      int    `json:"arenas"`
	MappedBytes int    `json:"mapped_bytes"`
	Live        int    `json:"live"`
	InUse       int    `json:"in_use_bytes"`
	FreeBytes   int    `json:"free_bytes"`
}

// Stats aggregates the heap's arenas.
func (h *Heap) Stats() HeapStats {
	st := HeapStats{ID: h.id, Name: h.dir.names[h.id], Arenas: len(h.arenas)}
	for _, a := range h.arenas {
		ps := a.Stats()
		st.MappedBytes += a.Size()
		st.Live += a.occupancy
		st.InUse += ps.InUse
		st.FreeBytes += ps.FreeBytes
	}
	return st
}
