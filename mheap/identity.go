package mheap

import (
	"unsafe"

	"github.com/joshuapare/multiheap/internal/format"
)

// header recovers and validates the Allocation Header in front of ptr.
// Reading it is only meaningful for pointers this allocator returned.
func (d *Directory) header(op string, ptr unsafe.Pointer) *format.Header {
	if ptr == nil {
		fatalf(d.log, op, "nil pointer")
	}
	h := format.HeaderOf(ptr)
	if !h.Valid() {
		fatalf(d.log, op, "bad header magic %#x at %p: foreign pointer or corrupted memory", h.Magic, ptr)
	}
	return h
}

// GetID returns the id of the heap that owns ptr.
func (d *Directory) GetID(ptr unsafe.Pointer) ID {
	d.checkOpen("get_id")
	return ID(d.header("get_id", ptr).HeapID)
}

// UsableSize returns the number of bytes the caller asked for when ptr was allocated.
func (d *Directory) UsableSize(ptr unsafe.Pointer) int {
	d.checkOpen("usable_size")
	return int(d.header("usable_size", ptr).Usable)
}

// Free returns ptr to the heap recorded in its header. ptr must not be nil.
// Freeing the same pointer twice is not detected reliably.
func (d *Directory) Free(ptr unsafe.Pointer) {
	d.checkOpen("free")
	hdr := d.header("free", ptr)
	d.heap("free", ID(hdr.HeapID)).free(ptr)
}

// Realloc allocates size bytes in heap id, copies over as much of ptr's
// content as fits, and frees ptr. A nil ptr makes it a plain Malloc.
// id is not checked against ptr's owner; callers pass the id ptr belongs to.
func (d *Directory) Realloc(id ID, ptr unsafe.Pointer, size int) unsafe.Pointer {
	h := d.heap("realloc", id)
	checkSize(d, "realloc", size)

	if ptr == nil {
		return h.malloc(size)
	}

	old := d.header("realloc", ptr)
	n := min(int(old.Usable), size)

	fresh := h.malloc(size)
	copy(Bytes(fresh, n), Bytes(ptr, n))
	d.Free(ptr)
	return fresh
}

// Bytes views n bytes starting at ptr as a slice. ptr must come from this
// allocator and n must not exceed its usable size.
func Bytes(ptr unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(ptr), n)
}
