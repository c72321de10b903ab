// Package format defines the Allocation Header that precedes every pointer
// handed out by the allocator, plus the alignment rules for the blocks that
// carry it.
//
// This is the only package that converts between a user pointer and its
// header. The conversion is a fixed backward offset:
//
//	block start                     user pointer
//	|<--------- HeaderSize -------->|<------ payload ------>|
//	| Magic | HeapID | Usable | Span | ...                   |
//
// Callers must validate Magic before trusting any other field.
package format

import (
	"math"
	"unsafe"
)

const (
	// HeaderSize is the size in bytes of the Allocation Header.
	HeaderSize = int(unsafe.Sizeof(Header{}))

	// BlockAlign is the alignment of every block and therefore of every user pointer.
	BlockAlign = 16

	// BlockAlignMask is BlockAlign - 1.
	BlockAlignMask = BlockAlign - 1

	// MinBlockSize is the smallest block a pool will carve: a header plus one
	// aligned payload unit.
	MinBlockSize = HeaderSize + BlockAlign

	// MaxPayload is the largest payload whose block size fits in an int.
	MaxPayload = math.MaxInt - HeaderSize - BlockAlign
)

const (
	// LiveMagic tags a header whose block is currently allocated.
	LiveMagic uint64 = 0x6d68_6c69_7665_a110

	// FreedMagic tags a header whose block has been returned to its pool.
	FreedMagic uint64 = 0x6d68_6672_6565_dead
)

// Header is the fixed layout placed immediately before every user pointer.
// It holds no Go pointers so it can live in memory the runtime does not scan.
type Header struct {
	Magic  uint64 // LiveMagic while allocated
	HeapID int64  // owning heap id
	Usable uint64 // bytes requested by the caller
	Span   uint64 // total block size including this header
}

// HeaderOf returns the header that precedes the user pointer p.
// p must have been produced by UserPointer.
func HeaderOf(p unsafe.Pointer) *Header {
	return (*Header)(unsafe.Add(p, -HeaderSize))
}

// UserPointer returns the user pointer for a block that starts at block.
func UserPointer(block unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(block, HeaderSize)
}

// Valid reports whether h carries the live tag.
func (h *Header) Valid() bool {
	return h.Magic == LiveMagic
}

// BlockSize returns the total block size needed for a payload of size bytes.
// Zero-sized requests still reserve one aligned unit so every pointer is distinct.
// It returns -1 when size exceeds MaxPayload.
func BlockSize(size int) int {
	if size <= 0 {
		return MinBlockSize
	}
	if size > MaxPayload {
		return -1
	}
	return HeaderSize + AlignBlock(size)
}
