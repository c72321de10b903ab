// Package pool is the single-region allocation engine behind every arena.
//
// A Pool carves blocks out of one fixed-size region it never grows. Each
// block is an Allocation Header (see internal/format) followed by the
// payload handed to the caller:
//
//	p, err := pool.New(region)
//	ptr, err := p.Alloc(heapID, 100) // ErrNoSpace when nothing fits
//	if p.IsAlloc(ptr) {
//	    err = p.Free(ptr)
//	}
//
// # Placement
//
// Free space is kept as a list of spans sorted by offset. Alloc takes the
// first span large enough (first fit), splits off the remainder when it can
// still hold a minimal block, and zeroes the payload. Free returns the block
// and coalesces it with free neighbours.
//
// A fresh pool whose region size is a multiple of format.BlockAlign can always
// satisfy a request of size bytes when len(region) >= size+format.HeaderSize.
// Heap growth relies on this.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must synchronize access externally.
package pool
