// Package mheap is a multi-domain memory allocator. Callers allocate from
// independent heaps identified by small integers, and each heap grows its
// backing memory on demand.
//
// # Structure
//
// A Directory maps heap ids to Heaps. A Heap owns an ordered list of Arenas,
// each one fixed-size anonymous mapping carved up by a pool (see package
// mheap/pool). Every pointer handed out is preceded by an Allocation Header
// (see internal/format) carrying a magic tag, the owning heap id and the
// usable size, which is how Free, Realloc and GetID find the owning heap
// from the pointer alone.
//
//	d, err := mheap.New(mheap.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	id := d.NewID("sessions")
//	p := d.Malloc(id, 100)
//	copy(mheap.Bytes(p, 5), "hello")
//	p = d.Realloc(id, p, 10000) // grows the heap with a 12 KiB arena
//	_ = d.GetID(p)              // == id
//	d.Free(p)
//
// # Growth
//
// Malloc tries each arena of the heap in creation order. When all of them
// are full it creates exactly one arena of ArenaSize(size) bytes (the default
// pool size, or the smallest multiple of it that holds size plus the header)
// and retries once. Arenas are never removed, even when empty.
//
// The directory starts with Config.InitialCapacity heap slots and doubles
// them whenever a new id does not fit. Ids are never reused.
//
// # Faults
//
// Contract violations do not return errors. An unknown heap id, a nil or
// foreign pointer passed to Free, a corrupted header, or a failed mapping
// panic with a *Fault after logging it. The process is not expected to
// continue. Double free is not reliably detected.
//
// # Thread Safety
//
// Nothing in this package is synchronized. A heap must be used by one
// goroutine at a time, and NewID must be serialized against every other call
// on the same directory.
package mheap
