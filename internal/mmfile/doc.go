// Package mmfile provides platform-specific helpers for obtaining the memory
// regions that back allocator arenas.
//
// On unix a region is an anonymous private mapping, so it lives outside the
// Go heap and is never moved or scanned by the garbage collector.
package mmfile
