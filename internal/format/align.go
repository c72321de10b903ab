package format

// Alignment utilities for block layout inside a region.
// Every block starts on a BlockAlign boundary so the header that precedes a
// user pointer can be read as a naturally aligned struct.

// AlignBlock returns n aligned up to the next BlockAlign boundary.
//
// Example:
//
//	AlignBlock(1)  = 16
//	AlignBlock(16) = 16
//	AlignBlock(17) = 32
func AlignBlock(n int) int {
	return (n + BlockAlignMask) & ^BlockAlignMask
}

// AlignUp returns n rounded up to the next multiple of m. m must be positive;
// it does not need to be a power of two.
//
// Example:
//
//	AlignUp(1, 4096)    = 4096
//	AlignUp(4096, 4096) = 4096
//	AlignUp(4097, 4096) = 8192
func AlignUp(n, m int) int {
	if r := n % m; r != 0 {
		return n + m - r
	}
	return n
}

// IsAligned reports whether n is a multiple of m.
func IsAligned(n, m int) bool {
	return n%m == 0
}
