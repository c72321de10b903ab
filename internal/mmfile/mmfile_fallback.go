//go:build !unix

package mmfile

import "fmt"

// MapAnon returns a zeroed Go-allocated region when anonymous mappings are
// not available. The region stays reachable through the returned slice.
func MapAnon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid region size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
