package mheap

import (
	"errors"
	"sync"
	"unsafe"
)

// ErrAlreadyInitialized is returned by Init after its first call.
var ErrAlreadyInitialized = errors.New("mheap: already initialized")

// The process-wide directory behind the package-level functions. Programs
// that want several independent directories use New instead.
var (
	global     *Directory
	globalOnce sync.Once
)

// Init creates the process-wide directory. Only the first call has any
// effect, even if it fails.
func Init(cfg Config, opts ...Option) error {
	err := ErrAlreadyInitialized
	globalOnce.Do(func() {
		global, err = New(cfg, opts...)
	})
	return err
}

// Default returns the process-wide directory. Calling it before a successful
// Init is a fault.
func Default() *Directory {
	if global == nil {
		panic(&Fault{Op: "default", Msg: "allocator not initialized"})
	}
	return global
}

// Teardown closes the process-wide directory.
func Teardown() error {
	return Default().Close()
}

// NewID registers a heap in the process-wide directory.
func NewID(name string) ID { return Default().NewID(name) }

// Malloc allocates from heap id of the process-wide directory.
func Malloc(id ID, size int) unsafe.Pointer { return Default().Malloc(id, size) }

// Calloc allocates zeroed memory from heap id of the process-wide directory.
func Calloc(id ID, n, size int) unsafe.Pointer { return Default().Calloc(id, n, size) }

// Realloc resizes ptr into heap id of the process-wide directory.
func Realloc(id ID, ptr unsafe.Pointer, size int) unsafe.Pointer {
	return Default().Realloc(id, ptr, size)
}

// Free releases ptr to the process-wide directory.
func Free(ptr unsafe.Pointer) { Default().Free(ptr) }

// GetID returns the heap id that owns ptr.
func GetID(ptr unsafe.Pointer) ID { return Default().GetID(ptr) }
