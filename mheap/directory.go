package mheap

import (
	"errors"
	"log/slog"
	"math"
	"math/bits"
	"unsafe"

	"golang.org/x/text/unicode/norm"

	"github.com/joshuapare/multiheap/internal/logger"
)

// ID identifies a heap. Ids are assigned densely from 0 and never reused.
type ID int64

const (
	// DefaultID is the id of the heap registered by New.
	DefaultID ID = 0

	// DefaultHeapName is the name of the default heap.
	DefaultHeapName = "mhdefault"
)

// Directory maps heap ids to heaps. It owns id assignment, id validation and
// its own growth.
type Directory struct {
	cfg Config

	heaps  []*Heap  // indexed by id; len is the capacity
	names  []string // parallel to heaps
	nextID ID

	obs Observer
	log *slog.Logger

	closed bool
}

// New builds a directory with cfg.InitialCapacity slots and registers the
// default heap as id 0.
func New(cfg Config, opts ...Option) (*Directory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Directory{
		cfg:   cfg,
		heaps: make([]*Heap, cfg.InitialCapacity),
		names: make([]string, cfg.InitialCapacity),
		obs:   NopObserver{},
		log:   logger.L,
	}
	for _, opt := range opts {
		opt(d)
	}

	if id := d.NewID(DefaultHeapName); id != DefaultID {
		fatalf(d.log, "init", "default heap got id %d, want %d", id, DefaultID)
	}
	return d, nil
}

// NewID registers a new heap under name and returns its id.
func (d *Directory) NewID(name string) ID {
	d.checkOpen("new_id")

	id := d.nextID
	d.nextID++
	if int(id) >= len(d.heaps) {
		d.grow()
	}

	name = norm.NFC.String(name)
	d.heaps[id] = newHeap(d, id)
	d.names[id] = name

	d.log.Debug("heap registered", "heap", id, "name", name, "capacity", len(d.heaps))
	d.obs.HeapRegistered(name, id)
	return id
}

// grow doubles the number of heap slots.
func (d *Directory) grow() {
	n := 2 * len(d.heaps)
	heaps := make([]*Heap, n)
	copy(heaps, d.heaps)
	names := make([]string, n)
	copy(names, d.names)
	d.heaps, d.names = heaps, names
}

// Malloc returns a pointer to size writable bytes owned by heap id.
func (d *Directory) Malloc(id ID, size int) unsafe.Pointer {
	h := d.heap("malloc", id)
	checkSize(d, "malloc", size)
	return h.malloc(size)
}

// Calloc returns a pointer to n*size zeroed bytes owned by heap id. A zero
// count or size is treated as a single byte.
func (d *Directory) Calloc(id ID, n, size int) unsafe.Pointer {
	h := d.heap("calloc", id)
	if n == 0 || size == 0 {
		n, size = 1, 1
	}
	checkSize(d, "calloc", n)
	checkSize(d, "calloc", size)

	hi, total := bits.Mul64(uint64(n), uint64(size))
	if hi != 0 || total > math.MaxInt {
		fatalf(d.log, "calloc", "%d * %d overflows", n, size)
	}
	checkSize(d, "calloc", int(total))
	// Pools zero every payload they hand out.
	return h.malloc(int(total))
}

// Heap returns the heap registered under id.
func (d *Directory) Heap(id ID) *Heap {
	return d.heap("heap", id)
}

// Name returns the name id was registered with.
func (d *Directory) Name(id ID) string {
	d.heap("name", id)
	return d.names[id]
}

// Len returns the number of registered heaps.
func (d *Directory) Len() int { return int(d.nextID) }

// Cap returns the number of heap slots before the next directory growth.
func (d *Directory) Cap() int { return len(d.heaps) }

// Config returns the directory configuration.
func (d *Directory) Config() Config { return d.cfg }

// Stats returns per-heap statistics in id order.
func (d *Directory) Stats() []HeapStats {
	d.checkOpen("stats")
	out := make([]HeapStats, 0, d.nextID)
	for _, h := range d.heaps[:d.nextID] {
		out = append(out, h.Stats())
	}
	return out
}

// Close unmaps every arena. Any further call on d is a fault and every
// pointer it returned becomes invalid.
func (d *Directory) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for _, h := range d.heaps[:d.nextID] {
		for _, a := range h.arenas {
			errs = append(errs, a.release())
		}
		h.arenas = nil
	}
	d.log.Debug("directory closed", "heaps", d.nextID)
	return errors.Join(errs...)
}

// heap validates id and returns its heap.
func (d *Directory) heap(op string, id ID) *Heap {
	d.checkOpen(op)
	if id < 0 || int64(id) >= int64(len(d.heaps)) {
		fatalf(d.log, op, "heap id %d out of range [0, %d)", id, len(d.heaps))
	}
	h := d.heaps[id]
	if h == nil {
		fatalf(d.log, op, "heap id %d is not registered (next id %d)", id, d.nextID)
	}
	return h
}

func (d *Directory) checkOpen(op string) {
	if d.closed {
		fatalf(d.log, op, "directory is closed")
	}
}

func checkSize(d *Directory, op string, size int) {
	if size < 0 {
		fatalf(d.log, op, "negative size %d", size)
	}
	if limit := d.cfg.MaxRequest(); size > limit {
		fatalf(d.log, op, "size %d exceeds maximum %d", size, limit)
	}
}
