package mheap

import "log/slog"

// Observer receives one-way notifications about directory and heap growth.
// It exists for external tooling such as memory profilers; the allocator never
// depends on an observer for correctness.
type Observer interface {
	// HeapRegistered is called once per NewID, after the heap is usable.
	HeapRegistered(name string, id ID)

	// ArenaGrown is called once per new arena with its region bounds.
	ArenaGrown(id ID, base uintptr, size int)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) HeapRegistered(string, ID)   {}
func (NopObserver) ArenaGrown(ID, uintptr, int) {}

// Option configures a Directory.
type Option func(*Directory)

// WithObserver registers o for heap and arena notifications.
func WithObserver(o Observer) Option {
	return func(d *Directory) {
		if o != nil {
			d.obs = o
		}
	}
}

// WithLogger sets the logger used for debug records and fault reports.
func WithLogger(l *slog.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}
