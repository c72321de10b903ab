// Package observe provides mheap.Observer implementations for tooling:
// structured logs, Prometheus metrics, and fan-out to several observers.
package observe

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/multiheap/mheap"
)

// Multi forwards every notification to each observer in order.
type Multi []mheap.Observer

// HeapRegistered forwards to each observer.
func (m Multi) HeapRegistered(name string, id mheap.ID) {
	for _, o := range m {
		o.HeapRegistered(name, id)
	}
}

// ArenaGrown forwards to each observer.
func (m Multi) ArenaGrown(id mheap.ID, base uintptr, size int) {
	for _, o := range m {
		o.ArenaGrown(id, base, size)
	}
}

// Log records notifications at info level.
type Log struct {
	L *slog.Logger
}

// HeapRegistered logs the new heap with its name.
func (l Log) HeapRegistered(name string, id mheap.ID) {
	l.L.Info("heap registered", "heap", id, "name", name)
}

// ArenaGrown logs the new region's base address and size.
func (l Log) ArenaGrown(id mheap.ID, base uintptr, size int) {
	l.L.Info("arena grown", "heap", id, "base", fmt.Sprintf("%#x", base), "size", size)
}

var (
	_ mheap.Observer = Multi(nil)
	_ mheap.Observer = Log{}
	_ mheap.Observer = (*Metrics)(nil)
)
