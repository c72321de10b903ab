package mheap

import (
	"fmt"
	"log/slog"
)

// Fault is the panic value raised when a caller breaks the allocator's
// contract or memory is found corrupted. Faults are not meant to be
// recovered from: continuing after one leaves the heaps in an unknown state.
type Fault struct {
	Op  string // entry point that detected the violation, e.g. "malloc"
	Msg string
}

func (f *Fault) Error() string {
	return "mheap: " + f.Op + ": " + f.Msg
}

// fatalf logs the violation and panics with a *Fault.
func fatalf(log *slog.Logger, op, format string, args ...any) {
	f := &Fault{Op: op, Msg: fmt.Sprintf(format, args...)}
	log.Error("allocator fault", "op", op, "msg", f.Msg)
	panic(f)
}
