package mheap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type growth struct {
	id   ID
	base uintptr
	size int
}

// recorder is an Observer that keeps every notification.
type recorder struct {
	names  map[ID]string
	order  []ID
	growth []growth
}

func newRecorder() *recorder {
	return &recorder{names: make(map[ID]string)}
}

func (r *recorder) HeapRegistered(name string, id ID) {
	r.names[id] = name
	r.order = append(r.order, id)
}

func (r *recorder) ArenaGrown(id ID, base uintptr, size int) {
	r.growth = append(r.growth, growth{id: id, base: base, size: size})
}

// newTestDirectory creates a directory that is closed when the test ends.
func newTestDirectory(t testing.TB, cfg Config, opts ...Option) *Directory {
	t.Helper()
	d, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, d.Close()) })
	return d
}

// fill writes a recognizable pattern into n bytes at p.
func fill(p unsafe.Pointer, n int, seed byte) {
	b := Bytes(p, n)
	for i := range b {
		b[i] = seed + byte(i)
	}
}

// requirePattern checks the pattern written by fill.
func requirePattern(t testing.TB, p unsafe.Pointer, n int, seed byte) {
	t.Helper()
	for i, v := range Bytes(p, n) {
		if v != seed+byte(i) {
			t.Fatalf("byte %d: got 0x%x want 0x%x", i, v, seed+byte(i))
		}
	}
}

// faultMessage formats the Error() string of the fault raised for op.
func faultMessage(op, msg string) string {
	return (&Fault{Op: op, Msg: msg}).Error()
}

// requireFault runs fn, requires it to panic with a *Fault for op, and returns it.
func requireFault(t testing.TB, op string, fn func()) (f *Fault) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a fault")
		var ok bool
		f, ok = r.(*Fault)
		require.True(t, ok, "panic value %v is not a *Fault", r)
		require.Equal(t, op, f.Op)
	}()
	fn()
	return nil
}
