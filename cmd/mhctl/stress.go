package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/joshuapare/multiheap/internal/logger"
	"github.com/joshuapare/multiheap/mheap"
	"github.com/joshuapare/multiheap/mheap/observe"
)

var (
	stressHeaps   int
	stressOps     int
	stressMaxSize int
	stressSeed    uint64
	stressMetrics bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressHeaps, "heaps", 16, "Number of heaps to register besides the default heap")
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Number of malloc/calloc/realloc/free operations")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 512, "Largest request size in bytes")
	cmd.Flags().Uint64Var(&stressSeed, "seed", 1, "Random seed")
	cmd.Flags().BoolVar(&stressMetrics, "metrics", false, "Print Prometheus metrics after the run")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Churn allocations across many heaps and report growth",
		Long: `The stress command registers heaps and runs a random mix of malloc,
calloc, realloc and free across them. Every live pointer is checked to still
route to its heap before it is freed, and per-heap statistics are printed.

Example:
  mhctl stress
  mhctl stress --heaps 1000 --ops 100000 --max-size 20000
  mhctl stress --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

type liveBlock struct {
	ptr  unsafe.Pointer
	id   mheap.ID
	size int
	seed byte
}

func runStress() error {
	if stressHeaps < 0 || stressOps < 0 || stressMaxSize < 1 {
		return fmt.Errorf("heaps and ops must be >= 0 and max-size >= 1")
	}

	reg := prometheus.NewRegistry()
	obs := observe.Multi{observe.NewMetrics(reg)}
	if verbose {
		obs = append(obs, observe.Log{L: logger.L})
	}

	d, err := newDirectory(obs)
	if err != nil {
		return err
	}
	defer d.Close()

	ids := []mheap.ID{mheap.DefaultID}
	for i := 1; i <= stressHeaps; i++ {
		ids = append(ids, d.NewID(fmt.Sprintf("stress-%d", i)))
	}
	printVerbose("Registered %d heaps (capacity %d)\n", d.Len(), d.Cap())

	rng := rand.New(rand.NewPCG(stressSeed, stressSeed^0x9e3779b97f4a7c15))
	var live []liveBlock

	stamp := func(b liveBlock) liveBlock {
		buf := mheap.Bytes(b.ptr, b.size)
		for i := range buf {
			buf[i] = b.seed + byte(i)
		}
		return b
	}
	verify := func(b liveBlock) error {
		if got := d.GetID(b.ptr); got != b.id {
			return fmt.Errorf("pointer %p routed to heap %d, want %d", b.ptr, got, b.id)
		}
		for i, v := range mheap.Bytes(b.ptr, b.size) {
			if v != b.seed+byte(i) {
				return fmt.Errorf("heap %d: byte %d of %p corrupted", b.id, i, b.ptr)
			}
		}
		return nil
	}

	for range stressOps {
		id := ids[rng.IntN(len(ids))]
		size := 1 + rng.IntN(stressMaxSize)
		seed := byte(rng.Uint32())

		switch op := rng.IntN(10); {
		case op < 4 || len(live) == 0:
			live = append(live, stamp(liveBlock{ptr: d.Malloc(id, size), id: id, size: size, seed: seed}))
		case op < 6:
			n := 1 + rng.IntN(8)
			sz := max(1, size/n)
			live = append(live, stamp(liveBlock{ptr: d.Calloc(id, n, sz), id: id, size: n * sz, seed: seed}))
		case op < 7:
			j := rng.IntN(len(live))
			b := live[j]
			if err := verify(b); err != nil {
				return err
			}
			keep := min(b.size, size)
			b.ptr = d.Realloc(b.id, b.ptr, size)
			b.size = keep // only the copied prefix carries the old pattern
			if err := verify(b); err != nil {
				return err
			}
			b.size = size
			live[j] = stamp(b)
		default:
			j := rng.IntN(len(live))
			if err := verify(live[j]); err != nil {
				return err
			}
			d.Free(live[j].ptr)
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	for _, b := range live {
		if err := verify(b); err != nil {
			return err
		}
	}
	printVerbose("%d blocks still live after %d operations\n", len(live), stressOps)

	if err := printHeapStats(d.Stats()); err != nil {
		return err
	}

	for _, b := range live {
		d.Free(b.ptr)
	}

	if stressMetrics {
		return writeMetrics(reg)
	}
	return nil
}

// writeMetrics dumps reg in the Prometheus text exposition format.
func writeMetrics(reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return err
		}
	}
	return nil
}
