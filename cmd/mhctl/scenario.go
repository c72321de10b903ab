package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/multiheap/internal/logger"
	"github.com/joshuapare/multiheap/mheap"
	"github.com/joshuapare/multiheap/mheap/observe"
)

func init() {
	rootCmd.AddCommand(newScenarioCmd())
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Run the reference allocate/realloc/free walkthrough",
		Long: `The scenario command registers a heap, allocates 100 bytes from it,
reallocates the block to 10000 bytes (which forces a larger arena), checks
that ownership and content survived, and frees it.

Example:
  mhctl scenario
  mhctl scenario -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario()
		},
	}
}

// scenarioStep is one line of the scenario report.
type scenarioStep struct {
	Step   string `json:"step"`
	Result string `json:"result"`
}

func runScenario() error {
	var growth int
	obs := observe.Multi{growthCounter{&growth}}
	if verbose {
		obs = append(obs, observe.Log{L: logger.L})
	}

	d, err := newDirectory(obs)
	if err != nil {
		return err
	}
	defer d.Close()

	var steps []scenarioStep
	record := func(step, format string, args ...any) {
		steps = append(steps, scenarioStep{Step: step, Result: fmt.Sprintf(format, args...)})
	}

	id := d.NewID("pool")
	record("new_id(\"pool\")", "%d", id)
	if id != 1 {
		return fmt.Errorf("expected id 1, got %d", id)
	}

	p := d.Malloc(id, 100)
	want := bytes.Repeat([]byte("mh"), 50)
	copy(mheap.Bytes(p, 100), want)
	record("malloc(1, 100)", "%p", p)

	if got := d.GetID(p); got != id {
		return fmt.Errorf("get_id(p) = %d, want %d", got, id)
	}
	record("get_id(p)", "%d", id)

	before := growth
	q := d.Realloc(id, p, 10000)
	record("realloc(1, p, 10000)", "%p (%d new arena(s))", q, growth-before)
	if growth == before && 10000 > cfg.DefaultPoolSize {
		return fmt.Errorf("realloc to 10000 bytes did not grow the heap")
	}

	if !bytes.Equal(mheap.Bytes(q, 100), want) {
		return fmt.Errorf("realloc lost the first 100 bytes")
	}
	record("content preserved", "100 bytes")

	if got := d.GetID(q); got != id {
		return fmt.Errorf("get_id(q) = %d, want %d", got, id)
	}

	d.Free(q)
	record("free(q)", "ok")

	if jsonOut {
		return printJSON(steps)
	}
	for _, s := range steps {
		printInfo("%-22s %s\n", s.Step, s.Result)
	}
	return nil
}

// growthCounter counts arena creations.
type growthCounter struct {
	n *int
}

func (growthCounter) HeapRegistered(string, mheap.ID)     {}
func (g growthCounter) ArenaGrown(mheap.ID, uintptr, int) { *g.n++ }
