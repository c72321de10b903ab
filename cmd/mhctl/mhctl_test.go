package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/multiheap/mheap"
)

func TestScenarioCommand(t *testing.T) {
	tests := []struct {
		name        string
		json        bool
		wantContain []string
	}{
		{
			name:        "text",
			wantContain: []string{"new_id(\"pool\")", "realloc(1, p, 10000)", "1 new arena(s)", "content preserved", "free(q)"},
		},
		{
			name:        "json",
			json:        true,
			wantContain: []string{`"step": "get_id(p)"`, `"result": "1"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			jsonOut = tt.json

			out, err := captureOutput(t, runScenario)
			require.NoError(t, err)
			assertContains(t, out, tt.wantContain)
			if tt.json {
				assertJSON(t, out)
			}
		})
	}
}

func TestStressCommand(t *testing.T) {
	resetFlags(t)
	stressHeaps = 12 // forces directory growth past the initial 8 slots
	stressOps = 3000
	stressMaxSize = 6000 // some requests need multi-page arenas
	stressMetrics = true

	out, err := captureOutput(t, runStress)
	require.NoError(t, err)
	assertContains(t, out, []string{
		"ARENAS", "mhdefault", "stress-12", "total",
		"multiheap_heaps_registered_total 13",
		"multiheap_arenas_grown_total",
	})
}

func TestStressCommandJSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	stressHeaps = 3
	stressOps = 500

	out, err := captureOutput(t, runStress)
	require.NoError(t, err)

	var stats []mheap.HeapStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 4)
	for i, st := range stats {
		require.Equal(t, mheap.ID(i), st.ID)
		require.Equal(t, st.MappedBytes, st.InUse+st.FreeBytes)
	}
}

func TestStressRejectsBadFlags(t *testing.T) {
	resetFlags(t)
	stressMaxSize = 0
	_, err := captureOutput(t, runStress)
	require.Error(t, err)
}

func TestStatsCommandUsesConfig(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "mh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial_capacity: 64\n"), 0o600))
	t.Setenv("MULTIHEAP_DEFAULT_POOL_SIZE", "16384")

	configPath = path
	jsonOut = true
	require.NoError(t, setup(rootCmd, nil))

	out, err := captureOutput(t, runStats)
	require.NoError(t, err)

	var report statsReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 64, report.InitialCapacity)
	require.Equal(t, 16384, report.DefaultPoolSize)
	require.Equal(t, mheap.HeaderSize, report.HeaderSize)
	require.Len(t, report.Heaps, 1)
	require.Equal(t, mheap.DefaultHeapName, report.Heaps[0].Name)
}

func TestStatsCommandText(t *testing.T) {
	resetFlags(t)
	out, err := captureOutput(t, runStats)
	require.NoError(t, err)
	assertContains(t, out, []string{"Default pool size: 4.0 KiB", "Header size:       32 bytes", "mhdefault"})
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	resetFlags(t)
	t.Setenv("MULTIHEAP_DEFAULT_POOL_SIZE", "100")
	require.Error(t, setup(rootCmd, nil))
}
