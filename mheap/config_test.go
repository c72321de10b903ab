package mheap

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 8, cfg.InitialCapacity)
	require.Equal(t, 4096, cfg.DefaultPoolSize)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"one slot", Config{InitialCapacity: 1, DefaultPoolSize: 4096}, true},
		{"large pool", Config{InitialCapacity: 8, DefaultPoolSize: 1 << 20}, true},
		{"zero capacity", Config{InitialCapacity: 0, DefaultPoolSize: 4096}, false},
		{"pool below one block", Config{InitialCapacity: 8, DefaultPoolSize: 32}, false},
		{"unaligned pool", Config{InitialCapacity: 8, DefaultPoolSize: 4100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestArenaSize(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		size int
		want int
	}{
		{0, 4096},
		{1, 4096},
		{4096 - HeaderSize - 1, 4096},
		{4096 - HeaderSize, 4096},
		{4096 - HeaderSize + 1, 8192},
		{4096, 8192},
		{10000, 12288},
		{3*4096 - HeaderSize, 3 * 4096},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, cfg.ArenaSize(tt.size), "size=%d", tt.size)
	}
}

func TestArenaSizeNearMaxInt(t *testing.T) {
	cfg := DefaultConfig()
	limit := cfg.MaxRequest()

	got := cfg.ArenaSize(limit)
	require.Positive(t, got)
	require.Zero(t, got%cfg.DefaultPoolSize)
	require.GreaterOrEqual(t, got, limit+HeaderSize)

	require.Zero(t, cfg.ArenaSize(limit+1))
	require.Zero(t, cfg.ArenaSize(math.MaxInt))
	require.Zero(t, cfg.ArenaSize(math.MaxInt-20))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multiheap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial_capacity: 32\ndefault_pool_size: 8192\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{InitialCapacity: 32, DefaultPoolSize: 8192}, cfg)

	t.Setenv("MULTIHEAP_DEFAULT_POOL_SIZE", "65536")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 32, cfg.InitialCapacity)
	require.Equal(t, 65536, cfg.DefaultPoolSize)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("initial_capacity: [\n"), 0o600))
	_, err = LoadConfig(bad)
	require.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("default_pool_size: 100\n"), 0o600))
	_, err = LoadConfig(invalid)
	require.Error(t, err)

	t.Setenv("MULTIHEAP_INITIAL_CAPACITY", "many")
	_, err = LoadConfig("")
	require.Error(t, err)
}
