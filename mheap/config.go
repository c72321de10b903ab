package mheap

import (
	"fmt"
	"math"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/multiheap/internal/format"
)

const (
	// DefaultInitialCapacity is the number of heap slots before the directory first grows.
	DefaultInitialCapacity = 8

	// DefaultPoolSize is the growth granularity and minimum size of an arena.
	DefaultPoolSize = 4096

	// HeaderSize is the fixed size of the Allocation Header preceding every pointer.
	HeaderSize = format.HeaderSize

	// envPrefix scopes environment overrides, e.g. MULTIHEAP_DEFAULT_POOL_SIZE.
	envPrefix = "multiheap"
)

// Config holds the tunables of a Directory.
type Config struct {
	// InitialCapacity is the number of heap slots allocated by Init.
	InitialCapacity int `yaml:"initial_capacity" envconfig:"INITIAL_CAPACITY"`

	// DefaultPoolSize is the size of a default arena. Larger arenas are
	// rounded up to a multiple of it.
	DefaultPoolSize int `yaml:"default_pool_size" envconfig:"DEFAULT_POOL_SIZE"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: DefaultInitialCapacity,
		DefaultPoolSize: DefaultPoolSize,
	}
}

// Validate checks that the configuration can drive a Directory.
func (c Config) Validate() error {
	if c.InitialCapacity < 1 {
		return fmt.Errorf("mheap: initial capacity must be >= 1, got %d", c.InitialCapacity)
	}
	if c.DefaultPoolSize < format.MinBlockSize {
		return fmt.Errorf("mheap: default pool size must be >= %d, got %d",
			format.MinBlockSize, c.DefaultPoolSize)
	}
	if !format.IsAligned(c.DefaultPoolSize, format.BlockAlign) {
		return fmt.Errorf("mheap: default pool size must be a multiple of %d, got %d",
			format.BlockAlign, c.DefaultPoolSize)
	}
	return nil
}

// MaxRequest returns the largest request size an arena can be sized for.
func (c Config) MaxRequest() int {
	return math.MaxInt - format.HeaderSize - c.DefaultPoolSize
}

// ArenaSize returns the size of the arena created to satisfy a request of
// size bytes: the default pool size, or the smallest multiple of it that
// holds size plus the header. It returns 0 when size exceeds MaxRequest.
func (c Config) ArenaSize(size int) int {
	if size > c.MaxRequest() {
		return 0
	}
	s := size + format.HeaderSize
	if s < c.DefaultPoolSize {
		return c.DefaultPoolSize
	}
	return format.AlignUp(s, c.DefaultPoolSize)
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path when
// path is non-empty, then applies MULTIHEAP_* environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "apply environment overrides")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
