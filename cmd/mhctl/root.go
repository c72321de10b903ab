package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/multiheap/internal/logger"
	"github.com/joshuapare/multiheap/mheap"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string

	// cfg is loaded before every command runs.
	cfg = mheap.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "mhctl",
	Short: "Exercise and inspect the multiheap allocator",
	Long: `mhctl drives the multiheap allocator: it registers heaps, allocates
and frees across them, and reports how each heap grew its arenas.

Configuration comes from --config (YAML) and MULTIHEAP_* environment
variables, e.g. MULTIHEAP_DEFAULT_POOL_SIZE=65536.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logs")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logger.Options{Enabled: verbose, Level: slog.LevelDebug}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	loaded, err := mheap.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newDirectory builds a directory from the loaded configuration.
func newDirectory(obs mheap.Observer) (*mheap.Directory, error) {
	return mheap.New(cfg, mheap.WithObserver(obs), mheap.WithLogger(logger.L))
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
