// pixelloop runs fixed-timestep pixel scenes in the terminal.
//
// Usage:
//
//	pixelloop list               - List available scenes
//	pixelloop run [scene]        - Run a scene in the terminal
//	pixelloop headless [scene]   - Run a scene without a display until interrupted
//	pixelloop serve              - Serve scenes over SSH
//	pixelloop stats [scene]      - Show recorded runs
//
// Global flags:
//
//	--config <path>     - Configuration file (default search: ~/.pixelloop, ./configs)
//	--log-level <level> - debug, info, warn or error
//	--db <path>         - Run statistics database
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/registry"
	"github.com/vovakirdan/pixelloop/internal/storage"

	// Import scenes to register them
	_ "github.com/vovakirdan/pixelloop/internal/scenes/bounce"
	_ "github.com/vovakirdan/pixelloop/internal/scenes/paint"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixelloop",
	Short: "Pixel Loop - fixed-timestep pixel scenes in your terminal",
	Long: `Pixel Loop drives small pixel scenes with a fixed-timestep engine loop
and draws them in the terminal with half-block characters.

Available commands:
  list      - Show all available scenes
  run       - Run a scene in this terminal
  headless  - Run a scene without a display
  serve     - Start an SSH server that runs a scene per connection
  stats     - Show recorded runs

Examples:
  pixelloop list
  pixelloop run bounce
  pixelloop run paint --backend tcell
  pixelloop headless bounce --log-level debug
  pixelloop serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run statistics database (overrides config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(headlessCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg, nil
}

// newLogger builds the application logger writing to w.
func newLogger(w io.Writer, cfg config.Config) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "pixelloop",
	})
	if cfg.Log.Level != "" {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		logger.SetLevel(level)
	}
	return logger, nil
}

// screenLogger returns a logger for commands that hand the terminal to a
// host. It writes to log.file when set and is silent otherwise. The returned
// closer must be called when the command ends.
func screenLogger(cfg config.Config) (*log.Logger, func(), error) {
	if cfg.Log.File == "" {
		logger, err := newLogger(io.Discard, cfg)
		return logger, func() {}, err
	}

	f, err := os.OpenFile(config.ExpandHome(cfg.Log.File), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := newLogger(f, cfg)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// sceneArg picks the scene from the arguments or the config and checks that
// it is registered.
func sceneArg(args []string, cfg config.Config) (string, error) {
	id := cfg.Scene
	if len(args) > 0 {
		id = args[0]
	}
	if !registry.Exists(id) {
		return "", fmt.Errorf("unknown scene %q, run 'pixelloop list' to see available scenes", id)
	}
	return id, nil
}

// openStore opens the statistics database. A failure is logged and the
// command continues without statistics.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open run statistics database", "error", err)
		return nil
	}
	return store
}
