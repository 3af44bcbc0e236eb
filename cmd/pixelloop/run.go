package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/capture"
	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/host"
	tcellhost "github.com/vovakirdan/pixelloop/internal/platform/tcell"
	"github.com/vovakirdan/pixelloop/internal/platform/tui"
)

var (
	flagBackend    string
	flagUpdateRate int
	flagRedrawRate int
	flagShotsDir   string
	flagShotFormat string
	flagPick       bool
)

var runCmd = &cobra.Command{
	Use:   "run [scene]",
	Short: "Run a scene in this terminal",
	Long: `Run a scene with the engine loop driven by the terminal host.

Every redraw of the host advances the loop by one tick: the update step runs
as often as the fixed update rate requires, then the scene renders once.

Controls:
  Mouse        - Scene input (drag to paint, etc.)
  Ctrl+S       - Save a screenshot
  Q/Esc/Ctrl+C - Quit

Examples:
  pixelloop run
  pixelloop run paint
  pixelloop run --pick
  pixelloop run bounce --backend tcell --update-rate 240`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagBackend, "backend", "", "Host backend: tui or tcell (overrides config)")
	runCmd.Flags().IntVar(&flagUpdateRate, "update-rate", 0, "Fixed updates per second (overrides config)")
	runCmd.Flags().IntVar(&flagRedrawRate, "redraw-rate", 0, "Host redraws per second (overrides config)")
	runCmd.Flags().StringVar(&flagShotsDir, "shots-dir", "", "Screenshot directory (default ~/.pixelloop/screenshots)")
	runCmd.Flags().StringVar(&flagShotFormat, "shot-format", "png", "Screenshot format: png or bmp")
	runCmd.Flags().BoolVar(&flagPick, "pick", false, "Choose the scene from a menu")
}

// applyLoopFlags overrides the loop settings with flags the user set.
func applyLoopFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("update-rate") {
		cfg.Loop.UpdateRate = flagUpdateRate
	}
	if cmd.Flags().Changed("redraw-rate") {
		cfg.Loop.RedrawRate = flagRedrawRate
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	applyLoopFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	sceneID, err := sceneArg(args, cfg)
	if err != nil {
		return err
	}
	if flagPick {
		picked, err := tui.RunPicker(sceneID)
		if err != nil {
			return fmt.Errorf("scene picker: %w", err)
		}
		if picked == "" {
			return nil
		}
		sceneID = picked
	}

	logger, closeLog, err := screenLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	format, err := capture.ParseFormat(flagShotFormat)
	if err != nil {
		return err
	}
	shots, err := capture.NewSaver(flagShotsDir, format)
	if err != nil {
		logger.Warn("screenshots disabled", "error", err)
		shots = nil
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	hc, err := backend.CreateWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}

	opts := app.Options{
		Config:  cfg,
		Logger:  logger,
		Backend: cfg.Backend,
		Shots:   shots,
	}
	if store != nil {
		opts.Store = store
	}
	if err := app.RunOnHost(hc, sceneID, opts); err != nil {
		return fmt.Errorf("running %s: %w", sceneID, err)
	}
	return nil
}

// newBackend selects the host backend. The Bubble Tea window starts at the
// current terminal size.
func newBackend(cfg config.Config) (host.Backend, error) {
	switch cfg.Backend {
	case config.BackendTUI:
		cols, rows := tui.DefaultCols, tui.DefaultRows
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cols, rows = w, h
		}
		return tui.Backend{
			RedrawRate: cfg.Loop.RedrawRate,
			Cols:       cols,
			Rows:       rows,
		}, nil
	case config.BackendTcell:
		return tcellhost.Backend{RedrawRate: cfg.Loop.RedrawRate}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
