package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/core"
)

var flagDuration time.Duration

var headlessCmd = &cobra.Command{
	Use:   "headless [scene]",
	Short: "Run a scene without a display",
	Long: `Run a scene with the free-running driver: the loop ticks as fast as it
can with no host attached. It stops on Ctrl+C, SIGTERM or after --duration.

Examples:
  pixelloop headless
  pixelloop headless bounce --duration 10s
  pixelloop headless --update-rate 1000 --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHeadless,
}

func init() {
	headlessCmd.Flags().DurationVar(&flagDuration, "duration", 0, "Stop after this long (0 = until interrupted)")
	headlessCmd.Flags().IntVar(&flagUpdateRate, "update-rate", 0, "Fixed updates per second (overrides config)")
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyLoopFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	sceneID, err := sceneArg(args, cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	surface, err := core.NewPixelSurface(cfg.Window.Width, cfg.Window.Height,
		app.Headless{W: cfg.Window.Width, H: cfg.Window.Height})
	if err != nil {
		return err
	}

	opts := app.Options{Config: cfg, Logger: logger, Backend: "headless"}
	if store != nil {
		opts.Store = store
	}
	sess, err := app.NewSession(sceneID, surface, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagDuration)
		defer cancel()
	}

	logger.Info("running headless", "scene", sceneID, "update_rate", cfg.Loop.UpdateRate)
	return sess.RunFree(ctx)
}
