package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/platform/tui"
)

var (
	flagSSHAddr    string
	flagHostKey    string
	flagServeScene string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pixelloop SSH server",
	Long: `Start an SSH server that runs a scene for every connection.

Each SSH session gets its own window, surface and engine loop; the terminal
size follows the client. Runs are recorded with the "ssh" backend.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.pixelloop/host_key

Examples:
  pixelloop serve                      # Listen on the configured address
  pixelloop serve --ssh :2222          # Listen on port 2222
  pixelloop serve --scene paint

Users can connect with:
  ssh -t localhost -p 23235`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeScene, "scene", "", "Scene to serve (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKeyPath = flagHostKey
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var args []string
	if flagServeScene != "" {
		args = []string{flagServeScene}
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

	run := func(_ context.Context, hc *host.Context, user string) error {
		opts := app.Options{
			Config:  cfg,
			Logger:  logger.With("user", user),
			Backend: "ssh",
		}
		if store != nil {
			opts.Store = store
		}
		return app.RunOnHost(hc, sceneID, opts)
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     cfg.SSH.Address,
		HostKeyPath: cfg.SSH.HostKeyPath,
		IdleTimeout: cfg.SSH.IdleTimeout,
		Title:       cfg.Window.Title,
		RedrawRate:  cfg.Loop.RedrawRate,
	}, run, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving %q over SSH on %s\n", sceneID, server.Addr())
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe(ctx)
}
