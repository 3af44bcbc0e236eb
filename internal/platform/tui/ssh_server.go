package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/pixelloop/internal/host"
)

// SessionFunc runs one SSH session against its host context. It blocks
// until the run ends.
type SessionFunc func(ctx context.Context, hc *host.Context, user string) error

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.pixelloop/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Title and RedrawRate configure every session window.
	Title      string
	RedrawRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		IdleTimeout: 30 * time.Minute,
		Title:       "Pixel Loop",
		RedrawRate:  60,
	}
}

// SSHServer serves a Bubble Tea host per SSH session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	run    SessionFunc
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. run is called once per session
// that requested a PTY.
func NewSSHServer(cfg SSHServerConfig, run SessionFunc, logger *log.Logger) (*SSHServer, error) {
	if run == nil {
		return nil, errors.New("tui: session function is required")
	}
	if cfg.RedrawRate <= 0 {
		return nil, fmt.Errorf("tui: invalid redraw rate %d", cfg.RedrawRate)
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "pixelloop-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		run:    run,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".pixelloop", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			srv.sessionMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// sessionMiddleware builds a window and event source on the session's
// terminal and hands them to the session function.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			s.logger.Warn("no PTY requested", "user", sess.User())
			wish.Fatalln(sess, "pixelloop needs an interactive terminal, connect with ssh -t")
			return
		}

		win := NewWindow(s.config.Title, pty.Window.Width, pty.Window.Height, bubbletea.MakeRenderer(sess))
		src := NewSource(win, s.config.RedrawRate, DefaultKeyMap(),
			tea.WithInput(sess),
			tea.WithOutput(sess),
			tea.WithContext(sess.Context()),
		)

		// The program cannot see SIGWINCH for a remote terminal.
		go func() {
			src.Send(tea.WindowSizeMsg{Width: pty.Window.Width, Height: pty.Window.Height})
			for {
				select {
				case <-sess.Context().Done():
					return
				case w, ok := <-winCh:
					if !ok {
						return
					}
					src.Send(tea.WindowSizeMsg{Width: w.Width, Height: w.Height})
				}
			}
		}()

		if err := s.run(sess.Context(), host.NewContext(src, win), sess.User()); err != nil {
			s.logger.Error("session failed", "user", sess.User(), "error", err)
			_ = sess.Exit(1)
		}
		next(sess)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled or
// the listener fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
