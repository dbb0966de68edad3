package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/neonsnake/internal/game"
	"github.com/vovakirdan/neonsnake/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.neonsnake/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// NewSession builds a game session for a connected user. sessionID
	// identifies the connection to spectators.
	NewSession func(user, sessionID string) (*game.Session, error)

	// Stats backs the statistics screen. Shared by every connection.
	Stats     StatsSource
	MaxRecent int

	FPS              int
	SwipeMinDistance int

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":2222",
		IdleTimeout: 30 * time.Minute,
		MaxRecent:   storage.DefaultMaxRecent,
		FPS:         60,
	}
}

// SSHServer wraps a Wish SSH server that runs one game app per connection.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger

	mu    sync.Mutex
	games map[ssh.Session][]*game.Session
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.NewSession == nil {
		return nil, errors.New("ssh: NewSession is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "neonsnake-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".neonsnake", "host_key")
	}

	// Ensure host key directory exists
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.releaseMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	user := sshSession.User()
	model := NewAppModel(AppOptions{
		NewSession: func() (*game.Session, error) {
			g, err := s.config.NewSession(user, user+"-"+uuid.NewString()[:8])
			if err != nil {
				return nil, err
			}
			s.track(sshSession, g)
			return g, nil
		},
		Stats:     s.config.Stats,
		MaxRecent: s.config.MaxRecent,
		Game: GameOptions{
			FPS:              s.config.FPS,
			Width:            pty.Window.Width,
			Height:           pty.Window.Height,
			SwipeMinDistance: s.config.SwipeMinDistance,
		},
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// track records a game session opened over conn. Sessions the player has
// already left are dropped from the list.
func (s *SSHServer) track(conn ssh.Session, g *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.games == nil {
		s.games = make(map[ssh.Session][]*game.Session)
	}
	open := s.games[conn][:0]
	for _, prev := range s.games[conn] {
		if !prev.Closed() {
			open = append(open, prev)
		}
	}
	s.games[conn] = append(open, g)
}

// release closes every game session opened over conn and returns how many
// were still open.
func (s *SSHServer) release(conn ssh.Session) int {
	s.mu.Lock()
	games := s.games[conn]
	delete(s.games, conn)
	s.mu.Unlock()

	n := 0
	for _, g := range games {
		if !g.Closed() {
			n++
		}
		g.Close()
	}
	return n
}

// releaseMiddleware closes the connection's game sessions once its program
// has exited, including when the client disconnects mid-game.
func (s *SSHServer) releaseMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		defer func() {
			if n := s.release(sshSession); n > 0 {
				s.logger.Debug("released game sessions", "user", sshSession.User(), "count", n)
			}
		}()
		next(sshSession)
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

// ListenAndServe starts the SSH server and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server")
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
