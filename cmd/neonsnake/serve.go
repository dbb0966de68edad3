package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/neonsnake/internal/api"
	"github.com/vovakirdan/neonsnake/internal/audio"
	"github.com/vovakirdan/neonsnake/internal/game"
	"github.com/vovakirdan/neonsnake/internal/metrics"
	"github.com/vovakirdan/neonsnake/internal/platform/tui"
	"github.com/vovakirdan/neonsnake/internal/storage"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and HTTP servers",
	Long: `Start an SSH server for remote play and an HTTP server with the
score API, Prometheus metrics and a live spectator websocket.

Each SSH connection gets its own session with the main menu. Scores are
stored per-server (all users share the same leaderboard). Every game is
broadcast to spectators on /ws/live.

Pass an empty address to disable a server.

HTTP endpoints:
  GET /healthz
  GET /metrics
  GET /api/stats
  GET /api/scores?order=top|recent&limit=N
  GET /api/scores/high
  GET /api/live
  GET /ws/live

Examples:
  neonsnake serve                         # SSH on :2222, HTTP on :8080
  neonsnake serve --ssh :2323 --http ""   # SSH only
  neonsnake serve --host-key ./host_key   # Use specific host key

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :2222)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (default from config, :8080)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if missing)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	logger := newLogger(os.Stderr, "neonsnake")

	srvCfg := cfg.Server
	if cmd.Flags().Changed("ssh") {
		srvCfg.SSHAddr = flagSSHAddr
	}
	if cmd.Flags().Changed("http") {
		srvCfg.HTTPAddr = flagHTTPAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = minutes(flagIdleTimeout)
	}
	if srvCfg.SSHAddr == "" && srvCfg.HTTPAddr == "" {
		fail("nothing to serve: both --ssh and --http are empty")
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	hub := api.NewHub(logger, m, srvCfg.AllowedOrigins)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	if srvCfg.SSHAddr != "" {
		hostKey, err := storage.ExpandPath(srvCfg.HostKey)
		if err != nil {
			fail("%v", err)
		}
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     srvCfg.SSHAddr,
			HostKeyPath: hostKey,
			IdleTimeout: srvCfg.IdleTimeout,
			NewSession: func(user, sessionID string) (*game.Session, error) {
				return game.New(game.Options{
					Config:    cfg,
					Rand:      newRand(),
					Audio:     audio.Nop{},
					Store:     store,
					Publisher: hub.ForSession(sessionID),
					Logger:    logger.With("user", user, "session", sessionID),
					Metrics:   m,
				})
			},
			Stats:            store,
			MaxRecent:        cfg.Stats.MaxRecentScores,
			FPS:              cfg.FPS,
			SwipeMinDistance: cfg.Input.SwipeMinDistance,
			Logger:           logger.WithPrefix("ssh"),
		})
		if err != nil {
			fail("creating SSH server: %v", err)
		}
		g.Go(func() error { return sshServer.ListenAndServe(ctx) })
		fmt.Printf("Connect with: ssh localhost -p %s\n", port(srvCfg.SSHAddr))
	}

	if srvCfg.HTTPAddr != "" {
		router := api.NewRouter(api.RouterConfig{
			Scores:         store,
			Hub:            hub,
			Metrics:        m,
			Logger:         logger.WithPrefix("http"),
			AllowedOrigins: srvCfg.AllowedOrigins,
			MaxRecent:      cfg.Stats.MaxRecentScores,
		})
		httpServer := api.NewServer(srvCfg.HTTPAddr, router, logger)
		g.Go(func() error { return httpServer.ListenAndServe(ctx) })
	}

	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		store.Close()
		fail("%v", err)
	}
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// port returns the port part of a listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
