// neonsnake is a neon-styled snake game for the terminal, with an SSH host,
// an HTTP API and a live spectator feed.
//
// Usage:
//
//	neonsnake play           - Play a game
//	neonsnake menu           - Start menu with play and statistics
//	neonsnake serve          - Start SSH and HTTP servers
//	neonsnake scores         - Show statistics and recent scores
//	neonsnake snapshot       - Render a frame to PNG
//	neonsnake themes         - List available themes
//
// Global flags:
//
//	--fps <rate>        - Set frame rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.neonsnake/scores.db)
//	--config <path>     - Use a custom snake.yaml
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/neonsnake/internal/config"
	"github.com/vovakirdan/neonsnake/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "neonsnake",
	Short: "Neon Snake - a glowing snake game for your terminal",
	Long: `Neon Snake is a snake game rendered with glow, particles and a
starfield, downsampled into truecolor terminal cells.

Available commands:
  play      - Play a game directly
  menu      - Interactive menu with play and statistics
  serve     - Start SSH and HTTP servers for remote play and spectators
  scores    - View statistics and recent scores
  snapshot  - Render a deterministic frame to PNG
  themes    - List color themes

Examples:
  neonsnake play
  neonsnake play --speed fast --theme retro
  neonsnake menu
  neonsnake serve --ssh :2222 --http :8080
  neonsnake scores --limit 20`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Render rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.neonsnake/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom snake.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(themesCmd)
}

// fail reports err and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig reads the configuration, applies the --fps override and
// validates the result.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if cmd.Flags().Changed("fps") || cfg.FPS <= 0 {
		cfg.FPS = flagFPS
	}
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
	return cfg
}

// newLogger builds a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to ~/.neonsnake/neonsnake.log; the alt screen owns stdout.
// The returned closer must be called on exit.
func fileLogger(prefix string) (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return newLogger(io.Discard, prefix), func() {}
	}
	dir := filepath.Join(home, ".neonsnake")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(io.Discard, prefix), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "neonsnake.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return newLogger(io.Discard, prefix), func() {}
	}
	return newLogger(f, prefix), func() { f.Close() }
}

// openStore opens the scores database. Failures are reported but the game
// still runs without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// newRand seeds from --seed, or the clock when it is zero.
func newRand() *rand.Rand {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
