package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonsnake/internal/audio"
	"github.com/vovakirdan/neonsnake/internal/config"
	"github.com/vovakirdan/neonsnake/internal/game"
	"github.com/vovakirdan/neonsnake/internal/metrics"
	"github.com/vovakirdan/neonsnake/internal/platform/tui"
	"github.com/vovakirdan/neonsnake/internal/storage"
)

var (
	flagSpeed  string
	flagTheme  string
	flagGrid   bool
	flagNoGrid bool
	flagMute   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of Neon Snake.

Controls:
  WASD/Arrows  - Steer
  Space/P      - Start, pause, resume
  R            - Restart
  Mouse drag   - Swipe to steer, click to pause
  G            - Toggle grid
  T            - Cycle theme
  V            - Cycle speed (applies on next game)
  M            - Mute
  Ctrl+S       - Save a PNG screenshot
  Q/Ctrl+C     - Quit

Speed tiers: slow, medium, normal, fast, extreme

Examples:
  neonsnake play
  neonsnake play --speed fast
  neonsnake play --theme retro --grid
  neonsnake play --config ./my-snake.yaml --mute`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

// addPlayFlags registers the game tuning flags shared by play and menu.
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSpeed, "speed", "", "Speed tier: slow, medium, normal, fast, extreme")
	cmd.Flags().StringVar(&flagTheme, "theme", "", "Color theme (see 'neonsnake themes')")
	cmd.Flags().BoolVar(&flagGrid, "grid", false, "Show grid lines")
	cmd.Flags().BoolVar(&flagNoGrid, "no-grid", false, "Hide grid lines")
	cmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

// applyPlayFlags folds the play flags into the loaded config.
func applyPlayFlags(cfg *config.Config) error {
	if flagSpeed != "" {
		cfg.Speed = config.SpeedTier(flagSpeed)
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	if flagGrid {
		cfg.ShowGrid = true
	}
	if flagNoGrid {
		cfg.ShowGrid = false
	}
	if flagMute {
		cfg.Sound.Enabled = false
	}
	return cfg.Validate()
}

// localSession holds everything a terminal game needs besides the session.
type localSession struct {
	cfg    config.Config
	logger *log.Logger
	store  *storage.Store
	player *audio.Player
	close  func()
}

func openLocal(cmd *cobra.Command) *localSession {
	cfg := loadConfig(cmd)
	if err := applyPlayFlags(&cfg); err != nil {
		fail("%v", err)
	}

	logger, closeLog := fileLogger("neonsnake")
	store := openStore(logger)

	player := audio.NewPlayer(audio.Config{
		Enabled: cfg.Sound.Enabled,
		Volume:  cfg.Sound.Volume,
	}, logger)
	// Failure is logged by the player and the game runs silent.
	_ = player.Initialize()

	return &localSession{
		cfg:    cfg,
		logger: logger,
		store:  store,
		player: player,
		close: func() {
			player.Close()
			if store != nil {
				store.Close()
			}
			closeLog()
		},
	}
}

func (l *localSession) newSession() (*game.Session, error) {
	opts := game.Options{
		Config:  l.cfg,
		Rand:    newRand(),
		Audio:   l.player,
		Logger:  l.logger,
		Metrics: metrics.New(),
	}
	if l.store != nil {
		opts.Store = l.store
	}
	return game.New(opts)
}

func (l *localSession) gameOptions() tui.GameOptions {
	width, height := terminalSize()
	return tui.GameOptions{
		FPS:              l.cfg.FPS,
		Width:            width,
		Height:           height,
		SwipeMinDistance: l.cfg.Input.SwipeMinDistance,
		Muter:            l.player,
	}
}

func runPlay(cmd *cobra.Command, _ []string) {
	local := openLocal(cmd)

	session, err := local.newSession()
	if err != nil {
		local.close()
		fail("%v", err)
	}

	runErr := tui.RunGame(session, local.gameOptions())

	// Show where this run landed before the store closes
	if rec, ok := session.LastRecord(); ok {
		fmt.Printf("Score %d (level %d) saved as %s\n", rec.Score, rec.Level, rec.ID)
	}
	local.close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
