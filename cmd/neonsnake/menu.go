package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonsnake/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu with play and statistics",
	Long: `Open the main menu. From there you can start games, browse your
statistics and recent scores, and come back to the menu between games.

The play flags (--speed, --theme, --grid, --mute) apply to every game
started from the menu.`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	addPlayFlags(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) {
	local := openLocal(cmd)
	defer local.close()

	opts := tui.AppOptions{
		NewSession: local.newSession,
		MaxRecent:  local.cfg.Stats.MaxRecentScores,
		Game:       local.gameOptions(),
	}
	if local.store != nil {
		opts.Stats = local.store
	}

	if err := tui.RunApp(opts); err != nil {
		local.close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
