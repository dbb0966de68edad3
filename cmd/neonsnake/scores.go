package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonsnake/internal/render"
	"github.com/vovakirdan/neonsnake/internal/storage"
)

var (
	flagLimit int
	flagClear bool
	flagYes   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show statistics and high scores",
	Long: `Display aggregate statistics and the top scores.

Examples:
  neonsnake scores
  neonsnake scores --limit 25
  neonsnake scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of top scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded score")
	scoresCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation when clearing")
}

func runScores(cmd *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if !flagYes && !confirm("Delete all recorded scores?") {
			fmt.Println("Aborted.")
			return
		}
		if err := store.ClearScores(); err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Println("All scores cleared.")
		return
	}

	stats, err := store.Statistics(0)
	if err != nil {
		store.Close()
		fail("retrieving statistics: %v", err)
	}
	scores, err := store.TopScores(max(flagLimit, 1))
	if err != nil {
		store.Close()
		fail("retrieving scores: %v", err)
	}

	fmt.Println("Neon Snake - Statistics")
	fmt.Println()
	fmt.Printf("  %-14s %d\n", "Games played", stats.TotalGames)
	fmt.Printf("  %-14s %d\n", "Total score", stats.TotalScore)
	fmt.Printf("  %-14s %d\n", "Average score", stats.AverageScore)
	fmt.Printf("  %-14s %d\n", "Highest level", stats.HighestLevel)
	fmt.Printf("  %-14s %s\n", "Time played", render.FormatClock(stats.TotalPlayTime))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'neonsnake play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %s\n", "Rank", "Score", "Level", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %s\n", "----", "-----", "-----", "----", "----")

	for i, r := range scores {
		fmt.Printf("  %-4d  %-8d  %-5d  %-5s  %s\n",
			i+1, r.Score, r.Level, render.FormatClock(r.Duration), r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Best: %d\n", stats.HighScore)
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
