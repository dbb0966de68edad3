package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neonsnake/internal/render"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List all color themes",
	Long:  `Shows every palette that can be passed to --theme or set in snake.yaml.`,
	Args:  cobra.NoArgs,
	Run:   runThemes,
}

func runThemes(_ *cobra.Command, _ []string) {
	names := render.ThemeNames()

	fmt.Println("Available themes:")
	fmt.Println()

	maxLen := 4 // "Name" header
	for _, n := range names {
		maxLen = max(maxLen, len(n))
	}

	fmt.Printf("  %-*s  %-8s  %-8s  %s\n", maxLen, "Name", "Snake", "Food", "Background")
	fmt.Printf("  %-*s  %-8s  %-8s  %s\n", maxLen, "----", "-----", "----", "----------")

	for _, n := range names {
		t, err := render.ThemeByName(n)
		if err != nil {
			continue
		}
		fmt.Printf("  %-*s  %-8s  %-8s  %s\n", maxLen, n,
			render.TerminalColor(t.Snake).Hex(),
			render.TerminalColor(t.Food).Hex(),
			render.TerminalColor(t.Background).Hex())
	}

	fmt.Println()
	fmt.Println("Run 'neonsnake play --theme <name>' to use a theme.")
}
