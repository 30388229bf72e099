package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetrix-game/tetrix/internal/registry"
	"github.com/tetrix-game/tetrix/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long:  `Shows every game mode that can be passed to 'tetrix play'.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No modes available.")
		return
	}

	// played/best columns are filled from the database when one exists
	var stats map[string]*storage.GameStats
	if store, err := storage.Open(flagDBPath); err == nil {
		stats, _ = store.GetAllGamesStats()
		store.Close()
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen, maxTitleLen := 2, 5
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	fmt.Printf("  %-*s  %-*s  %6s  %6s\n", maxIDLen, "ID", maxTitleLen, "Title", "Played", "Best")
	fmt.Printf("  %-*s  %-*s  %6s  %6s\n", maxIDLen, "--", maxTitleLen, "-----", "------", "----")
	for _, g := range games {
		played, best := 0, 0
		if st, ok := stats[g.ID]; ok {
			played, best = st.GamesCount, st.HighScore
		}
		fmt.Printf("  %-*s  %-*s  %6d  %6d\n", maxIDLen, g.ID, maxTitleLen, g.Title, played, best)
	}

	fmt.Println()
	fmt.Println("Run 'tetrix play <id>' to play a mode.")
}
