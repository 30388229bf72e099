package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tetrix-game/tetrix/internal/storage"
)

var (
	flagDelete string
	flagLimit  int
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List or delete saved games",
	Long: `Shows the saved games in the database, newest first.
Games are saved with Ctrl+S while playing and removed once they end.

Examples:
  tetrix saves
  tetrix saves --delete 3f2c9a4e-8d1b-4c55-9a57-0c2b6f1e7d10
  tetrix play --save 3f2c9a4e-8d1b-4c55-9a57-0c2b6f1e7d10`,
	Args: cobra.NoArgs,
	RunE: runSaves,
}

func init() {
	savesCmd.Flags().StringVar(&flagDelete, "delete", "", "Delete the save with this id")
	savesCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of saves to list")
}

func runSaves(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer store.Close()

	if flagDelete != "" {
		id, err := uuid.Parse(flagDelete)
		if err != nil {
			return fmt.Errorf("invalid save id %q: %w", flagDelete, err)
		}
		if err := store.DeleteSave(id); err != nil {
			return err
		}
		fmt.Printf("Deleted save %s\n", id)
		return nil
	}

	slots, err := store.ListSaves(flagLimit)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Println("No saved games.")
		return nil
	}

	fmt.Printf("  %-36s  %-16s  %-8s  %s\n", "ID", "Mode", "Score", "Saved")
	fmt.Printf("  %-36s  %-16s  %-8s  %s\n", "--", "----", "-----", "-----")
	for _, s := range slots {
		fmt.Printf("  %-36s  %-16s  %-8d  %s\n", s.ID, s.Mode, s.Score, s.UpdatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Run 'tetrix play --save <id>' to continue one.")
	return nil
}
