package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tetrix-game/tetrix/internal/games/tetrix"
	"github.com/tetrix-game/tetrix/internal/platform/tui"
	"github.com/tetrix-game/tetrix/internal/registry"
)

var (
	flagResume bool
	flagSave   string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode. Without a mode, plays the endless game,
or the challenges when --challenge is set.

Controls:
  Arrows/WASD  - Move the cursor or the held shape
  Enter/Space  - Pick up the selected shape, or drop it
  1-9          - Pick up a queue slot
  Tab          - Next queue slot
  Esc          - Put the held shape back
  E/Q          - Rotate (costs points)
  X            - Discard (costs points)
  Ctrl+S       - Save the game
  R            - Restart
  Ctrl+C       - Quit
  Mouse        - Drag shapes from the queue onto the grid

Examples:
  tetrix play
  tetrix play --resume
  tetrix play --save 3f2c9a4e-8d1b-4c55-9a57-0c2b6f1e7d10
  tetrix play tetrix_challenge
  tetrix play --challenge 03-double-decker
  tetrix play --preset casual --config ./my-tetrix.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue the last saved game")
	playCmd.Flags().StringVar(&flagSave, "save", "", "Continue a specific save slot (see 'tetrix saves')")
}

func runPlay(_ *cobra.Command, args []string) error {
	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if err := configureGames(logger); err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	mode := string(tetrix.ModeEndless)
	if flagChallenge != "" {
		mode = string(tetrix.ModeChallenge)
	}

	var saveID uuid.UUID
	if flagSave != "" {
		if saveID, err = uuid.Parse(flagSave); err != nil {
			return fmt.Errorf("invalid save id %q: %w", flagSave, err)
		}
		if store == nil {
			return fmt.Errorf("cannot resume save %s without a database", saveID)
		}
		// the slot knows its own mode
		slot, _, err := store.LoadSave(saveID)
		if err != nil {
			return err
		}
		mode = slot.Mode
	}

	if len(args) > 0 {
		mode = args[0]
	}
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q, run 'tetrix list' to see available modes", mode)
	}

	game, err := registry.Create(mode)
	if err != nil {
		return err
	}

	logger.Info("starting game", "mode", mode, "seed", flagSeed)
	if err := tui.Run(game, store, runtimeConfig(), tui.RunOptions{
		Logger: logger,
		Resume: flagResume || saveID != uuid.Nil,
		SaveID: saveID,
	}); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
