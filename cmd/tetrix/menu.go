package main

import (
	"github.com/spf13/cobra"

	"github.com/tetrix-game/tetrix/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start tetrix in interactive menu mode.

Pick endless or challenge play, or open the scoreboard with Tab.
After a game ends, press B to return to the menu.

Examples:
  tetrix menu
  tetrix menu --preset arcade
  tetrix menu --db ./tetrix.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
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

	return tui.RunSession(store, runtimeConfig(), logger)
}
