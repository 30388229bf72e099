// tetrix is a block-placement puzzle for the terminal.
//
// Usage:
//
//	tetrix menu              - Pick a mode interactively
//	tetrix play [mode]       - Play a mode directly
//	tetrix challenges        - List the challenge boards
//	tetrix scores [mode]     - Show high scores
//	tetrix saves             - List saved games
//	tetrix serve             - Start SSH server for remote play
//	tetrix list              - List available modes
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 30)
//	--seed <value>     - Set RNG seed for reproducible queues
//	--db <path>        - Set database path (default: ~/.tetrix/tetrix.db)
//	--config <path>    - Load gameplay settings from YAML
//	--preset <name>    - casual, classic or arcade
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/tetrix-game/tetrix/internal/games/tetrix"
)

var (
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagPreset    string
	flagChallenge string
	flagLevelsDir string
	flagLogFile   string
	flagDebug     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetrix",
	Short: "Tetrix - drag shapes onto the grid and clear lines",
	Long: `Tetrix is a block-placement puzzle played in the terminal.

Drag shapes from the queue onto the grid. Every full row or column is
cleared for points, and clearing several at once scores a combo.

Available commands:
  menu        - Interactive mode picker
  play        - Play a mode directly
  challenges  - List challenge boards
  scores      - View high scores
  saves       - List or delete saved games
  serve       - Start SSH server for remote play
  list        - Show available modes

Examples:
  tetrix menu
  tetrix play
  tetrix play tetrix_challenge --challenge 02-crossroads
  tetrix play --preset arcade --seed 42
  tetrix serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.tetrix/tetrix.db", "Path to scores and saves database")
	pf.StringVar(&flagConfig, "config", "", "Path to a gameplay config YAML")
	pf.StringVar(&flagPreset, "preset", "", "Gameplay preset: casual, classic, arcade")
	pf.StringVar(&flagChallenge, "challenge", "", "Challenge ID to start on")
	pf.StringVar(&flagLevelsDir, "levels", "", "Directory of challenge YAML files (default: built-in)")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	pf.BoolVar(&flagDebug, "debug", false, "Log engine actions")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(savesCmd)
}
