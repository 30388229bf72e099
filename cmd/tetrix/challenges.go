package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List the challenge boards",
	Long: `Shows every challenge, built in or loaded from --levels.

Examples:
  tetrix challenges
  tetrix challenges --levels ./my-levels`,
	Args: cobra.NoArgs,
	RunE: runChallenges,
}

func runChallenges(_ *cobra.Command, _ []string) error {
	levels, err := loader().LoadAll()
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		fmt.Println("No challenges found.")
		return nil
	}

	maxIDLen := 2
	for _, c := range levels {
		maxIDLen = max(maxIDLen, len(c.ID))
	}

	fmt.Printf("  %-*s  %-4s  %-6s  %-6s  %s\n", maxIDLen, "ID", "Size", "Target", "Shapes", "Name")
	fmt.Printf("  %-*s  %-4s  %-6s  %-6s  %s\n", maxIDLen, "--", "----", "------", "------", "----")
	for _, c := range levels {
		fmt.Printf("  %-*s  %-4d  %-6d  %-6d  %s\n",
			maxIDLen, c.ID, c.Size, c.Puzzle.Target, len(c.Puzzle.Shapes), c.Name)
		if c.Description != "" {
			fmt.Printf("  %-*s  %s\n", maxIDLen, "", c.Description)
		}
	}

	fmt.Println()
	fmt.Println("Run 'tetrix play --challenge <id>' to start on a challenge.")
	return nil
}
