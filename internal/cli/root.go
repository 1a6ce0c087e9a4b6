// Package cli implements the CodeQuest command-line interface using Cobra.
// Each subcommand maps to a progression capability (submit, status, streak, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codequest",
	Short: "CodeQuest — Learn to code, level up",
	Long: `CodeQuest is the progression engine for the learn-to-code game.
It scores your code, tracks streaks and XP, and unlocks achievements.

All player state lives locally under ~/.codequest.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
