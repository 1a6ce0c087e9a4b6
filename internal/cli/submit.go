package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/codequest-game/codequest/internal/daemon"
	"github.com/codequest-game/codequest/internal/domain"
)

func init() {
	submitCmd.Flags().Float64Var(&submitRuntime, "runtime", 0, "Measured runtime in milliseconds")
	submitCmd.Flags().BoolVar(&submitValidated, "validated", false, "Mark the submission as a completed challenge")
	submitCmd.Flags().StringVar(&submitConcept, "concept", "", "Concept tag (variables, conditionals, loops, functions)")
	rootCmd.AddCommand(submitCmd)
}

var (
	submitRuntime   float64
	submitValidated bool
	submitConcept   string
)

var submitCmd = &cobra.Command{
	Use:   "submit [file]",
	Short: "Score a code submission",
	Long: `Score a code file (or stdin when no file is given) and run it
through the full progression pipeline: XP, streak, achievements, difficulty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	code, err := readSource(args)
	if err != nil {
		return err
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	outcome, err := d.Engine.Submit(domain.Submission{
		Code:       code,
		RuntimeMs:  submitRuntime,
		Validated:  submitValidated,
		ConceptTag: submitConcept,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Score: %d (%s)  +%d XP\n", outcome.Result.Score, outcome.Result.Rating, outcome.XPGained)
	for _, issue := range outcome.Result.Issues {
		fmt.Printf("  - %s\n", issue)
	}
	if outcome.LeveledUp {
		fmt.Printf("Level up! Now level %d\n", outcome.Level)
	}
	for _, id := range outcome.NewAchievements {
		fmt.Printf("Achievement unlocked: %s\n", id)
	}
	fmt.Printf("Streak: %d days, difficulty %d\n", outcome.Streak, outcome.Difficulty)
	return nil
}

func readSource(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
