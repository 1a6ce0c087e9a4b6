package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codequest-game/codequest/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show player level, XP, and performance",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	progress := d.Engine.Controller().Progress()
	stats := d.Engine.Controller().Stats()
	perf := d.Engine.Scorer().Data()

	unlocked, err := d.Engine.Achievements().UnlockedCount()
	if err != nil {
		return err
	}

	fmt.Printf("Level %d (%s, difficulty %d)\n", progress.Level, progress.SkillLevel, progress.Difficulty)
	fmt.Printf("XP: %d / %d to next level\n", progress.XP, progress.XPToNext)
	fmt.Printf("Streak: %d days  Achievements: %d/%d\n\n",
		progress.Streak, unlocked, len(d.Engine.Achievements().Catalog()))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHALLENGES\tLINES\tVARIABLES\tLOOPS\tFUNCTIONS\tERRORS")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\n",
		progress.ChallengesCompleted,
		progress.TotalLinesWritten,
		stats.Variables,
		stats.Loops,
		stats.Functions,
		perf.ErrorCount,
	)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nBest practices: %d (%s) over %d executions, avg runtime %.1fms\n",
		perf.BestPracticesScore, perf.EfficiencyRating, perf.CodeExecutions, perf.AverageRuntimeMs)
	fmt.Println(d.Engine.Streak().MotivationalMessage())
	return nil
}
