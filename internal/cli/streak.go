package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codequest-game/codequest/internal/daemon"
)

func init() {
	streakCmd.Flags().IntVar(&streakGoal, "set-goal", 0, "Set the weekly goal (1-7 days)")
	rootCmd.AddCommand(streakCmd)
}

var streakGoal int

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show streak, weekly progress, and milestones",
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	tracker := d.Engine.Streak()

	if streakGoal > 0 {
		if err := tracker.SetWeeklyGoal(streakGoal); err != nil {
			return err
		}
	}

	data := tracker.Data()
	fmt.Printf("Current streak: %d days (longest %d, total %d days played)\n",
		data.CurrentStreak, data.LongestStreak, data.TotalDaysPlayed)

	weekly := tracker.WeeklyProgress()
	fmt.Printf("\nThis week (%d/%d days):\n", weekly.DaysCoded, weekly.WeeklyGoal)
	for _, day := range weekly.Days {
		mark := " "
		if day.Coded {
			mark = "x"
		}
		cursor := "  "
		if day.IsToday {
			cursor = "->"
		}
		fmt.Printf("%s [%s] %s %s\n", cursor, mark, day.DayName, day.Date)
	}

	fmt.Printf("\nConsistency: %d%%  Next milestone: %d days\n",
		tracker.ConsistencyRate(), tracker.NextMilestone())

	if len(data.StreakMilestones) > 0 {
		fmt.Println("\nMilestones:")
		for _, m := range data.StreakMilestones {
			fmt.Printf("  %3d days  %s  (%s)\n", m.Days, m.Message, m.Date)
		}
	}

	fmt.Println("\n" + tracker.MotivationalMessage())
	return nil
}
