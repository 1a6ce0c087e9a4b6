package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codequest-game/codequest/internal/daemon"
)

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "List achievements and unlock progress",
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	engine := d.Engine.Achievements()
	snap := d.Engine.Snapshot()

	stats, err := engine.CompletionStats()
	if err != nil {
		return err
	}
	fmt.Printf("Unlocked %d of %d (%d%%), %d XP from achievements\n\n",
		stats.UnlockedCount, stats.TotalAchievements, stats.CompletionPercentage, stats.TotalXPEarned)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACHIEVEMENT\tRARITY\tXP\tPROGRESS")
	for _, def := range engine.Catalog() {
		prog, err := engine.Progress(def.ID, snap)
		if err != nil {
			return err
		}
		state := fmt.Sprintf("%d%%", prog.Percentage)
		if prog.Completed {
			state = "unlocked"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%d\t%s\n", def.Icon, def.Name, def.Rarity, def.XPReward, state)
	}
	return w.Flush()
}
