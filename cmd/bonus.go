package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/notify"
	"github.com/fakeyudi/pomodouroboros/internal/pom"
)

var bonusCmd = &cobra.Command{
	Use:   "bonus",
	Short: "Start a bonus pomodoro now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withToday(func(now time.Time, day *pom.Day) error {
			fmt.Fprintln(cmd.OutOrStdout(), notify.Bonus(day, now))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(bonusCmd)
}
