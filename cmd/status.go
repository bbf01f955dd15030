package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/pom"
	"github.com/fakeyudi/pomodouroboros/internal/report"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's tally and the current interval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withToday(func(now time.Time, day *pom.Day) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Label(day))
			fmt.Fprintln(out, report.Describe(day, now))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
