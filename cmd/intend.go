package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/notify"
	"github.com/fakeyudi/pomodouroboros/internal/pom"
)

var intendCmd = &cobra.Command{
	Use:   "intend <intention>",
	Short: "Set the intention of the current pomodoro",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc := strings.Join(args, " ")
		return withToday(func(now time.Time, day *pom.Day) error {
			fmt.Fprintln(cmd.OutOrStdout(), notify.Intend(day, now, desc))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(intendCmd)
}
