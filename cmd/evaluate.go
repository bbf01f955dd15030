package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/notify"
	"github.com/fakeyudi/pomodouroboros/internal/pom"
)

var (
	evalSuccess  bool
	evalFailure  bool
	evalPrevious bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate (--success | --failure)",
	Short: "Record whether the intention of a pomodoro was achieved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		offset := 0
		if evalPrevious {
			offset = -1
		}
		return withToday(func(_ time.Time, day *pom.Day) error {
			fmt.Fprintln(cmd.OutOrStdout(), notify.Evaluate(day, offset, evalSuccess))
			return nil
		})
	},
}

func init() {
	evaluateCmd.Flags().BoolVar(&evalSuccess, "success", false, "the intention was achieved")
	evaluateCmd.Flags().BoolVar(&evalFailure, "failure", false, "the intention was not achieved")
	evaluateCmd.Flags().BoolVar(&evalPrevious, "previous", false, "evaluate the pomodoro before the current one")
	evaluateCmd.MarkFlagsMutuallyExclusive("success", "failure")
	evaluateCmd.MarkFlagsOneRequired("success", "failure")
	rootCmd.AddCommand(evaluateCmd)
}
