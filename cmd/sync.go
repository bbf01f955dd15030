package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/history"
	"github.com/fakeyudi/pomodouroboros/internal/report"
)

var (
	syncDate string
	syncDSN  string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export the pomodoros of a day to MySQL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, _, err := loadDate(syncDate)
		if err != nil {
			return err
		}
		dsn := syncDSN
		if dsn == "" {
			dsn = cfg.MySQLDSN
		}
		sink, err := history.Open(cmd.Context(), dsn, logger)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer sink.Close()

		summary := report.Build(day)
		if err := sink.SyncSummary(cmd.Context(), summary); err != nil {
			return fmt.Errorf("syncing %s: %w", summary.Date, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d pomodoros for %s.\n", len(summary.Pomodoros), summary.Date)
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncDate, "date", "", "day to export, YYYY-MM-DD (default today)")
	syncCmd.Flags().StringVar(&syncDSN, "dsn", "", "MySQL DSN (overrides mysql_dsn and POM_MYSQL_DSN)")
	rootCmd.AddCommand(syncCmd)
}
