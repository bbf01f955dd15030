package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write the global config interactively (re-run anytime to edit settings)",
	Args:  cobra.NoArgs,
	// Bypass the normal PersistentPreRunE so setup can repair a broken config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		existing := config.Defaults()
		if global, err := config.LoadGlobal(); err == nil {
			existing = config.Merge(global, nil)
		}

		out := cmd.OutOrStdout()
		c, err := config.RunSetup(cmd.InOrStdin(), out, existing)
		if err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
		path, err := config.SaveGlobal(c)
		if err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "  ✓ Config saved to %s\n", path)
		fmt.Fprintln(out, "  Run 'pom run' to start the day.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
