package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/notify"
	"github.com/fakeyudi/pomodouroboros/internal/runner"
	"github.com/fakeyudi/pomodouroboros/internal/tui"
)

var plainOutput bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive today's pomodoros until interrupted",
	Long: `Run advances today's day in real time, saving it after every change.

On a terminal it shows a live view: i sets an intention, b adds a bonus
pomodoro, s/f mark the current pomodoro successful or failed, S/F do the
same for the previous one and q quits. Otherwise, or with --plain, it prints
one line per notification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		since := clock()
		r := runner.New(st, scheduleFor, policy, nil, logger)
		r.Now = clock
		r.Tick = tick

		if plainOutput || !term.IsTerminal(os.Stdout.Fd()) {
			r.Observer = &notify.Observer{Sink: notify.WriterSink{W: cmd.OutOrStdout()}, Since: since}
			return r.Run(ctx)
		}

		// The live view owns the terminal: logs go to --log-file or nowhere.
		w := io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer f.Close()
			w = f
		}
		r.Log = newLogger(w)
		return tui.Run(ctx, r, since)
	},
}

func init() {
	runCmd.Flags().BoolVar(&plainOutput, "plain", false, "print notifications instead of showing the live view")
	rootCmd.AddCommand(runCmd)
}
