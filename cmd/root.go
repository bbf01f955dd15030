package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/config"
	"github.com/fakeyudi/pomodouroboros/internal/pom"
	"github.com/fakeyudi/pomodouroboros/internal/store"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// Parsed from cfg in PersistentPreRunE.
var (
	schedule pom.Schedule
	policy   pom.Policy
	tick     time.Duration
	testMode bool
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// clock is the time source for every command; tests replace it.
var clock = time.Now

var (
	verbose bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "pom",
	Short: "Pomodoros with intentions: say what you will do, then say whether you did it",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(os.Stderr)

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		cfg.ApplyEnv()
		testMode = config.TestMode()

		if schedule, err = cfg.Schedule(); err != nil {
			return err
		}
		if policy, err = cfg.Policy(); err != nil {
			return err
		}
		if tick, err = cfg.Tick(); err != nil {
			return err
		}
		logger.Debug("config loaded",
			slog.String("day_start", cfg.DayStart),
			slog.String("day_end", cfg.DayEnd),
			slog.String("pomodoro_length", cfg.PomodoroLength),
			slog.Bool("test_mode", testMode))
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// newLogger returns a text logger on w honoring --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// scheduleFor returns the schedule of a Day created at now.
func scheduleFor(now time.Time) pom.Schedule {
	if testMode {
		return pom.TestingSchedule(now)
	}
	return schedule
}

// openStore returns the day store, in its testing directory under
// POM_TEST_MODE.
func openStore() (store.DayStore, error) {
	return store.NewDayStore(testMode)
}

// withToday loads or creates today's Day, brings it up to date, runs fn and
// saves the result.
func withToday(fn func(now time.Time, day *pom.Day) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	now := clock()
	day, created, err := store.LoadOrCreate(st, now, scheduleFor(now), policy)
	if err != nil {
		return err
	}
	if created {
		logger.Info("created day", slog.String("date", now.Format(time.DateOnly)), slog.String("id", day.ID))
	}
	day.AdvanceToTime(now, pom.NopObserver{})
	if err := fn(now, day); err != nil {
		return err
	}
	if err := st.Save(day); err != nil {
		return err
	}
	logger.Debug("day saved", slog.String("path", st.Path(day.StartTime)))
	return nil
}

// loadDate returns the stored Day for date, or today's Day brought up to date
// when date is empty.
func loadDate(date string) (*pom.Day, time.Time, error) {
	if date == "" {
		var day *pom.Day
		var now time.Time
		err := withToday(func(n time.Time, d *pom.Day) error {
			day, now = d, n
			return nil
		})
		return day, now, err
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.Local)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
	}
	st, err := openStore()
	if err != nil {
		return nil, time.Time{}, err
	}
	day, err := st.Load(t, policy)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading %s: %w", date, err)
	}
	// not saved: only today's file is written by short commands
	now := clock()
	day.AdvanceToTime(now, pom.NopObserver{})
	return day, now, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs here while the live view owns the terminal")
}
