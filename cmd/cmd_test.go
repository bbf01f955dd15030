package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fakeyudi/pomodouroboros/internal/pom"
	"github.com/fakeyudi/pomodouroboros/internal/report"
	"github.com/fakeyudi/pomodouroboros/internal/store"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	return executeCommandContext(context.Background(), root, args...)
}

func executeCommandContext(ctx context.Context, root *cobra.Command, args ...string) (output string, err error) {
	resetFlags(root)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	_, err = root.ExecuteContextC(ctx)
	return buf.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into
// each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// fixedAt points the commands at temp state and stops the clock at h:m on
// 2024-03-04. The default schedule has a pomodoro from 10:00 to 10:25.
func fixedAt(t *testing.T, h, m int) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("HOME", tmp)
	t.Setenv("POM_TEST_MODE", "")
	t.Setenv("POM_MYSQL_DSN", "")
	setClock(t, h, m)
}

func setClock(t *testing.T, h, m int) {
	t.Helper()
	now := time.Date(2024, 3, 4, h, m, 0, 0, time.Local)
	orig := clock
	clock = func() time.Time { return now }
	t.Cleanup(func() { clock = orig })
}

func storedDay(t *testing.T) *pom.Day {
	t.Helper()
	st, err := store.NewDayStore(false)
	if err != nil {
		t.Fatalf("NewDayStore: %v", err)
	}
	day, err := st.Load(time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local), pom.DefaultPolicy())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return day
}

func TestIntendSetsAndSaves(t *testing.T) {
	fixedAt(t, 10, 1)

	out, err := executeCommand(rootCmd, "intend", "write", "the", "cmd", "tests")
	if err != nil {
		t.Fatalf("intend: %v", err)
	}
	if !strings.Contains(out, "Intention Set: “write the cmd tests”") {
		t.Errorf("output = %q", out)
	}

	cur, _ := storedDay(t).Current()
	p, ok := cur.(*pom.Pomodoro)
	if !ok || p.Intention == nil || p.Intention.Description != "write the cmd tests" {
		t.Fatalf("stored current = %#v", cur)
	}

	out, err = executeCommand(rootCmd, "intend", "something else")
	if err != nil {
		t.Fatalf("intend again: %v", err)
	}
	if !strings.Contains(out, "Already Specified") {
		t.Errorf("second intend output = %q", out)
	}
}

func TestIntendTooLate(t *testing.T) {
	fixedAt(t, 10, 20)
	out, err := executeCommand(rootCmd, "intend", "late")
	if err != nil {
		t.Fatalf("intend: %v", err)
	}
	if !strings.Contains(out, "Too Late") {
		t.Errorf("output = %q", out)
	}
}

func TestEvaluate(t *testing.T) {
	fixedAt(t, 10, 1)
	if _, err := executeCommand(rootCmd, "intend", "write"); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "evaluate", "--success")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !strings.Contains(out, "Pomodoro Success") {
		t.Errorf("output = %q", out)
	}

	out, err = executeCommand(rootCmd, "evaluate", "--failure")
	if err != nil {
		t.Fatalf("evaluate again: %v", err)
	}
	if !strings.Contains(out, "Pomodoro Already successful.") {
		t.Errorf("second evaluate output = %q", out)
	}

	// the 09:30 pomodoro elapsed without an intention
	out, err = executeCommand(rootCmd, "evaluate", "--success", "--previous")
	if err != nil {
		t.Fatalf("evaluate previous: %v", err)
	}
	if !strings.Contains(out, "Automatic Failure") {
		t.Errorf("previous output = %q", out)
	}
}

func TestEvaluateNeedsExactlyOneVerdict(t *testing.T) {
	fixedAt(t, 10, 1)
	if _, err := executeCommand(rootCmd, "evaluate"); err == nil {
		t.Error("expected an error without a verdict")
	}
	if _, err := executeCommand(rootCmd, "evaluate", "--success", "--failure"); err == nil {
		t.Error("expected an error with both verdicts")
	}
}

func TestBonus(t *testing.T) {
	fixedAt(t, 10, 1)
	out, err := executeCommand(rootCmd, "bonus")
	if err != nil {
		t.Fatalf("bonus: %v", err)
	}
	if !strings.Contains(out, "Pomodoro Running") {
		t.Errorf("during a pomodoro: %q", out)
	}

	setClock(t, 10, 26)
	out, err = executeCommand(rootCmd, "bonus")
	if err != nil {
		t.Fatalf("bonus: %v", err)
	}
	if !strings.Contains(out, "Bonus pomodoro 10:26-10:30") {
		t.Errorf("during a break: %q", out)
	}
	var bonus int
	for _, p := range storedDay(t).PendingPomodoros() {
		if p.Bonus {
			bonus++
		}
	}
	if bonus != 1 {
		t.Errorf("stored bonus pomodoros = %d, want 1", bonus)
	}
}

func TestStatus(t *testing.T) {
	fixedAt(t, 10, 1)
	if _, err := executeCommand(rootCmd, "intend", "write"); err != nil {
		t.Fatal(err)
	}
	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	// 09:00 and 09:30 elapsed without intentions
	if !strings.Contains(out, "🥫: 0✓ 2✗ 13…") {
		t.Errorf("label missing from %q", out)
	}
	if !strings.Contains(out, "Pomodoro 10:00-10:25, 24m0s left, intention “write”") {
		t.Errorf("current line missing from %q", out)
	}
}

func TestReportJSON(t *testing.T) {
	fixedAt(t, 10, 1)
	out, err := executeCommand(rootCmd, "report", "--format", "json")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var s report.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("report output is not JSON: %v\n%s", err, out)
	}
	if s.Date != "2024-03-04" || s.Counts.Failed != 2 {
		t.Errorf("summary = %+v", s)
	}
}

func TestReportSave(t *testing.T) {
	fixedAt(t, 10, 1)
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
	if err := os.WriteFile(".pomrc", []byte(`{"output_dir": "out"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir("out", 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "report", "--save")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	path := filepath.Join("out", "pomodoros-2024-03-04.md")
	if !strings.Contains(out, path) {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file: %v", err)
	}
	if !strings.Contains(string(data), "# Pomodoros — 2024-03-04") {
		t.Errorf("report = %s", data)
	}
}

func TestReportUnknownDate(t *testing.T) {
	fixedAt(t, 10, 1)
	_, err := executeCommand(rootCmd, "report", "--date", "2020-01-01")
	if err == nil || !strings.Contains(err.Error(), store.ErrNoDay.Error()) {
		t.Errorf("err = %v", err)
	}
	if _, err := executeCommand(rootCmd, "report", "--date", "yesterday"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestSyncRequiresDSN(t *testing.T) {
	fixedAt(t, 10, 1)
	_, err := executeCommand(rootCmd, "sync")
	if err == nil || !strings.Contains(err.Error(), "DSN is required") {
		t.Errorf("err = %v", err)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	fixedAt(t, 10, 1)
	dir := filepath.Join(os.Getenv("HOME"), ".config", "pomodouroboros")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("day_start: noon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(rootCmd, "status"); err == nil {
		t.Error("expected an error for an invalid day_start")
	}
}

func TestRunPlainPrintsNotifications(t *testing.T) {
	fixedAt(t, 10, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := executeCommandContext(ctx, rootCmd, "run", "--plain")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Time To Set Intention") {
		t.Errorf("output = %q", out)
	}
	// catching up on the morning is silent
	if strings.Contains(out, "Pomodoro Failed") {
		t.Errorf("stale notification printed: %q", out)
	}
	if day := storedDay(t); len(day.ElapsedIntervals()) != 4 {
		t.Errorf("elapsed = %d, want 4", len(day.ElapsedIntervals()))
	}
}

func TestSetupWritesGlobalConfig(t *testing.T) {
	fixedAt(t, 10, 1)
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader("08:00\n\n50m\n"))
	rootCmd.SetArgs([]string{"setup"})
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !strings.Contains(buf.String(), "Config saved") {
		t.Errorf("output = %q", buf.String())
	}

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	// 50m pomodoros from 08:00 with 5m breaks
	if !strings.Contains(out, "Pomodoro 09:50-10:40") {
		t.Errorf("status after setup = %q", out)
	}
}
