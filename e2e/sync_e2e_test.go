//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fakeyudi/pomodouroboros/internal/history"
	"github.com/fakeyudi/pomodouroboros/internal/pom"
	"github.com/fakeyudi/pomodouroboros/internal/report"
)

func at(h, m int) time.Time { return time.Date(2025, 8, 1, h, m, 0, 0, time.UTC) }

func TestSyncToMySQL_UpsertsPomodoros(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_USER":          "test",
			"MYSQL_PASSWORD":      "pass",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}
	t.Cleanup(func() { _ = mysqlC.Terminate(context.Background()) })

	host, err := mysqlC.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := mysqlC.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true", "test", "pass", host, port.Port(), "testdb")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	// The listening port opens before MySQL accepts logins; retry for a while.
	var sink *history.Sink
	deadline := time.Now().Add(60 * time.Second)
	for {
		sink, err = history.Open(ctx, dsn, logger)
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })

	schedule := pom.Schedule{DayStart: 9 * time.Hour, DayEnd: 10 * time.Hour, PomodoroLength: 25 * time.Minute, BreakLength: 5 * time.Minute}
	day := pom.NewDay(at(0, 0), schedule, pom.DefaultPolicy())
	day.AdvanceToTime(at(9, 1), pom.NopObserver{})
	day.ExpressIntention(at(9, 1), "write the sync")
	day.AdvanceToTime(at(9, 40), pom.NopObserver{})

	if err := sink.SyncSummary(ctx, report.Build(day)); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	// Judge the first pomodoro and sync again: rows are updated, not duplicated.
	p, ok := day.Evaluable(-1)
	if !ok {
		t.Fatal("no previous pomodoro")
	}
	if err := day.EvaluateIntention(p, true); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if err := sink.SyncSummary(ctx, report.Build(day)); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pomodoros WHERE day_id = ?", day.ID).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}

	var verdict, intention string
	row := db.QueryRowContext(ctx, "SELECT verdict, intention FROM pomodoros WHERE id = ?", history.RowID(day.ID, at(9, 0)))
	if err := row.Scan(&verdict, &intention); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if verdict != report.VerdictSuccessful || intention != "write the sync" {
		t.Errorf("row = %s %q", verdict, intention)
	}
}
