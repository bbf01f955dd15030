// Package history exports finished pomodoros to MySQL so they can be charted
// across days.
package history

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/fakeyudi/pomodouroboros/internal/report"
)

// Sink writes day summaries to the pomodoros table.
type Sink struct {
	db  *sql.DB
	log *slog.Logger
}

// Open connects to MySQL, applies migrations and returns a Sink.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func Open(ctx context.Context, dsn string, log *slog.Logger) (*Sink, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required (set mysql_dsn or POM_MYSQL_DSN)")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	if err := Migrate(ctx, db, log); err != nil {
		db.Close()
		return nil, err
	}
	return &Sink{db: db, log: log}, nil
}

// RowID derives a stable primary key for the pomodoro of dayID starting at start.
func RowID(dayID string, start time.Time) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(dayID+"/"+start.UTC().Format(time.RFC3339Nano))).String()
}

// SyncSummary upserts every pomodoro of s. Running it again for the same day
// updates rows in place.
func (s *Sink) SyncSummary(ctx context.Context, sum *report.Summary) error {
	if len(sum.Pomodoros) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	const q = `
INSERT INTO pomodoros
  (id, day_id, day_date, start_time, end_time, intention, verdict, bonus, synced_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  intention=VALUES(intention),
  verdict=VALUES(verdict),
  end_time=VALUES(end_time),
  bonus=VALUES(bonus),
  synced_at=VALUES(synced_at);
`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range sum.Pomodoros {
		var intention any
		if p.Intention != "" {
			intention = p.Intention
		}
		if _, err := stmt.ExecContext(ctx,
			RowID(sum.DayID, p.Start), sum.DayID, sum.Date,
			p.Start.UTC(), p.End.UTC(), intention, p.Verdict, p.Bonus, now,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Info("synced pomodoros", slog.String("date", sum.Date), slog.Int("count", len(sum.Pomodoros)))
	return nil
}

// Close releases the database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}
