// Package store persists one Day per calendar date as a JSON file in the XDG
// data directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fakeyudi/pomodouroboros/internal/pom"
)

// ErrNoDay is returned by Load when no file exists for the requested date.
var ErrNoDay = errors.New("no day stored for this date")

// DayStore persists Days keyed by their calendar date.
type DayStore interface {
	Save(d *pom.Day) error
	Load(date time.Time, policy pom.Policy) (*pom.Day, error) // returns ErrNoDay if none exists
	Path(date time.Time) string
	Dir() string
}

// diskStore is the concrete DayStore that writes to the XDG data directory.
type diskStore struct {
	dir string
}

// NewDayStore returns a DayStore backed by the XDG data directory.
// Path: $XDG_DATA_HOME/pomodouroboros or ~/.local/share/pomodouroboros, with a
// "testing" subdirectory when testMode is set.
func NewDayStore(testMode bool) (DayStore, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if testMode {
		dir = filepath.Join(dir, "testing")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{dir: dir}, nil
}

// dataDir returns the pomodouroboros-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "pomodouroboros"), nil
}

func (d *diskStore) Dir() string { return d.dir }

// Path returns the file that holds the Day for the calendar date of date.
func (d *diskStore) Path(date time.Time) string {
	return filepath.Join(d.dir, date.Format(time.DateOnly)+".pomday")
}

// Save marshals the snapshot of day to JSON and writes it atomically via a
// temp file + os.Rename.
func (d *diskStore) Save(day *pom.Day) (err error) {
	data, err := Encode(day.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to persist day: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(d.dir, "day-*.pomday.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist day: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist day: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist day: %w", err)
	}

	if err = os.Rename(tmpName, d.Path(day.StartTime)); err != nil {
		return fmt.Errorf("failed to persist day: %w", err)
	}
	return nil
}

// Load reads and restores the Day stored for the calendar date of date.
// Returns ErrNoDay if the file does not exist.
func (d *diskStore) Load(date time.Time, policy pom.Policy) (*pom.Day, error) {
	snap, err := ReadSnapshot(d.Path(date))
	if err != nil {
		return nil, err
	}
	day, err := pom.FromSnapshot(snap, policy)
	if err != nil {
		return nil, fmt.Errorf("failed to restore day: %w", err)
	}
	return day, nil
}

// ReadSnapshot reads the day file at path without restoring it.
func ReadSnapshot(path string) (pom.Snapshot, error) {
	var snap pom.Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snap, ErrNoDay
		}
		return snap, fmt.Errorf("failed to read day: %w", err)
	}
	return Decode(data)
}

// Encode returns the on-disk form of snap.
func Encode(snap pom.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// Decode parses the on-disk form of a snapshot.
func Decode(data []byte) (pom.Snapshot, error) {
	var snap pom.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("failed to parse day: %w", err)
	}
	return snap, nil
}

// LoadOrCreate returns the stored Day for the calendar date of date, or a new
// one planned from schedule. created reports whether the Day is new; a new Day
// is not saved.
func LoadOrCreate(s DayStore, date time.Time, schedule pom.Schedule, policy pom.Policy) (day *pom.Day, created bool, err error) {
	day, err = s.Load(date, policy)
	if err == nil {
		return day, false, nil
	}
	if !errors.Is(err, ErrNoDay) {
		return nil, false, err
	}
	return pom.NewDay(date, schedule, policy), true, nil
}
