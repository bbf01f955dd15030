// Package runner drives a pom.Day in real time. It owns the Day: every tick,
// every user action and every reload of the day file runs on the goroutine
// that called Run.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fakeyudi/pomodouroboros/internal/pom"
	"github.com/fakeyudi/pomodouroboros/internal/store"
)

// ErrStopped is returned by Do once Run has returned.
var ErrStopped = errors.New("runner stopped")

// DefaultTick is how often the day advances when Tick is not set.
const DefaultTick = 100 * time.Millisecond

// Action operates on the Day owned by the runner. now is the time the
// day was last advanced to.
type Action func(now time.Time, day *pom.Day)

type action struct {
	fn   Action
	done chan struct{}
}

// Runner advances the Day of the current date, persists it after every
// change and picks up edits other processes make to the day file.
type Runner struct {
	Store    store.DayStore
	Schedule func(now time.Time) pom.Schedule
	Policy   pom.Policy
	Observer pom.Observer
	Now      func() time.Time
	Tick     time.Duration
	Log      *slog.Logger

	actions chan action
	stopped chan struct{}

	day   *pom.Day
	saved []byte // file contents last written or read
	dirty bool
}

// New returns a Runner with the real clock and DefaultTick.
func New(st store.DayStore, schedule func(now time.Time) pom.Schedule, policy pom.Policy, obs pom.Observer, log *slog.Logger) *Runner {
	return &Runner{
		Store:    st,
		Schedule: schedule,
		Policy:   policy,
		Observer: obs,
		Now:      time.Now,
		Tick:     DefaultTick,
		Log:      log,
		actions:  make(chan action),
		stopped:  make(chan struct{}),
	}
}

// Do runs fn on the runner goroutine and waits for it to finish. The day is
// saved afterwards.
func (r *Runner) Do(ctx context.Context, fn Action) error {
	a := action{fn: fn, done: make(chan struct{})}
	select {
	case r.actions <- a:
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run loads or creates the Day for the current date and drives it until ctx
// is cancelled. It only returns an error if the day cannot be set up.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.stopped)

	if err := r.load(r.Now()); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(r.Store.Dir()); err != nil {
		return fmt.Errorf("watching %s: %w", r.Store.Dir(), err)
	}

	tick := r.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	r.advance(r.Now())
	r.flush()

	for {
		select {
		case <-ctx.Done():
			r.flush()
			return nil

		case <-ticker.C:
			r.advance(r.Now())
			r.flush()

		case a := <-r.actions:
			now := r.Now()
			r.advance(now)
			a.fn(now, r.day)
			r.dirty = true
			r.flush()
			close(a.done)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != r.Store.Path(r.day.StartTime) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				r.reload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; ticks keep the day moving.
			r.Log.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// load replaces the owned Day with the one stored for the date of now.
func (r *Runner) load(now time.Time) error {
	day, created, err := store.LoadOrCreate(r.Store, now, r.Schedule(now), r.Policy)
	if err != nil {
		return fmt.Errorf("loading day: %w", err)
	}
	r.day = day
	r.saved = nil
	r.dirty = created
	r.Log.Info("day loaded",
		slog.String("date", now.Format(time.DateOnly)),
		slog.String("id", day.ID),
		slog.Bool("created", created),
		slog.Int("intervals", len(day.Intervals())))
	return nil
}

// advance moves the day to now, switching to a new Day when the date changes.
func (r *Runner) advance(now time.Time) {
	if !sameDate(now, r.day.StartTime) {
		r.flush()
		r.Log.Info("date changed", slog.String("from", r.day.StartTime.Format(time.DateOnly)))
		if err := r.load(now); err != nil {
			// keep driving the old day and try again next tick
			r.Log.Warn("day rollover failed", slog.Any("error", err))
			return
		}
	}
	obs := pom.Observers{logObserver{r.Log}}
	if r.Observer != nil {
		obs = append(obs, r.Observer)
	}
	before := len(r.day.ElapsedIntervals())
	r.day.AdvanceToTime(now, obs)
	if len(r.day.ElapsedIntervals()) != before {
		r.dirty = true
	}
}

// flush saves the day if it changed since it was last saved or read.
func (r *Runner) flush() {
	if !r.dirty {
		return
	}
	data, err := store.Encode(r.day.Snapshot())
	if err != nil {
		r.Log.Warn("encoding day failed", slog.Any("error", err))
		return
	}
	r.dirty = false
	if bytes.Equal(data, r.saved) {
		return
	}
	if err := r.Store.Save(r.day); err != nil {
		r.Log.Warn("saving day failed", slog.Any("error", err))
		r.dirty = true
		return
	}
	r.saved = data
	r.Log.Debug("day saved", slog.String("path", r.Store.Path(r.day.StartTime)))
}

// reload applies the day file to the owned Day when another process wrote it.
func (r *Runner) reload() {
	path := r.Store.Path(r.day.StartTime)
	data, err := os.ReadFile(path)
	if err != nil {
		r.Log.Warn("reading day file failed", slog.String("path", path), slog.Any("error", err))
		return
	}
	if bytes.Equal(data, r.saved) {
		return // our own write
	}
	snap, err := store.Decode(data)
	if err != nil {
		// likely a partial write we will see again
		r.Log.Warn("reloading day failed", slog.String("path", path), slog.Any("error", err))
		return
	}
	if err := r.day.Replace(snap); err != nil {
		r.Log.Warn("reloading day failed", slog.String("path", path), slog.Any("error", err))
		return
	}
	r.saved = data
	r.dirty = false
	r.Log.Info("day reloaded", slog.String("path", path))
	r.advance(r.Now())
	r.flush()
}

func sameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// logObserver records transitions at debug level.
type logObserver struct {
	log *slog.Logger
}

func (o logObserver) BreakStarting(b *pom.Break) {
	o.log.Debug("break starting", slog.Time("start", b.StartTime), slog.Time("end", b.EndTime))
}

func (o logObserver) PomodoroStarting(_ *pom.Day, p *pom.Pomodoro) {
	o.log.Debug("pomodoro starting", slog.Time("start", p.StartTime), slog.Time("end", p.EndTime))
}

func (o logObserver) ElapsedWithNoIntention(p *pom.Pomodoro) {
	o.log.Debug("pomodoro elapsed with no intention", slog.Time("start", p.StartTime))
}

func (logObserver) ProgressUpdate(pom.Interval, float64, pom.IntentionResponse) {}

func (o logObserver) DayOver() {
	o.log.Debug("day over")
}
