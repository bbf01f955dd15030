package pom_test

import (
	"fmt"
	"time"

	"github.com/fakeyudi/pomodouroboros/internal/pom"
)

// event is one recorded Observer callback.
type event struct {
	kind     string
	start    time.Time
	pct      float64
	response pom.IntentionResponse
}

func (e event) String() string {
	if e.kind == "progress" {
		return fmt.Sprintf("%s@%s %.3f %s", e.kind, e.start.Format(time.TimeOnly), e.pct, e.response)
	}
	return fmt.Sprintf("%s@%s", e.kind, e.start.Format(time.TimeOnly))
}

// recorder is an Observer that keeps every event in order.
type recorder struct {
	events []event
}

func (r *recorder) BreakStarting(b *pom.Break) {
	r.events = append(r.events, event{kind: "break-starting", start: b.StartTime})
}

func (r *recorder) PomodoroStarting(_ *pom.Day, p *pom.Pomodoro) {
	r.events = append(r.events, event{kind: "pomodoro-starting", start: p.StartTime})
}

func (r *recorder) ElapsedWithNoIntention(p *pom.Pomodoro) {
	r.events = append(r.events, event{kind: "elapsed-no-intention", start: p.StartTime})
}

func (r *recorder) ProgressUpdate(iv pom.Interval, pct float64, response pom.IntentionResponse) {
	r.events = append(r.events, event{kind: "progress", start: iv.Start(), pct: pct, response: response})
}

func (r *recorder) DayOver() {
	r.events = append(r.events, event{kind: "day-over"})
}

// transitions drops progress updates, leaving start, elapsed and day-over events.
func (r *recorder) transitions() []event {
	var out []event
	for _, e := range r.events {
		if e.kind != "progress" {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) kinds() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.kind
	}
	return out
}

func (r *recorder) reset() { r.events = nil }
