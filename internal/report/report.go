// Package report summarizes a Day for display and export.
package report

import (
	"fmt"
	"time"

	"github.com/fakeyudi/pomodouroboros/internal/pom"
)

// Verdicts a PomodoroRow can carry.
const (
	VerdictSuccessful  = "successful"
	VerdictFailed      = "failed"
	VerdictNoIntention = "no-intention"
	VerdictUnevaluated = "unevaluated"
	VerdictPending     = "pending"
)

// Summary is the renderable representation of one Day.
type Summary struct {
	DayID     string        `json:"day_id"`
	Date      string        `json:"date"` // YYYY-MM-DD
	Counts    Counts        `json:"counts"`
	Pomodoros []PomodoroRow `json:"pomodoros"`
}

// Counts mirrors the Day query helpers.
type Counts struct {
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	UnEvaluated int `json:"unevaluated"`
	Pending     int `json:"pending"`
}

// PomodoroRow describes one Pomodoro of the day.
type PomodoroRow struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Intention string    `json:"intention,omitempty"`
	Verdict   string    `json:"verdict"`
	Bonus     bool      `json:"bonus,omitempty"`
}

// Build summarizes d.
func Build(d *pom.Day) *Summary {
	s := &Summary{
		DayID: d.ID,
		Date:  d.StartTime.Format(time.DateOnly),
		Counts: Counts{
			Successful:  len(d.SuccessfulPomodoros()),
			Failed:      len(d.FailedPomodoros()),
			UnEvaluated: len(d.UnEvaluatedPomodoros()),
			Pending:     len(d.PendingPomodoros()),
		},
		Pomodoros: []PomodoroRow{},
	}
	pending := map[*pom.Pomodoro]bool{}
	for _, p := range d.PendingPomodoros() {
		pending[p] = true
	}
	for _, iv := range d.Intervals() {
		p, ok := iv.(*pom.Pomodoro)
		if !ok {
			continue
		}
		row := PomodoroRow{Start: p.StartTime, End: p.EndTime, Bonus: p.Bonus}
		if p.Intention != nil {
			row.Intention = p.Intention.Description
		}
		row.Verdict = verdict(p, pending[p])
		s.Pomodoros = append(s.Pomodoros, row)
	}
	return s
}

func verdict(p *pom.Pomodoro, pending bool) string {
	switch {
	case p.Intention != nil && p.Intention.Evaluated():
		if *p.Intention.WasSuccessful {
			return VerdictSuccessful
		}
		return VerdictFailed
	case pending:
		return VerdictPending
	case p.Intention == nil:
		return VerdictNoIntention
	}
	return VerdictUnevaluated
}

const (
	tomato = "🍅"
	can    = "🥫"
)

// Label is the one-line status of d, e.g. "🍅: 3✓ 1✗ 2? 4…". The unevaluated
// count is omitted when zero.
func Label(d *pom.Day) string {
	return Build(d).Counts.Label()
}

// Label renders c as a status line.
func (c Counts) Label() string {
	icon := can
	if c.Successful > c.Failed {
		icon = tomato
	}
	title := fmt.Sprintf("%s: %d✓ %d✗ ", icon, c.Successful, c.Failed)
	if c.UnEvaluated > 0 {
		title += fmt.Sprintf("%d? ", c.UnEvaluated)
	}
	return title + fmt.Sprintf("%d…", c.Pending)
}

// Describe is a short description of the interval current at now.
func Describe(d *pom.Day, now time.Time) string {
	cur, ok := d.Current()
	if !ok {
		return "The day is over."
	}
	span := cur.Start().Format("15:04") + "-" + cur.End().Format("15:04")
	if now.Before(cur.Start()) {
		return fmt.Sprintf("Next: %s %s (starts in %s)", kind(cur), span, cur.Start().Sub(now).Round(time.Second))
	}
	line := fmt.Sprintf("%s %s, %s left", kind(cur), span, cur.End().Sub(now).Round(time.Second))
	if p, ok := cur.(*pom.Pomodoro); ok && p.Intention != nil {
		line += ", intention “" + p.Intention.Description + "”"
	}
	return line
}

func kind(iv pom.Interval) string {
	switch iv := iv.(type) {
	case *pom.Pomodoro:
		if iv.Bonus {
			return "Bonus pomodoro"
		}
		return "Pomodoro"
	case *pom.Break:
		return "Break"
	}
	return "Interval"
}
