// Package pom implements the day scheduler and intention state machine.
//
// A Day owns an ordered plan of Pomodoro and Break intervals. A driver feeds
// it the current time through AdvanceToTime and receives lifecycle events on
// an Observer; user actions go through ExpressIntention, EvaluateIntention and
// BonusPomodoro. Nothing in this package performs I/O or runs timers.
package pom

import "time"

// Intention is the goal a user declared for one Pomodoro.
type Intention struct {
	Description string `json:"description"`
	// WasSuccessful is nil until the intention is evaluated. Once set it is final.
	WasSuccessful *bool `json:"was_successful,omitempty"`
}

// Evaluated reports whether a verdict has been recorded.
func (i *Intention) Evaluated() bool {
	return i.WasSuccessful != nil
}

// Interval is a time-bounded unit of the day. The only implementations are
// *Pomodoro and *Break; switch on the concrete type for variant behavior.
type Interval interface {
	Start() time.Time
	End() time.Time
	isInterval()
}

// Pomodoro is a focus interval.
type Pomodoro struct {
	StartTime time.Time
	EndTime   time.Time
	Intention *Intention // nil until expressed
	Bonus     bool       // inserted outside the planned schedule
}

func (p *Pomodoro) Start() time.Time { return p.StartTime }
func (p *Pomodoro) End() time.Time   { return p.EndTime }
func (*Pomodoro) isInterval()        {}

// Break is a rest interval.
type Break struct {
	StartTime time.Time
	EndTime   time.Time
}

func (b *Break) Start() time.Time { return b.StartTime }
func (b *Break) End() time.Time   { return b.EndTime }
func (*Break) isInterval()        {}

// Duration returns the length of iv.
func Duration(iv Interval) time.Duration {
	return iv.End().Sub(iv.Start())
}

// contains reports whether now falls in [start, end).
func contains(iv Interval, now time.Time) bool {
	return !now.Before(iv.Start()) && now.Before(iv.End())
}

// percentageElapsed returns how far now is through iv, clamped to [0, 1].
func percentageElapsed(iv Interval, now time.Time) float64 {
	total := Duration(iv)
	if total <= 0 {
		return 1
	}
	pct := float64(now.Sub(iv.Start())) / float64(total)
	switch {
	case pct < 0:
		return 0
	case pct > 1:
		return 1
	}
	return pct
}
