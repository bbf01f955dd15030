package pom

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// State is the position of the state machine after the last advancement.
type State int

const (
	StateNoCurrentInterval State = iota
	StateBeforeCurrentInterval
	StateInCurrentInterval
	StateDayOver
)

func (s State) String() string {
	switch s {
	case StateBeforeCurrentInterval:
		return "before-current-interval"
	case StateInCurrentInterval:
		return "in-current-interval"
	case StateDayOver:
		return "day-over"
	}
	return "no-current-interval"
}

// Day partitions one calendar date into elapsed and pending intervals.
//
// A Day is not safe for concurrent use; the driver serializes every call.
type Day struct {
	ID        string
	StartTime time.Time

	pending []Interval
	elapsed []Interval
	policy  Policy

	// announced is the interval whose start event has already fired.
	announced       Interval
	dayOverNotified bool
	state           State
}

// NewDay builds a fresh Day for the calendar date of date from schedule.
func NewDay(date time.Time, schedule Schedule, policy Policy) *Day {
	y, m, dd := date.Date()
	start := time.Date(y, m, dd, 0, 0, 0, 0, date.Location()).Add(schedule.DayStart)
	return newDay(uuid.NewString(), start, schedule.Plan(date), policy)
}

// NewDayWithPlan builds a Day starting at start whose pending intervals are
// plan. The plan must be ordered and non-overlapping.
func NewDayWithPlan(start time.Time, plan []Interval, policy Policy) *Day {
	return newDay(uuid.NewString(), start, slices.Clone(plan), policy)
}

func newDay(id string, start time.Time, plan []Interval, policy Policy) *Day {
	return &Day{
		ID:        id,
		StartTime: start,
		pending:   plan,
		policy:    policy,
	}
}

// Policy returns the intention and bonus policy of d.
func (d *Day) Policy() Policy { return d.policy }

// State returns the state reached by the most recent AdvanceToTime.
func (d *Day) State() State { return d.state }

// PendingIntervals returns the intervals that have not elapsed, oldest first.
func (d *Day) PendingIntervals() []Interval { return slices.Clone(d.pending) }

// ElapsedIntervals returns the intervals that have elapsed, oldest first.
func (d *Day) ElapsedIntervals() []Interval { return slices.Clone(d.elapsed) }

// Current returns the current-or-next interval, if any.
func (d *Day) Current() (Interval, bool) {
	if len(d.pending) == 0 {
		return nil, false
	}
	return d.pending[0], true
}

// Intervals returns the whole plan of d: elapsed then pending.
func (d *Day) Intervals() []Interval {
	all := make([]Interval, 0, len(d.elapsed)+len(d.pending))
	all = append(all, d.elapsed...)
	return append(all, d.pending...)
}

// Classify returns what would happen if an intention were expressed at now.
func (d *Day) Classify(now time.Time) IntentionResponse {
	if len(d.pending) == 0 {
		return DayOver
	}
	return d.classify(d.pending[0], now)
}

func (d *Day) classify(iv Interval, now time.Time) IntentionResponse {
	switch iv := iv.(type) {
	case *Break:
		return OnBreak
	case *Pomodoro:
		if iv.Intention != nil {
			return AlreadySet
		}
		if now.Before(d.policy.intentionDeadline(iv)) {
			return CanBeSet
		}
		return TooLate
	default:
		panic(fmt.Sprintf("pom: unexpected interval type %T", iv))
	}
}

// ExpressIntention attaches an intention with the given description to the
// current Pomodoro if it still accepts one. Every outcome other than WasSet
// leaves d unchanged.
func (d *Day) ExpressIntention(now time.Time, description string) IntentionResponse {
	response := d.Classify(now)
	if response != CanBeSet {
		return response
	}
	p := d.pending[0].(*Pomodoro)
	p.Intention = &Intention{Description: description}
	return WasSet
}

// EvaluateIntention records whether the intention of p succeeded. A verdict
// can only be recorded once.
func (d *Day) EvaluateIntention(p *Pomodoro, succeeded bool) error {
	if !d.owns(p) {
		return ErrUnknownPomodoro
	}
	if p.Intention == nil {
		return ErrNoIntention
	}
	if p.Intention.Evaluated() {
		return ErrAlreadyEvaluated
	}
	p.Intention.WasSuccessful = &succeeded
	return nil
}

func (d *Day) owns(p *Pomodoro) bool {
	for _, iv := range d.Intervals() {
		if iv == Interval(p) {
			return true
		}
	}
	return false
}

// Evaluable returns the Pomodoro an evaluation at offset refers to: 0 is the
// current Pomodoro (only if the current interval is one), -1 the one before
// it, and so on.
func (d *Day) Evaluable(offset int) (*Pomodoro, bool) {
	var poms []*Pomodoro
	if len(d.pending) > 0 {
		if p, ok := d.pending[0].(*Pomodoro); ok {
			poms = append(poms, p)
		}
	}
	for i := len(d.elapsed) - 1; i >= 0; i-- {
		if p, ok := d.elapsed[i].(*Pomodoro); ok {
			poms = append(poms, p)
		}
	}
	idx := -offset
	if offset > 0 || idx >= len(poms) {
		return nil, false
	}
	return poms[idx], true
}

// BonusPomodoro inserts an extra Pomodoro starting at now.
//
// The bonus lasts Policy.BonusLength but is clipped so it ends no later than
// the start of the next pending interval. A started Break is cut short at now
// and the bonus takes the rest of its slot. A bonus cannot start during a
// running Pomodoro or before the end of the last elapsed interval.
func (d *Day) BonusPomodoro(now time.Time) (*Pomodoro, error) {
	if n := len(d.elapsed); n > 0 && now.Before(d.elapsed[n-1].End()) {
		return nil, ErrOverlapsElapsed
	}
	bonus := &Pomodoro{StartTime: now, EndTime: now.Add(d.policy.BonusLength), Bonus: true}

	idx := slices.IndexFunc(d.pending, func(iv Interval) bool { return iv.End().After(now) })
	if idx < 0 {
		d.pending = append(d.pending, bonus)
		// a day that was over is open again
		d.dayOverNotified = false
		return bonus, nil
	}

	next := d.pending[idx]
	if next.Start().After(now) {
		bonus.EndTime = earliest(bonus.EndTime, next.Start())
		d.pending = slices.Insert(d.pending, idx, Interval(bonus))
		return bonus, nil
	}

	switch next := next.(type) {
	case *Pomodoro:
		return nil, ErrInPomodoro
	case *Break:
		bonus.EndTime = earliest(bonus.EndTime, next.EndTime)
		if next.StartTime.Equal(now) {
			d.pending[idx] = bonus
			return bonus, nil
		}
		next.EndTime = now
		d.pending = slices.Insert(d.pending, idx+1, Interval(bonus))
		return bonus, nil
	default:
		panic(fmt.Sprintf("pom: unexpected interval type %T", next))
	}
}

func earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// SuccessfulPomodoros returns every Pomodoro judged successful.
func (d *Day) SuccessfulPomodoros() []*Pomodoro {
	return d.pomodoros(d.Intervals(), func(p *Pomodoro) bool {
		return p.Intention != nil && p.Intention.Evaluated() && *p.Intention.WasSuccessful
	})
}

// FailedPomodoros returns every Pomodoro judged unsuccessful, plus elapsed
// Pomodoros that never had an intention.
func (d *Day) FailedPomodoros() []*Pomodoro {
	failed := func(p *Pomodoro) bool {
		return p.Intention != nil && p.Intention.Evaluated() && !*p.Intention.WasSuccessful
	}
	out := d.pomodoros(d.elapsed, func(p *Pomodoro) bool { return p.Intention == nil || failed(p) })
	return append(out, d.pomodoros(d.pending, failed)...)
}

// UnEvaluatedPomodoros returns elapsed Pomodoros whose intention awaits a verdict.
func (d *Day) UnEvaluatedPomodoros() []*Pomodoro {
	return d.pomodoros(d.elapsed, func(p *Pomodoro) bool {
		return p.Intention != nil && !p.Intention.Evaluated()
	})
}

// PendingPomodoros returns pending Pomodoros that have no verdict yet.
func (d *Day) PendingPomodoros() []*Pomodoro {
	return d.pomodoros(d.pending, func(p *Pomodoro) bool {
		return p.Intention == nil || !p.Intention.Evaluated()
	})
}

func (d *Day) pomodoros(intervals []Interval, keep func(*Pomodoro) bool) []*Pomodoro {
	var out []*Pomodoro
	for _, iv := range intervals {
		if p, ok := iv.(*Pomodoro); ok && keep(p) {
			out = append(out, p)
		}
	}
	return out
}
