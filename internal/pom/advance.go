package pom

import "time"

// AdvanceToTime moves every interval that ended by now from pending to
// elapsed and reports the transitions to obs, then reports progress on the
// current interval.
//
// Repeating a call with the same now emits nothing new beyond another
// progress update. A now that skipped several boundaries produces the same
// start and elapsed events, in the same order, as stepping through them.
func (d *Day) AdvanceToTime(now time.Time, obs Observer) {
	for len(d.pending) > 0 && !d.pending[0].End().After(now) {
		iv := d.pending[0]
		d.announce(iv, obs)
		if p, ok := iv.(*Pomodoro); ok && p.Intention == nil {
			obs.ElapsedWithNoIntention(p)
		}
		d.pending = d.pending[1:]
		d.elapsed = append(d.elapsed, iv)
	}

	if len(d.pending) == 0 {
		d.state = StateDayOver
		if !d.dayOverNotified {
			d.dayOverNotified = true
			obs.DayOver()
		}
		return
	}

	current := d.pending[0]
	if now.Before(current.Start()) {
		d.state = StateBeforeCurrentInterval
		return
	}
	d.state = StateInCurrentInterval
	d.announce(current, obs)
	obs.ProgressUpdate(current, percentageElapsed(current, now), d.classify(current, now))
}

// announce fires the start event for iv unless it already fired.
func (d *Day) announce(iv Interval, obs Observer) {
	if d.announced == iv {
		return
	}
	d.announced = iv
	switch iv := iv.(type) {
	case *Break:
		obs.BreakStarting(iv)
	case *Pomodoro:
		obs.PomodoroStarting(d, iv)
	}
}
