package pom

import (
	"errors"
	"time"
)

// Schedule describes how a normal day is divided into intervals.
type Schedule struct {
	DayStart        time.Duration // offset from local midnight
	DayEnd          time.Duration // offset from local midnight
	PomodoroLength  time.Duration
	BreakLength     time.Duration
	LongBreakLength time.Duration
	LongBreakEvery  int // every Nth break is long; 0 disables long breaks
}

// DefaultSchedule is a 09:00 to 17:00 day of 25 minute pomodoros.
func DefaultSchedule() Schedule {
	return Schedule{
		DayStart:        9 * time.Hour,
		DayEnd:          17 * time.Hour,
		PomodoroLength:  25 * time.Minute,
		BreakLength:     5 * time.Minute,
		LongBreakLength: 15 * time.Minute,
		LongBreakEvery:  4,
	}
}

// Validate reports whether s can produce a plan.
func (s Schedule) Validate() error {
	switch {
	case s.PomodoroLength <= 0:
		return errors.New("pomodoro length must be positive")
	case s.BreakLength <= 0:
		return errors.New("break length must be positive")
	case s.LongBreakEvery > 0 && s.LongBreakLength <= 0:
		return errors.New("long break length must be positive")
	case s.LongBreakEvery < 0:
		return errors.New("long break frequency must not be negative")
	case s.DayEnd <= s.DayStart:
		return errors.New("day must end after it starts")
	}
	return nil
}

// Plan lays out the intervals for the calendar date of date, in date's
// location. Pomodoros never run past DayEnd, and the plan never ends with a
// Break.
func (s Schedule) Plan(date time.Time) []Interval {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return s.planFrom(midnight.Add(s.DayStart), midnight.Add(s.DayEnd))
}

func (s Schedule) planFrom(start, end time.Time) []Interval {
	var plan []Interval
	t := start
	breaks := 0
	for !t.Add(s.PomodoroLength).After(end) {
		plan = append(plan, &Pomodoro{StartTime: t, EndTime: t.Add(s.PomodoroLength)})
		t = t.Add(s.PomodoroLength)

		breaks++
		length := s.BreakLength
		if s.LongBreakEvery > 0 && breaks%s.LongBreakEvery == 0 {
			length = s.LongBreakLength
		}
		if t.Add(length + s.PomodoroLength).After(end) {
			break
		}
		plan = append(plan, &Break{StartTime: t, EndTime: t.Add(length)})
		t = t.Add(length)
	}
	return plan
}

// TestingSchedule returns a compressed schedule of four short pomodoros that
// starts at now, for trying the application out.
func TestingSchedule(now time.Time) Schedule {
	s := Schedule{
		PomodoroLength: 2 * time.Minute,
		BreakLength:    time.Minute,
		LongBreakEvery: 0,
	}
	// four pomodoros and three breaks
	length := 4*s.PomodoroLength + 3*s.BreakLength
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	s.DayStart = now.Sub(midnight)
	s.DayEnd = s.DayStart + length
	return s
}
