package pom

import (
	"fmt"
	"time"
)

// Interval kinds used in snapshots.
const (
	KindPomodoro = "pomodoro"
	KindBreak    = "break"
)

// Snapshot is the complete, order-preserving state of a Day, suitable for
// persisting and restoring.
type Snapshot struct {
	ID        string           `json:"id"`
	StartTime time.Time        `json:"start_time"`
	Pending   []IntervalRecord `json:"pending"`
	Elapsed   []IntervalRecord `json:"elapsed"`
}

// IntervalRecord is the flat form of one Interval.
type IntervalRecord struct {
	Kind      string     `json:"kind"` // "pomodoro" | "break"
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Intention *Intention `json:"intention,omitempty"`
	Bonus     bool       `json:"bonus,omitempty"`
}

// Snapshot captures the data of d. The result shares nothing with d.
func (d *Day) Snapshot() Snapshot {
	return Snapshot{
		ID:        d.ID,
		StartTime: d.StartTime,
		Pending:   records(d.pending),
		Elapsed:   records(d.elapsed),
	}
}

func records(intervals []Interval) []IntervalRecord {
	out := make([]IntervalRecord, 0, len(intervals))
	for _, iv := range intervals {
		switch iv := iv.(type) {
		case *Pomodoro:
			out = append(out, IntervalRecord{
				Kind:      KindPomodoro,
				Start:     iv.StartTime,
				End:       iv.EndTime,
				Intention: copyIntention(iv.Intention),
				Bonus:     iv.Bonus,
			})
		case *Break:
			out = append(out, IntervalRecord{Kind: KindBreak, Start: iv.StartTime, End: iv.EndTime})
		}
	}
	return out
}

func copyIntention(i *Intention) *Intention {
	if i == nil {
		return nil
	}
	c := &Intention{Description: i.Description}
	if i.WasSuccessful != nil {
		v := *i.WasSuccessful
		c.WasSuccessful = &v
	}
	return c
}

// FromSnapshot rebuilds a Day from s.
func FromSnapshot(s Snapshot, policy Policy) (*Day, error) {
	pending, elapsed, err := s.intervals()
	if err != nil {
		return nil, err
	}
	d := newDay(s.ID, s.StartTime, pending, policy)
	d.elapsed = elapsed
	return d, nil
}

// Replace swaps the intervals of d for those in s. The start event of the
// current interval is not fired again if it already fired for an interval
// with the same kind and start time.
func (d *Day) Replace(s Snapshot) error {
	pending, elapsed, err := s.intervals()
	if err != nil {
		return err
	}
	var announced Interval
	if d.announced != nil {
		for _, iv := range append(append([]Interval{}, elapsed...), pending...) {
			if sameSlot(iv, d.announced) {
				announced = iv
				break
			}
		}
	}
	d.ID = s.ID
	d.StartTime = s.StartTime
	d.pending = pending
	d.elapsed = elapsed
	d.announced = announced
	if len(pending) > 0 {
		d.dayOverNotified = false
	}
	return nil
}

func sameSlot(a, b Interval) bool {
	if !a.Start().Equal(b.Start()) {
		return false
	}
	_, aPom := a.(*Pomodoro)
	_, bPom := b.(*Pomodoro)
	return aPom == bPom
}

func (s Snapshot) intervals() (pending, elapsed []Interval, err error) {
	elapsed, err = fromRecords(s.Elapsed)
	if err != nil {
		return nil, nil, err
	}
	pending, err = fromRecords(s.Pending)
	if err != nil {
		return nil, nil, err
	}
	all := append(append([]Interval{}, elapsed...), pending...)
	for i, iv := range all {
		if !iv.Start().Before(iv.End()) {
			return nil, nil, fmt.Errorf("%w: interval %d starts at or after its end", ErrInvalidSnapshot, i)
		}
		if i > 0 && iv.Start().Before(all[i-1].End()) {
			return nil, nil, fmt.Errorf("%w: interval %d overlaps its predecessor", ErrInvalidSnapshot, i)
		}
	}
	return pending, elapsed, nil
}

func fromRecords(recs []IntervalRecord) ([]Interval, error) {
	out := make([]Interval, 0, len(recs))
	for _, r := range recs {
		switch r.Kind {
		case KindPomodoro:
			out = append(out, &Pomodoro{
				StartTime: r.Start,
				EndTime:   r.End,
				Intention: copyIntention(r.Intention),
				Bonus:     r.Bonus,
			})
		case KindBreak:
			if r.Intention != nil {
				return nil, fmt.Errorf("%w: break carries an intention", ErrInvalidSnapshot)
			}
			out = append(out, &Break{StartTime: r.Start, EndTime: r.End})
		default:
			return nil, fmt.Errorf("%w: unknown interval kind %q", ErrInvalidSnapshot, r.Kind)
		}
	}
	return out, nil
}
