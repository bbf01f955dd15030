package pom

import (
	"fmt"
	"time"
)

// Policy holds the tunable rules for intentions and bonus pomodoros.
type Policy struct {
	// IntentionWindow is the fraction of a Pomodoro's duration, measured from
	// its start, during which an intention may still be set.
	IntentionWindow float64
	// BonusLength is the length of a bonus Pomodoro before clipping.
	BonusLength time.Duration
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		IntentionWindow: 1.0 / 3.0,
		BonusLength:     25 * time.Minute,
	}
}

// Validate reports whether p can be used by a Day.
func (p Policy) Validate() error {
	if p.IntentionWindow <= 0 || p.IntentionWindow > 1 {
		return fmt.Errorf("intention window must be in (0, 1], got %v", p.IntentionWindow)
	}
	if p.BonusLength <= 0 {
		return fmt.Errorf("bonus length must be positive, got %s", p.BonusLength)
	}
	return nil
}

// intentionDeadline returns the instant after which p no longer accepts an intention.
func (p Policy) intentionDeadline(pom *Pomodoro) time.Time {
	window := time.Duration(float64(Duration(pom)) * p.IntentionWindow)
	return pom.StartTime.Add(window)
}
