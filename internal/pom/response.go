package pom

import "errors"

// IntentionResponse classifies an attempt, real or hypothetical, to set an
// intention on the current interval.
type IntentionResponse int

const (
	// CanBeSet means the current Pomodoro has no intention and still accepts one.
	CanBeSet IntentionResponse = iota
	// AlreadySet means the current Pomodoro already has an intention.
	AlreadySet
	// OnBreak means the current interval is a Break.
	OnBreak
	// TooLate means the acceptance window of the current Pomodoro has passed.
	TooLate
	// WasSet is returned by ExpressIntention when the intention was attached.
	WasSet
	// DayOver means no pending interval remains. It is a kind of TooLate.
	DayOver
)

var responseNames = map[IntentionResponse]string{
	CanBeSet:   "can-be-set",
	AlreadySet: "already-set",
	OnBreak:    "on-break",
	TooLate:    "too-late",
	WasSet:     "was-set",
	DayOver:    "day-over",
}

func (r IntentionResponse) String() string {
	if s, ok := responseNames[r]; ok {
		return s
	}
	return "unknown"
}

// IsTooLate reports whether r means no intention can be set any more.
func (r IntentionResponse) IsTooLate() bool {
	return r == TooLate || r == DayOver
}

var (
	// ErrNoIntention is returned when evaluating a Pomodoro that has no intention.
	ErrNoIntention = errors.New("pomodoro has no intention")
	// ErrAlreadyEvaluated is returned when evaluating an intention twice.
	ErrAlreadyEvaluated = errors.New("intention already evaluated")
	// ErrUnknownPomodoro is returned when a Pomodoro does not belong to the Day.
	ErrUnknownPomodoro = errors.New("pomodoro is not part of this day")
	// ErrInPomodoro is returned when a bonus is requested during a running Pomodoro.
	ErrInPomodoro = errors.New("a pomodoro is already running")
	// ErrOverlapsElapsed is returned when a bonus would start inside an elapsed interval.
	ErrOverlapsElapsed = errors.New("bonus pomodoro would overlap an elapsed interval")
	// ErrInvalidSnapshot is returned when a snapshot breaks interval ordering.
	ErrInvalidSnapshot = errors.New("invalid day snapshot")
)
