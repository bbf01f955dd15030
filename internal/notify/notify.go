// Package notify turns day events and user-action outcomes into short
// notifications.
package notify

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fakeyudi/pomodouroboros/internal/pom"
)

// Notification is one message for the user.
type Notification struct {
	Title    string
	Subtitle string
	Body     string
}

func (n Notification) String() string {
	parts := []string{n.Title}
	if n.Subtitle != "" {
		parts = append(parts, n.Subtitle)
	}
	if n.Body != "" {
		parts = append(parts, n.Body)
	}
	return strings.Join(parts, ": ")
}

// Sink delivers notifications.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

func (f SinkFunc) Notify(n Notification) { f(n) }

// WriterSink prints one line per notification.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Notify(n Notification) {
	fmt.Fprintln(s.W, n.String())
}

// reminder is a progress point at which the user is reminded of their intention.
type reminder struct {
	at      float64
	message string
}

var reminders = []reminder{
	{0.25, "Time to get started!"},
	{0.50, "Halfway there."},
	{0.75, "Time to finish up."},
	{0.95, "Almost done!"},
}

// Observer is a pom.Observer that notifies the user about transitions and
// reminds them of their intention as a Pomodoro progresses.
type Observer struct {
	Sink Sink
	// Since drops events about intervals that ended before it, so catching up
	// on a day restored late does not replay every missed interval.
	Since time.Time
	// Prompt, if set, is called when a Pomodoro starts without an intention.
	Prompt func(day *pom.Day, p *pom.Pomodoro)

	lastReminder float64
}

var _ pom.Observer = (*Observer)(nil)

func (o *Observer) stale(iv pom.Interval) bool {
	return !o.Since.IsZero() && !iv.End().After(o.Since)
}

func (o *Observer) BreakStarting(b *pom.Break) {
	if o.stale(b) {
		return
	}
	o.Sink.Notify(Notification{Title: "Starting Break", Body: "Take it easy for a while."})
}

func (o *Observer) PomodoroStarting(day *pom.Day, p *pom.Pomodoro) {
	o.lastReminder = 0
	if o.stale(p) || p.Intention != nil {
		return
	}
	o.Sink.Notify(Notification{Title: "Time To Set Intention", Body: "What is your intention?"})
	if o.Prompt != nil {
		o.Prompt(day, p)
	}
}

func (o *Observer) ElapsedWithNoIntention(p *pom.Pomodoro) {
	if o.stale(p) {
		return
	}
	o.Sink.Notify(Notification{
		Title: "Pomodoro Failed",
		Body:  "The pomodoro elapsed with no intention specified.",
	})
}

func (o *Observer) ProgressUpdate(iv pom.Interval, pct float64, response pom.IntentionResponse) {
	p, ok := iv.(*pom.Pomodoro)
	if !ok || response != pom.AlreadySet || p.Intention == nil {
		return
	}
	for _, r := range reminders {
		if o.lastReminder <= r.at && pct > r.at {
			o.lastReminder = pct
			o.Sink.Notify(Notification{
				Title:    "Remember Your Intention",
				Subtitle: r.message,
				Body:     quote(p.Intention.Description),
			})
		}
	}
}

func (o *Observer) DayOver() {
	o.Sink.Notify(Notification{Title: "Day Over", Body: "The day is over. Goodbye."})
}

// Intend expresses description on day at now and describes the outcome.
func Intend(day *pom.Day, now time.Time, description string) Notification {
	return IntentionOutcome(day, day.ExpressIntention(now, description), description)
}

// Evaluate judges the Pomodoro at offset (see pom.Day.Evaluable) and
// describes the outcome.
func Evaluate(day *pom.Day, offset int, succeeded bool) Notification {
	p, ok := day.Evaluable(offset)
	if !ok {
		return EvaluationOutcome(nil, nil)
	}
	return EvaluationOutcome(p, day.EvaluateIntention(p, succeeded))
}

// Bonus inserts a bonus Pomodoro at now and describes the outcome.
func Bonus(day *pom.Day, now time.Time) Notification {
	return BonusOutcome(day.BonusPomodoro(now))
}

// IntentionOutcome describes the result of expressing description on day.
func IntentionOutcome(day *pom.Day, response pom.IntentionResponse, description string) Notification {
	switch response {
	case pom.WasSet:
		return Notification{Title: "Intention Set", Body: quote(description)}
	case pom.AlreadySet:
		existing := ""
		if cur, ok := day.Current(); ok {
			if p, ok := cur.(*pom.Pomodoro); ok && p.Intention != nil {
				existing = p.Intention.Description
			}
		}
		return Notification{
			Title:    "Intention Not Set",
			Subtitle: "Already Specified",
			Body:     "intention was already: " + quote(existing),
		}
	case pom.TooLate:
		return Notification{
			Title:    "Intention Not Set",
			Subtitle: "Too Late",
			Body:     "It's too late to set an intention. Try again next time!",
		}
	case pom.DayOver:
		return Notification{
			Title:    "Intention Not Set",
			Subtitle: "Day Over",
			Body:     "There are no pomodoros left today. Try a bonus pomodoro.",
		}
	case pom.OnBreak:
		return Notification{
			Title:    "Intention Not Set",
			Subtitle: "You're On Break",
			Body:     "Set the intention when the pom begins.",
		}
	}
	return Notification{
		Title:    "Intention Confusion",
		Subtitle: "Internal Error",
		Body:     "received " + response.String(),
	}
}

// EvaluationOutcome describes the result of evaluating p. p may be nil when
// there was no pomodoro to evaluate.
func EvaluationOutcome(p *pom.Pomodoro, err error) Notification {
	switch {
	case p == nil:
		return Notification{Title: "Nothing To Evaluate", Body: "There is no pomodoro at that position."}
	case errors.Is(err, pom.ErrNoIntention):
		return Notification{
			Title:    "Intention Not Set",
			Subtitle: "Automatic Failure",
			Body:     "Set an intention next time!",
		}
	case errors.Is(err, pom.ErrAlreadyEvaluated):
		return Notification{
			Title: "Success Previously Set",
			Body:  fmt.Sprintf("Pomodoro Already %s.", adjective(p)),
		}
	case err != nil:
		return Notification{Title: "Evaluation Failed", Body: err.Error()}
	}
	noun := "Failure"
	if *p.Intention.WasSuccessful {
		noun = "Success"
	}
	return Notification{
		Title: "Pomodoro " + noun,
		Body:  fmt.Sprintf("Marked Pomodoro %s.", adjective(p)),
	}
}

// BonusOutcome describes the result of requesting a bonus Pomodoro.
func BonusOutcome(p *pom.Pomodoro, err error) Notification {
	switch {
	case errors.Is(err, pom.ErrInPomodoro):
		return Notification{
			Title:    "No Bonus",
			Subtitle: "Pomodoro Running",
			Body:     "Finish the current pomodoro first.",
		}
	case errors.Is(err, pom.ErrOverlapsElapsed):
		return Notification{
			Title:    "No Bonus",
			Subtitle: "Clock Confusion",
			Body:     "A bonus pomodoro cannot start in the past.",
		}
	case err != nil:
		return Notification{Title: "No Bonus", Body: err.Error()}
	}
	return Notification{
		Title: "Bonus Pomodoro",
		Body:  fmt.Sprintf("Bonus pomodoro %s-%s. What is your intention?", p.StartTime.Format("15:04"), p.EndTime.Format("15:04")),
	}
}

func adjective(p *pom.Pomodoro) string {
	if p.Intention != nil && p.Intention.WasSuccessful != nil && *p.Intention.WasSuccessful {
		return "successful"
	}
	return "failed"
}

func quote(s string) string {
	return "“" + s + "”"
}
