package pom

// Observer receives the lifecycle events emitted by Day.AdvanceToTime.
// Callbacks run synchronously and must not call AdvanceToTime themselves.
type Observer interface {
	BreakStarting(b *Break)
	PomodoroStarting(day *Day, p *Pomodoro)
	ElapsedWithNoIntention(p *Pomodoro)
	ProgressUpdate(iv Interval, percentageElapsed float64, response IntentionResponse)
	DayOver()
}

// Observers fans every event out to each member in order.
type Observers []Observer

func (o Observers) BreakStarting(b *Break) {
	for _, each := range o {
		each.BreakStarting(b)
	}
}

func (o Observers) PomodoroStarting(day *Day, p *Pomodoro) {
	for _, each := range o {
		each.PomodoroStarting(day, p)
	}
}

func (o Observers) ElapsedWithNoIntention(p *Pomodoro) {
	for _, each := range o {
		each.ElapsedWithNoIntention(p)
	}
}

func (o Observers) ProgressUpdate(iv Interval, pct float64, response IntentionResponse) {
	for _, each := range o {
		each.ProgressUpdate(iv, pct, response)
	}
}

func (o Observers) DayOver() {
	for _, each := range o {
		each.DayOver()
	}
}

// NopObserver ignores every event. Short-lived commands use it to bring a
// stored Day up to date before acting on it.
type NopObserver struct{}

func (NopObserver) BreakStarting(*Break)                                {}
func (NopObserver) PomodoroStarting(*Day, *Pomodoro)                    {}
func (NopObserver) ElapsedWithNoIntention(*Pomodoro)                    {}
func (NopObserver) ProgressUpdate(Interval, float64, IntentionResponse) {}
func (NopObserver) DayOver()                                            {}
