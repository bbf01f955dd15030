// Package tui provides a Bubble Tea live view of the day being driven by a
// runner.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/pomodouroboros/internal/notify"
	"github.com/fakeyudi/pomodouroboros/internal/pom"
	"github.com/fakeyudi/pomodouroboros/internal/report"
	"github.com/fakeyudi/pomodouroboros/internal/runner"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	noteTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// barColors is the filled and unfilled color of the progress bar.
type barColors struct {
	full, empty string
}

// colorsFor picks the bar colors that tell the user where they stand with
// their intention.
func colorsFor(r pom.IntentionResponse) barColors {
	switch r {
	case pom.CanBeSet:
		return barColors{full: "220", empty: "129"} // yellow / purple
	case pom.AlreadySet:
		return barColors{full: "82", empty: "33"} // green / blue
	case pom.OnBreak:
		return barColors{full: "250", empty: "240"} // light / dark gray
	}
	return barColors{full: "214", empty: "196"} // orange / red
}

// ── Messages ────────────

// ProgressMsg reports how far the current interval has elapsed.
type ProgressMsg struct {
	Pomodoro  bool
	Start     time.Time
	End       time.Time
	Percent   float64
	Response  pom.IntentionResponse
	Intention string
}

// NotificationMsg carries a notification to display.
type NotificationMsg struct {
	notify.Notification
}

// StatusMsg carries the status label and the current interval line.
type StatusMsg struct {
	Label string
	Line  string
}

// PromptMsg asks the user for an intention.
type PromptMsg struct{}

// DayOverMsg reports that no intervals remain.
type DayOverMsg struct{}

type runnerDoneMsg struct{ err error }

type statusTickMsg struct{}

// ── Bridge ────────────

// Sender is the interface for sending messages to Bubble Tea.
// Matches *tea.Program's Send method.
type Sender interface {
	Send(msg tea.Msg)
}

// progressObserver forwards progress to the program. Messages only carry
// copies so the model never touches the Day.
type progressObserver struct {
	pom.NopObserver
	program Sender
}

func (o progressObserver) ProgressUpdate(iv pom.Interval, pct float64, response pom.IntentionResponse) {
	msg := ProgressMsg{Start: iv.Start(), End: iv.End(), Percent: pct, Response: response}
	if p, ok := iv.(*pom.Pomodoro); ok {
		msg.Pomodoro = true
		if p.Intention != nil {
			msg.Intention = p.Intention.Description
		}
	}
	o.program.Send(msg)
}

func (o progressObserver) DayOver() {
	o.program.Send(DayOverMsg{})
}

// NewObserver returns the observer that feeds the live view: notifications,
// intention prompts and progress. Events about intervals that ended before
// since are not shown.
func NewObserver(program Sender, since time.Time) pom.Observer {
	return pom.Observers{
		&notify.Observer{
			Sink:   notify.SinkFunc(func(n notify.Notification) { program.Send(NotificationMsg{n}) }),
			Since:  since,
			Prompt: func(*pom.Day, *pom.Pomodoro) { program.Send(PromptMsg{}) },
		},
		progressObserver{program: program},
	}
}

// ── Model ────────────────────

// Doer runs actions on the Day owned by a runner.
type Doer interface {
	Do(ctx context.Context, fn runner.Action) error
}

// Model is the root Bubble Tea model for the live view.
type Model struct {
	runner   Doer
	bar      progress.Model
	input    textinput.Model
	editing  bool
	current  ProgressMsg
	started  bool
	dayOver  bool
	status   StatusMsg
	note     notify.Notification
	hasNote  bool
	width    int
	quitting bool
}

// New creates the live view for the day driven by r.
func New(r Doer) Model {
	in := textinput.New()
	in.Placeholder = "What is your intention?"
	in.CharLimit = 200
	in.Prompt = "› "
	c := colorsFor(pom.OnBreak)
	bar := progress.New(progress.WithoutPercentage(), progress.WithSolidFill(c.full))
	bar.EmptyColor = c.empty
	return Model{runner: r, bar: bar, input: in, width: 80}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), statusTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "i":
			return m.openInput()
		case "b":
			return m, m.do(func(now time.Time, day *pom.Day) notify.Notification {
				return notify.Bonus(day, now)
			})
		case "s", "f":
			ok := msg.String() == "s"
			return m, m.do(func(_ time.Time, day *pom.Day) notify.Notification {
				return notify.Evaluate(day, 0, ok)
			})
		case "S", "F":
			ok := msg.String() == "S"
			return m, m.do(func(_ time.Time, day *pom.Day) notify.Notification {
				return notify.Evaluate(day, -1, ok)
			})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(msg.Width-4, 10)
		return m, nil

	case ProgressMsg:
		if !m.started || msg.Response != m.current.Response {
			c := colorsFor(msg.Response)
			m.bar.FullColor = c.full
			m.bar.EmptyColor = c.empty
		}
		m.current = msg
		m.started = true
		m.dayOver = false
		return m, nil

	case DayOverMsg:
		m.dayOver = true
		return m, nil

	case PromptMsg:
		if m.editing {
			return m, nil
		}
		return m.openInput()

	case NotificationMsg:
		m.note = msg.Notification
		m.hasNote = true
		return m, m.refresh()

	case StatusMsg:
		m.status = msg
		return m, nil

	case statusTickMsg:
		return m, tea.Batch(m.refresh(), statusTick())

	case runnerDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) openInput() (tea.Model, tea.Cmd) {
	m.editing = true
	m.input.Reset()
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		desc := strings.TrimSpace(m.input.Value())
		m.editing = false
		m.input.Blur()
		m.input.Reset()
		if desc == "" {
			return m, nil
		}
		return m, m.do(func(now time.Time, day *pom.Day) notify.Notification {
			return notify.Intend(day, now, desc)
		})
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// do runs fn on the runner and reports its notification.
func (m Model) do(fn func(now time.Time, day *pom.Day) notify.Notification) tea.Cmd {
	r := m.runner
	return func() tea.Msg {
		var n notify.Notification
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := r.Do(ctx, func(now time.Time, day *pom.Day) { n = fn(now, day) })
		if errors.Is(err, runner.ErrStopped) {
			return runnerDoneMsg{err: err}
		}
		if err != nil {
			return NotificationMsg{notify.Notification{Title: "Action Failed", Body: err.Error()}}
		}
		return NotificationMsg{n}
	}
}

// refresh fetches the status label and current line from the runner.
func (m Model) refresh() tea.Cmd {
	r := m.runner
	return func() tea.Msg {
		var s StatusMsg
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := r.Do(ctx, func(now time.Time, day *pom.Day) {
			s.Label = report.Label(day)
			s.Line = report.Describe(day, now)
		})
		if errors.Is(err, runner.ErrStopped) {
			return runnerDoneMsg{err: err}
		}
		if err != nil {
			return nil
		}
		return s
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return statusTickMsg{} })
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder

	title := "  pomodouroboros  "
	if m.status.Label != "" {
		title += m.status.Label
	}
	sb.WriteString(titleStyle.Width(m.width).Render(title) + "\n\n")

	if m.status.Line != "" {
		sb.WriteString("  " + m.status.Line + "\n\n")
	}

	switch {
	case m.dayOver:
		sb.WriteString(dimStyle.Render("  The day is over. Press b for a bonus pomodoro.") + "\n")
	case m.started:
		sb.WriteString("  " + m.bar.ViewAs(m.current.Percent) + "\n")
		span := timeStyle.Render(m.current.Start.Format("15:04") + "-" + m.current.End.Format("15:04"))
		sb.WriteString(fmt.Sprintf("  %s  %s\n", span, responseText(m.current)))
	default:
		sb.WriteString(dimStyle.Render("  Waiting for the first interval…") + "\n")
	}
	sb.WriteString("\n")

	if m.hasNote {
		line := noteTitleStyle.Render(m.note.Title)
		if m.note.Subtitle != "" {
			line += dimStyle.Render(" · " + m.note.Subtitle)
		}
		if m.note.Body != "" {
			line += "  " + m.note.Body
		}
		sb.WriteString("  " + line + "\n\n")
	}

	if m.editing {
		sb.WriteString("  " + labelStyle.Render("Intention") + "\n  " + m.input.View() + "\n\n")
	}

	hint := "  i intention  b bonus  s/f judge current  S/F judge previous  q quit"
	if m.editing {
		hint = "  enter set  esc cancel"
	}
	sb.WriteString(statusBarStyle.Width(m.width).Render(hint))
	return sb.String()
}

// responseText describes the current interval in words matching the bar.
func responseText(p ProgressMsg) string {
	switch p.Response {
	case pom.CanBeSet:
		return "Set an intention! (press i)"
	case pom.AlreadySet:
		return labelStyle.Render("Intention: ") + "“" + p.Intention + "”"
	case pom.OnBreak:
		return "On break. Take it easy."
	}
	return "Too late to set an intention."
}

// Run shows the live view while r drives the day. It returns when the user
// quits or the runner stops. Events about intervals that ended before since
// are not shown.
func Run(ctx context.Context, r *runner.Runner, since time.Time) error {
	p := tea.NewProgram(New(r), tea.WithAltScreen(), tea.WithContext(ctx))
	if r.Observer == nil {
		r.Observer = NewObserver(p, since)
	} else {
		r.Observer = pom.Observers{r.Observer, NewObserver(p, since)}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() {
		err := r.Run(ctx)
		runErr <- err
		p.Send(runnerDoneMsg{err: err})
	}()

	_, err := p.Run()
	cancel()
	if rerr := <-runErr; rerr != nil {
		return rerr
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
