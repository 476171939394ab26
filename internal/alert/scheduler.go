package alert

import "time"

// Threshold identifies which warning fired.
type Threshold int

const (
	FiveMinutes Threshold = 300
	OneMinute   Threshold = 60
)

// Message returns the banner text for the threshold.
func (t Threshold) Message() string {
	if t == OneMinute {
		return "Only 1 minute left! Time to wrap up your current task."
	}
	return "You have 5 minutes remaining in your current session."
}

// Title returns the banner headline for the threshold.
func (t Threshold) Title() string {
	if t == OneMinute {
		return "1 minute left!"
	}
	return "5 minutes left!"
}

// displayWindow is how long a warning stays up before auto-dismissing.
const displayWindow = 10 * time.Second

// Alert is one fired warning. Seq orders alerts so a dismissal aimed at an
// older alert can't take down a newer one.
type Alert struct {
	Threshold Threshold
	Seq       int
	firedAt   time.Time
}

// Scheduler derives threshold warnings from the countdown. It is
// edge-triggered: a warning fires only on the tick that first reaches the
// threshold value, never re-checked on resume or re-fired on later ticks.
// Only one alert is displayed at a time; a newer one replaces an older one
// outright (last-writer-wins).
type Scheduler struct {
	active *Alert
	seq    int
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// ObserveTick is called once per engine tick with the post-decrement
// remaining value. Returns the alert fired by this tick, or nil.
func (s *Scheduler) ObserveTick(remaining int, now time.Time) *Alert {
	var th Threshold
	switch remaining {
	case int(FiveMinutes):
		th = FiveMinutes
	case int(OneMinute):
		th = OneMinute
	default:
		return nil
	}

	s.seq++
	s.active = &Alert{Threshold: th, Seq: s.seq, firedAt: now}
	return s.active
}

// Active returns the alert currently on display, or nil once the display
// window has elapsed or the alert was dismissed.
func (s *Scheduler) Active(now time.Time) *Alert {
	if s.active == nil {
		return nil
	}
	if now.Sub(s.active.firedAt) >= displayWindow {
		s.active = nil
		return nil
	}
	return s.active
}

// Dismiss drops the alert with the given sequence number. A dismissal for
// a superseded alert is ignored, so an auto-dismiss scheduled for an old
// warning can't clear a newer one.
func (s *Scheduler) Dismiss(seq int) {
	if s.active != nil && s.active.Seq == seq {
		s.active = nil
	}
}

// DismissActive clears whatever is showing. Used by the explicit dismiss
// control.
func (s *Scheduler) DismissActive() {
	s.active = nil
}
