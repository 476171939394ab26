package timer

// Phase is one of the three timer states.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseShortBreak
	PhaseLongBreak
)

// Phase durations in seconds.
const (
	WorkSeconds       = 25 * 60
	ShortBreakSeconds = 5 * 60
	LongBreakSeconds  = 15 * 60
)

// Work phases per long-break cycle.
const cycleLength = 4

// Duration returns the phase's full length in seconds.
func (p Phase) Duration() int {
	switch p {
	case PhaseShortBreak:
		return ShortBreakSeconds
	case PhaseLongBreak:
		return LongBreakSeconds
	default:
		return WorkSeconds
	}
}

// String returns the display label for a phase
func (p Phase) String() string {
	switch p {
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Focus"
	}
}

// Key returns the stable identifier used for history records.
func (p Phase) Key() string {
	switch p {
	case PhaseShortBreak:
		return "short_break"
	case PhaseLongBreak:
		return "long_break"
	default:
		return "work"
	}
}

// Completion describes one phase transition.
type Completion struct {
	From      Phase
	To        Phase
	WorkCount int // completed work phases after the transition
}

// Engine is the tick-driven work/break state machine. It is pure: it knows
// nothing about wall clocks or tick sources. The owner calls Tick once per
// elapsed second while the engine is running.
//
// Invariants: remaining is always within [0, phase duration]; running is
// never true with remaining at 0.
type Engine struct {
	phase         Phase
	remaining     int
	running       bool
	completedWork int
}

// New creates an engine in the work phase at full duration, stopped.
func New() *Engine {
	return &Engine{phase: PhaseWork, remaining: WorkSeconds}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Remaining returns seconds left in the current phase.
func (e *Engine) Remaining() int { return e.remaining }

// Running reports whether the countdown is active.
func (e *Engine) Running() bool { return e.running }

// CompletedWork returns the number of completed work phases since the last
// full reset.
func (e *Engine) CompletedWork() int { return e.completedWork }

// Start begins (or resumes) the countdown. If the phase was exhausted the
// remaining time is refilled first. No-op if already running.
func (e *Engine) Start() {
	if e.running {
		return
	}
	if e.remaining == 0 {
		e.remaining = e.phase.Duration()
	}
	e.running = true
}

// Pause stops the countdown. No-op if not running.
func (e *Engine) Pause() {
	e.running = false
}

// Tick advances the countdown by one second. Returns a non-nil Completion
// when this tick finished the phase. Ticks while paused are ignored, so a
// stale tick arriving after Pause can't double-apply.
func (e *Engine) Tick() *Completion {
	if !e.running || e.remaining == 0 {
		return nil
	}
	e.remaining--
	if e.remaining > 0 {
		return nil
	}
	return e.complete()
}

// Skip forces the phase-completion transition immediately, regardless of
// remaining time. The timer is left stopped.
func (e *Engine) Skip() *Completion {
	return e.complete()
}

// Reset returns the engine to its initial state: work phase, full
// duration, stopped, zero completed work phases. A full-cycle reset.
func (e *Engine) Reset() {
	e.phase = PhaseWork
	e.remaining = WorkSeconds
	e.running = false
	e.completedWork = 0
}

// complete applies the transition rule. Leaving work increments the
// counter and picks the break length; every cycleLength-th work phase
// earns the long break. Leaving any break returns to work. The next phase
// never auto-starts.
func (e *Engine) complete() *Completion {
	from := e.phase

	if from == PhaseWork {
		e.completedWork++
		if e.completedWork%cycleLength == 0 {
			e.phase = PhaseLongBreak
		} else {
			e.phase = PhaseShortBreak
		}
	} else {
		e.phase = PhaseWork
	}

	e.remaining = e.phase.Duration()
	e.running = false

	return &Completion{From: from, To: e.phase, WorkCount: e.completedWork}
}
