package timer

import (
	"testing"

	"pgregory.net/rapid"
)

// drain ticks a running engine down to phase completion and returns the
// transition.
func drain(t *testing.T, e *Engine) *Completion {
	t.Helper()
	for i := 0; i < WorkSeconds+1; i++ {
		if comp := e.Tick(); comp != nil {
			return comp
		}
	}
	t.Fatal("engine never completed its phase")
	return nil
}

func TestNewEngineStopped(t *testing.T) {
	e := New()
	if e.Running() {
		t.Error("new engine should not be running")
	}
	if e.Phase() != PhaseWork {
		t.Errorf("new engine phase = %v, want PhaseWork", e.Phase())
	}
	if e.Remaining() != WorkSeconds {
		t.Errorf("new engine remaining = %d, want %d", e.Remaining(), WorkSeconds)
	}
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	e := New()

	// Never started: ticks do nothing.
	if comp := e.Tick(); comp != nil {
		t.Error("tick on stopped engine returned a completion")
	}
	if e.Remaining() != WorkSeconds {
		t.Errorf("remaining changed on stopped engine: %d", e.Remaining())
	}

	// Started, then paused: a stale tick arriving after Pause is dropped.
	e.Start()
	e.Tick()
	e.Pause()
	before := e.Remaining()
	if comp := e.Tick(); comp != nil {
		t.Error("tick on paused engine returned a completion")
	}
	if e.Remaining() != before {
		t.Errorf("remaining changed while paused: %d -> %d", before, e.Remaining())
	}
}

func TestStartResumesWithoutRefill(t *testing.T) {
	e := New()
	e.Start()
	for i := 0; i < 10; i++ {
		e.Tick()
	}
	e.Pause()
	e.Start()
	if e.Remaining() != WorkSeconds-10 {
		t.Errorf("resume refilled the phase: remaining = %d, want %d", e.Remaining(), WorkSeconds-10)
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	e := New()
	e.Start()
	e.Tick()
	e.Start()
	if e.Remaining() != WorkSeconds-1 {
		t.Errorf("redundant Start changed remaining: %d", e.Remaining())
	}
}

func TestWorkCompletionStopsEngine(t *testing.T) {
	e := New()
	e.Start()
	comp := drain(t, e)

	if comp.From != PhaseWork || comp.To != PhaseShortBreak {
		t.Errorf("transition = %v -> %v, want Work -> ShortBreak", comp.From, comp.To)
	}
	if comp.WorkCount != 1 {
		t.Errorf("WorkCount = %d, want 1", comp.WorkCount)
	}
	if e.Running() {
		t.Error("engine still running after completion")
	}
	if e.Remaining() != ShortBreakSeconds {
		t.Errorf("remaining = %d, want refilled break %d", e.Remaining(), ShortBreakSeconds)
	}
}

// The fourth completed work phase earns the long break; the cycle then
// repeats.
func TestLongBreakEveryFourthWorkPhase(t *testing.T) {
	e := New()

	wantBreak := []Phase{PhaseShortBreak, PhaseShortBreak, PhaseShortBreak, PhaseLongBreak,
		PhaseShortBreak, PhaseShortBreak, PhaseShortBreak, PhaseLongBreak}

	for i, want := range wantBreak {
		comp := e.Skip() // finish work phase
		if comp.To != want {
			t.Fatalf("work phase %d: break = %v, want %v", i+1, comp.To, want)
		}
		if comp.WorkCount != i+1 {
			t.Fatalf("work phase %d: WorkCount = %d", i+1, comp.WorkCount)
		}

		comp = e.Skip() // finish break
		if comp.From != want || comp.To != PhaseWork {
			t.Fatalf("after break %d: transition = %v -> %v", i+1, comp.From, comp.To)
		}
	}
}

func TestSkipDuringBreakKeepsWorkCount(t *testing.T) {
	e := New()
	e.Skip()
	comp := e.Skip()
	if comp.WorkCount != 1 {
		t.Errorf("break completion WorkCount = %d, want unchanged 1", comp.WorkCount)
	}
}

func TestResetIsFullCycle(t *testing.T) {
	e := New()
	e.Skip()
	e.Skip()
	e.Skip()
	e.Start()
	e.Tick()

	e.Reset()

	if e.Phase() != PhaseWork || e.Remaining() != WorkSeconds || e.Running() || e.CompletedWork() != 0 {
		t.Errorf("reset state: phase=%v remaining=%d running=%v completed=%d",
			e.Phase(), e.Remaining(), e.Running(), e.CompletedWork())
	}
}

func TestStartAfterExhaustionRefills(t *testing.T) {
	e := New()
	e.Start()
	drain(t, e)
	// Engine now sits at the start of the short break, stopped.
	e.Start()
	if !e.Running() || e.Remaining() != ShortBreakSeconds {
		t.Errorf("restart state: running=%v remaining=%d", e.Running(), e.Remaining())
	}
}

// Property: whatever sequence of operations is applied, the invariants
// hold, and Reset always returns to the canonical initial state.
func TestEngineInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := New()

		ops := rapid.IntRange(1, 200).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				e.Start()
			case 1:
				e.Pause()
			case 2:
				e.Tick()
			case 3:
				e.Skip()
			case 4:
				e.Reset()
			}

			if e.Remaining() < 0 || e.Remaining() > e.Phase().Duration() {
				rt.Fatalf("remaining %d out of bounds for phase %v", e.Remaining(), e.Phase())
			}
			if e.Running() && e.Remaining() == 0 {
				rt.Fatal("running with zero remaining")
			}
			if e.CompletedWork() < 0 {
				rt.Fatalf("negative completed work count %d", e.CompletedWork())
			}
		}

		e.Reset()
		if e.Phase() != PhaseWork || e.Remaining() != WorkSeconds || e.Running() || e.CompletedWork() != 0 {
			rt.Fatal("reset did not restore the initial state")
		}
	})
}
