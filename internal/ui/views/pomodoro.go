package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkarpova/focusdo/internal/alert"
	"github.com/mkarpova/focusdo/internal/app"
	"github.com/mkarpova/focusdo/internal/store"
	"github.com/mkarpova/focusdo/internal/timer"
	"github.com/mkarpova/focusdo/internal/ui/theme"
)

type tickMsg struct{ id int }
type alertExpireMsg struct{ seq int }
type historyCountMsg struct{ count int }

// PomodoroView drives the timer engine and the warning scheduler.
type PomodoroView struct {
	app    *app.App
	engine *timer.Engine
	sched  *alert.Scheduler
	width  int
	height int

	// tickID tags the active tick chain. Every running transition bumps
	// it, so at most one chain is live and stale ticks are dropped.
	tickID int

	phaseStart     time.Time
	completedToday int
	statusMsg      string
}

// NewPomodoroView creates the timer view.
func NewPomodoroView(application *app.App) PomodoroView {
	return PomodoroView{
		app:    application,
		engine: timer.New(),
		sched:  alert.NewScheduler(),
	}
}

// Init loads today's completed count from local history.
func (v PomodoroView) Init() tea.Cmd {
	return v.loadHistory()
}

// SetSize sets the view dimensions
func (v PomodoroView) SetSize(width, height int) PomodoroView {
	v.width = width
	v.height = height
	return v
}

func (v PomodoroView) loadHistory() tea.Cmd {
	a := v.app
	return func() tea.Msg {
		count, err := a.Store.CompletedSince(timer.PhaseWork.Key(), store.StartOfDay(time.Now()))
		if err != nil {
			return historyCountMsg{count: 0}
		}
		return historyCountMsg{count: count}
	}
}

// tickCmd schedules the next one-second tick, tagged with the chain id.
func tickCmd(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

// Update handles messages
func (v PomodoroView) Update(msg tea.Msg) (PomodoroView, tea.Cmd) {
	switch msg := msg.(type) {
	case historyCountMsg:
		v.completedToday = msg.count
		return v, nil

	case alertExpireMsg:
		v.sched.Dismiss(msg.seq)
		return v, nil

	case tickMsg:
		// A stale chain (superseded by a pause/start cycle) dies here.
		if msg.id != v.tickID || !v.engine.Running() {
			return v, nil
		}
		return v.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "s", " ":
			if v.engine.Running() {
				v.engine.Pause()
				v.tickID++ // kill the current chain
				v.statusMsg = "Paused"
				return v, nil
			}
			return v.start()

		case "n":
			comp := v.engine.Skip()
			v.tickID++
			v.statusMsg = fmt.Sprintf("Skipped to %s", comp.To)
			return v, nil

		case "r":
			v.engine.Reset()
			v.sched.DismissActive()
			v.tickID++
			v.statusMsg = "Timer reset"
			return v, nil

		case "x":
			v.sched.DismissActive()
			return v, nil
		}
	}

	return v, nil
}

// start begins the countdown and opens a fresh tick chain.
func (v PomodoroView) start() (PomodoroView, tea.Cmd) {
	fresh := v.engine.Remaining() == 0 || v.engine.Remaining() == v.engine.Phase().Duration()
	v.engine.Start()
	if fresh {
		v.phaseStart = time.Now()
	}
	v.tickID++
	v.statusMsg = startLabel(v.engine.Phase())
	return v, tickCmd(v.tickID)
}

func startLabel(p timer.Phase) string {
	if p == timer.PhaseWork {
		return "Focus time started!"
	}
	return fmt.Sprintf("%s started", p)
}

// tick applies one second and handles completion and warnings.
func (v PomodoroView) tick() (PomodoroView, tea.Cmd) {
	comp := v.engine.Tick()

	if comp == nil {
		var cmds []tea.Cmd
		if a := v.sched.ObserveTick(v.engine.Remaining(), time.Now()); a != nil {
			v.app.Notifier.SendTimeWarning(a.Threshold.Title(), a.Threshold.Message())
			seq := a.Seq
			cmds = append(cmds, tea.Tick(10*time.Second, func(time.Time) tea.Msg {
				return alertExpireMsg{seq: seq}
			}))
		}
		cmds = append(cmds, tickCmd(v.tickID))
		return v, tea.Batch(cmds...)
	}

	// Phase finished: the engine stopped itself, so the chain ends here.
	v.tickID++
	v.statusMsg = completionLabel(comp)
	v.app.Notifier.SendPhaseComplete(comp.From.String(), comp.To.String())

	if comp.From == timer.PhaseWork {
		v.completedToday++
		started := v.phaseStart
		a := v.app
		return v, func() tea.Msg {
			a.Store.RecordFocusSession(timer.PhaseWork.Key(), started, time.Now())
			return nil
		}
	}
	return v, nil
}

func completionLabel(comp *timer.Completion) string {
	if comp.From == timer.PhaseWork {
		return fmt.Sprintf("Pomodoro #%d complete! Take a break.", comp.WorkCount)
	}
	return "Break over! Ready for the next pomodoro."
}

// View renders the timer
func (v PomodoroView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var sections []string

	sections = append(sections, styles.Title.Render("Pomodoro Timer"))

	if a := v.sched.Active(time.Now()); a != nil {
		banner := fmt.Sprintf("%s  %s", a.Threshold.Title(), a.Threshold.Message())
		sections = append(sections, styles.Banner.Render(banner))
	}

	sections = append(sections, v.renderTimer())

	stats := fmt.Sprintf("Cycle: %d/4 work phases • Completed today: %d",
		v.engine.CompletedWork()%4, v.completedToday)
	sections = append(sections, styles.Label.Render(stats))

	if v.statusMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Success).Render(v.statusMsg))
	}

	sections = append(sections, v.renderControls())

	return strings.Join(sections, "\n")
}

// renderTimer renders the countdown display
func (v PomodoroView) renderTimer() string {
	t := theme.Current.Theme

	remaining := v.engine.Remaining()
	minutes := remaining / 60
	seconds := remaining % 60
	timeStr := fmt.Sprintf("%02d:%02d", minutes, seconds)

	var color lipgloss.Color
	switch {
	case !v.engine.Running():
		color = t.Foreground
	case v.engine.Phase() == timer.PhaseWork:
		color = t.Primary
	default:
		color = t.Secondary
	}

	bigTime := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)

	total := v.engine.Phase().Duration()
	progress := 1.0 - float64(remaining)/float64(total)
	barWidth := 30
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	label := strings.ToUpper(v.engine.Phase().String())
	if !v.engine.Running() {
		if remaining == total {
			label += " • READY"
		} else {
			label += " • PAUSED"
		}
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	barStyle := lipgloss.NewStyle().Foreground(color)

	return lipgloss.JoinVertical(lipgloss.Center,
		labelStyle.Render(label),
		bigTime.Render(timeStr),
		barStyle.Render(bar),
	)
}

// renderControls renders the control hints
func (v PomodoroView) renderControls() string {
	styles := theme.Current.Styles

	var controls string
	if v.engine.Running() {
		controls = "s/space pause • n skip phase • r reset cycle"
	} else {
		controls = "s/space start • n skip phase • r reset cycle"
	}
	if v.sched.Active(time.Now()) != nil {
		controls += " • x dismiss warning"
	}

	return styles.HelpDesc.Render(controls)
}

// IsInputMode returns whether the view is in input mode
func (v PomodoroView) IsInputMode() bool {
	return false
}
