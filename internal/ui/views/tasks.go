package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkarpova/focusdo/internal/app"
	"github.com/mkarpova/focusdo/internal/model"
	"github.com/mkarpova/focusdo/internal/ui/theme"
)

const opTimeout = 30 * time.Second

type tasksSyncedMsg struct{ err error }
type taskCreatedMsg struct {
	task model.Task
	err  error
}
type taskToggledMsg struct {
	task model.Task
	err  error
}
type taskDeletedMsg struct {
	taskID int
	err    error
}

// TasksView is the category-filtered task list with the add form and the
// completion progress bar.
type TasksView struct {
	app    *app.App
	width  int
	height int

	mode     model.Mode
	catIndex int
	cursor   int

	input     textinput.Model
	inputMode bool
	draftDue  *time.Time

	statusMsg string
	errMsg    string
}

// NewTasksView creates the task list view.
func NewTasksView(application *app.App) TasksView {
	input := textinput.New()
	input.Placeholder = "Add a new work task (due:tomorrow works)"
	input.CharLimit = 200

	return TasksView{
		app:   application,
		mode:  model.ModeWork,
		input: input,
	}
}

// Init triggers a sync.
func (v TasksView) Init() tea.Cmd {
	return v.syncCmd()
}

// SetSize sets the view dimensions
func (v TasksView) SetSize(width, height int) TasksView {
	v.width = width
	v.height = height
	return v
}

func (v TasksView) category() string {
	cats := v.mode.Categories()
	return cats[v.catIndex%len(cats)]
}

// visible returns the tasks shown in the current category.
func (v TasksView) visible() []model.Task {
	return v.app.Tasks.InCategory(v.category())
}

func (v TasksView) syncCmd() tea.Cmd {
	a := v.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return tasksSyncedMsg{err: a.Tasks.ListAll(ctx)}
	}
}

// Update handles messages
func (v TasksView) Update(msg tea.Msg) (TasksView, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksSyncedMsg:
		errText, cmd := settleErr(msg.err)
		v.errMsg = errText
		if msg.err == nil {
			v.clampCursor()
		}
		return v, cmd

	case taskCreatedMsg:
		errText, cmd := settleErr(msg.err)
		v.errMsg = errText
		if msg.err == nil {
			v.statusMsg = fmt.Sprintf("Created: %s", msg.task.Title)
			v.input.SetValue("")
			v.draftDue = nil
			v.inputMode = false
			v.input.Blur()
		}
		return v, cmd

	case taskToggledMsg:
		errText, cmd := settleErr(msg.err)
		v.errMsg = errText
		return v, cmd

	case taskDeletedMsg:
		errText, cmd := settleErr(msg.err)
		v.errMsg = errText
		if msg.err == nil {
			v.clampCursor()
		}
		return v, cmd

	case tea.KeyMsg:
		v.statusMsg = ""

		if v.inputMode {
			return v.updateInput(msg)
		}
		return v.updateBrowse(msg)
	}

	return v, nil
}

func (v TasksView) updateInput(msg tea.KeyMsg) (TasksView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.inputMode = false
		v.input.Blur()
		return v, nil

	case "enter":
		return v.submitDraft()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v TasksView) updateBrowse(msg tea.KeyMsg) (TasksView, tea.Cmd) {
	visible := v.visible()

	switch msg.String() {
	case "a":
		v.inputMode = true
		v.errMsg = ""
		return v, v.input.Focus()

	case "j", "down":
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
		return v, nil

	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case "g":
		v.cursor = 0
		return v, nil

	case "G":
		if len(visible) > 0 {
			v.cursor = len(visible) - 1
		}
		return v, nil

	case "left":
		if v.mode != model.ModeWork {
			v.mode = model.ModeWork
			v.catIndex = 0
			v.cursor = 0
			v.input.Placeholder = "Add a new work task (due:tomorrow works)"
		}
		return v, nil

	case "right":
		if v.mode != model.ModeStudy {
			v.mode = model.ModeStudy
			v.catIndex = 0
			v.cursor = 0
			v.input.Placeholder = "Add a new study task (due:tomorrow works)"
		}
		return v, nil

	case "c":
		v.catIndex = (v.catIndex + 1) % len(v.mode.Categories())
		v.cursor = 0
		return v, nil

	case "r":
		return v, v.syncCmd()

	case "tab":
		if v.cursor >= len(visible) {
			return v, nil
		}
		task := visible[v.cursor]
		// The toggle control is disabled while its request is in flight.
		if v.app.Tasks.Busy(task.ID) {
			return v, nil
		}
		a := v.app
		return v, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			defer cancel()
			updated, err := a.Tasks.ToggleComplete(ctx, task.ID)
			return taskToggledMsg{task: updated, err: err}
		}

	case "d":
		if v.cursor >= len(visible) {
			return v, nil
		}
		task := visible[v.cursor]
		if v.app.Tasks.Busy(task.ID) {
			return v, nil
		}
		a := v.app
		return v, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			defer cancel()
			err := a.Tasks.Delete(ctx, task.ID)
			return taskDeletedMsg{taskID: task.ID, err: err}
		}
	}

	return v, nil
}

// submitDraft parses the input line into a draft and sends it. Words of
// the form due:<date> set the due date and are stripped from the title.
func (v TasksView) submitDraft() (TasksView, tea.Cmd) {
	if v.app.Tasks.CreateBusy() {
		return v, nil
	}

	title, due := parseDraftLine(v.input.Value(), time.Now())
	if strings.TrimSpace(title) == "" {
		v.errMsg = "task title must not be empty"
		return v, nil
	}

	draft := model.Draft{
		Title:    title,
		Category: v.category(),
		Priority: model.PriorityMedium,
		DueDate:  due,
	}

	a := v.app
	return v, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		created, err := a.Tasks.Create(ctx, draft)
		return taskCreatedMsg{task: created, err: err}
	}
}

// parseDraftLine splits due:<word> tokens out of the title text.
func parseDraftLine(text string, now time.Time) (string, *time.Time) {
	var titleParts []string
	var due *time.Time

	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(strings.ToLower(word), "due:") {
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := model.ParseNaturalDate(dateStr, now); parsed != nil {
				due = parsed
				continue
			}
		}
		titleParts = append(titleParts, word)
	}

	return strings.Join(titleParts, " "), due
}

func (v *TasksView) clampCursor() {
	visible := v.visible()
	if v.cursor >= len(visible) {
		v.cursor = len(visible) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// View renders the task list
func (v TasksView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var sections []string

	sections = append(sections, styles.Title.Render(v.mode.Label()))
	sections = append(sections, v.renderProgress())

	// Add form
	box := styles.Input
	if v.inputMode {
		box = styles.InputFocused
	}
	sections = append(sections, box.Render(v.input.View()))

	// Category selector
	var cats []string
	for i, c := range v.mode.Categories() {
		style := styles.Label
		if i == v.catIndex {
			style = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
		}
		cats = append(cats, style.Render(c))
	}
	sections = append(sections, strings.Join(cats, styles.HelpSeparator.Render(" │ ")))

	sections = append(sections, v.renderList())

	if v.statusMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Success).Render(v.statusMsg))
	}
	if v.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
	}

	return strings.Join(sections, "\n")
}

// renderProgress renders the whole-collection completion bar.
func (v TasksView) renderProgress() string {
	t := theme.Current.Theme

	completed, total := v.app.Tasks.Counts()
	percent := v.app.Tasks.CompletionPercent()

	barWidth := 30
	filled := int(percent / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	label := fmt.Sprintf(" %d of %d tasks completed", completed, total)

	return lipgloss.NewStyle().Foreground(t.Secondary).Render(bar) +
		theme.Current.Styles.Label.Render(label)
}

func (v TasksView) renderList() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	now := time.Now()

	visible := v.visible()
	if len(visible) == 0 {
		return styles.Label.Render(fmt.Sprintf("No %s tasks yet. Press 'a' to add your first task!", v.mode))
	}

	var lines []string
	for i, task := range visible {
		style := styles.TaskNormal
		switch {
		case task.Completed:
			style = styles.TaskDone
		case task.IsOverdue(now):
			style = styles.TaskOverdue
		}
		if i == v.cursor && !v.inputMode {
			style = style.Background(t.Highlight)
		}

		check := "○"
		if task.Completed {
			check = "●"
		}

		line := fmt.Sprintf("%s %s", check, task.Title)
		if task.DueDate != nil {
			line += styles.Label.Render(fmt.Sprintf("  due %s", model.FormatDueDate(*task.DueDate, now)))
		}
		if v.app.Tasks.Busy(task.ID) {
			line += styles.Label.Render("  …")
		}

		lines = append(lines, style.Render(line))
	}

	return strings.Join(lines, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v TasksView) IsInputMode() bool {
	return v.inputMode
}
