package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Task actions
	Add    key.Binding
	Delete key.Binding
	Toggle key.Binding
	Sync   key.Binding

	// Mode / category
	WorkMode  key.Binding
	StudyMode key.Binding
	Category  key.Binding

	// Views
	TasksView    key.Binding
	PomodoroView key.Binding
	ProfileView  key.Binding

	// System
	Logout     key.Binding
	ThemeCycle key.Binding
	Help       key.Binding
	Quit       key.Binding
	Cancel     key.Binding
	Confirm    key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle done"),
		),
		Sync: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),

		WorkMode: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "work mode"),
		),
		StudyMode: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "study mode"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),

		TasksView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "tasks"),
		),
		PomodoroView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "pomodoro"),
		),
		ProfileView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "profile"),
		),

		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "logout"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("escape"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Add, k.Toggle, k.Delete, k.Sync},
		{k.WorkMode, k.StudyMode, k.Category},
		{k.TasksView, k.PomodoroView, k.ProfileView},
		{k.Logout, k.ThemeCycle, k.Help, k.Quit},
	}
}
